// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

// live-image-post-update appends the rootwait kernel option to the boot
// loader entry of a freshly built image. It takes the image root as its only
// argument, stays silent on success and prints the failure reason to stdout,
// where the image builder that invokes it captures it.
package main

import "github.com/clearlinux/imageboot/loaderentry"
import "fmt"
import "os"

func main() {
	if len(os.Args) != 2 {
		os.Exit(-1)
	}
	if err := loaderentry.AppendRootwait(os.Args[1]); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
