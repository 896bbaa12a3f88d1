// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

// mkefiboot prepares a staged EFI system partition tree for live media boot.
package main

import (
	"log"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/clearlinux/imageboot/initrd"
	"github.com/clearlinux/imageboot/loaderentry"
)

func main() {
	espDir := flag.String("esp", "", "staged EFI system partition tree (required)")
	rootfsDir := flag.String("rootfs", "", "image root filesystem (required)")
	initrdRoot := flag.String("initrd-root", "", "build the live initrd from this tree")
	initrdPath := flag.String("initrd", "EFI/BOOT/initrd.gz", "initrd location relative to the ESP")
	systemdBoot := flag.String("systemd-boot", "", "install this boot loader binary on the ESP")
	flag.Parse()

	if *espDir == "" || *rootfsDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Build the live initrd
	if *initrdRoot != "" {
		dst := filepath.Join(*espDir, *initrdPath)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			log.Print(err)
			os.Exit(1)
		}
		if err := initrd.Create(dst, *initrdRoot); err != nil {
			log.Print(err)
			os.Exit(1)
		}
	}
	// Install the boot loader
	if *systemdBoot != "" {
		updated, err := loaderentry.InstallSystemdBoot(*espDir, *systemdBoot)
		if err != nil {
			log.Print(err)
			os.Exit(1)
		}
		if updated {
			log.Print("Updated systemd-boot")
		}
	}
	// Point the boot entry at the live initrd
	if err := loaderentry.PrepareLiveEntry(*espDir, "/"+*initrdPath, *rootfsDir); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
