// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

// EntriesDir returns the boot loader entries directory of the image rooted
// at root. The path is built by plain concatenation and shows up verbatim in
// error messages.
func EntriesDir(root string) string {
	return root + "/boot/loader/entries/"
}

// AppendRootwait appends the rootwait kernel option to the boot loader entry
// of the image rooted at root. Installer media can be slow to probe, and
// rootwait makes the kernel wait for the root device instead of panicking.
func AppendRootwait(root string) error {
	return AppendKernelOption(root, "rootwait")
}

// AppendKernelOption appends option to the kernel command line of the sole
// boot loader entry of the image rooted at root. On failure the entry file
// is left as it was.
func AppendKernelOption(root string, option string) error {
	path, err := FindEntry(EntriesDir(root))
	if err != nil {
		return err
	}
	entry, err := ReadEntry(path)
	if err != nil {
		return err
	}
	if err := entry.AppendOption(option); err != nil {
		return err
	}
	return entry.Write()
}
