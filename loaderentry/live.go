// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

import (
	"fmt"
	"path/filepath"
)

// systemdBootPath is where the boot loader binary lives on the ESP.
const systemdBootPath = "EFI/systemd/systemd-bootx64.efi"

// PrepareLiveEntry rewrites the boot loader entry of a staged EFI system
// partition tree for live-media boot. The options lines are replaced with an
// initrd line naming initrd, and a fresh options line is appended with the
// kernel command line recorded in the image root filesystem at rootfsDir.
// Live media boots from the initrd instead of the installed root, so the
// installed root= arguments must not survive.
func PrepareLiveEntry(espDir, initrd, rootfsDir string) error {
	args, err := KernelCmdline(rootfsDir)
	if err != nil {
		return err
	}
	path, err := FindEntry(espDir + "/loader/entries/")
	if err != nil {
		return err
	}
	entry, err := ReadEntry(path)
	if err != nil {
		return err
	}
	entry.ReplaceOptionsWithInitrd(initrd)
	entry.AppendOptionsLine(args)
	return entry.Write()
}

// InstallSystemdBoot places the boot loader binary src at its well-known
// path below espDir. The copy is skipped when the installed binary already
// matches. Returns true if the binary was written.
func InstallSystemdBoot(espDir, src string) (bool, error) {
	dst := filepath.Join(espDir, systemdBootPath)
	if err := appFs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, fmt.Errorf("Could not create %s: %w", filepath.Dir(dst), err)
	}
	return MaybeUpdateFile(dst, src)
}
