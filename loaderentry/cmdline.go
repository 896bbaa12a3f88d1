// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// KernelCmdline returns the kernel command line recorded in the image root
// filesystem at rootfsDir. Each installed kernel records one cmdline file
// under usr/lib/kernel; an image prepared for live media carries exactly one
// kernel, so anything but a single match is an error.
func KernelCmdline(rootfsDir string) (string, error) {
	dir := rootfsDir + "/usr/lib/kernel"
	entries, err := appFs.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("Could not list kernel directory: %w", err)
	}
	var matches []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "cmdline") {
			matches = append(matches, entry.Name())
		}
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("Unable to find specific cmdline file in %s, found %v instead", dir, matches)
	}

	f, err := appFs.Open(filepath.Join(dir, matches[0]))
	if err != nil {
		return "", fmt.Errorf("Could not open cmdline file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("Could not read cmdline file %s: %w", matches[0], err)
	}
	return strings.TrimSpace(string(data)), nil
}
