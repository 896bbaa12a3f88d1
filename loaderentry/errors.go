// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

import "fmt"

// EntryCountError reports that the entries directory did not hold exactly one
// entry file. Found is the directory listing as seen, so the operator can
// tell whether the image has no entry at all or leftovers from several.
type EntryCountError struct {
	Dir   string
	Found []string
}

func (e *EntryCountError) Error() string {
	return fmt.Sprintf("Unable to find specific entry file in %s, found %v instead", e.Dir, e.Found)
}

// MalformedEntryError reports an entry file whose last line is not the
// kernel command line. Appending options to anything else would corrupt the
// entry, so the file is left untouched.
type MalformedEntryError struct {
	Path string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("Last line of entry file %s is not the kernel commandline options", e.Path)
}
