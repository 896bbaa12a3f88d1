// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

// Package loaderentry edits boot loader entry files of built images.
//
// An entry file is treated as a sequence of lines, not parsed as a
// configuration format. Edits touch exactly the lines they are about and
// keep every other byte as found.
package loaderentry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// optionsPrefix marks the kernel command line in an entry file, key and
// separating space.
const optionsPrefix = "options "

// Entry is a boot loader entry file held as lines. Each line keeps its
// terminating newline; a file that does not end in a newline yields an
// unterminated final line.
type Entry struct {
	Path  string
	lines []string
}

// FindEntry returns the path of the sole entry file in dir.
//
// Built images carry exactly one entry. Zero or several mean the tree is not
// what we were pointed at, and guessing one would patch the wrong boot
// configuration.
func FindEntry(dir string) (string, error) {
	entries, err := appFs.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("Could not list entries directory: %w", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return "", &EntryCountError{Dir: dir, Found: names}
	}
	return filepath.Join(dir, entries[0].Name()), nil
}

// ReadEntry reads the entry file at path.
func ReadEntry(path string) (*Entry, error) {
	f, err := appFs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Could not open entry file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("Could not read entry file %s: %w", path, err)
	}
	return &Entry{Path: path, lines: splitLines(string(data))}, nil
}

// splitLines splits text into lines that keep their newline terminator.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// AppendOption appends option to the kernel command line of the entry.
//
// The command line must be the last line of the file. No check is made
// whether option is already present; callers run once per built image.
func (e *Entry) AppendOption(option string) error {
	if len(e.lines) == 0 || !strings.HasPrefix(e.lines[len(e.lines)-1], optionsPrefix) {
		return &MalformedEntryError{Path: e.Path}
	}
	last := strings.TrimSuffix(e.lines[len(e.lines)-1], "\n")
	e.lines[len(e.lines)-1] = last + " " + option + "\n"
	return nil
}

// ReplaceOptionsWithInitrd replaces the options lines of the entry with an
// initrd line naming the given image path.
func (e *Entry) ReplaceOptionsWithInitrd(initrd string) {
	for i, line := range e.lines {
		if strings.HasPrefix(line, "options") {
			e.lines[i] = "initrd " + initrd + "\n"
		}
	}
}

// AppendOptionsLine appends a fresh options line carrying args.
func (e *Entry) AppendOptionsLine(args string) {
	// Terminate an unterminated final line first so the new line stays one.
	if n := len(e.lines); n > 0 && !strings.HasSuffix(e.lines[n-1], "\n") {
		e.lines[n-1] += "\n"
	}
	e.lines = append(e.lines, optionsPrefix+args+"\n")
}

// Write rewrites the entry file on disk, keeping its permission bits. The
// content goes through a temporary file next to the entry, so an interrupted
// update cannot leave the image without a boot entry.
func (e *Entry) Write() error {
	mode := os.FileMode(0644)
	if fi, err := appFs.Stat(e.Path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := writeFileAtomic(e.Path, []byte(strings.Join(e.lines, "")), mode); err != nil {
		return fmt.Errorf("Could not rewrite entry file %s: %w", e.Path, err)
	}
	return nil
}
