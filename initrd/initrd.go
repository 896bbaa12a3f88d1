// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

// Package initrd builds the compressed cpio archive a live image boots from.
package initrd

import (
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"
)

const dirLinks = 2

// Write archives the tree rooted at dir into w as an SVR4 newc cpio stream,
// the format the kernel unpacks at early boot. Record names are relative to
// dir. Regular files, directories and symlinks are carried; any other file
// type fails the archive, device nodes are created at boot rather than
// shipped.
func Write(w io.Writer, dir string) error {
	cw := cpio.NewWriter(w)
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case info.IsDir():
			return writeDirectory(cw, rel, info)
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return writeLink(cw, rel, target)
		case info.Mode().IsRegular():
			return writeRegular(cw, rel, path, info)
		default:
			return fmt.Errorf("Unsupported file type %v: %s", info.Mode().Type(), path)
		}
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return fmt.Errorf("Could not archive %s: %w", dir, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("Could not finish archive of %s: %w", dir, err)
	}
	return nil
}

func writeDirectory(cw *cpio.Writer, name string, info os.FileInfo) error {
	header := &cpio.Header{
		Name:  name,
		Mode:  cpio.TypeDir | cpio.FileMode(info.Mode().Perm()),
		Links: dirLinks,
	}
	return cw.WriteHeader(header)
}

func writeLink(cw *cpio.Writer, name, target string) error {
	header := &cpio.Header{
		Name: name,
		Mode: cpio.TypeSymlink | cpio.ModePerm,
		Size: int64(len(target)),
	}
	if err := cw.WriteHeader(header); err != nil {
		return err
	}
	// The body of a symlink record is the target path.
	_, err := cw.Write([]byte(target))
	return err
}

func writeRegular(cw *cpio.Writer, name, path string, info os.FileInfo) error {
	header, err := cpio.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name
	if err := cw.WriteHeader(header); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(cw, f)
	return err
}

// Create writes the gzip-compressed archive of dir to path.
func Create(path, dir string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Could not create %s: %w", path, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := Write(gz, dir); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("Could not compress %s: %w", path, err)
	}
	return f.Close()
}
