// This file is part of imageboot
// Copyright 2020 Intel Corporation
// SPDX-License-Identifier: GPL-3.0-only

package loaderentry

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempFile is a writable temporary file that can be synced and renamed into
// place.
type TempFile interface {
	io.WriteCloser
	Name() string
	Sync() error
}

// FS abstracts away the filesystem.
//
// So we really wanted to use afero because it does all the magic for us, but it
// doubles our binary size, so that seems a tad much.
type FS interface {
	// Chmod behaves like os.Chmod()
	Chmod(path string, mode os.FileMode) error
	// CreateTemp behaves like os.CreateTemp()
	CreateTemp(dir, pattern string) (TempFile, error)
	// MkdirAll behaves like os.MkdirAll()
	MkdirAll(path string, perm os.FileMode) error
	// Open behaves like os.Open()
	Open(path string) (io.ReadSeekCloser, error)
	// ReadDir behaves like os.ReadDir()
	ReadDir(path string) ([]os.DirEntry, error)
	// Remove behaves like os.Remove()
	Remove(path string) error
	// Rename behaves like os.Rename()
	Rename(oldpath, newpath string) error
	// Stat behaves like os.Stat()
	Stat(path string) (os.FileInfo, error)
}

// realFS implements FS using the os package
type realFS struct{}

func (realFS) Chmod(path string, mode os.FileMode) error        { return os.Chmod(path, mode) }
func (realFS) CreateTemp(dir, pattern string) (TempFile, error) { return os.CreateTemp(dir, pattern) }
func (realFS) MkdirAll(path string, perm os.FileMode) error     { return os.MkdirAll(path, perm) }
func (realFS) Open(path string) (io.ReadSeekCloser, error)      { return os.Open(path) }
func (realFS) ReadDir(path string) ([]os.DirEntry, error)       { return os.ReadDir(path) }
func (realFS) Remove(path string) error                         { return os.Remove(path) }
func (realFS) Rename(oldpath, newpath string) error             { return os.Rename(oldpath, newpath) }
func (realFS) Stat(path string) (os.FileInfo, error)            { return os.Stat(path) }

// appFs is our default FS
var appFs FS = realFS{}

// writeFileAtomic writes data to path with the given mode by staging it in a
// temporary file in the same directory and renaming that over the target.
// An interrupted write leaves either the old file or the new one, never a
// missing or truncated target.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := appFs.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("Could not create temporary file in %s: %w", filepath.Dir(path), err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			appFs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("Could not write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("Could not sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Could not close %s: %w", tmpPath, err)
	}
	if err := appFs.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("Could not set mode of %s: %w", tmpPath, err)
	}
	if err := appFs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("Could not rename %s to %s: %w", tmpPath, path, err)
	}
	committed = true
	return nil
}

// MaybeUpdateFile copies src to dst if they are different
// It returns true if the destination file was updated. The new content is
// staged in a temporary file and renamed over dst, so dst never holds
// partial data.
func MaybeUpdateFile(dst string, src string) (bool, error) {
	srcFile, err := appFs.Open(src)
	if err != nil {
		return false, fmt.Errorf("Could not open source file: %w", err)
	}
	defer srcFile.Close()

	if needUpdate, err := needUpdateFile(dst, src, srcFile); !needUpdate {
		return false, err
	}

	data, err := io.ReadAll(srcFile)
	if err != nil {
		return false, fmt.Errorf("Could not read %s: %w", src, err)
	}
	if err := writeFileAtomic(dst, data, 0644); err != nil {
		return false, fmt.Errorf("Could not copy %s to %s: %w", src, dst, err)
	}
	return true, nil
}

func needUpdateFile(dst string, src string, srcFile io.ReadSeeker) (bool, error) {
	// To keep things simple, but not have the files in memory, just hash them
	dstHash := sha256.New()
	srcHash := sha256.New()

	dstFile, err := appFs.Open(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("Could not open destination file: %w", err)
	}

	defer dstFile.Close()

	if _, err := io.Copy(dstHash, dstFile); err != nil {
		return false, fmt.Errorf("Could not hash destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(srcHash, srcFile); err != nil {
		return false, fmt.Errorf("Could not hash source file %s: %w", src, err)
	}
	if bytes.Equal(dstHash.Sum(nil), srcHash.Sum(nil)) {
		return false, nil
	}

	if _, err := srcFile.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("Could not seek in source file %s: %w", src, err)
	}

	return true, nil
}
