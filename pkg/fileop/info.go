// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fileop

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// CSVExtension is the only extension CSVFile accepts
const CSVExtension = "csv"

func stat(path string) (os.FileInfo, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, pathError("stat", path, err, ErrFileError)
	}
	return fi, nil
}

func notFound(path string) error {
	return &PathError{Op: "stat", Path: path, Kinds: []error{ErrFileNotFound}}
}

// Exists reports whether something exists at path
func Exists(path string) (bool, error) {
	if err := ValidatePath(path); err != nil {
		return false, err
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, pathError("stat", path, err, ErrFileError)
}

// IsFile reports whether path is a regular file
func IsFile(path string) (bool, error) {
	fi, err := stat(path)
	if err != nil {
		return false, err
	}
	return fi.Mode().IsRegular(), nil
}

// IsReadable reports whether path can be opened for reading
func IsReadable(path string) (bool, error) {
	if _, err := stat(path); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return false, nil
	}
	_ = f.Close()
	return true, nil
}

// IsWritable reports whether path can be opened for writing without changing it
func IsWritable(path string) (bool, error) {
	if _, err := stat(path); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false, nil
	}
	_ = f.Close()
	return true, nil
}

// Extension returns the lower-cased extension of path without the dot
func Extension(path string) (string, error) {
	if _, err := stat(path); err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")), nil
}

// Size returns the size of path in bytes
func Size(path string) (int64, error) {
	fi, err := stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Name returns the base name of path without its extension
func Name(path string) (string, error) {
	if _, err := stat(path); err != nil {
		return "", err
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// ModTime returns the last modification time of path
func ModTime(path string) (time.Time, error) {
	fi, err := stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// 📄 File is a path that must be an existing, readable and writable regular file
type File struct {
	path string
}

// NewFile wraps path without touching the filesystem
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Size returns the file size in bytes
func (f *File) Size() (int64, error) { return Size(f.path) }

// Extension returns the lower-cased extension
func (f *File) Extension() (string, error) { return Extension(f.path) }

// Check verifies the file exists, is a regular file, and is readable and writable
func (f *File) Check() error {
	ok, err := Exists(f.path)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(f.path)
	}

	regular, err := IsFile(f.path)
	if err != nil {
		return err
	}
	if !regular {
		return &PathError{Op: "check", Path: f.path, Kinds: []error{ErrFileError}, Err: errors.New("not a regular file")}
	}

	readable, err := IsReadable(f.path)
	if err != nil {
		return err
	}
	if !readable {
		return &PathError{Op: "check", Path: f.path, Kinds: []error{ErrNotReadable}}
	}

	writable, err := IsWritable(f.path)
	if err != nil {
		return err
	}
	if !writable {
		return &PathError{Op: "check", Path: f.path, Kinds: []error{ErrNotWritable}}
	}

	return nil
}

// 📊 CSVFile is a File that must carry the csv extension
type CSVFile struct {
	File
}

// NewCSVFile wraps path without touching the filesystem
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{File: File{path: path}}
}

// IsCSV reports whether the path has the csv extension
func (f *CSVFile) IsCSV() bool {
	return strings.EqualFold(strings.TrimPrefix(filepath.Ext(f.path), "."), CSVExtension)
}

// Check runs File.Check and then the extension check
func (f *CSVFile) Check() error {
	if err := f.File.Check(); err != nil {
		return err
	}
	if !f.IsCSV() {
		return &PathError{Op: "check", Path: f.path, Kinds: []error{ErrUnsupportedExtension}, Err: errors.Errorf("want .%s", CSVExtension)}
	}
	return nil
}
