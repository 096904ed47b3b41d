package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// fileResolver resolves relative `@import "location"` paths against
// baseDir, the directory of the top-level rule file, for every import
// including nested ones; it does not track the directory of the
// importing file. The simplest useful ccs.ImportResolver for a
// filesystem-backed CLI.
type fileResolver struct {
	baseDir string
}

func (f fileResolver) Resolve(location string) (io.Reader, error) {
	path := location
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
