package main

import (
	"bytes"
	"io"
	"path/filepath"
)

func readAll(r io.Reader) ([]byte, error) { return io.ReadAll(r) }

func newReader(data []byte) io.Reader { return bytes.NewReader(data) }

func dirOf(path string) string { return filepath.Dir(path) }
