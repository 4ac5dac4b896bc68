// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filewriter writes minified files along with their
// compressed companions.
package filewriter

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"
)

// CompressConfig describes which files get compressed companions.
//
// assets.yml -> compress:
type CompressConfig struct {
	Methods    []string `yaml:"methods"`
	Extensions []string `yaml:"extensions"`
}

// Compressor creates compressed companions with the given extension.
type Compressor struct {
	Ext string
	New func(w io.Writer) io.WriteCloser
}

var gzipCompressor = &Compressor{
	Ext: "gz",
	New: func(w io.Writer) io.WriteCloser {
		z, err := gzip.NewWriterLevel(w, gzipLevel)
		if err != nil {
			panic(err.Error()) // shouldn't happen
		}
		return z
	},
}

var brotliCompressor = &Compressor{
	Ext: "br",
	New: func(w io.Writer) io.WriteCloser {
		return brotli.NewWriterLevel(w, brotliLevel)
	},
}

const (
	gzipLevel   = 9
	brotliLevel = 11
)

// Compressors returns all known compressors.
func Compressors() []*Compressor {
	return []*Compressor{gzipCompressor, brotliCompressor}
}

type Writer struct {
	compressedExtensions map[string]struct{}
	compressors          []*Compressor
}

// New returns a new writer. Config may be nil, in which case
// no compressed companions are written.
func New(c *CompressConfig) (*Writer, error) {
	extensions := make(map[string]struct{})
	compressors := make([]*Compressor, 0)
	if c != nil {
		for _, v := range c.Extensions {
			extensions["."+strings.TrimPrefix(v, ".")] = struct{}{}
		}
		for _, v := range c.Methods {
			switch v {
			case "gzip":
				compressors = append(compressors, gzipCompressor)
			case "br":
				compressors = append(compressors, brotliCompressor)
			default:
				return nil, fmt.Errorf("unknown compression method: %q", v)
			}
		}
	}
	return &Writer{
		compressedExtensions: extensions,
		compressors:          compressors,
	}, nil
}

func (w *Writer) compressorsFor(filename string) []*Compressor {
	if _, ok := w.compressedExtensions[filepath.Ext(filename)]; ok {
		return w.compressors
	}
	return nil
}

// Companions returns names of compressed files which WriteFile
// writes along with filename.
func (w *Writer) Companions(filename string) []string {
	cs := w.compressorsFor(filename)
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = filename + "." + c.Ext
	}
	return names
}

// String describes compression settings, e.g. "gz,br:.css,.js".
func (w *Writer) String() string {
	methods := make([]string, len(w.compressors))
	for i, c := range w.compressors {
		methods[i] = c.Ext
	}
	exts := make([]string, 0, len(w.compressedExtensions))
	for ext := range w.compressedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(methods, ",") + ":" + strings.Join(exts, ",")
}

// WriteFile writes data to filename creating parent directories,
// and, if configured, writes compressed companions concurrently.
// It returns the first error.
func (w *Writer) WriteFile(filename string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	cs := w.compressorsFor(filename)
	done := make(chan error, 1+len(cs))
	go func() {
		done <- os.WriteFile(filename, data, 0644)
	}()
	for _, c := range cs {
		c := c
		go func() {
			done <- writeCompressed(c, filename, data)
		}()
	}
	var firstErr error
	for i := 0; i < 1+len(cs); i++ {
		if err := <-done; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func writeCompressed(c *Compressor, filename string, data []byte) (err error) {
	outfile := filename + "." + c.Ext
	out, err := os.OpenFile(outfile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outfile)
		}
	}()
	z := c.New(out)
	if _, err = z.Write(data); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}
