// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets describes asset types, bundles and where their
// files live.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dchest/assethat/css"
	"github.com/dchest/assethat/engine"
	"github.com/dchest/assethat/js"
	"github.com/dchest/assethat/utils"
)

// Type is a type of assets which can be minified.
type Type struct {
	Name string // "js"
	Ext  string // ".js"
	Dir  string // directory inside assets directory

	DefaultEngine engine.Name
	Minify        func(input string, opts engine.Options) (*engine.Result, error)
}

var (
	JS = &Type{
		Name:          "js",
		Ext:           ".js",
		Dir:           "javascripts",
		DefaultEngine: js.DefaultEngine(),
		Minify:        js.Minify,
	}
	CSS = &Type{
		Name:          "css",
		Ext:           ".css",
		Dir:           "stylesheets",
		DefaultEngine: css.DefaultEngine(),
		Minify:        css.Minify,
	}
)

// Types returns all asset types in the order they are minified.
func Types() []*Type { return []*Type{CSS, JS} }

// TypeByName returns a type by its name or nil if there's no such type.
func TypeByName(name string) *Type {
	for _, t := range Types() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// TypeForFile returns a type by file extension or nil
// if the file is not an asset.
func TypeForFile(filename string) *Type {
	ext := filepath.Ext(filename)
	for _, t := range Types() {
		if t.Ext == ext {
			return t
		}
	}
	return nil
}

// Upper returns the type name for messages: "JS".
func (t *Type) Upper() string { return strings.ToUpper(t.Name) }

// MinFilepath returns the path of the minified version of an asset:
//
//	public/javascripts/bundles/application.js -> public/javascripts/bundles/application.min.js
func MinFilepath(filename string) string {
	ext := filepath.Ext(filename)
	return utils.ReplaceFileExt(filename, ".min"+ext)
}

// IsMinified returns true if filename looks like a minified asset.
func IsMinified(filename string) bool {
	ext := filepath.Ext(filename)
	return ext != "" && strings.HasSuffix(filename, ".min"+ext)
}

// Bundle is a named list of files which are concatenated and minified together.
type Bundle struct {
	Name  string
	Files []string
}

// Bundles is a list of bundles which keeps the order of the YAML mapping.
type Bundles []*Bundle

// UnmarshalYAML implements yaml.Unmarshaler. Blank file names are skipped.
func (bs *Bundles) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: bundles must be a mapping of names to lists of files", value.Line)
	}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(value.Content); i += 2 {
		b := new(Bundle)
		if err := value.Content[i].Decode(&b.Name); err != nil {
			return err
		}
		if seen[b.Name] {
			return fmt.Errorf("line %d: duplicate bundle name %q", value.Content[i].Line, b.Name)
		}
		seen[b.Name] = true
		var files []string
		if err := value.Content[i+1].Decode(&files); err != nil {
			return err
		}
		for _, f := range files {
			if strings.TrimSpace(f) != "" {
				b.Files = append(b.Files, f)
			}
		}
		*bs = append(*bs, b)
	}
	return nil
}

// Get returns a bundle by name or nil if there's no such bundle.
func (bs Bundles) Get(name string) *Bundle {
	for _, b := range bs {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// TypeConfig is a configuration for one asset type.
//
// assets.yml -> js:, css:
type TypeConfig struct {
	Engine  engine.Name `yaml:"engine"`
	Bundles Bundles     `yaml:"bundles"`
}

// Layout knows where assets of each type are.
type Layout struct {
	BaseDir   string
	AssetsDir string // relative to BaseDir
}

// Root returns the directory containing assets of all types.
func (l *Layout) Root() string {
	return filepath.Join(l.BaseDir, l.AssetsDir)
}

// Dir returns the directory containing assets of the given type.
func (l *Layout) Dir(t *Type) string {
	return filepath.Join(l.Root(), t.Dir)
}

// BundlesDir returns the directory for minified bundles of the given type.
func (l *Layout) BundlesDir(t *Type) string {
	return filepath.Join(l.Dir(t), "bundles")
}

// BundleFilepath returns the output path for the named bundle.
func (l *Layout) BundleFilepath(t *Type, name string) string {
	return MinFilepath(filepath.Join(l.BundlesDir(t), name+t.Ext))
}

// SourceFilepath resolves a file name from a bundle definition.
//
// Names are slash-separated and get the type extension appended if they
// don't have it. Relative names are inside the type directory, names
// starting with a slash are inside the assets root.
func (l *Layout) SourceFilepath(t *Type, name string) string {
	parts := strings.Split(name, "/")
	last := len(parts) - 1
	if !strings.HasSuffix(parts[last], t.Ext) {
		parts[last] += t.Ext
	}
	dir := l.Dir(t)
	if parts[0] == "" {
		dir = l.Root()
	}
	return filepath.Join(append([]string{dir}, parts...)...)
}

// SourceFilepaths resolves all files of the bundle.
func (l *Layout) SourceFilepaths(t *Type, b *Bundle) []string {
	paths := make([]string, len(b.Files))
	for i, f := range b.Files {
		paths[i] = l.SourceFilepath(t, f)
	}
	return paths
}

// Input is concatenated content of source files.
type Input struct {
	Code    string
	Sources []engine.Source
	Size    int // sum of file sizes
}

// ReadFiles reads and concatenates files, appending a newline to each.
// Source labels are paths relative to the directory of output.
func ReadFiles(filenames []string, output string) (*Input, error) {
	in := &Input{Sources: make([]engine.Source, 0, len(filenames))}
	var b strings.Builder
	for _, f := range filenames {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		label, err := utils.RelSlashPath(f, output)
		if err != nil {
			return nil, err
		}
		code := string(data) + "\n"
		in.Sources = append(in.Sources, engine.Source{Label: label, Code: code})
		in.Size += len(data)
		b.WriteString(code)
	}
	in.Code = b.String()
	return in, nil
}
