// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package js

// `packr` removes whitespace and comments and shrinks local variable
// names, keeping top-level names intact. Bundles get a source map.

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/dchest/assethat/engine"
)

// SourceMapExt is appended to the output file name to get
// the name of the source map file.
const SourceMapExt = ".map"

// Packr minifies JavaScript shrinking local variable names.
//
// If opts.Sources is not empty, input is ignored: every source is
// minified separately, results are joined with newlines, and, if
// opts.OutputFile is set, a source map for the joined code is attached
// to the result.
func Packr(input string, opts engine.Options) (*engine.Result, error) {
	if len(opts.Sources) == 0 {
		code, _, err := pack(input, "", false)
		if err != nil {
			return nil, err
		}
		return engine.Text(code), nil
	}
	withMap := opts.OutputFile != ""
	var (
		b    strings.Builder
		line int
	)
	sections := make([]section, 0, len(opts.Sources))
	for _, src := range opts.Sources {
		code, m, err := pack(src.Code, src.Label, withMap)
		if err != nil {
			return nil, err
		}
		if code == "" {
			continue // nothing to map
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
			line++
		}
		if len(m) > 0 {
			sections = append(sections, section{Offset: offset{Line: line}, Map: m})
		}
		b.WriteString(code)
		line += strings.Count(code, "\n")
	}
	if !withMap {
		return engine.Text(b.String()), nil
	}
	mapFilename := opts.OutputFile + SourceMapExt
	data, err := json.Marshal(&indexMap{
		Version:  3,
		File:     filepath.Base(opts.OutputFile),
		Sections: sections,
	})
	if err != nil {
		return nil, err
	}
	b.WriteString("\n//# sourceMappingURL=")
	b.WriteString(filepath.Base(mapFilename))
	return &engine.Result{
		Code:      b.String(),
		SourceMap: &engine.SourceMap{Filename: mapFilename, Data: data},
	}, nil
}

func pack(code, sourcefile string, withMap bool) (out string, sourceMap []byte, err error) {
	opts := api.TransformOptions{
		Loader:            api.LoaderJS,
		Sourcefile:        sourcefile,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
	}
	if withMap {
		opts.Sourcemap = api.SourceMapExternal
		opts.SourcesContent = api.SourcesContentInclude
	}
	r := api.Transform(code, opts)
	if len(r.Errors) > 0 {
		return "", nil, transformError(r.Errors)
	}
	return strings.TrimRight(string(r.Code), "\n"), r.Map, nil
}

func transformError(msgs []api.Message) error {
	s := make([]string, len(msgs))
	for i, m := range msgs {
		if m.Location != nil {
			s[i] = fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
		} else {
			s[i] = m.Text
		}
	}
	return fmt.Errorf("packr: %s", strings.Join(s, "; "))
}

// indexMap is a source map made of sections, one per source.
type indexMap struct {
	Version  int       `json:"version"`
	File     string    `json:"file,omitempty"`
	Sections []section `json:"sections"`
}

type section struct {
	Offset offset          `json:"offset"`
	Map    json.RawMessage `json:"map"`
}

type offset struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}
