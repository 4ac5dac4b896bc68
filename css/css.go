// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package css minifies CSS with one of the supported engines.
package css

import (
	"strings"

	"github.com/dchest/cssmin"

	"github.com/dchest/assethat/engine"
	"github.com/dchest/assethat/utils"
)

// Supported engine names.
const (
	EngineWeak   engine.Name = "weak"
	EngineCSSMin engine.Name = "cssmin"
)

var engines = engine.NewSet("css", EngineCSSMin)

func init() {
	engines.Register(EngineWeak, func(in string, _ engine.Options) (*engine.Result, error) {
		return engine.Text(Weak(in)), nil
	})
	engines.Register(EngineCSSMin, func(in string, _ engine.Options) (*engine.Result, error) {
		return engine.Text(CSSMin(in)), nil
	})
}

// Engines returns the names of supported engines.
func Engines() []engine.Name { return engines.Names() }

// DefaultEngine returns the name of the engine used when none is requested.
func DefaultEngine() engine.Name { return engines.Default() }

// Minify minifies input with the engine named by opts.Engine (cssmin by
// default). It returns *engine.UnsupportedEngineError for unknown engines.
func Minify(input string, opts engine.Options) (*engine.Result, error) {
	return engines.Minify(input, opts)
}

// Weak removes indentation, trailing whitespace and line breaks.
// Like js.Weak, it trims only ASCII whitespace.
func Weak(input string) string {
	var out strings.Builder
	for _, line := range strings.Split(input, "\n") {
		line = utils.TrimASCIISpace(line)
		if utils.IsBlank(line) {
			continue
		}
		out.WriteString(line)
	}
	return out.String()
}

// CSSMin minifies input with cssmin.
func CSSMin(input string) string {
	return string(cssmin.Minify([]byte(input)))
}
