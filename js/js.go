// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package js minifies JavaScript with one of the supported engines.
package js

import (
	"github.com/dchest/assethat/engine"
)

// Supported engine names.
const (
	EngineWeak  engine.Name = "weak"
	EngineJSMin engine.Name = "jsmin"
	EnginePackr engine.Name = "packr"
)

var engines = engine.NewSet("js", EngineJSMin)

func init() {
	engines.Register(EngineWeak, func(in string, _ engine.Options) (*engine.Result, error) {
		return engine.Text(Weak(in)), nil
	})
	engines.Register(EngineJSMin, func(in string, _ engine.Options) (*engine.Result, error) {
		out, err := JSMin(in)
		if err != nil {
			return nil, err
		}
		return engine.Text(out), nil
	})
	engines.Register(EnginePackr, Packr)
}

// Engines returns the names of supported engines.
func Engines() []engine.Name { return engines.Names() }

// DefaultEngine returns the name of the engine used when none is requested.
func DefaultEngine() engine.Name { return engines.Default() }

// Minify minifies input with the engine named by opts.Engine (jsmin by
// default). It returns *engine.UnsupportedEngineError for unknown engines.
func Minify(input string, opts engine.Options) (*engine.Result, error) {
	return engines.Minify(input, opts)
}
