// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements dispatching of minification requests to a
// fixed set of named engines.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a minification engine.
type Name string

// Source is a labelled piece of code which is a part of a bundle.
// Label is used for source map attribution.
type Source struct {
	Label string
	Code  string
}

// Options are passed unchanged to the selected engine.
type Options struct {
	// Engine selects the engine. Empty means the set's default.
	Engine Name
	// Sources lists bundle parts in order. Only engines which
	// produce source maps look at it.
	Sources []Source
	// OutputFile is the path the result is going to be written to.
	OutputFile string
}

// SourceMap is a source map which should be written next to the result.
type SourceMap struct {
	Filename string
	Data     []byte
}

// Result is a result of minification.
type Result struct {
	Code      string
	SourceMap *SourceMap // may be nil
}

// Text returns a result without a source map.
func Text(s string) *Result {
	return &Result{Code: s}
}

// Func is a type of function implementing an engine.
type Func func(input string, opts Options) (*Result, error)

// Set is a closed set of engines for one asset type.
type Set struct {
	kind  string
	def   Name
	names []Name
	funcs map[Name]Func
}

// NewSet returns a new empty set for the given asset type (such as "js")
// with the given default engine name.
func NewSet(kind string, def Name) *Set {
	return &Set{
		kind:  kind,
		def:   def,
		funcs: make(map[Name]Func),
	}
}

// Register adds a new engine to the set.
func (s *Set) Register(name Name, fn Func) {
	if _, exists := s.funcs[name]; !exists {
		s.names = append(s.names, name)
	}
	s.funcs[name] = fn
}

// Default returns the name of the default engine.
func (s *Set) Default() Name { return s.def }

// Names returns engine names in registration order.
func (s *Set) Names() []Name {
	names := make([]Name, len(s.names))
	copy(names, s.names)
	return names
}

// Minify minifies input with the engine selected by opts.Engine.
func (s *Set) Minify(input string, opts Options) (*Result, error) {
	if opts.Engine == "" {
		opts.Engine = s.def
	}
	fn := s.funcs[opts.Engine]
	if fn == nil {
		return nil, &UnsupportedEngineError{
			Kind:    s.kind,
			Engine:  opts.Engine,
			Allowed: s.Names(),
		}
	}
	return fn(input, opts)
}

// UnsupportedEngineError is returned when the requested engine
// is not a member of the set.
type UnsupportedEngineError struct {
	Kind    string
	Engine  Name
	Allowed []Name
}

func (e *UnsupportedEngineError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, n := range e.Allowed {
		allowed[i] = "'" + string(n) + "'"
	}
	return fmt.Sprintf("Unknown %s minification engine '%s'. Allowed: %s",
		strings.ToUpper(e.Kind), e.Engine, strings.Join(allowed, ", "))
}

// IsUnsupportedEngine returns true if err is or wraps *UnsupportedEngineError.
func IsUnsupportedEngine(err error) bool {
	var e *UnsupportedEngineError
	return errors.As(err, &e)
}
