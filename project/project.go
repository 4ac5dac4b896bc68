// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project minifies assets of a project described
// by config/assets.yml.
package project

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dchest/assethat/assets"
	"github.com/dchest/assethat/engine"
	"github.com/dchest/assethat/filewriter"
	"github.com/dchest/assethat/fspoll"
	"github.com/dchest/assethat/hashcache"
	"github.com/dchest/assethat/js"
	"github.com/dchest/assethat/report"
	"github.com/dchest/assethat/utils"
)

// Options are options for opening a project.
type Options struct {
	ConfigFile string // relative to project directory, ConfigFileName by default
	Out        io.Writer
	Format     report.Format
	Verbose    bool
}

type Project struct {
	BaseDir string
	Config  *Config
	Layout  *assets.Layout

	configFile string
	verbose    bool
	writer     *filewriter.Writer
	reporter   *report.Reporter
	cache      *hashcache.Cache
}

// Open loads project configuration from the given directory.
func Open(dir string, opts Options) (p *Project, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = ConfigFileName
	}
	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(dir, configFile)
	}
	conf, err := readConfig(configFile)
	if err != nil {
		return nil, err
	}
	writer, err := filewriter.New(conf.Compress)
	if err != nil {
		return nil, &ConfigError{msg: err.Error()}
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Project{
		BaseDir:    dir,
		Config:     conf,
		Layout:     &assets.Layout{BaseDir: dir, AssetsDir: conf.AssetsDir},
		configFile: configFile,
		verbose:    opts.Verbose,
		writer:     writer,
		reporter:   report.New(out, report.ParseFormat(string(opts.Format))),
	}, nil
}

// EnableCache enables or disables skipping of bundles whose
// inputs didn't change since they were last minified.
func (p *Project) EnableCache(enable bool) error {
	if !enable {
		p.cache = nil
		return nil
	}
	c, err := hashcache.Open(filepath.Join(p.BaseDir, CacheFileName))
	if err != nil {
		return err
	}
	p.cache = c
	return nil
}

// rel returns path relative to project directory for messages.
func (p *Project) rel(path string) string {
	return filepath.ToSlash(utils.RelPath(p.BaseDir, path))
}

func (p *Project) configName() string {
	return p.rel(p.configFile)
}

// ConfiguredTypes returns asset types which have bundles.
func (p *Project) ConfiguredTypes() []*assets.Type {
	var types []*assets.Type
	for _, t := range assets.Types() {
		if tc := p.Config.Type(t); tc != nil && len(tc.Bundles) > 0 {
			types = append(types, t)
		}
	}
	return types
}

func (p *Project) write(filename string, r *engine.Result) error {
	if err := p.writer.WriteFile(filename, []byte(r.Code)); err != nil {
		return err
	}
	if r.SourceMap != nil {
		return p.writer.WriteFile(r.SourceMap.Filename, r.SourceMap.Data)
	}
	return nil
}

// MinifyFile minifies a single file into a file with ".min" added
// before its extension. Relative paths are relative to the project
// directory.
func (p *Project) MinifyFile(filename string) error {
	if filename == "" {
		return configErrorf("Usage: assethat minify-file FILE.js")
	}
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(p.BaseDir, filename)
	}
	t := assets.TypeForFile(filename)
	if t == nil {
		return configErrorf("%s is not a JS or CSS file.", p.rel(filename))
	}
	if p.verbose && assets.IsMinified(filename) {
		return configErrorf("%s is already minified.", p.rel(filename))
	}
	target := assets.MinFilepath(filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	label, err := utils.RelSlashPath(filename, target)
	if err != nil {
		return err
	}
	input := string(data)
	r, err := t.Minify(input, engine.Options{
		Engine:     p.Config.Engine(t),
		Sources:    []engine.Source{{Label: label, Code: input}},
		OutputFile: target,
	})
	if err != nil {
		return err
	}
	if err := p.write(target, r); err != nil {
		return err
	}
	if p.verbose {
		p.reporter.File(p.rel(target))
	}
	return nil
}

type bundleResult struct {
	report  *report.Bundle
	skipped bool
	err     error
}

func (p *Project) minifyBundle(t *assets.Type, name string) *bundleResult {
	if name == "" {
		return &bundleResult{err: configErrorf("Usage: assethat minify-bundle %s NAME", t.Name)}
	}
	tc := p.Config.Type(t)
	if tc == nil || len(tc.Bundles) == 0 {
		return &bundleResult{err: configErrorf("You need to set up %s bundles in %s.", t.Upper(), p.configName())}
	}
	b := tc.Bundles.Get(name)
	if b == nil {
		return &bundleResult{err: configErrorf("There is no %s bundle named %s in %s.", t.Upper(), name, p.configName())}
	}
	if len(b.Files) == 0 {
		return &bundleResult{err: configErrorf("No %s files are specified for the %s bundle in %s.", t.Upper(), name, p.configName())}
	}
	files := p.Layout.SourceFilepaths(t, b)
	output := p.Layout.BundleFilepath(t, name)
	in, err := assets.ReadFiles(files, output)
	if err != nil {
		return &bundleResult{err: err}
	}
	rep := &report.Bundle{
		Kind:    t.Upper(),
		Output:  p.rel(output),
		Files:   make([]string, len(files)),
		OldSize: in.Size,
		Engine:  tc.Engine,
	}
	for i, f := range files {
		rep.Files[i] = p.rel(f)
	}
	if p.cache != nil && p.cache.Seen(output, string(tc.Engine), p.writer.String(), strings.Join(files, "\n"), in.Code) &&
		allExist(p.outputFiles(t, tc.Engine, output)) {
		if fi, err := os.Stat(output); err == nil {
			rep.NewSize = int(fi.Size())
			return &bundleResult{report: rep, skipped: true}
		}
	}
	r, err := t.Minify(in.Code, engine.Options{
		Engine:     tc.Engine,
		Sources:    in.Sources,
		OutputFile: output,
	})
	if err == nil {
		err = p.write(output, r)
	}
	if err != nil {
		if p.cache != nil {
			p.cache.Forget(output)
		}
		return &bundleResult{err: fmt.Errorf("%s bundle %s: %w", t.Name, name, err)}
	}
	rep.NewSize = len(r.Code)
	return &bundleResult{report: rep}
}

// outputFiles returns names of files written for a bundle.
func (p *Project) outputFiles(t *assets.Type, e engine.Name, output string) []string {
	files := append([]string{output}, p.writer.Companions(output)...)
	if t == assets.JS && e == js.EnginePackr {
		m := output + js.SourceMapExt
		files = append(files, m)
		files = append(files, p.writer.Companions(m)...)
	}
	return files
}

func allExist(names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(name); err != nil {
			return false
		}
	}
	return true
}

// MinifyBundle concatenates and minifies the named bundle and reports the result.
func (p *Project) MinifyBundle(t *assets.Type, name string) error {
	res := p.minifyBundle(t, name)
	if res.err != nil {
		return res.err
	}
	if !res.skipped {
		p.reporter.Bundle(res.report)
	}
	return nil
}

// Minify minifies all bundles of the given types,
// or of all configured types if none are given.
func (p *Project) Minify(types ...*assets.Type) error {
	if len(types) == 0 {
		types = p.ConfiguredTypes()
		if len(types) == 0 {
			return configErrorf("You need to set up JS or CSS bundles in %s.", p.configName())
		}
	}
	for _, t := range types {
		if err := p.minifyType(t); err != nil {
			return err
		}
	}
	if p.cache != nil {
		return p.cache.Save()
	}
	return nil
}

func (p *Project) minifyType(t *assets.Type) error {
	tc := p.Config.Type(t)
	if tc == nil || len(tc.Bundles) == 0 {
		return configErrorf("You need to set up %s bundles in %s.", t.Upper(), p.configName())
	}
	p.reporter.Intro(t.Upper())
	results := make([]*bundleResult, len(tc.Bundles))
	pool := utils.NewPool(func(job interface{}) error {
		i := job.(int)
		results[i] = p.minifyBundle(t, tc.Bundles[i].Name)
		return results[i].err
	})
	for i := range tc.Bundles {
		pool.Add(i)
	}
	pool.Err()
	// Report in configuration order up to the first failed bundle.
	for _, res := range results {
		if res.err != nil {
			return res.err
		}
		if !res.skipped {
			p.reporter.Bundle(res.report)
		}
	}
	p.reporter.Outro()
	return nil
}

// generatedPatterns returns globs matching files written for bundles of type t.
func generatedPatterns(t *assets.Type) []string {
	base := []string{"*.min" + t.Ext, "*.min" + t.Ext + js.SourceMapExt}
	patterns := append([]string(nil), base...)
	for _, c := range filewriter.Compressors() {
		for _, b := range base {
			patterns = append(patterns, b+"."+c.Ext)
		}
	}
	return patterns
}

// Clean removes minified bundles, their companions and the cache.
func (p *Project) Clean() error {
	log.Printf("* Cleaning.")
	for _, t := range assets.Types() {
		dir := p.Layout.BundlesDir(t)
		for _, pattern := range generatedPatterns(t) {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return err
			}
			for _, m := range matches {
				if err := os.Remove(m); err != nil {
					return err
				}
				log.Printf("D %s", p.rel(m))
			}
		}
	}
	if err := os.Remove(filepath.Join(p.BaseDir, CacheFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// watchExcludes are globs of files that don't trigger minification.
func (p *Project) watchExcludes() []string {
	excludes := []string{"*.min.*", "*~", ".DS_Store"}
	for _, t := range assets.Types() {
		excludes = append(excludes, p.Layout.BundlesDir(t))
	}
	return excludes
}

// Watch minifies all configured bundles and then again every time files
// in the assets directory change, until ctx is done.
func (p *Project) Watch(ctx context.Context, interval time.Duration) error {
	types := p.ConfiguredTypes()
	if len(types) == 0 {
		return configErrorf("You need to set up JS or CSS bundles in %s.", p.configName())
	}
	build := func() {
		t := time.Now()
		if err := p.Minify(types...); err != nil {
			log.Printf("! build error: %s", err)
			return
		}
		log.Printf("* Minified in %s", time.Since(t))
	}
	build()
	w, err := fspoll.Watch(ctx, []string{p.Layout.Root()}, p.watchExcludes(), interval, 0)
	if err != nil {
		return err
	}
	log.Printf("* Watching %s for changes. Press Ctrl+C to quit.", p.rel(p.Layout.Root()))
	for {
		select {
		case <-w.Change:
			log.Printf("W change detected")
			build()
		case err := <-w.Error:
			log.Printf("! watcher error: %s", err)
		case <-ctx.Done():
			return nil
		}
	}
}
