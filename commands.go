// Copyright 2013 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dchest/assethat/assets"
	"github.com/dchest/assethat/fspoll"
	"github.com/dchest/assethat/project"
	"github.com/dchest/assethat/report"
)

// Version is set by ldflags during build
var Version = "dev"

var (
	fDir      string
	fConfig   string
	fFormat   string
	fQuiet    bool
	fCache    bool
	fNoCache  bool
	fInterval time.Duration
)

type errUnknownType string

func (e errUnknownType) Error() string {
	return fmt.Sprintf("unknown asset type %q (expected js or css)", string(e))
}

// parseType returns asset type by name or a usage error.
func parseType(name string) (*assets.Type, error) {
	t := assets.TypeByName(name)
	if t == nil {
		return nil, errUnknownType(name)
	}
	return t, nil
}

var rootCmd = &cobra.Command{
	Use:           "assethat",
	Short:         "Concatenates and minifies JavaScript and CSS bundles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func openProject() (*project.Project, error) {
	return project.Open(fDir, project.Options{
		ConfigFile: fConfig,
		Out:        os.Stdout,
		Format:     report.ParseFormat(fFormat),
		Verbose:    !fQuiet,
	})
}

var minifyCmd = &cobra.Command{
	Use:       "minify [js|css]...",
	Short:     "Minify all bundles of the given types (all configured types by default)",
	ValidArgs: []string{"js", "css"},
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var types []*assets.Type
		for _, a := range args {
			t, err := parseType(a)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
		p, err := openProject()
		if err != nil {
			return err
		}
		if err := p.EnableCache(fCache); err != nil {
			return err
		}
		return p.Minify(types...)
	},
}

var minifyFileCmd = &cobra.Command{
	Use:   "minify-file PATH",
	Short: "Minify one file into PATH with .min before the extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject()
		if err != nil {
			return err
		}
		return p.MinifyFile(args[0])
	},
}

var minifyBundleCmd = &cobra.Command{
	Use:   "minify-bundle js|css NAME",
	Short: "Concatenate and minify one bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil {
			return err
		}
		p, err := openProject()
		if err != nil {
			return err
		}
		return p.MinifyBundle(t, args[1])
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Minify all bundles and again whenever assets change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject()
		if err != nil {
			return err
		}
		if err := p.EnableCache(!fNoCache); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return p.Watch(ctx, fInterval)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove minified bundles and the cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject()
		if err != nil {
			return err
		}
		return p.Clean()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "assethat %s\n", Version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&fDir, "dir", "C", ".", "project directory")
	pf.StringVar(&fConfig, "config", project.ConfigFileName, "configuration file relative to project directory")
	pf.StringVar(&fFormat, "format", os.Getenv("FORMAT"), "bundle report format: long, short or dot")
	pf.BoolVarP(&fQuiet, "quiet", "q", os.Getenv("VERBOSE") == "false", "don't report minified files")

	minifyCmd.Flags().BoolVar(&fCache, "cache", false, "skip bundles which didn't change since the last run")
	watchCmd.Flags().BoolVar(&fNoCache, "nocache", false, "minify all bundles on every change")
	watchCmd.Flags().DurationVar(&fInterval, "interval", fspoll.DefaultInterval, "polling interval")

	rootCmd.AddCommand(minifyCmd, minifyFileCmd, minifyBundleCmd, watchCmd, cleanCmd, versionCmd)
}
