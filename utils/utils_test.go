package utils

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestReplaceFileExt(t *testing.T) {
	var tests = []struct{ in, ext, out string }{
		{"app.js", ".min.js", "app.min.js"},
		{"public/javascripts/bundles/app.js", ".min.js", "public/javascripts/bundles/app.min.js"},
		{"style.css", ".min.css", "style.min.css"},
		{"noext", ".js", "noext.js"},
	}
	for i, v := range tests {
		out := ReplaceFileExt(v.in, v.ext)
		if v.out != out {
			t.Errorf("%d: expected %q, got %q", i, v.out, out)
		}
	}
}

func TestTrimASCIISpace(t *testing.T) {
	var tests = []struct{ in, out string }{
		{"", ""},
		{" \t\v\f\r\n", ""},
		{"\x00 a \x00", "a"},
		{"a\u00a0", "a\u00a0"},
		{"\u2028 a", "\u2028 a"},
		{"\u0085a\n", "\u0085a"},
	}
	for i, v := range tests {
		if out := TrimASCIISpace(v.in); out != v.out {
			t.Errorf("%d: expected %q, got %q", i, v.out, out)
		}
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\r", "\u00a0", " \u2028\u0085 "} {
		if !IsBlank(s) {
			t.Errorf("%q: expected blank", s)
		}
	}
	for _, s := range []string{"a", " x ", "\u00a0;"} {
		if IsBlank(s) {
			t.Errorf("%q: expected not blank", s)
		}
	}
}

func TestRelPath(t *testing.T) {
	base := filepath.FromSlash("/srv/app")
	var tests = []struct{ in, out string }{
		{"/srv/app/public/a.js", "public/a.js"},
		{"/srv/other/a.js", "/srv/other/a.js"},
	}
	for i, v := range tests {
		out := RelPath(base, filepath.FromSlash(v.in))
		if out != filepath.FromSlash(v.out) {
			t.Errorf("%d: expected %q, got %q", i, v.out, out)
		}
	}
	if out := RelPath("", "x/y"); out != "x/y" {
		t.Errorf("expected unchanged path, got %q", out)
	}
}

func TestRelSlashPath(t *testing.T) {
	var tests = []struct{ target, from, out string }{
		{"public/javascripts/app.js", "public/javascripts/bundles/app.min.js", "../app.js"},
		{"public/javascripts/app.js", "public/javascripts/app.min.js", "app.js"},
		{"public/vendor/x.js", "public/javascripts/bundles/app.min.js", "../../vendor/x.js"},
	}
	for i, v := range tests {
		out, err := RelSlashPath(filepath.FromSlash(v.target), filepath.FromSlash(v.from))
		if err != nil {
			t.Fatalf("%d: %s", i, err)
		}
		if out != v.out {
			t.Errorf("%d: expected %q, got %q", i, v.out, out)
		}
	}
}

func TestPool(t *testing.T) {
	var n int32
	p := NewPool(func(j interface{}) error {
		atomic.AddInt32(&n, int32(j.(int)))
		if j.(int) == 3 {
			return errors.New("three")
		}
		return nil
	})
	for i := 1; i <= 5; i++ {
		p.Add(i)
	}
	err := p.Err()
	if err == nil || err.Error() != "three" {
		t.Errorf("expected error, got %v", err)
	}
	if n != 15 {
		t.Errorf("expected sum 15, got %d", n)
	}
}
