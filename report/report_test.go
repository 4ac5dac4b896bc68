package report

import (
	"bytes"
	"math"
	"testing"
)

func TestParseFormat(t *testing.T) {
	var tests = []struct {
		in  string
		out Format
	}{
		{"long", Long},
		{"short", Short},
		{"dot", Dot},
		{"", Long},
		{"DOT", Long},
		{"verbose", Long},
	}
	for i, v := range tests {
		if out := ParseFormat(v.in); out != v.out {
			t.Errorf("%d: expected %s, got %s", i, v.out, out)
		}
	}
}

func TestPercentSaved(t *testing.T) {
	var tests = []struct {
		oldSize, newSize int
		out              string
	}{
		{1000, 477, "52.3%"},
		{1000, 1000, "0.0%"},
		{1000, 0, "100.0%"},
		{3, 1, "66.7%"},
		{100, 120, "-20.0%"},
	}
	for i, v := range tests {
		out := FormatPercent(PercentSaved(v.oldSize, v.newSize))
		if out != v.out {
			t.Errorf("%d: expected %s, got %s", i, v.out, out)
		}
	}
	if !math.IsNaN(PercentSaved(0, 0)) {
		t.Errorf("expected NaN for empty input")
	}
	if FormatPercent(math.NaN()) != "NaN%" {
		t.Errorf("wrong NaN format")
	}
}

var testBundle = &Bundle{
	Kind:    "JS",
	Output:  "public/javascripts/bundles/app.min.js",
	Files:   []string{"public/javascripts/a.js", "public/javascripts/b.js"},
	OldSize: 1000,
	NewSize: 477,
	Engine:  "jsmin",
}

func TestBundleFormats(t *testing.T) {
	var tests = []struct {
		format Format
		out    string
	}{
		{Dot, "."},
		{Short, "Minified  52.3%: public/javascripts/bundles/app.min.js\n"},
		{Long, "\n Wrote JS bundle: public/javascripts/bundles/app.min.js\n" +
			"        contains: public/javascripts/a.js\n" +
			"        contains: public/javascripts/b.js\n" +
			"        MINIFIED: 52.3% (Engine: jsmin)\n"},
	}
	for i, v := range tests {
		var buf bytes.Buffer
		New(&buf, v.format).Bundle(testBundle)
		if buf.String() != v.out {
			t.Errorf("%d: expected\n%q\ngot\n%q", i, v.out, buf.String())
		}
	}
}

func TestBundleLongEmpty(t *testing.T) {
	var buf bytes.Buffer
	b := *testBundle
	b.NewSize = 0
	New(&buf, Long).Bundle(&b)
	expected := "\n Wrote JS bundle: public/javascripts/bundles/app.min.js\n" +
		"        contains: public/javascripts/a.js\n" +
		"        contains: public/javascripts/b.js\n" +
		"        MINIFIED: 100.0% (empty!) (Engine: jsmin)\n"
	if buf.String() != expected {
		t.Errorf("expected\n%q\ngot\n%q", expected, buf.String())
	}

	buf.Reset()
	b.OldSize = 0
	b.Files = nil
	New(&buf, Long).Bundle(&b)
	expected = "\n Wrote JS bundle: public/javascripts/bundles/app.min.js\n"
	if buf.String() != expected {
		t.Errorf("expected\n%q\ngot\n%q", expected, buf.String())
	}
}

func TestIntroOutro(t *testing.T) {
	var tests = []struct {
		format Format
		out    string
	}{
		{Long, "Minifying JS...\n\nDone.\n"},
		{Short, "Minifying JS...\nDone.\n"},
		{Dot, "Minifying JS...\nDone.\n"},
	}
	for i, v := range tests {
		var buf bytes.Buffer
		r := New(&buf, v.format)
		r.Intro("JS")
		r.Outro()
		if buf.String() != v.out {
			t.Errorf("%d: expected %q, got %q", i, v.out, buf.String())
		}
	}
}
