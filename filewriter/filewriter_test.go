package filewriter

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/andybalholm/brotli"
)

const testData = "function a(){return 1}"

func TestWriteFilePlain(t *testing.T) {
	w, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	filename := filepath.Join(t.TempDir(), "bundles", "app.min.js")
	if err := w.WriteFile(filename, []byte(testData)); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != testData {
		t.Errorf("expected %q, got %q", testData, b)
	}
	if _, err := os.Stat(filename + ".gz"); !os.IsNotExist(err) {
		t.Errorf("unexpected gzip companion")
	}
}

func TestWriteFileCompressed(t *testing.T) {
	w, err := New(&CompressConfig{Methods: []string{"gzip", "br"}, Extensions: []string{"js"}})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	filename := filepath.Join(dir, "app.min.js")
	if err := w.WriteFile(filename, []byte(testData)); err != nil {
		t.Fatal(err)
	}
	gz, err := os.ReadFile(filename + ".gz")
	if err != nil {
		t.Fatal(err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != testData {
		t.Errorf("gzip: expected %q, got %q", testData, b)
	}

	br, err := os.ReadFile(filename + ".br")
	if err != nil {
		t.Fatal(err)
	}
	b, err = io.ReadAll(brotli.NewReader(bytes.NewReader(br)))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != testData {
		t.Errorf("brotli: expected %q, got %q", testData, b)
	}

	// Not a compressed extension.
	other := filepath.Join(dir, "app.min.js.map")
	if err := w.WriteFile(other, []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(other + ".gz"); !os.IsNotExist(err) {
		t.Errorf("unexpected gzip companion for %s", other)
	}
}

func TestUnknownMethod(t *testing.T) {
	if _, err := New(&CompressConfig{Methods: []string{"zstd"}}); err == nil {
		t.Errorf("expected error")
	}
}

func TestCompanions(t *testing.T) {
	w, err := New(&CompressConfig{Methods: []string{"gzip", "br"}, Extensions: []string{".js", "css"}})
	if err != nil {
		t.Fatal(err)
	}
	if c := w.Companions("app.min.js"); !reflect.DeepEqual(c, []string{"app.min.js.gz", "app.min.js.br"}) {
		t.Errorf("unexpected companions %v", c)
	}
	if c := w.Companions("app.min.js.map"); len(c) != 0 {
		t.Errorf("unexpected companions %v", c)
	}
	if s := w.String(); s != "gz,br:.css,.js" {
		t.Errorf("unexpected settings %q", s)
	}

	plain, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c := plain.Companions("app.min.js"); len(c) != 0 {
		t.Errorf("unexpected companions %v", c)
	}
	if plain.String() == w.String() {
		t.Errorf("different settings have the same description %q", w.String())
	}
}
