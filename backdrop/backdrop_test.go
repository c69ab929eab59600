package backdrop_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lundis/noise-decrease/backdrop"
	"golang.org/x/tools/godoc/vfs/mapfs"
)

func TestToggleAlternates(t *testing.T) {
	b := backdrop.Default()
	if b.Current().Path != backdrop.DefaultOriginal || b.IsToggled() {
		t.Fatalf("should start on the original image")
	}
	if got := b.Toggle(); got.Path != backdrop.DefaultToggled {
		t.Fatalf("first toggle shows %q", got.Path)
	}
	if got := b.Toggle(); got.Path != backdrop.DefaultOriginal {
		t.Fatalf("second toggle shows %q", got.Path)
	}
	if b.IsToggled() {
		t.Fatalf("two toggles should return to the original")
	}
}

func TestLoad(t *testing.T) {
	fs := mapfs.New(map[string]string{
		"backdrop.json":  `{"Original": "img/angry.png", "Toggled": "img/happy.png"}`,
		"img/angry.png":  "angry-bytes",
		"img/happy.png":  "happy-bytes",
		"img/unused.png": "unused",
	})
	b, err := backdrop.Load(fs, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := b.Current(); got.Path != "img/angry.png" || string(got.Data) != "angry-bytes" {
		t.Fatalf("original = %+v", got)
	}
	if got := b.Toggle(); got.Path != "img/happy.png" || string(got.Data) != "happy-bytes" {
		t.Fatalf("toggled = %+v", got)
	}
}

func TestLoadDefaultsNames(t *testing.T) {
	fs := mapfs.New(map[string]string{
		"backdrop.json": `{}`,
		"anger.png":     "a",
		"joy.png":       "j",
	})
	b, err := backdrop.Load(fs, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Current().Path != backdrop.DefaultOriginal {
		t.Fatalf("original = %q", b.Current().Path)
	}
}

func TestLoadErrors(t *testing.T) {
	for name, files := range map[string]map[string]string{
		"missing registry": {},
		"bad json":         {"backdrop.json": `{`},
		"missing image":    {"backdrop.json": `{"Original": "a.png", "Toggled": "b.png"}`, "a.png": "a"},
	} {
		if _, err := backdrop.Load(mapfs.New(files), nil); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("backdrop.json", `{"Original": "anger.png", "Toggled": "joy.png"}`)
	write("anger.png", "a")
	write("joy.png", "j")

	b, err := backdrop.LoadFolder(dir, nil)
	if err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	if string(b.Toggle().Data) != "j" {
		t.Fatalf("toggled image not loaded")
	}
}
