package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, txt", []string{"svg", "txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestOutputBase(t *testing.T) {
	recs := family.Sample()
	tests := []struct {
		name string
		opts pipeline.Options
		want string
	}{
		{"file", pipeline.Options{Source: "data/Smith Family.yaml"}, filepath.Join("data", "smith-family")},
		{"bare file", pipeline.Options{Source: "tree.json"}, "tree"},
		{"sqlite", pipeline.Options{SQLite: "/var/db/kin.db"}, "/var/db/kin"},
		{"mongo", pipeline.Options{MongoURI: "mongodb://x", Family: "Müller"}, "muller"},
		{"mongo without family", pipeline.Options{MongoURI: "mongodb://x"}, "family"},
		{"inline", pipeline.Options{Records: &recs}, "family"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.opts); got != tt.want {
				t.Errorf("outputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	opts := pipeline.Options{Source: "family.yaml"}
	tests := []struct {
		output string
		want   string
	}{
		{"", "family"},
		{"out/tree.svg", "out/tree"},
		{"out/tree.txt", "out/tree"},
		{"out/tree", "out/tree"},
		{"out/tree.v2", "out/tree.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, opts); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestLayoutBase(t *testing.T) {
	tests := map[string]string{
		"family.layout.json":     "family",
		"out/family.json":        "out/family",
		"family.layout":          "family",
		"dir.layout/family.json": "dir.layout/family",
	}
	for in, want := range tests {
		if got := layoutBase(in); got != want {
			t.Errorf("layoutBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := map[string][]byte{
		"svg": []byte("<svg/>"),
		"txt": []byte("tree"),
	}

	t.Run("stdout single format", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts, formats: []string{"txt"}, output: "-", stdout: &buf,
		})
		if err != nil {
			t.Fatal(err)
		}
		if buf.String() != "tree" {
			t.Errorf("stdout = %q", buf.String())
		}
	})

	t.Run("stdout rejects several formats", func(t *testing.T) {
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts, formats: []string{"svg", "txt"}, output: "-", stdout: &bytes.Buffer{},
		})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("base name per format", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "family")
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts, formats: []string{"svg", "txt"}, base: base,
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, ext := range []string{".svg", ".txt"} {
			if _, err := os.Stat(base + ext); err != nil {
				t.Errorf("missing %s: %v", ext, err)
			}
		}
	})

	t.Run("exact path for one format", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "drawing.out")
		err := writeArtifacts(artifactWriteParams{
			artifacts: artifacts, formats: []string{"svg"}, base: "ignored", output: out,
		})
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil || string(data) != "<svg/>" {
			t.Errorf("ReadFile = %q, %v", data, err)
		}
	})
}

func TestListenURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := listenURL(in); got != want {
			t.Errorf("listenURL(%q) = %q, want %q", in, got, want)
		}
	}
}
