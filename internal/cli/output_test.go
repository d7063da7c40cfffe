package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/arcisi/pkg/errors"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "recipes/office.toml", "recipes/office"},
		{"", "office", "office"},
		{"out/plan.svg", "office.toml", "out/plan"},
		{"out/links.graph.svg", "office.toml", "out/links"},
		{"out/model", "office.toml", "out/model"},
		{"out/model.v2", "office.toml", "out/model.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRequestedFormats(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    []string
		wantErr bool
	}{
		{"empty uses fallback", "", []string{"scad"}, false},
		{"list", "svg, json", []string{"svg", "json"}, false},
		{"duplicates dropped", "svg,svg", []string{"svg"}, false},
		{"unknown", "gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := requestedFormats(tt.flag, "scad")
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "office.toml")
	artifacts := map[string][]byte{
		"scad":  []byte("cube([1, 1, 1]);\n"),
		"graph": []byte("<svg/>"),
	}

	paths, err := writeArtifacts(artifacts, []string{"scad", "graph"}, input, "")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "office.scad"), filepath.Join(dir, "office.graph.svg")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "cube([1, 1, 1]);\n" {
		t.Errorf("office.scad = %q, %v", data, err)
	}
}

func TestWriteArtifactsErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("stdout needs one format", func(t *testing.T) {
		_, err := writeArtifacts(map[string][]byte{}, []string{"scad", "svg"}, "x.toml", stdoutPath)
		if !errors.Is(err, errors.ErrCodeInvalidRequest) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, err := writeArtifacts(map[string][]byte{}, []string{"svg"}, filepath.Join(dir, "x.toml"), "")
		if !errors.Is(err, errors.ErrCodeInternal) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("would overwrite input", func(t *testing.T) {
		input := filepath.Join(dir, "plan.json")
		_, err := writeArtifacts(map[string][]byte{"json": []byte("{}")}, []string{"json"}, input, "")
		if !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("error = %v", err)
		}
	})
}
