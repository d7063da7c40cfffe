package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/render"
)

// stdoutPath makes single-format commands write to standard output.
const stdoutPath = "-"

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput creates path, or returns stdout for stdoutPath.
func openOutput(path string) (io.WriteCloser, error) {
	if path == stdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// basePath derives the output path stem. Without an explicit output the
// input's extension is dropped; an output ending in a known format
// extension loses that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest match first so "x.graph.svg" loses ".graph.svg", not ".svg"
	stem := output
	for _, f := range render.Formats {
		if ext := "." + render.Extension(f); strings.HasSuffix(output, ext) && len(output)-len(ext) < len(stem) {
			stem = strings.TrimSuffix(output, ext)
		}
	}
	return stem
}

// artifactPath returns the file an artifact of format is written to.
func artifactPath(base, format string) string {
	return base + "." + render.Extension(format)
}

// writeArtifacts writes each requested format next to base and returns the
// written paths in request order. output "-" streams a single artifact to
// stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == stdoutPath {
		if len(formats) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidRequest, "stdout output needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "no %s artifact was rendered", format)
		}
		path := artifactPath(base, format)
		if filepath.Clean(path) == filepath.Clean(input) {
			return paths, errors.New(errors.ErrCodeInvalidPath, "%s output would overwrite %s; pass -o", format, input)
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// requestedFormats parses a --format flag, defaulting to fallback.
func requestedFormats(flag string, fallback string) ([]string, error) {
	formats, err := render.ParseFormats(flag)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []string{fallback}
	}
	return slices.Clip(formats), nil
}
