package graphspec

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a graph file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// ErrUnknownFormat is returned for file extensions other than
// .yaml, .yml, .json and .cue.
var ErrUnknownFormat = errors.New("unknown graph file format")

// FormatFor derives the format from a file extension.
// JSON is decoded by the YAML decoder.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a graph file, dispatching on its extension.
func Load(path string) (*Graph, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	g, err := parse(data, format, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

// Parse decodes a graph from bytes in the given format.
func Parse(data []byte, format Format) (*Graph, error) {
	return parse(data, format, "graph."+string(format))
}

func parse(data []byte, format Format, filename string) (*Graph, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatCUE:
		return parseCUE(data, filename)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseYAML(data []byte) (*Graph, error) {
	var g Graph
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &g, nil
}

// parseCUE evaluates a single CUE file. The graph is read from a top-level
// "graph" field when present, otherwise from the file root.
func parseCUE(data []byte, filename string) (*Graph, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling CUE: %s", cueerrors.Details(err, nil))
	}

	if nested := v.LookupPath(cue.ParsePath("graph")); nested.Exists() {
		v = nested
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating CUE: %s", cueerrors.Details(err, nil))
	}

	var g Graph
	if err := v.Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding CUE: %w", err)
	}
	return &g, nil
}
