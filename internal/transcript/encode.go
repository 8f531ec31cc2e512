package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/comalice/calcx"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown transcript format")

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Document is the encoded form of a session.
type Document struct {
	Name  string       `json:"name,omitempty" yaml:"name,omitempty"`
	Final string       `json:"final" yaml:"final"`
	Steps []calcx.Step `json:"steps" yaml:"steps"`
}

// NewDocument wraps steps; Final is the display after the last step, or "0".
func NewDocument(name string, steps []calcx.Step) Document {
	final := calcx.Initial().Display
	if len(steps) > 0 {
		final = steps[len(steps)-1].After.Display
	}
	return Document{Name: name, Final: final, Steps: steps}
}

func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("json decode: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("yaml decode: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc, nil
}

// Save writes doc to path on fs, choosing the format from the extension.
func Save(fs afero.Fs, path string, doc Document) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, doc, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func Load(fs afero.Fs, path string) (Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Document{}, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}
