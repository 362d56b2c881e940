package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON-backed storage. One document per file, always read and written whole.
// Writes go through a temp file and rename so a crash never leaves a
// truncated document behind.

// ErrCorrupt marks a document that exists but cannot be decoded or fails
// validation.
var ErrCorrupt = errors.New("corrupt document")

type options struct {
	schema *jsonschema.Schema
}

// Option tunes Load.
type Option func(*options)

// WithSchema validates the raw document against s before decoding it.
func WithSchema(s *jsonschema.Schema) Option {
	return func(o *options) { o.schema = s }
}

// Load decodes the document at path into v. It reports false with no error
// when nothing is stored at path.
func Load(path string, v any, opts ...Option) (bool, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read file: %w", err)
	}

	if o.schema != nil {
		var raw any
		if err := json.Unmarshal(b, &raw); err != nil {
			return false, fmt.Errorf("%w: json unmarshal: %w", ErrCorrupt, err)
		}
		if err := o.schema.Validate(raw); err != nil {
			return false, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("%w: json unmarshal: %w", ErrCorrupt, err)
	}
	return true, nil
}

// Save replaces the document at path with v.
func Save(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	if err := writeFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
