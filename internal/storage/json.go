// Package storage provides the JSON file persistence collaborator the stores
// are built on: load-on-start, save-on-mutate, and never a fatal error for
// unreadable state.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// File loads and saves a single JSON document at a fixed path.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Load decodes the document into v. A missing file leaves v untouched. A
// file that fails to parse is renamed aside to <path>.bak so an operator can
// inspect it later, and v is left at its defaults; neither case is an error.
func (f *File) Load(v any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	// Decode into a fresh value first: a type error partway through the
	// document would otherwise leave the fields that decoded before it
	// behind in v, and "continuing with defaults" must mean all defaults.
	fresh := reflect.New(reflect.TypeOf(v).Elem())
	fresh.Elem().Set(reflect.ValueOf(v).Elem()) // fields absent from the file keep their defaults
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		backup := f.path + ".bak"
		if renameErr := os.Rename(f.path, backup); renameErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not move corrupt file %s aside: %v\n", f.path, renameErr)
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s is corrupt (%v); moved to %s, continuing with defaults\n", f.path, err, backup)
		}
		return nil
	}
	reflect.ValueOf(v).Elem().Set(fresh.Elem())
	return nil
}

// Save writes v as indented JSON, creating parent directories as needed.
func (f *File) Save(v any) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, buf, 0o644)
}
