package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// fileCatalog is the on-disk layout of a catalog file.
type fileCatalog struct {
	Products []Product `json:"products" yaml:"products"`
}

// LoadFile reads products from a YAML (.yaml/.yml) or JSON (.json) file.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified catalog path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc fileCatalog
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (supported: .yaml, .yml, .json)", ext)
	}

	for i, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog %s: product %d has no id", path, i)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("catalog %s: product %s has negative price", path, p.ID)
		}
	}

	return doc.Products, nil
}

// File is a Provider backed by a catalog file. The file is read on first use.
type File struct {
	path string

	once     sync.Once
	products []Product
	err      error
}

// NewFile returns a provider for the catalog at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Products implements Provider.
func (f *File) Products(_ context.Context, criteria Criteria) ([]Product, error) {
	f.once.Do(func() {
		f.products, f.err = LoadFile(f.path)
	})
	if f.err != nil {
		return nil, f.err
	}
	return Filter(f.products, criteria), nil
}
