/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package catalog

import (
	"context"
	"strings"
	"sync"

	_ "embed"

	"gopkg.in/yaml.v3"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
	"github.com/NVIDIA/playfit/pkg/serializer"
	"github.com/NVIDIA/playfit/pkg/validation"
)

var (
	//go:embed data/catalog-v1.yaml
	catalogData []byte

	catalogOnce   sync.Once
	cachedCatalog *Catalog
	cachedErr     error
)

// Load returns the catalog embedded in the binary. It is parsed and
// validated once and shared for the lifetime of the process.
func Load(_ context.Context) (*Catalog, error) {
	catalogOnce.Do(func() {
		var doc Document
		if err := yaml.Unmarshal(catalogData, &doc); err != nil {
			cachedErr = pferrors.Wrap(pferrors.ErrCodeDataFormat, "failed to parse embedded catalog", err)
			return
		}
		cachedCatalog, cachedErr = New(doc.Titles)
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedCatalog == nil {
		return nil, pferrors.New(pferrors.ErrCodeInternal, "catalog not initialized")
	}
	return cachedCatalog, nil
}

// LoadFile reads a catalog document (YAML or JSON, by extension) from path.
// A document that declares a kind other than Catalog is rejected.
func LoadFile(path string) (*Catalog, error) {
	var doc Document
	if err := serializer.ReadFile(path, &doc); err != nil {
		return nil, pferrors.WrapWithContext(pferrors.ErrCodeDataFormat, "failed to read catalog file", err,
			map[string]any{"path": path})
	}
	if doc.Kind != "" && doc.Kind != Kind {
		return nil, pferrors.NewWithContext(pferrors.ErrCodeDataFormat, "file is not a catalog",
			map[string]any{"path": path, "kind": doc.Kind, "want": Kind})
	}
	return New(doc.Titles)
}

// New builds a catalog from titles after validating every entry and
// checking that names are unique, ignoring case.
func New(titles []Title) (*Catalog, error) {
	doc := Document{Titles: titles}
	if err := validation.Struct(doc, pferrors.ErrCodeDataFormat, "invalid catalog"); err != nil {
		return nil, err
	}

	c := &Catalog{
		titles: make([]Title, len(titles)),
		index:  make(map[string]int, len(titles)),
	}
	copy(c.titles, titles)

	for i, t := range c.titles {
		key := strings.ToLower(t.Name)
		if prev, dup := c.index[key]; dup {
			return nil, pferrors.NewWithContext(pferrors.ErrCodeDataFormat, "duplicate catalog title",
				map[string]any{"title": t.Name, "first": prev, "second": i})
		}
		c.index[key] = i
	}

	return c, nil
}
