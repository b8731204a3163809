// Package demo ships a small catalog of public domain books so the
// application is browsable before anything has been imported.
package demo

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/catalog"
)

const sampleCatalogPath = "assets/catalog.json"

//go:embed assets
var embeddedAssets embed.FS

// SampleDataset decodes the embedded sample catalog.
func SampleDataset() (*catalog.Dataset, error) {
	data, err := embeddedAssets.ReadFile(sampleCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	ds, err := catalog.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	return ds, nil
}

// SampleCatalog returns the embedded sample as a ready catalog.
func SampleCatalog() (*catalog.Catalog, error) {
	ds, err := SampleDataset()
	if err != nil {
		return nil, err
	}
	return ds.Catalog()
}

// HasEmbeddedAssets returns true if the sample catalog is compiled in.
func HasEmbeddedAssets() bool {
	_, err := embeddedAssets.ReadFile(sampleCatalogPath)
	return err == nil
}
