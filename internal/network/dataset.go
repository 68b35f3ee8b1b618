package network

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed network.yaml
var embeddedDataset []byte

// Dataset is the on-disk form of the network: ordered lines plus per-station floor layouts.
type Dataset struct {
	Lines  []LineSpec          `yaml:"lines"`
	Floors map[string][]string `yaml:"floors"`
}

type LineSpec struct {
	ID               LineID        `yaml:"id"`
	Name             string        `yaml:"name"`
	Color            string        `yaml:"color"`
	BorderColor      string        `yaml:"border_color"`
	TransferElevator string        `yaml:"transfer_elevator"`
	Stations         []StationSpec `yaml:"stations"`
}

type StationSpec struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	// Coordinates are [longitude, latitude].
	Coordinates [2]float64 `yaml:"coordinates"`
	Platforms   []int      `yaml:"platforms,omitempty"`
}

// ParseDataset decodes a YAML dataset.
func ParseDataset(b []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(b, &ds); err != nil {
		return Dataset{}, fmt.Errorf("error parsing network dataset: %w", err)
	}
	floors := make(map[string][]string, len(ds.Floors))
	for code, f := range ds.Floors {
		floors[NormalizeCode(code)] = f
	}
	ds.Floors = floors
	return ds, nil
}

// DefaultDataset returns the built-in Namma Metro dataset.
func DefaultDataset() (Dataset, error) {
	return ParseDataset(embeddedDataset)
}

// Default builds the catalog from the built-in dataset.
func Default() (*Catalog, error) {
	ds, err := DefaultDataset()
	if err != nil {
		return nil, err
	}
	return New(ds)
}

// ReadDatasetFile reads a YAML dataset from disk.
func ReadDatasetFile(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("error reading network dataset %s: %w", path, err)
	}
	return ParseDataset(b)
}

// LoadFile builds a catalog from a YAML file, or from the built-in dataset when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	ds, err := ReadDatasetFile(path)
	if err != nil {
		return nil, err
	}
	return New(ds)
}
