package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/pkg/errors"
)

// FamilyStore defines an interface for storing family data
type FamilyStore interface {
	// StoreFamily persists people and relationship records
	StoreFamily(ctx context.Context, family *graph.FamilyData) error

	// LoadFamily loads family data from storage
	LoadFamily(ctx context.Context) (*graph.FamilyData, error)

	Close() error
}

// JSONFamilyStore implements FamilyStore using a JSON file. Loading goes
// through the heterogeneous decoder, so hand-written files in any of the
// supported record conventions can be read.
type JSONFamilyStore struct {
	filePath string
}

// NewJSONFamilyStore creates a new JSON family store
func NewJSONFamilyStore(filePath string) *JSONFamilyStore {
	return &JSONFamilyStore{
		filePath: filePath,
	}
}

// StoreFamily stores the family as normalized JSON
func (s *JSONFamilyStore) StoreFamily(ctx context.Context, family *graph.FamilyData) error {
	if family == nil {
		return errors.New("cannot store nil family")
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	data, err := json.MarshalIndent(family, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode family")
	}

	return errors.Wrapf(os.WriteFile(s.filePath, data, 0644), "write %s", s.filePath)
}

// LoadFamily loads a family from a JSON file
func (s *JSONFamilyStore) LoadFamily(ctx context.Context) (*graph.FamilyData, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.filePath)
	}

	family, err := graph.DecodeFamily(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.filePath)
	}
	return family, nil
}

func (s *JSONFamilyStore) Close() error {
	return nil
}
