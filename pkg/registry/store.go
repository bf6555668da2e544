// Package registry caches extracted metadata across pipeline runs so other
// tools can look types up by name.
//
// Runs may race to register the same name. The policy is last writer wins:
// every registration replaces the named entry as a whole, so readers see
// either the previous entry or the new one, never a mix.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-typegen/pkg/metadata"
)

// Entry is one registered descriptor. Exactly one of DataType and Model is
// set.
type Entry struct {
	DataType *metadata.DataType
	Model    *metadata.ModelMetadata
	// Source identifies the specification the entry was extracted from.
	Source string
	// Revision increases with every write to the store.
	Revision uint64
}

// IsModel reports whether the entry describes a composite model.
func (e Entry) IsModel() bool {
	return e.Model != nil
}

func (e Entry) clone() Entry {
	e.DataType = e.DataType.Clone()
	e.Model = e.Model.Clone()
	return e
}

// Store is a concurrency-safe map of type name to Entry.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	revision uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// PutDataType registers dt under its name, replacing any previous entry.
func (s *Store) PutDataType(dt *metadata.DataType, source string) error {
	if err := dt.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	s.put(dt.Name, Entry{DataType: dt.Clone(), Source: source})
	return nil
}

// PutModel registers model under its name, replacing any previous entry.
func (s *Store) PutModel(model *metadata.ModelMetadata, source string) error {
	if err := model.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	s.put(model.Name, Entry{Model: model.Clone(), Source: source})
	return nil
}

// RegisterInput registers every data type and model of input. Each entry is
// replaced independently.
func (s *Store) RegisterInput(input *metadata.GenerationInput, source string) error {
	if input == nil {
		return errors.New("registry: generation input is required")
	}
	var errs []error
	for _, dt := range input.DataTypes() {
		if err := s.PutDataType(dt, source); err != nil {
			errs = append(errs, err)
		}
	}
	for _, model := range input.Models() {
		if err := s.PutModel(model, source); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) put(name string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	entry.Revision = s.revision
	s.entries[name] = entry
}

// Get returns a copy of the entry registered under name.
func (s *Store) Get(name string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Delete removes name and reports whether it was present.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	return true
}

// Names returns the registered names sorted alphabetically.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot builds a GenerationInput from the current entries, data types
// and models each sorted by name. Models whose references are no longer
// registered are still included; GenerationInput.Validate reports them.
func (s *Store) Snapshot() (*metadata.GenerationInput, error) {
	s.mu.RLock()
	var (
		types  []*metadata.DataType
		models []*metadata.ModelMetadata
	)
	for _, entry := range s.entries {
		if entry.IsModel() {
			models = append(models, entry.Model.Clone())
			continue
		}
		types = append(types, entry.DataType.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return metadata.NewGenerationInput(types, models, nil)
}
