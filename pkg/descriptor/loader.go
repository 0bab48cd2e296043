package descriptor

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Store keeps descriptors loaded from declarative documents, keyed by form
// id. It is safe for concurrent readers when treated as immutable after
// construction.
type Store struct {
	descriptors map[string]*Descriptor
}

// LoadFS walks the provided filesystem and parses JSON/YAML descriptor
// documents. When fsys is nil or no documents are present, the returned
// store is empty. Loaded descriptors are sanitised on the way in.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{descriptors: make(map[string]*Descriptor)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDescriptorFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("descriptor: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, desc := range doc.Descriptors {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("descriptor: file %s defines an empty form id", path)
			}
			if _, exists := store.descriptors[id]; exists {
				return fmt.Errorf("descriptor: duplicate form %q (file %s)", id, path)
			}
			store.descriptors[id] = desc.Sanitized()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Descriptor returns the descriptor registered for the supplied form id.
func (s *Store) Descriptor(id string) (*Descriptor, bool) {
	if s == nil {
		return nil, false
	}
	desc, ok := s.descriptors[id]
	return desc, ok
}

// Empty reports whether the store holds any descriptors.
func (s *Store) Empty() bool {
	return s == nil || len(s.descriptors) == 0
}

type documentFile struct {
	Descriptors map[string]*Descriptor `json:"descriptors" yaml:"descriptors"`
}

func parseDocument(data []byte, path string) (documentFile, error) {
	var doc documentFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("descriptor: parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("descriptor: parse %s: %w", path, err)
		}
	}
	return doc, nil
}

func isDescriptorFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
