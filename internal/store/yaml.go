package store

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/nagmodel/internal/atomicfile"
	"github.com/aidanlsb/nagmodel/internal/model"
)

// Snapshot is the on-disk YAML form of a definition set.
type Snapshot struct {
	Resources   []model.Resource `yaml:"resources,omitempty"`
	Definitions []SnapshotEntry  `yaml:"definitions"`
}

// SnapshotEntry is one definition with only its directly defined
// attributes; inheritance is recomputed on load.
type SnapshotEntry struct {
	Type       model.ObjectType  `yaml:"type"`
	File       string            `yaml:"file,omitempty"`
	Raw        string            `yaml:"raw,omitempty"`
	Attributes map[string]string `yaml:"attributes"`
}

// ReadSnapshot decodes a snapshot and validates its object types.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	for i, e := range snap.Definitions {
		if _, err := model.ParseObjectType(string(e.Type)); err != nil {
			return nil, fmt.Errorf("definition %d: %w", i+1, err)
		}
	}
	return &snap, nil
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	snap, err := ReadSnapshot(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Records converts the snapshot entries to definition records.
func (s *Snapshot) Records() []*model.Definition {
	defs := make([]*model.Definition, 0, len(s.Definitions))
	for _, e := range s.Definitions {
		defined := cloneStrings(e.Attributes)
		defs = append(defs, &model.Definition{
			Attributes: cloneStrings(defined),
			Meta: model.Meta{
				ObjectType:    e.Type,
				Filename:      e.File,
				RawDefinition: e.Raw,
				Defined:       defined,
				Inherited:     make(map[string]string),
			},
		})
	}
	return defs
}

// NewSnapshot builds a snapshot from definition records.
func NewSnapshot(defs []*model.Definition, resources []model.Resource) *Snapshot {
	snap := &Snapshot{Resources: append([]model.Resource(nil), resources...)}
	for _, d := range defs {
		snap.Definitions = append(snap.Definitions, SnapshotEntry{
			Type:       d.Meta.ObjectType,
			File:       d.Meta.Filename,
			Raw:        d.Meta.RawDefinition,
			Attributes: cloneStrings(d.Meta.Defined),
		})
	}
	return snap
}

// WriteTo encodes the snapshot as YAML.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.WriteTo(w)
}

// YAML is a store backed by a YAML snapshot file. Every successful
// mutation rewrites the file.
type YAML struct {
	*Memory
	path string
}

// OpenYAML loads the snapshot at path.
func OpenYAML(path string) (*YAML, error) {
	snap, err := LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	y := &YAML{Memory: NewMemory(snap.Records(), snap.Resources), path: path}
	y.Memory.onChange = y.flush
	return y, nil
}

// Path returns the snapshot file path.
func (y *YAML) Path() string { return y.path }

// flush runs with the memory store's lock held.
func (y *YAML) flush() error {
	snap := NewSnapshot(y.Memory.defs, y.Memory.resources)
	return atomicfile.Write(y.path, 0, func(w io.Writer) error {
		_, err := snap.WriteTo(w)
		return err
	})
}

var _ model.Store = (*YAML)(nil)
