package store

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/aidanlsb/nagmodel/internal/model"
)

// Memory is an in-memory definition store. Definitions handed out by
// ListDefinitions are copies; edits go through EditField.
type Memory struct {
	mu        sync.Mutex
	defs      []*model.Definition
	resources []model.Resource
	nextKey   int
	readOnly  map[string]bool

	// onChange runs after every successful mutation, with mu held.
	onChange func() error
}

// NewMemory creates a store holding defs. Defined attributes are taken
// from Meta.Defined, or from Attributes when no defined set is given;
// inherited attributes are recomputed.
func NewMemory(defs []*model.Definition, resources []model.Resource) *Memory {
	m := &Memory{resources: append([]model.Resource(nil), resources...)}
	for _, d := range defs {
		c := d.Clone()
		if len(c.Meta.Defined) == 0 && len(c.Attributes) > 0 {
			c.Meta.Defined = cloneStrings(c.Attributes)
		}
		m.nextKey++
		c.Meta.Key = strconv.Itoa(m.nextKey)
		m.defs = append(m.defs, c)
	}
	Flatten(m.defs)
	return m
}

// SetReadOnly makes EditField reject the named fields.
func (m *Memory) SetReadOnly(fields ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly == nil {
		m.readOnly = make(map[string]bool)
	}
	for _, f := range fields {
		m.readOnly[f] = true
	}
}

// ListDefinitions implements model.Store.
func (m *Memory) ListDefinitions(t model.ObjectType) ([]*model.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Definition
	for _, d := range m.defs {
		if t == "" || d.Meta.ObjectType == t {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// NewDefinition implements model.Store.
func (m *Memory) NewDefinition(t model.ObjectType, filename string) (*model.Definition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextKey++
	d := &model.Definition{
		Attributes: make(map[string]string),
		Meta: model.Meta{
			ObjectType: t,
			Filename:   filename,
			Defined:    make(map[string]string),
			Inherited:  make(map[string]string),
			Key:        strconv.Itoa(m.nextKey),
		},
	}
	m.defs = append(m.defs, d)
	if err := m.changed(); err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// EditField implements model.Store.
func (m *Memory) EditField(def *model.Definition, field, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly[field] {
		return false, nil
	}
	stored, err := m.lookup(def)
	if err != nil {
		return false, err
	}
	stored.Meta.Defined[field] = value
	Flatten(m.defs)
	if err := m.changed(); err != nil {
		return false, err
	}
	return true, nil
}

// RewriteDefinition implements model.Store.
func (m *Memory) RewriteDefinition(def *model.Definition, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.lookup(def)
	if err != nil {
		return err
	}
	stored.Meta.RawDefinition = text
	return m.changed()
}

// RemoveDefinition implements model.Store.
func (m *Memory) RemoveDefinition(def *model.Definition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.defs {
		if d.Meta.Key == def.Meta.Key {
			m.defs = append(m.defs[:i:i], m.defs[i+1:]...)
			Flatten(m.defs)
			if err := m.changed(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// ResourceValues implements model.Store.
func (m *Memory) ResourceValues() ([]model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Resource(nil), m.resources...), nil
}

func (m *Memory) lookup(def *model.Definition) (*model.Definition, error) {
	for _, d := range m.defs {
		if d.Meta.Key == def.Meta.Key {
			return d, nil
		}
	}
	return nil, fmt.Errorf("definition %q (%s) is not in the store", def.Meta.Key, def.Meta.ObjectType)
}

func (m *Memory) changed() error {
	if m.onChange == nil {
		return nil
	}
	return m.onChange()
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var _ model.Store = (*Memory)(nil)
