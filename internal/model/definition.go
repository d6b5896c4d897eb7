package model

// Definition is a raw parsed configuration entry as produced by a Store.
// The model treats it as a read-only snapshot until a save is requested.
type Definition struct {
	// Attributes holds every effective attribute of the entry.
	Attributes map[string]string `json:"attributes" yaml:"attributes"`

	Meta Meta `json:"meta" yaml:"meta"`
}

// Meta describes where a definition came from.
type Meta struct {
	ObjectType    ObjectType `json:"object_type" yaml:"object_type"`
	Filename      string     `json:"filename,omitempty" yaml:"filename,omitempty"`
	RawDefinition string     `json:"raw_definition,omitempty" yaml:"raw_definition,omitempty"`

	// Defined are the attributes written directly in this definition.
	Defined map[string]string `json:"defined_attributes" yaml:"defined_attributes"`

	// Inherited are single-valued attributes flattened from templates via use.
	Inherited map[string]string `json:"inherited_attributes" yaml:"inherited_attributes"`

	// Key is an opaque handle assigned by the store.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Resource is a name/value pair from the resource file, e.g. $USER1$.
type Resource struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Store is the configuration-parsing collaborator the model is built on.
type Store interface {
	// ListDefinitions returns the definitions of one type, or of every
	// type when t is empty.
	ListDefinitions(t ObjectType) ([]*Definition, error)

	// NewDefinition returns an empty definition registered with the store.
	NewDefinition(t ObjectType, filename string) (*Definition, error)

	// EditField persists one field. It returns false when the store
	// rejected the edit without failing outright.
	EditField(def *Definition, field, value string) (bool, error)

	// RewriteDefinition replaces the definition's source text.
	RewriteDefinition(def *Definition, text string) error

	// RemoveDefinition deletes the definition from its source.
	RemoveDefinition(def *Definition) (bool, error)

	// ResourceValues returns the resource table used for $USERn$ macros.
	ResourceValues() ([]Resource, error)
}

func (d *Definition) ensureMaps() {
	if d.Attributes == nil {
		d.Attributes = make(map[string]string)
	}
	if d.Meta.Defined == nil {
		d.Meta.Defined = make(map[string]string)
	}
	if d.Meta.Inherited == nil {
		d.Meta.Inherited = make(map[string]string)
	}
}

// Clone returns a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	c := &Definition{Meta: d.Meta}
	c.Attributes = cloneMap(d.Attributes)
	c.Meta.Defined = cloneMap(d.Meta.Defined)
	c.Meta.Inherited = cloneMap(d.Meta.Inherited)
	return c
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
