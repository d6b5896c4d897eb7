package model

import (
	"fmt"
	"time"

	"github.com/aidanlsb/nagmodel/internal/query"
)

// Registry materializes objects from a Store and caches them per type for
// its lifetime. A Registry is not safe for concurrent use.
type Registry struct {
	store     Store
	observers []Observer
	now       func() time.Time

	cache     map[ObjectType][]*Object
	resources []Resource
	loadedRes bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver registers an observer for model events.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry backed by store.
func NewRegistry(store Store, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
		cache: make(map[ObjectType][]*Object),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the backing store.
func (r *Registry) Store() Store { return r.store }

// Objects returns the collection of one object type. An empty type
// addresses every type.
func (r *Registry) Objects(t ObjectType) *Collection {
	return &Collection{registry: r, typ: t}
}

// Reload drops every cached object so the next access re-materializes
// from the store.
func (r *Registry) Reload() {
	r.cache = make(map[ObjectType][]*Object)
	r.resources = nil
	r.loadedRes = false
}

// Close drops all observers.
func (r *Registry) Close() {
	r.observers = nil
}

// New creates an object backed by a fresh definition from the store and
// adds it to the type's collection.
func (r *Registry) New(t ObjectType, filename string) (*Object, error) {
	// Load before creating so the new definition is not materialized twice.
	objs, err := r.load(t)
	if err != nil {
		return nil, err
	}
	def, err := r.store.NewDefinition(t, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s definition: %w", t, err)
	}
	if def.Meta.ObjectType == "" {
		def.Meta.ObjectType = t
	}
	obj := newObject(r, def)
	r.cache[t] = append(objs, obj)
	return obj, nil
}

// Resources returns the resource table, loading it on first use.
func (r *Registry) Resources() ([]Resource, error) {
	if r.loadedRes {
		return r.resources, nil
	}
	res, err := r.store.ResourceValues()
	if err != nil {
		return nil, fmt.Errorf("failed to load resource values: %w", err)
	}
	r.resources = res
	r.loadedRes = true
	return res, nil
}

func (r *Registry) load(t ObjectType) ([]*Object, error) {
	if objs, ok := r.cache[t]; ok {
		return objs, nil
	}
	defs, err := r.store.ListDefinitions(t)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s definitions: %w", t, err)
	}
	objs := make([]*Object, 0, len(defs))
	for _, def := range defs {
		if def.Meta.ObjectType == "" {
			def.Meta.ObjectType = t
		}
		objs = append(objs, newObject(r, def))
	}
	r.cache[t] = objs
	return objs, nil
}

func (r *Registry) forget(obj *Object) {
	objs := r.cache[obj.Type()]
	for i, o := range objs {
		if o == obj {
			r.cache[obj.Type()] = append(objs[:i:i], objs[i+1:]...)
			return
		}
	}
}

func (r *Registry) emit(e Event) {
	if len(r.observers) == 0 {
		return
	}
	e.Time = r.now()
	for _, o := range r.observers {
		o.Notify(e)
	}
}

// Collection is a typed view over a registry.
type Collection struct {
	registry *Registry
	typ      ObjectType
}

// Type returns the collection's object type; empty for every type.
func (c *Collection) Type() ObjectType { return c.typ }

// All returns every object in the collection.
func (c *Collection) All() ([]*Object, error) {
	if c.typ != "" {
		return c.registry.load(c.typ)
	}
	var all []*Object
	for _, t := range AllTypes {
		objs, err := c.registry.load(t)
		if err != nil {
			return nil, err
		}
		all = append(all, objs...)
	}
	return all, nil
}

// GetByID returns the object with the given identity.
func (c *Collection) GetByID(id string) (*Object, error) {
	objs, err := c.All()
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if o.ID() == id {
			return o, nil
		}
	}
	return nil, &NotFoundError{Type: c.typ, Key: string(FieldID), Value: id}
}

// GetByShortname returns the object whose shortname equals name. For
// services the shortname is "host_name/service_description".
func (c *Collection) GetByShortname(name string) (*Object, error) {
	objs, err := c.All()
	if err != nil {
		return nil, err
	}
	for _, o := range objs {
		if desc, ok := o.kind.describe(o); ok && desc == name {
			return o, nil
		}
	}
	key := "shortname"
	if c.typ != "" {
		key = string(c.typ.ShortnameField())
	}
	return nil, &NotFoundError{Type: c.typ, Key: key, Value: name}
}

// Filter returns the objects matching every predicate.
func (c *Collection) Filter(preds ...query.Predicate) ([]*Object, error) {
	objs, err := c.All()
	if err != nil {
		return nil, err
	}
	return query.Filter(objs, preds...), nil
}

// Where is shorthand for Filter with alternating field/value arguments.
func (c *Collection) Where(fieldsAndValues ...interface{}) ([]*Object, error) {
	if len(fieldsAndValues)%2 != 0 {
		return nil, fmt.Errorf("odd number of filter arguments")
	}
	preds := make([]query.Predicate, 0, len(fieldsAndValues)/2)
	for i := 0; i < len(fieldsAndValues); i += 2 {
		var field string
		switch f := fieldsAndValues[i].(type) {
		case string:
			field = f
		case Field:
			field = string(f)
		default:
			return nil, fmt.Errorf("filter argument %d is not a field name", i)
		}
		preds = append(preds, query.Where(field, fieldsAndValues[i+1]))
	}
	return c.Filter(preds...)
}
