package model

import (
	"fmt"
	"sort"
	"strings"

	farm "github.com/dgryski/go-farm"
)

// Object is one materialized configuration definition.
//
// Attribute lookups consult, in order: pending edits, directly defined
// attributes, inherited attributes and finally metadata.
type Object struct {
	registry *Registry
	kind     kind
	def      *Definition

	changes   map[string]string
	defined   map[string]string
	inherited map[string]string

	// argMacros caches resolved $ARGn$ values; nil until first use.
	argMacros map[string]string
}

func newObject(r *Registry, def *Definition) *Object {
	def.ensureMaps()
	return &Object{
		registry:  r,
		kind:      kindFor(def.Meta.ObjectType),
		def:       def,
		changes:   make(map[string]string),
		defined:   def.Meta.Defined,
		inherited: def.Meta.Inherited,
	}
}

// Type returns the object's type.
func (o *Object) Type() ObjectType { return o.kind.objectType() }

// Registry returns the registry that materialized the object.
func (o *Object) Registry() *Registry { return o.registry }

// Definition returns the backing definition record.
func (o *Object) Definition() *Definition { return o.def }

// Meta returns the object's metadata.
func (o *Object) Meta() Meta { return o.def.Meta }

// Get returns the value of an attribute.
func (o *Object) Get(key string) (string, bool) {
	switch Field(key) {
	case FieldID:
		return o.ID(), true
	case FieldDescription:
		return o.kind.describe(o)
	case FieldMeta:
		return "", true
	case FieldRegister:
		_, pending := o.changes[key]
		_, defined := o.defined[key]
		if !pending && !defined {
			return "1", true
		}
	}
	if v, ok := o.changes[key]; ok {
		return v, true
	}
	if v, ok := o.defined[key]; ok {
		return v, true
	}
	if v, ok := o.inherited[key]; ok {
		return v, true
	}
	return o.metaValue(key)
}

// Value returns a field's value, or "" when absent.
func (o *Object) Value(f Field) string {
	v, _ := o.Get(string(f))
	return v
}

// Set records a pending edit. Nothing is persisted until Save.
func (o *Object) Set(key, value string) {
	old := o.Value(Field(key))
	o.changes[key] = value
	if Field(key) == FieldCheckCommand {
		o.argMacros = nil
	}
	o.event(Event{
		Level:   EventDebug,
		Op:      OpSet,
		Message: fmt.Sprintf("attribute changed: %s = %s", key, value),
		Field:   key,
		Old:     old,
		New:     value,
	})
}

// Has reports whether the object carries the key in any attribute layer
// or in its metadata. Computed keys (id, description) are not reported.
func (o *Object) Has(key string) bool {
	if key == string(FieldMeta) {
		return true
	}
	if _, ok := o.changes[key]; ok {
		return true
	}
	if _, ok := o.defined[key]; ok {
		return true
	}
	if _, ok := o.inherited[key]; ok {
		return true
	}
	_, ok := o.metaValue(key)
	return ok
}

// Keys returns the union of pending, defined and inherited attribute
// names, preceded by the "meta" marker.
func (o *Object) Keys() []string {
	keys := []string{string(FieldMeta)}
	seen := map[string]struct{}{string(FieldMeta): {}}
	for _, layer := range []map[string]string{o.changes, o.defined, o.inherited} {
		for _, k := range sortedKeys(layer) {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// IsDirty reports whether the object has unsaved edits.
func (o *Object) IsDirty() bool { return len(o.changes) > 0 }

// Changes returns a copy of the pending edits.
func (o *Object) Changes() map[string]string { return cloneMap(o.changes) }

// ID returns a stable identifier derived from the object's type,
// description, name and filename.
func (o *Object) ID() string {
	desc, _ := o.kind.describe(o)
	key := fmt.Sprintf("%s-%s-%s-%s", o.Type(), desc, o.Value(FieldName), o.def.Meta.Filename)
	hi, lo := farm.Fingerprint128([]byte(key))
	return fmt.Sprintf("%016x%016x", hi, lo)
}

// Description returns a friendly description, e.g. "web01/PING" for a
// service.
func (o *Object) Description() string {
	desc, _ := o.kind.describe(o)
	return desc
}

// Shortname returns the name used for lookups within the object's type.
func (o *Object) Shortname() string { return o.Description() }

// AttributeTuple is an attribute with its defined and inherited values.
type AttributeTuple struct {
	Name      string
	Defined   *string
	Inherited *string
}

// AttributeTuples returns every key with the value written on the object
// and the value inherited from templates, each nil when missing.
func (o *Object) AttributeTuples() []AttributeTuple {
	keys := o.Keys()
	out := make([]AttributeTuple, 0, len(keys))
	for _, k := range keys {
		t := AttributeTuple{Name: k}
		if v, ok := o.defined[k]; ok {
			t.Defined = &v
		}
		if v, ok := o.inherited[k]; ok {
			t.Inherited = &v
		}
		out = append(out, t)
	}
	return out
}

// leadingFields are printed first, in this order, by String.
var leadingFields = []string{"host_name", "name", "use", "service_description"}

// String renders the object as a definition block.
func (o *Object) String() string {
	var rest []string
	present := make(map[string]bool)
	for _, k := range o.Keys() {
		if k == string(FieldMeta) || o.isMetaKey(k) {
			continue
		}
		present[k] = true
		rest = append(rest, k)
	}
	sort.Strings(rest)

	fields := make([]string, 0, len(rest))
	for _, k := range leadingFields {
		if present[k] {
			fields = append(fields, k)
		}
	}
	for _, k := range rest {
		if !contains(leadingFields, k) {
			fields = append(fields, k)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "define %s {\n", o.Type())
	for _, k := range fields {
		fmt.Fprintf(&sb, "  %-30s %s\n", k, o.Value(Field(k)))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// GoString returns "<type>: <shortname>".
func (o *Object) GoString() string {
	return fmt.Sprintf("%s: %s", o.Type(), o.Shortname())
}

func (o *Object) metaValue(key string) (string, bool) {
	switch Field(key) {
	case FieldObjectType:
		return string(o.def.Meta.ObjectType), true
	case FieldFilename:
		if o.def.Meta.Filename == "" {
			return "", false
		}
		return o.def.Meta.Filename, true
	case FieldRawDefinition:
		if o.def.Meta.RawDefinition == "" {
			return "", false
		}
		return o.def.Meta.RawDefinition, true
	}
	return "", false
}

func (o *Object) isMetaKey(key string) bool {
	for _, f := range metaFields {
		if string(f) == key {
			return true
		}
	}
	return false
}

func (o *Object) event(e Event) {
	if o.registry == nil {
		return
	}
	e.Object = o
	o.registry.emit(e)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
