// Package store provides Definition stores for the object model: an
// in-memory store, a YAML snapshot file and a SQLite database.
package store

import (
	"strings"

	"github.com/aidanlsb/nagmodel/internal/model"
)

// notInherited are never copied from templates.
var notInherited = map[string]bool{
	string(model.FieldName):     true,
	string(model.FieldRegister): true,
	string(model.FieldUse):      true,
}

// Flatten computes the inherited attributes of every definition from its
// use chain and rebuilds Attributes as inherited values overlaid with
// defined ones. Templates are looked up by name within the same type.
// The nearest template wins; among siblings the first listed wins.
// Cyclic use chains are cut where they loop back.
func Flatten(defs []*model.Definition) {
	byName := make(map[model.ObjectType]map[string]*model.Definition)
	for _, d := range defs {
		if d.Meta.Defined == nil {
			d.Meta.Defined = make(map[string]string)
		}
		name, ok := d.Meta.Defined[string(model.FieldName)]
		if !ok {
			continue
		}
		if byName[d.Meta.ObjectType] == nil {
			byName[d.Meta.ObjectType] = make(map[string]*model.Definition)
		}
		if _, exists := byName[d.Meta.ObjectType][name]; !exists {
			byName[d.Meta.ObjectType][name] = d
		}
	}

	for _, d := range defs {
		inherited := make(map[string]string)
		visiting := map[*model.Definition]bool{d: true}
		collectInherited(d, byName[d.Meta.ObjectType], inherited, visiting)
		d.Meta.Inherited = inherited

		attrs := make(map[string]string, len(inherited)+len(d.Meta.Defined))
		for k, v := range inherited {
			attrs[k] = v
		}
		for k, v := range d.Meta.Defined {
			attrs[k] = v
		}
		d.Attributes = attrs
	}
}

func collectInherited(d *model.Definition, templates map[string]*model.Definition, out map[string]string, visiting map[*model.Definition]bool) {
	use := d.Meta.Defined[string(model.FieldUse)]
	for _, name := range strings.Split(use, ",") {
		name = strings.TrimSpace(name)
		parent, ok := templates[name]
		if name == "" || !ok || visiting[parent] {
			continue
		}
		for k, v := range parent.Meta.Defined {
			if notInherited[k] {
				continue
			}
			if _, own := out[k]; own {
				continue
			}
			out[k] = v
		}
		visiting[parent] = true
		collectInherited(parent, templates, out, visiting)
		delete(visiting, parent)
	}
}
