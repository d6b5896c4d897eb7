package model

import (
	"fmt"
)

// Save persists every pending edit through the store and returns how many
// were applied. Edits the store rejects stay pending, so a result lower
// than the number of edits means some fields were not saved. Store errors
// stop the save and are returned as-is.
func (o *Object) Save() (int, error) {
	applied := 0
	for _, field := range sortedKeys(o.changes) {
		value := o.changes[field]
		ok, err := o.registry.store.EditField(o.def, field, value)
		if err != nil {
			return applied, fmt.Errorf("failed to save %s on %s: %w", field, o.GoString(), err)
		}
		if !ok {
			continue
		}
		old := o.def.Attributes[field]
		o.event(Event{
			Level:   EventWrite,
			Op:      OpSave,
			Message: fmt.Sprintf("%s changed from '%s' to '%s'", field, old, value),
			Field:   field,
			Old:     old,
			New:     value,
		})
		o.defined[field] = value
		o.def.Attributes[field] = value
		delete(o.changes, field)
		applied++
	}
	return applied, nil
}

// Rewrite replaces the object's source text. An empty text rewrites the
// current raw definition.
func (o *Object) Rewrite(text string) error {
	if text == "" {
		text = o.def.Meta.RawDefinition
	}
	if err := o.registry.store.RewriteDefinition(o.def, text); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", o.GoString(), err)
	}
	o.def.Meta.RawDefinition = text
	o.event(Event{Level: EventWrite, Op: OpRewrite, Message: "Object definition rewritten"})
	return nil
}

// Delete removes the object's definition from its source. Cascading
// deletes are not supported.
func (o *Object) Delete(cascade bool) (bool, error) {
	if cascade {
		return false, fmt.Errorf("cascading delete: %w", ErrUnimplemented)
	}
	removed, err := o.registry.store.RemoveDefinition(o.def)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", o.GoString(), err)
	}
	if removed {
		o.registry.forget(o)
		o.event(Event{Level: EventWrite, Op: OpDelete, Message: "Object was deleted"})
	}
	return removed, nil
}
