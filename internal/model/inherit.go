package model

import (
	"strings"

	"github.com/aidanlsb/nagmodel/internal/query"
)

// additiveMarker prefixes list values that extend inherited values.
const additiveMarker = "+"

// Parents returns the templates named by the object's use attribute, in
// the order they are listed.
func (o *Object) Parents() ([]*Object, error) {
	use, ok := o.Get(string(FieldUse))
	if !ok || use == "" {
		return nil, nil
	}
	var parents []*Object
	for _, name := range splitList(use) {
		matches, err := o.registry.Objects(o.Type()).Filter(query.Where(string(FieldName), name))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, &NotFoundError{Type: o.Type(), Key: string(FieldName), Value: name}
		}
		parents = append(parents, matches[0])
	}
	return parents, nil
}

// EffectiveParents returns the templates this object inherits from. With
// recursive set, grandparents follow the direct parents, each listed once.
func (o *Object) EffectiveParents(recursive bool) ([]*Object, error) {
	parents, err := o.Parents()
	if err != nil || !recursive {
		return parents, err
	}
	var result []*Object
	seen := make(map[*Object]bool)
	var walk func(obj *Object, path *chain) error
	walk = func(obj *Object, path *chain) error {
		ps, err := obj.Parents()
		if err != nil {
			return err
		}
		for _, p := range ps {
			if err := path.push(p); err != nil {
				return err
			}
			if !seen[p] {
				seen[p] = true
				result = append(result, p)
			}
			if err := walk(p, path); err != nil {
				return err
			}
			path.pop()
		}
		return nil
	}
	if err := walk(o, newChain(o)); err != nil {
		return nil, err
	}
	return result, nil
}

// EffectiveAttribute resolves an additive list attribute across the use
// chain. A value without the "+" prefix replaces everything inherited; a
// "+" value, or no value, appends the parents' effective values. Walking
// stops after the first parent whose own value is not additive.
func (o *Object) EffectiveAttribute(field string) (string, error) {
	return o.effectiveAttribute(field, newChain(o))
}

func (o *Object) effectiveAttribute(field string, path *chain) (string, error) {
	var layers []string
	own, ok := o.Get(field)
	if ok {
		layers = append(layers, own)
	}
	if !ok || strings.HasPrefix(own, additiveMarker) {
		parents, err := o.Parents()
		if err != nil {
			return "", err
		}
		for _, parent := range parents {
			if err := path.push(parent); err != nil {
				return "", err
			}
			v, err := parent.effectiveAttribute(field, path)
			if err != nil {
				return "", err
			}
			path.pop()
			layers = append(layers, v)
			if pv, ok := parent.Get(field); ok && !strings.HasPrefix(pv, additiveMarker) {
				break
			}
		}
	}
	return mergeLists(layers), nil
}

// EffectiveList is EffectiveAttribute split into its elements.
func (o *Object) EffectiveList(field string) ([]string, error) {
	v, err := o.EffectiveAttribute(field)
	if err != nil {
		return nil, err
	}
	return splitList(v), nil
}

// mergeLists strips additive markers, splits each layer on commas and
// joins the distinct non-empty elements in first-seen order.
func mergeLists(layers []string) string {
	var out []string
	seen := make(map[string]struct{})
	for _, layer := range layers {
		for _, item := range splitList(layer) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return strings.Join(out, ",")
}

func splitList(s string) []string {
	s = strings.Trim(strings.TrimSpace(s), additiveMarker)
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// chain tracks the objects on the current resolution path.
type chain struct {
	stack []*Object
	on    map[*Object]bool
}

func newChain(start *Object) *chain {
	return &chain{stack: []*Object{start}, on: map[*Object]bool{start: true}}
}

func (c *chain) push(o *Object) error {
	if c.on[o] {
		names := make([]string, 0, len(c.stack)+1)
		for _, s := range c.stack {
			names = append(names, chainName(s))
		}
		return &CycleError{Chain: append(names, chainName(o))}
	}
	c.stack = append(c.stack, o)
	c.on[o] = true
	return nil
}

func (c *chain) pop() {
	last := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	delete(c.on, last)
}

func chainName(o *Object) string {
	if name, ok := o.Get(string(FieldName)); ok {
		return name
	}
	return o.Shortname()
}
