package model

import (
	"fmt"

	"github.com/aidanlsb/nagmodel/internal/query"
)

// objectSet is an insertion-ordered set of objects.
type objectSet struct {
	items []*Object
	seen  map[*Object]bool
}

func newObjectSet() *objectSet {
	return &objectSet{seen: make(map[*Object]bool)}
}

func (s *objectSet) add(objs ...*Object) {
	for _, o := range objs {
		if s.seen[o] {
			continue
		}
		s.seen[o] = true
		s.items = append(s.items, o)
	}
}

func (s *objectSet) list() []*Object {
	if s.items == nil {
		return []*Object{}
	}
	return s.items
}

// groupLinks names the fields that tie members to one kind of group.
type groupLinks struct {
	groupType   ObjectType
	groupName   Field // e.g. hostgroup_name
	memberName  Field // e.g. host_name
	memberList  Field // the member's own list of groups, e.g. hostgroups
	nestedField Field // e.g. hostgroup_members
}

var (
	hostgroupLinks = groupLinks{
		groupType:   TypeHostgroup,
		groupName:   FieldHostgroupName,
		memberName:  FieldHostName,
		memberList:  FieldHostgroups,
		nestedField: FieldHostgroupMembers,
	}
	contactgroupLinks = groupLinks{
		groupType:   TypeContactgroup,
		groupName:   FieldContactgroupName,
		memberName:  FieldContactName,
		memberList:  FieldContactgroups,
		nestedField: FieldContactgroupMembers,
	}
)

// EffectiveHostgroups returns every hostgroup the object belongs to:
// groups from its effective hostgroups list, groups listing it in
// members, groups nesting any of those through hostgroup_members, and
// groups that use a group listing it.
func (o *Object) EffectiveHostgroups() ([]*Object, error) {
	return o.effectiveGroups(hostgroupLinks)
}

// EffectiveContactgroups is the contact counterpart of
// EffectiveHostgroups, over contactgroups, members and
// contactgroup_members.
func (o *Object) EffectiveContactgroups() ([]*Object, error) {
	return o.effectiveGroups(contactgroupLinks)
}

func (o *Object) effectiveGroups(l groupLinks) ([]*Object, error) {
	groups := o.registry.Objects(l.groupType)
	result := newObjectSet()

	names, err := o.EffectiveList(string(l.memberList))
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		g, err := groups.GetByShortname(name)
		if err != nil {
			return nil, err
		}
		result.add(g)
	}

	memberName, ok := o.Get(string(l.memberName))
	if !ok {
		return result.list(), nil
	}
	direct, err := groups.Filter(query.Where(string(FieldMembers)+"__has_field", memberName))
	if err != nil {
		return nil, err
	}
	result.add(direct...)

	// Nested membership, followed until no new groups appear.
	nested := newObjectSet()
	nested.add(direct...)
	frontier := direct
	for len(frontier) > 0 {
		var next []*Object
		for _, g := range frontier {
			name, ok := g.Get(string(l.groupName))
			if !ok {
				continue
			}
			parents, err := groups.Filter(query.Where(string(l.nestedField)+"__has_field", name))
			if err != nil {
				return nil, err
			}
			for _, p := range parents {
				if !nested.seen[p] {
					nested.add(p)
					next = append(next, p)
				}
			}
		}
		result.add(next...)
		frontier = next
	}

	// Groups inheriting from a group that lists the member.
	for _, g := range direct {
		for _, ref := range templateRefs(g, l.groupName) {
			users, err := groups.Filter(query.Where("use__has_field", ref))
			if err != nil {
				return nil, err
			}
			result.add(users...)
		}
	}
	return result.list(), nil
}

// templateRefs returns the names a use attribute may refer to o by.
func templateRefs(o *Object, nameField Field) []string {
	var refs []string
	if name, ok := o.Get(string(FieldName)); ok && name != "" {
		refs = append(refs, name)
	}
	if name, ok := o.Get(string(nameField)); ok && name != "" && (len(refs) == 0 || refs[0] != name) {
		refs = append(refs, name)
	}
	return refs
}

// EffectiveMembers returns every contact in a contactgroup: contacts from
// its effective members list, the full effective membership of nested
// groups from contactgroup_members, and contacts whose own effective
// contactgroups include the group.
func (o *Object) EffectiveMembers() ([]*Object, error) {
	if o.Type() != TypeContactgroup {
		return nil, fmt.Errorf("effective members of %s: %w", o.Type(), ErrUnimplemented)
	}
	result := newObjectSet()
	if err := o.effectiveMembers(result, newChain(o)); err != nil {
		return nil, err
	}
	return result.list(), nil
}

func (o *Object) effectiveMembers(result *objectSet, path *chain) error {
	members, err := o.EffectiveList(string(FieldMembers))
	if err != nil {
		return err
	}
	contacts := o.registry.Objects(TypeContact)
	for _, name := range members {
		c, err := contacts.GetByShortname(name)
		if err != nil {
			return err
		}
		result.add(c)
	}

	nested, err := o.EffectiveList(string(FieldContactgroupMembers))
	if err != nil {
		return err
	}
	groups := o.registry.Objects(TypeContactgroup)
	for _, name := range nested {
		g, err := groups.GetByShortname(name)
		if err != nil {
			return err
		}
		if err := path.push(g); err != nil {
			return err
		}
		if err := g.effectiveMembers(result, path); err != nil {
			return err
		}
		path.pop()
	}

	name, ok := o.Get(string(FieldContactgroupName))
	if !ok {
		return nil
	}
	all, err := contacts.All()
	if err != nil {
		return err
	}
	for _, c := range all {
		cgs, err := c.EffectiveContactgroups()
		if err != nil {
			return err
		}
		for _, g := range cgs {
			if g.Shortname() == name {
				result.add(c)
				break
			}
		}
	}
	return nil
}

// RelatedObjects returns the objects that depend on this one: objects of
// the same type that use it as a template and, for a host, its services.
func (o *Object) RelatedObjects() ([]*Object, error) {
	result := newObjectSet()
	if name, ok := o.Get(string(FieldName)); ok {
		users, err := o.registry.Objects(o.Type()).Filter(query.Where("use__has_field", name))
		if err != nil {
			return nil, err
		}
		result.add(users...)
	}
	if o.Type() == TypeHost {
		if hostName, ok := o.Get(string(FieldHostName)); ok {
			services, err := o.registry.Objects(TypeService).Filter(query.Where(string(FieldHostName), hostName))
			if err != nil {
				return nil, err
			}
			result.add(services...)
		}
	}
	return result.list(), nil
}

// EffectiveServices returns the services attached to a host directly by
// host_name or through one of its effective hostgroups.
func (o *Object) EffectiveServices() ([]*Object, error) {
	if o.Type() != TypeHost {
		return nil, fmt.Errorf("effective services of %s: %w", o.Type(), ErrUnimplemented)
	}
	services := o.registry.Objects(TypeService)
	result := newObjectSet()
	if hostName, ok := o.Get(string(FieldHostName)); ok {
		direct, err := services.Filter(query.Where(string(FieldHostName), hostName))
		if err != nil {
			return nil, err
		}
		result.add(direct...)
	}
	groups, err := o.EffectiveHostgroups()
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		name, ok := g.Get(string(FieldHostgroupName))
		if !ok {
			continue
		}
		viaGroup, err := services.Filter(query.Where(string(FieldHostgroupName)+"__has_field", name))
		if err != nil {
			return nil, err
		}
		result.add(viaGroup...)
	}
	return result.list(), nil
}

// EffectiveContacts returns the contacts named by the effective contacts
// list.
func (o *Object) EffectiveContacts() ([]*Object, error) {
	return o.lookupList(FieldContacts, TypeContact)
}

// EffectiveContactGroups returns the contactgroups attached through
// contact_groups. Contacts use EffectiveContactgroups instead.
func (o *Object) EffectiveContactGroups() ([]*Object, error) {
	if o.Type() == TypeContact {
		return o.EffectiveContactgroups()
	}
	return o.lookupList(FieldContactGroups, TypeContactgroup)
}

// EffectiveHosts is not supported.
func (o *Object) EffectiveHosts() ([]*Object, error) {
	return nil, fmt.Errorf("effective hosts of %s: %w", o.Type(), ErrUnimplemented)
}

func (o *Object) lookupList(field Field, t ObjectType) ([]*Object, error) {
	names, err := o.EffectiveList(string(field))
	if err != nil {
		return nil, err
	}
	coll := o.registry.Objects(t)
	result := newObjectSet()
	for _, name := range names {
		obj, err := coll.GetByShortname(name)
		if err != nil {
			return nil, err
		}
		result.add(obj)
	}
	return result.list(), nil
}
