// Package model is the semantic layer over monitoring configuration
// definitions: layered attribute storage, template inheritance, macro
// resolution and group relationships.
package model

import (
	"fmt"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

// ObjectType names a kind of configuration definition.
type ObjectType string

const (
	TypeHost         ObjectType = "host"
	TypeService      ObjectType = "service"
	TypeContact      ObjectType = "contact"
	TypeContactgroup ObjectType = "contactgroup"
	TypeHostgroup    ObjectType = "hostgroup"
	TypeServicegroup ObjectType = "servicegroup"
	TypeCommand      ObjectType = "command"
	TypeTimeperiod   ObjectType = "timeperiod"
)

// AllTypes lists every object type in materialization order.
var AllTypes = []ObjectType{
	TypeHost,
	TypeService,
	TypeContact,
	TypeContactgroup,
	TypeHostgroup,
	TypeServicegroup,
	TypeCommand,
	TypeTimeperiod,
}

// ParseObjectType validates a type name.
func ParseObjectType(s string) (ObjectType, error) {
	t := ObjectType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown object type %q", s)
}

// ShortnameField is the attribute holding the type's human-meaningful name.
func (t ObjectType) ShortnameField() Field {
	if t == TypeService {
		return FieldServiceDescription
	}
	return Field(string(t) + "_name")
}

func (t ObjectType) String() string { return string(t) }

// Field is an attribute name. Well-known fields have constants; custom
// fields (leading underscore) are used as plain strings.
type Field string

const (
	FieldID          Field = "id"
	FieldDescription Field = "description"
	FieldRegister    Field = "register"
	FieldMeta        Field = "meta"
	FieldName        Field = "name"
	FieldUse         Field = "use"

	FieldObjectType    Field = "object_type"
	FieldFilename      Field = "filename"
	FieldRawDefinition Field = "raw_definition"

	FieldHostName            Field = "host_name"
	FieldAlias               Field = "alias"
	FieldDisplayName         Field = "display_name"
	FieldAddress             Field = "address"
	FieldParents             Field = "parents"
	FieldHostgroups          Field = "hostgroups"
	FieldCheckCommand        Field = "check_command"
	FieldMaxCheckAttempts    Field = "max_check_attempts"
	FieldCheckPeriod         Field = "check_period"
	FieldNotificationPeriod  Field = "notification_period"
	FieldContacts            Field = "contacts"
	FieldContactGroups       Field = "contact_groups"
	FieldNotes               Field = "notes"
	FieldNotesURL            Field = "notes_url"
	FieldActionURL           Field = "action_url"
	FieldServiceDescription  Field = "service_description"
	FieldServicegroups       Field = "servicegroups"
	FieldHostgroupName       Field = "hostgroup_name"
	FieldContactName         Field = "contact_name"
	FieldEmail               Field = "email"
	FieldPager               Field = "pager"
	FieldContactgroups       Field = "contactgroups"
	FieldContactgroupName    Field = "contactgroup_name"
	FieldMembers             Field = "members"
	FieldContactgroupMembers Field = "contactgroup_members"
	FieldHostgroupMembers    Field = "hostgroup_members"
	FieldServicegroupName    Field = "servicegroup_name"
	FieldServicegroupMembers Field = "servicegroup_members"
	FieldCommandName         Field = "command_name"
	FieldCommandLine         Field = "command_line"
	FieldTimeperiodName      Field = "timeperiod_name"
)

// metaFields are readable through Get after every attribute layer.
var metaFields = []Field{FieldObjectType, FieldFilename, FieldRawDefinition}

var wellKnown = map[ObjectType][]Field{
	TypeHost: {
		FieldHostName, FieldAlias, FieldDisplayName, FieldAddress, FieldParents,
		FieldHostgroups, FieldCheckCommand, FieldMaxCheckAttempts, FieldCheckPeriod,
		FieldNotificationPeriod, FieldContacts, FieldContactGroups, FieldNotes,
		FieldNotesURL, FieldActionURL,
	},
	TypeService: {
		FieldHostName, FieldHostgroupName, FieldServiceDescription, FieldDisplayName,
		FieldServicegroups, FieldCheckCommand, FieldMaxCheckAttempts, FieldCheckPeriod,
		FieldNotificationPeriod, FieldContacts, FieldContactGroups, FieldNotes,
		FieldNotesURL, FieldActionURL,
	},
	TypeContact: {
		FieldContactName, FieldAlias, FieldEmail, FieldPager, FieldContactgroups,
	},
	TypeContactgroup: {
		FieldContactgroupName, FieldAlias, FieldMembers, FieldContactgroupMembers,
	},
	TypeHostgroup: {
		FieldHostgroupName, FieldAlias, FieldMembers, FieldHostgroupMembers,
		FieldNotes, FieldNotesURL, FieldActionURL,
	},
	TypeServicegroup: {
		FieldServicegroupName, FieldAlias, FieldMembers, FieldServicegroupMembers,
		FieldNotes, FieldNotesURL, FieldActionURL,
	},
	TypeCommand:    {FieldCommandName, FieldCommandLine},
	TypeTimeperiod: {FieldTimeperiodName, FieldAlias},
}

// WellKnownFields returns the documented fields for an object type.
// Every type additionally accepts name, use and register.
func WellKnownFields(t ObjectType) []Field {
	fields := append([]Field(nil), wellKnown[t]...)
	return append(fields, FieldName, FieldUse, FieldRegister)
}

// AdditiveFields are comma-list attributes that accept the "+" prefix.
var AdditiveFields = []Field{
	FieldContacts,
	FieldContactgroups,
	FieldContactGroups,
	FieldHostgroups,
	FieldServicegroups,
	FieldMembers,
	FieldContactgroupMembers,
	FieldHostgroupMembers,
}

// DefaultFilename derives a config file path for a new definition.
func DefaultFilename(t ObjectType, shortname string) string {
	base := slug.Make(shortname)
	if base == "" {
		base = "new-" + string(t)
	}
	return path.Join(string(t)+"s", base+".cfg")
}
