package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

// relationCommand builds a command that resolves obj to a list of
// objects and prints them.
func relationCommand(use, short, long string, fixedType model.ObjectType, resolve func(*model.Object) ([]*model.Object, error)) *cobra.Command {
	nargs := 2
	if fixedType != "" {
		nargs = 1
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := fixedType
			ref := args[0]
			if t == "" {
				var err error
				t, err = parseType(args[0])
				if err != nil || t == "" {
					return err
				}
				ref = args[1]
			}
			return withSession(func(s *session) error {
				obj, err := findObject(s.registry, t, ref)
				if err != nil {
					return handleModelError(err)
				}
				related, err := resolve(obj)
				if err != nil {
					return handleModelError(err)
				}

				if isJSONOutput() {
					outputSuccess(map[string]interface{}{
						"object": refOf(obj),
						"items":  refsOf(related),
					}, s.meta(len(related)))
					return nil
				}
				fmt.Println(ui.Header(displayName(obj)))
				if len(related) == 0 {
					fmt.Println(ui.Hint("(none)"))
					return nil
				}
				printObjectTable(related)
				return nil
			})
		},
	}
}

// objectGroups picks the group relation that fits the object's type.
func objectGroups(o *model.Object) ([]*model.Object, error) {
	switch o.Type() {
	case model.TypeHost:
		return o.EffectiveHostgroups()
	case model.TypeContact:
		return o.EffectiveContactgroups()
	default:
		return o.EffectiveContactGroups()
	}
}

var groupsCmd = relationCommand(
	"groups <type> <shortname|id>",
	"List the groups an object belongs to",
	`List effective group membership.

Hosts list hostgroups and contacts list contactgroups, following "+"
inheritance, members lists and nested groups. Other types list the
contactgroups named by contact_groups.

Examples:
  nagmodel groups host web01
  nagmodel groups contact alice --json`,
	"", objectGroups)

var membersCmd = relationCommand(
	"members <contactgroup>",
	"List the contacts of a contactgroup",
	`List every contact in a contactgroup, including members of nested
groups and contacts that name the group themselves.

Examples:
  nagmodel members admins`,
	model.TypeContactgroup, (*model.Object).EffectiveMembers)

var contactsCmd = relationCommand(
	"contacts <type> <shortname|id>",
	"List the contacts named by an object",
	`List the contacts from the object's effective contacts attribute.

Examples:
  nagmodel contacts service web01/HTTP`,
	"", (*model.Object).EffectiveContacts)

var relatedCmd = relationCommand(
	"related <type> <shortname|id>",
	"List objects that depend on an object",
	`List objects that use this object as a template and, for hosts, the
services bound to the host by host_name.

Examples:
  nagmodel related host linux-server
  nagmodel related host web01`,
	"", (*model.Object).RelatedObjects)

var servicesCmd = relationCommand(
	"services <host>",
	"List the services that apply to a host",
	`List services attached to a host directly or through one of its
effective hostgroups.

Examples:
  nagmodel services web01`,
	model.TypeHost, (*model.Object).EffectiveServices)

var parentsCmd = relationCommand(
	"parents <type> <shortname|id>",
	"List the templates an object inherits from",
	`List the templates named by use, nearest first, following the whole
chain.

Examples:
  nagmodel parents host web01`,
	"", func(o *model.Object) ([]*model.Object, error) { return o.EffectiveParents(true) })

func init() {
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(parentsCmd)
}
