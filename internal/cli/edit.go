package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

// assignment is one field=value argument.
type assignment struct {
	Field string
	Value string
}

// parseAssignments splits field=value arguments. Values may be empty and
// may contain "=".
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected field=value", arg)
		}
		out = append(out, assignment{Field: field, Value: value})
	}
	return out, nil
}

var setSave bool

var setCmd = &cobra.Command{
	Use:   "set <type> <shortname|id> field=value...",
	Short: "Edit attributes of an object",
	Long: `Set attributes on an object. Without --save the edits are only applied
in memory, which is useful to preview how inheritance and macros change.

Examples:
  nagmodel set host web01 address=10.0.0.9 --save
  nagmodel set host web01 hostgroups=+dmz --save`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		updates, err := parseAssignments(args[2:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		return withSession(func(s *session) error {
			obj, err := findObject(s.registry, t, args[1])
			if err != nil {
				return handleModelError(err)
			}
			changes := make(map[string]string, len(updates))
			for _, u := range updates {
				obj.Set(u.Field, u.Value)
				changes[u.Field] = u.Value
			}

			saved := 0
			if setSave {
				saved, err = obj.Save()
				if err != nil {
					return handleError(ErrStoreError, err, "")
				}
			}

			var warnings []Warning
			pending := obj.Changes()
			switch {
			case !setSave:
				warnings = append(warnings, Warning{Code: WarnNotPersisted, Message: "edits were not saved; pass --save to persist them"})
			case len(pending) > 0:
				warnings = append(warnings, Warning{Code: WarnPendingEdits, Message: fmt.Sprintf("%d edit(s) rejected by the store", len(pending))})
			}
			warnings = append(warnings, s.warnings()...)

			if isJSONOutput() {
				data := map[string]interface{}{
					"object":  refOf(obj),
					"changes": changes,
					"saved":   saved,
				}
				if len(pending) > 0 {
					data["pending"] = pending
				}
				outputSuccessWithWarnings(data, warnings, s.meta(0))
				return nil
			}

			for _, u := range updates {
				fmt.Printf("%s %s = %s\n", displayName(obj), ui.Bold.Render(u.Field), u.Value)
			}
			if setSave {
				fmt.Println(ui.Successf("Saved %d of %d edit(s)", saved, len(changes)))
			}
			for _, w := range warnings {
				fmt.Println(ui.Warning(w.Message))
			}
			return nil
		})
	},
}

var createFile string

var createCmd = &cobra.Command{
	Use:   "create <type> field=value...",
	Short: "Create a new object definition",
	Long: `Create a new definition and save its attributes. The file name
defaults to <type>s/<shortname>.cfg.

Examples:
  nagmodel create host host_name=web02 use=linux-server address=10.0.0.3
  nagmodel create command command_name=check_ssh 'command_line=$USER1$/check_ssh $HOSTADDRESS$'`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		fields, err := parseAssignments(args[1:])
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		filename := strings.TrimSpace(createFile)
		if filename == "" {
			filename = model.DefaultFilename(t, creationName(t, fields))
		}

		return withSession(func(s *session) error {
			obj, err := s.registry.New(t, filename)
			if err != nil {
				return handleError(ErrStoreError, err, "")
			}
			for _, f := range fields {
				obj.Set(f.Field, f.Value)
			}
			if _, err := obj.Save(); err != nil {
				return handleError(ErrStoreError, err, "")
			}
			warnings := append(s.warnings(), unknownFieldWarnings(t, fields)...)
			if obj.IsDirty() {
				warnings = append(warnings, Warning{Code: WarnPendingEdits, Message: "some fields were rejected by the store"})
			}

			if isJSONOutput() {
				outputSuccessWithWarnings(dataOf(obj, false), warnings, s.meta(0))
				return nil
			}
			fmt.Println(ui.Successf("Created %s in %s", displayName(obj), filename))
			for _, w := range warnings {
				fmt.Println(ui.Warning(w.Message))
			}
			return nil
		})
	},
}

// creationName picks the value used to derive a default filename.
func creationName(t model.ObjectType, fields []assignment) string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Field] = f.Value
	}
	if t == model.TypeService {
		if host, desc := values[string(model.FieldHostName)], values[string(model.FieldServiceDescription)]; desc != "" {
			return strings.TrimSpace(host + " " + desc)
		}
	}
	if v := values[string(t.ShortnameField())]; v != "" {
		return v
	}
	return values[string(model.FieldName)]
}

// unknownFieldWarnings flags assignments that are neither well-known for
// the type nor custom (underscore-prefixed) variables.
func unknownFieldWarnings(t model.ObjectType, fields []assignment) []Warning {
	known := make(map[string]bool)
	for _, f := range model.WellKnownFields(t) {
		known[string(f)] = true
	}
	var warnings []Warning
	for _, f := range fields {
		if known[f.Field] || strings.HasPrefix(f.Field, "_") {
			continue
		}
		warnings = append(warnings, Warning{
			Code:    WarnUnknownField,
			Message: fmt.Sprintf("%s is not a well-known %s field", f.Field, t),
			Ref:     f.Field,
		})
	}
	return warnings
}

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <type> <shortname|id>",
	Short: "Delete an object definition",
	Long: `Delete an object's definition from the store. Objects referring to it
are not changed.

Examples:
  nagmodel delete host web01 --force
  nagmodel delete service web01/PING --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseType(args[0])
		if err != nil || t == "" {
			return err
		}
		return withSession(func(s *session) error {
			obj, err := findObject(s.registry, t, args[1])
			if err != nil {
				return handleModelError(err)
			}
			ref := refOf(obj)

			if !deleteForce && !isJSONOutput() {
				if !promptForConfirm(fmt.Sprintf("Delete %s?", displayName(obj))) {
					return handleErrorMsg(ErrInvalidInput, "delete not confirmed", "Pass --force to delete without a prompt")
				}
			}

			removed, err := obj.Delete(false)
			if err != nil {
				return handleError(ErrStoreError, err, "")
			}

			if isJSONOutput() {
				outputSuccessWithWarnings(map[string]interface{}{
					"object":  ref,
					"deleted": removed,
				}, s.warnings(), s.meta(0))
				return nil
			}
			if removed {
				fmt.Println(ui.Successf("Deleted %s %s", ref.Type, ref.Shortname))
			} else {
				fmt.Println(ui.Warningf("%s %s was already gone", ref.Type, ref.Shortname))
			}
			return nil
		})
	},
}

func init() {
	setCmd.Flags().BoolVar(&setSave, "save", false, "Persist the edits")
	createCmd.Flags().StringVar(&createFile, "file", "", "Config file for the new definition")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without confirmation")

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
}
