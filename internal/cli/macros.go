package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

var macroNames []string

var macrosCmd = &cobra.Command{
	Use:   "macros <type> <shortname|id>",
	Short: "Resolve the macros of an object's check command",
	Long: `Resolve every macro used by the command line of the object's
check_command. Use --macro to resolve specific macros instead.

Examples:
  nagmodel macros service web01/HTTP
  nagmodel macros host web01 --macro '$HOSTADDRESS$' --macro '$USER1$'`,
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

			var warnings []Warning
			values := make(map[string]string)
			if len(macroNames) > 0 {
				for _, name := range macroNames {
					name = normalizeMacroName(name)
					v, err := obj.Macro(name)
					if err != nil {
						return handleModelError(err)
					}
					values[name] = v
				}
			} else {
				all, ok, err := obj.AllMacros()
				if err != nil {
					return handleModelError(err)
				}
				if !ok {
					warnings = append(warnings, noCommandWarning(obj))
				}
				values = all
			}

			if isJSONOutput() {
				outputSuccessWithWarnings(map[string]interface{}{
					"object": refOf(obj),
					"macros": values,
				}, warnings, s.meta(len(values)))
				return nil
			}

			for _, w := range warnings {
				fmt.Println(ui.Warning(w.Message))
			}
			names := make([]string, 0, len(values))
			for name := range values {
				names = append(names, name)
			}
			sort.Strings(names)
			table := ui.NewTable(ui.NewDisplayContext(), "MACRO", "VALUE")
			for _, name := range names {
				table.AddRow(name, values[name])
			}
			if table.Len() > 0 {
				fmt.Print(table.String())
			}
			return nil
		})
	},
}

var cmdlineCmd = &cobra.Command{
	Use:   "cmdline <type> <shortname|id>",
	Short: "Print the fully expanded check command line",
	Long: `Expand the command line of the object's check_command with all macros,
arguments and resource values substituted.

Examples:
  nagmodel cmdline host web01
  nagmodel cmdline service web01/PING --json`,
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
			line, ok, err := obj.EffectiveCommandLine()
			if err != nil {
				return handleModelError(err)
			}

			if isJSONOutput() {
				var warnings []Warning
				if !ok {
					warnings = append(warnings, noCommandWarning(obj))
				}
				outputSuccessWithWarnings(map[string]interface{}{
					"object":        refOf(obj),
					"check_command": obj.Value(model.FieldCheckCommand),
					"command_line":  line,
					"resolved":      ok,
				}, warnings, s.meta(0))
				return nil
			}
			if !ok {
				fmt.Println(ui.Warning(noCommandWarning(obj).Message))
				return nil
			}
			fmt.Println(line)
			return nil
		})
	},
}

func noCommandWarning(obj *model.Object) Warning {
	msg := fmt.Sprintf("%s %s has no check_command", obj.Type(), obj.Shortname())
	if cc := obj.Value(model.FieldCheckCommand); cc != "" {
		msg = fmt.Sprintf("command %q is not defined", strings.SplitN(cc, "!", 2)[0])
	}
	return Warning{Code: WarnNoCommand, Message: msg, Ref: obj.ID()}
}

// normalizeMacroName accepts HOSTADDRESS as well as $HOSTADDRESS$.
func normalizeMacroName(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	if !strings.HasSuffix(name, "$") || len(name) == 1 {
		name += "$"
	}
	return name
}

func init() {
	macrosCmd.Flags().StringArrayVar(&macroNames, "macro", nil, "Resolve this macro (repeatable)")

	rootCmd.AddCommand(macrosCmd)
	rootCmd.AddCommand(cmdlineCmd)
}
