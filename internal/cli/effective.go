package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var effectiveCmd = &cobra.Command{
	Use:   "effective <type> <shortname|id> <field>...",
	Short: "Resolve list attributes across the template chain",
	Long: `Resolve "+" list attributes such as hostgroups or contact_groups the
way the monitoring engine does: a "+" value is appended to the values
inherited through use, anything else replaces them.

Examples:
  nagmodel effective host web01 hostgroups contact_groups`,
	Args: cobra.MinimumNArgs(3),
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
			values := make(map[string]string, len(args)-2)
			for _, field := range args[2:] {
				v, err := obj.EffectiveAttribute(field)
				if err != nil {
					return handleModelError(err)
				}
				values[field] = v
			}

			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"object":     refOf(obj),
					"attributes": values,
				}, s.meta(len(values)))
				return nil
			}
			for _, field := range args[2:] {
				fmt.Printf("%s = %s\n", field, values[field])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(effectiveCmd)
}
