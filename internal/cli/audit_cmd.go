package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/audit"
	"github.com/aidanlsb/nagmodel/internal/config"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

var (
	auditSince  string
	auditObject string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the log of saved changes",
	Long: `Show entries of the audit log configured by audit_log in config.toml.
Every saved field, rewrite and delete is recorded there.

--since accepts a duration (24h, 90m) or an RFC 3339 timestamp.

Examples:
  nagmodel audit
  nagmodel audit --since 24h
  nagmodel audit --object 3f2a...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(resolvedConfigPath, getConfig().AuditLog)
		if path == "" {
			return handleErrorMsg(ErrConfigInvalid, "audit log is not configured", "Run 'nagmodel config set --audit-log audit.jsonl'")
		}
		log := audit.New(path)

		var (
			entries []audit.Entry
			err     error
		)
		switch {
		case strings.TrimSpace(auditSince) != "":
			since, perr := parseSince(auditSince, time.Now())
			if perr != nil {
				return handleError(ErrInvalidInput, perr, "Use a duration like 24h or an RFC 3339 timestamp")
			}
			entries, err = log.ReadSince(since)
		case strings.TrimSpace(auditObject) != "":
			entries, err = log.ReadForObject(strings.TrimSpace(auditObject))
		default:
			entries, err = log.Read()
		}
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if id := strings.TrimSpace(auditObject); id != "" {
			filtered := entries[:0]
			for _, e := range entries {
				if e.ID == id {
					filtered = append(filtered, e)
				}
			}
			entries = filtered
		}

		if isJSONOutput() {
			if entries == nil {
				entries = []audit.Entry{}
			}
			outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries), Source: path})
			return nil
		}
		if len(entries) == 0 {
			fmt.Println(ui.Hint("No audit entries."))
			return nil
		}
		table := ui.NewTable(ui.NewDisplayContext(), "TIME", "OP", "OBJECT", "CHANGE").MuteColumn(0)
		for _, e := range entries {
			change := e.Message
			if e.Field != "" {
				change = fmt.Sprintf("%s: %q -> %q", e.Field, e.Old, e.New)
			}
			table.AddRow(e.Timestamp.Local().Format(time.DateTime), e.Operation, e.Type+" "+e.Object, change)
		}
		fmt.Print(table.String())
		return nil
	},
}

// parseSince reads a duration before now or an absolute timestamp.
func parseSince(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil {
		if d < 0 {
			d = -d
		}
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q", value)
}

func init() {
	auditCmd.Flags().StringVar(&auditSince, "since", "", "Only entries at or after this time")
	auditCmd.Flags().StringVar(&auditObject, "object", "", "Only entries for this object id")
	rootCmd.AddCommand(auditCmd)
}
