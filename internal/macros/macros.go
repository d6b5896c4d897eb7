// Package macros holds the macro token grammar and the table of standard
// macros that map directly onto object attributes.
package macros

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern matches a single macro token such as $HOSTADDRESS$.
var tokenPattern = regexp.MustCompile(`\$\w+\$`)

// Standard maps standard macro names to the attribute they read.
var Standard = map[string]string{
	"$HOSTADDRESS$":         "address",
	"$HOSTADDR$":            "address",
	"$HOSTNAME$":            "host_name",
	"$HOSTALIAS$":           "alias",
	"$HOSTDISPLAYNAME$":     "display_name",
	"$HOSTNOTES$":           "notes",
	"$HOSTNOTESURL$":        "notes_url",
	"$HOSTACTIONURL$":       "action_url",
	"$HOSTCHECKCOMMAND$":    "check_command",
	"$MAXHOSTATTEMPTS$":     "max_check_attempts",
	"$HOSTPARENTS$":         "parents",
	"$SERVICEDESC$":         "service_description",
	"$SERVICEDISPLAYNAME$":  "display_name",
	"$SERVICENOTES$":        "notes",
	"$SERVICENOTESURL$":     "notes_url",
	"$SERVICEACTIONURL$":    "action_url",
	"$SERVICECHECKCOMMAND$": "check_command",
	"$MAXSERVICEATTEMPTS$":  "max_check_attempts",
	"$CONTACTNAME$":         "contact_name",
	"$CONTACTALIAS$":        "alias",
	"$CONTACTEMAIL$":        "email",
	"$CONTACTPAGER$":        "pager",
	"$CONTACTGROUPNAME$":    "contactgroup_name",
	"$CONTACTGROUPALIAS$":   "alias",
	"$CONTACTGROUPMEMBERS$": "members",
	"$HOSTGROUPNAME$":       "hostgroup_name",
	"$HOSTGROUPALIAS$":      "alias",
	"$HOSTGROUPMEMBERS$":    "members",
	"$SERVICEGROUPNAME$":    "servicegroup_name",
	"$SERVICEGROUPALIAS$":   "alias",
	"$SERVICEGROUPMEMBERS$": "members",
	"$TIMEPERIODNAME$":      "timeperiod_name",
	"$TIMEPERIODALIAS$":     "alias",
	"$COMMANDNAME$":         "command_name",
}

// Prefixes of macro families that are resolved by scope rather than
// through the standard table alone.
const (
	PrefixArgument      = "$ARG"
	PrefixUser          = "$USER"
	PrefixHost          = "$HOST"
	PrefixCustomHost    = "$_HOST"
	PrefixService       = "$SERVICE"
	PrefixCustomService = "$_SERVICE"
)

// IsToken reports whether s is delimited like a macro token.
func IsToken(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$")
}

// Scan returns every macro token in s, in order of appearance.
// Repeated tokens are returned once.
func Scan(s string) []string {
	matches := tokenPattern.FindAllString(s, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Expand replaces every macro token in s with resolve(token).
// Text outside tokens is preserved verbatim. The first resolve error
// stops expansion.
func Expand(s string, resolve func(token string) (string, error)) (string, error) {
	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		if firstErr != nil {
			return tok
		}
		v, err := resolve(tok)
		if err != nil {
			firstErr = err
			return tok
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ArgumentToken returns the $ARGn$ token for a 1-based argument index.
func ArgumentToken(n int) string {
	return PrefixArgument + strconv.Itoa(n) + "$"
}

// CustomName returns the custom variable suffix of a custom macro,
// e.g. "SNMP_COMMUNITY" for "$_HOSTSNMP_COMMUNITY$" with PrefixCustomHost.
func CustomName(token, prefix string) string {
	name := strings.TrimPrefix(token, prefix)
	return strings.TrimSuffix(name, "$")
}
