package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Style is the lipgloss style type used across the package.
type Style = lipgloss.Style

var plain = lipgloss.NewStyle()

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Error returns an error message with X symbol
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Infof returns a formatted info message with info symbol
func Infof(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", SymbolInfo, fmt.Sprintf(format, args...))
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// ObjectRef renders "<type> <shortname>" with the name highlighted.
// Templates without a shortname are shown by their template name.
func ObjectRef(objectType, shortname, templateName string) string {
	switch {
	case shortname != "" && shortname != "/":
		return fmt.Sprintf("%s %s", objectType, Accent.Render(shortname))
	case templateName != "":
		return fmt.Sprintf("%s %s %s", objectType, Accent.Render(templateName), Muted.Render("(template)"))
	default:
		return objectType + " " + Muted.Render("(unnamed)")
	}
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count returns a count badge such as "(3 objects)".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}
