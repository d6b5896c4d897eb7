package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNormalizeAccentColor(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"", "", false},
		{"none", "", false},
		{"OFF", "", false},
		{" default ", "", false},
		{"39", "39", true},
		{"  244 ", "244", true},
		{"0", "0", true},
		{"256", "", false},
		{"-1", "", false},
		{"#7aa2f7", "#7aa2f7", true},
		{"#FF8800", "#ff8800", true},
		{"#abc", "#aabbcc", true},
		{"#abcd", "", false},
		{"#zzzzzz", "", false},
		{"purple", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizeAccentColor(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("normalizeAccentColor(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestConfigureTheme(t *testing.T) {
	origAccent, origAccentBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origAccentBold, origColor
	})

	ConfigureTheme("#FF8800")
	if got, ok := AccentColor(); !ok || got != "#ff8800" {
		t.Fatalf("AccentColor() = %q, %v; want #ff8800, true", got, ok)
	}
	if got := Accent.GetForeground(); got != lipgloss.Color("#ff8800") {
		t.Errorf("Accent foreground = %v, want #ff8800", got)
	}
	if !AccentBold.GetBold() || AccentBold.GetForeground() != lipgloss.Color("#ff8800") {
		t.Error("AccentBold does not follow the configured accent")
	}

	// An unusable value falls back to the built-in palette.
	ConfigureTheme("purple")
	if _, ok := AccentColor(); ok {
		t.Error("AccentColor() still configured after invalid value")
	}
	if got := Accent.GetForeground(); got != lipgloss.Color(defaultAccent) {
		t.Errorf("Accent foreground = %v, want default %s", got, defaultAccent)
	}
}
