package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/testutil"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"", logrus.InfoLevel, false},
		{"debug", logrus.DebugLevel, false},
		{" WARN ", logrus.WarnLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		l, err := New(tt.level, &bytes.Buffer{}, false)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) succeeded", tt.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q) error: %v", tt.level, err)
		}
		if l.GetLevel() != tt.want {
			t.Errorf("New(%q) level = %v, want %v", tt.level, l.GetLevel(), tt.want)
		}
	}
}

func TestObserver(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", &buf, true)
	if err != nil {
		t.Fatal(err)
	}
	reg := testutil.StandardRegistry(t, model.WithObserver(Observer{Log: l}))
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	web.Set("alias", "Edge")
	if buf.Len() != 0 {
		t.Fatalf("debug event logged at info level: %s", buf.String())
	}
	if _, err := web.Save(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %s", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["level"] != "info" || entry["object"] != "web01" || entry["object_type"] != "host" || entry["field"] != "alias" {
		t.Errorf("entry = %v", entry)
	}
	if entry["msg"] != "alias changed from 'Web Server' to 'Edge'" {
		t.Errorf("msg = %v", entry["msg"])
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
}
