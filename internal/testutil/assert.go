package testutil

import (
	"strings"
	"testing"
)

// AssertSnapshotContains fails the test if the snapshot file does not
// contain the substring.
func (c *TestConfig) AssertSnapshotContains(substr string) {
	c.t.Helper()
	content := c.ReadFile("objects.yaml")
	if !strings.Contains(content, substr) {
		c.t.Errorf("expected snapshot to contain %q, got:\n%s", substr, content)
	}
}

// AssertSnapshotNotContains fails the test if the snapshot file contains
// the substring.
func (c *TestConfig) AssertSnapshotNotContains(substr string) {
	c.t.Helper()
	content := c.ReadFile("objects.yaml")
	if strings.Contains(content, substr) {
		c.t.Errorf("expected snapshot to not contain %q, got:\n%s", substr, content)
	}
}

// AssertObjectExists checks that show finds the object.
func (c *TestConfig) AssertObjectExists(objectType, shortname string) {
	c.t.Helper()
	result := c.RunCLI("show", objectType, shortname)
	if !result.OK {
		c.t.Errorf("expected %s %s to exist, got error: %v", objectType, shortname, result.Error)
	}
}

// AssertObjectNotExists checks that show does not find the object.
func (c *TestConfig) AssertObjectNotExists(objectType, shortname string) {
	c.t.Helper()
	result := c.RunCLI("show", objectType, shortname)
	if result.OK {
		c.t.Errorf("expected %s %s to not exist, but it does", objectType, shortname)
	}
}

// AssertFilterCount runs filter and verifies the number of matches.
func (c *TestConfig) AssertFilterCount(objectType string, expectedCount int, exprs ...string) {
	c.t.Helper()
	args := append([]string{"filter", objectType}, exprs...)
	result := c.RunCLI(args...)
	result.MustSucceed(c.t)

	items := result.DataList("items")
	if len(items) != expectedCount {
		c.t.Errorf("filter %s %v: expected %d results, got %d\nRaw: %s",
			objectType, exprs, expectedCount, len(items), result.RawJSON)
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a list in the result has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
