// Package testutil provides reusable fixtures for object model and CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/query"
	"github.com/aidanlsb/nagmodel/internal/store"
)

// Def builds a definition of type t from alternating key/value pairs.
// The pairs become the directly defined attributes.
func Def(t model.ObjectType, kv ...string) *model.Definition {
	if len(kv)%2 != 0 {
		panic("testutil.Def: odd number of key/value arguments")
	}
	defined := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		defined[kv[i]] = kv[i+1]
	}
	return &model.Definition{
		Attributes: make(map[string]string),
		Meta: model.Meta{
			ObjectType: t,
			Filename:   "/etc/nagios/conf.d/" + string(t) + "s.cfg",
			Defined:    defined,
			Inherited:  make(map[string]string),
		},
	}
}

// StandardResources is the resource table used by the standard fixture.
func StandardResources() []model.Resource {
	return []model.Resource{
		{Name: "$USER1$", Value: "/usr/lib/nagios/plugins"},
		{Name: "$USER2$", Value: "public"},
	}
}

// StandardDefinitions is a small but complete configuration: host and
// service templates, two hosts, nested host and contact groups, and the
// commands their checks reference.
func StandardDefinitions() []*model.Definition {
	return []*model.Definition{
		Def(model.TypeCommand, "command_name", "check_ping",
			"command_line", "$USER1$/check_ping -H $HOSTADDRESS$ -w $ARG1$ -c $ARG2$"),
		Def(model.TypeCommand, "command_name", "check_http",
			"command_line", "$USER1$/check_http -H $HOSTADDRESS$ -u $_SERVICEURL$ -a $_HOSTAUTH$"),
		Def(model.TypeTimeperiod, "timeperiod_name", "24x7", "alias", "24 Hours A Day, 7 Days A Week"),

		Def(model.TypeHost, "name", "generic-host", "register", "0",
			"max_check_attempts", "3", "contact_groups", "admins", "check_period", "24x7"),
		Def(model.TypeHost, "name", "linux-server", "use", "generic-host", "register", "0",
			"hostgroups", "+linux", "contact_groups", "+linux-admins"),
		Def(model.TypeHost, "host_name", "web01", "use", "linux-server", "alias", "Web Server",
			"address", "10.0.0.1", "hostgroups", "+web", "check_command", "check_ping!100!20",
			"_AUTH", "secret"),
		Def(model.TypeHost, "host_name", "db01", "use", "generic-host",
			"address", "10.0.0.2", "hostgroups", "databases"),

		Def(model.TypeHostgroup, "hostgroup_name", "linux", "alias", "Linux Servers"),
		Def(model.TypeHostgroup, "hostgroup_name", "web", "members", "web01"),
		Def(model.TypeHostgroup, "hostgroup_name", "databases", "members", "db01"),
		Def(model.TypeHostgroup, "hostgroup_name", "servers", "hostgroup_members", "web,databases"),

		Def(model.TypeService, "name", "generic-service", "register", "0",
			"max_check_attempts", "4", "contact_groups", "admins"),
		Def(model.TypeService, "use", "generic-service", "host_name", "web01",
			"service_description", "PING", "check_command", "check_ping!200!40"),
		Def(model.TypeService, "use", "generic-service", "host_name", "web01",
			"service_description", "HTTP", "check_command", "check_http", "_URL", "/health"),
		Def(model.TypeService, "use", "generic-service", "hostgroup_name", "linux",
			"service_description", "SSH"),

		Def(model.TypeContact, "name", "generic-contact", "register", "0", "pager", "555-0100"),
		Def(model.TypeContact, "contact_name", "alice", "use", "generic-contact",
			"email", "alice@example.com", "contactgroups", "admins"),
		Def(model.TypeContact, "contact_name", "bob", "contactgroups", "+linux-admins"),
		Def(model.TypeContact, "contact_name", "carol"),

		Def(model.TypeContactgroup, "contactgroup_name", "admins", "members", "carol"),
		Def(model.TypeContactgroup, "contactgroup_name", "linux-admins", "contactgroup_members", "admins"),
	}
}

// NewRegistry returns a registry over an in-memory store holding defs.
func NewRegistry(t testing.TB, defs []*model.Definition, resources []model.Resource, opts ...model.Option) (*model.Registry, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(defs, resources)
	reg := model.NewRegistry(mem, opts...)
	t.Cleanup(reg.Close)
	return reg, mem
}

// StandardRegistry is NewRegistry over the standard fixture.
func StandardRegistry(t testing.TB, opts ...model.Option) *model.Registry {
	t.Helper()
	reg, _ := NewRegistry(t, StandardDefinitions(), StandardResources(), opts...)
	return reg
}

// MustGet looks up an object by shortname and fails the test when it is
// missing.
func MustGet(t testing.TB, reg *model.Registry, typ model.ObjectType, shortname string) *model.Object {
	t.Helper()
	obj, err := reg.Objects(typ).GetByShortname(shortname)
	if err != nil {
		t.Fatalf("GetByShortname(%s, %q): %v", typ, shortname, err)
	}
	return obj
}

// MustGetTemplate looks up a template by its name attribute. Templates
// usually lack the shortname field, so MustGet cannot find them.
func MustGetTemplate(t testing.TB, reg *model.Registry, typ model.ObjectType, name string) *model.Object {
	t.Helper()
	objs, err := reg.Objects(typ).Filter(query.Where(string(model.FieldName), name))
	if err != nil {
		t.Fatalf("Filter(%s, name=%q): %v", typ, name, err)
	}
	if len(objs) != 1 {
		t.Fatalf("Filter(%s, name=%q) returned %d objects, want 1", typ, name, len(objs))
	}
	return objs[0]
}

// Shortnames returns the shortnames of objs in order.
func Shortnames(objs []*model.Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.Shortname())
	}
	return out
}

// EventRecorder is a model.Observer that keeps every event.
type EventRecorder struct {
	Events []model.Event
}

// Notify implements model.Observer.
func (r *EventRecorder) Notify(e model.Event) {
	r.Events = append(r.Events, e)
}

// Messages returns the messages of events at the given level.
func (r *EventRecorder) Messages(level model.EventLevel) []string {
	var out []string
	for _, e := range r.Events {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// TestConfig is a temporary working directory holding a YAML snapshot.
type TestConfig struct {
	Dir          string
	SnapshotPath string

	t         *testing.T
	defs      []*model.Definition
	resources []model.Resource
	files     map[string]string
}

// NewTestConfig creates a new builder. Call Build to write the snapshot.
func NewTestConfig(t *testing.T) *TestConfig {
	t.Helper()
	return &TestConfig{t: t, files: make(map[string]string)}
}

// WithStandardObjects adds the standard fixture.
func (c *TestConfig) WithStandardObjects() *TestConfig {
	c.defs = append(c.defs, StandardDefinitions()...)
	c.resources = append(c.resources, StandardResources()...)
	return c
}

// WithDefinition adds one definition.
func (c *TestConfig) WithDefinition(t model.ObjectType, kv ...string) *TestConfig {
	c.defs = append(c.defs, Def(t, kv...))
	return c
}

// WithResource adds a resource macro.
func (c *TestConfig) WithResource(name, value string) *TestConfig {
	c.resources = append(c.resources, model.Resource{Name: name, Value: value})
	return c
}

// WithFile adds an extra file relative to the directory root.
func (c *TestConfig) WithFile(path, content string) *TestConfig {
	c.files[path] = content
	return c
}

// Build writes the snapshot and extra files into a temp directory.
func (c *TestConfig) Build() *TestConfig {
	c.t.Helper()
	c.Dir = c.t.TempDir()
	c.SnapshotPath = filepath.Join(c.Dir, "objects.yaml")

	f, err := os.Create(c.SnapshotPath)
	if err != nil {
		c.t.Fatalf("failed to create snapshot: %v", err)
	}
	if _, err := store.NewSnapshot(c.defs, c.resources).WriteTo(f); err != nil {
		f.Close()
		c.t.Fatalf("failed to write snapshot: %v", err)
	}
	if err := f.Close(); err != nil {
		c.t.Fatalf("failed to close snapshot: %v", err)
	}

	for path, content := range c.files {
		c.writeFile(path, content)
	}
	return c
}

func (c *TestConfig) writeFile(relPath, content string) {
	c.t.Helper()
	fullPath := filepath.Join(c.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		c.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file relative to the directory root.
func (c *TestConfig) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Dir, relPath))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// Snapshot reloads the snapshot from disk.
func (c *TestConfig) Snapshot() *store.Snapshot {
	c.t.Helper()
	snap, err := store.LoadSnapshot(c.SnapshotPath)
	if err != nil {
		c.t.Fatalf("failed to load snapshot: %v", err)
	}
	return snap
}
