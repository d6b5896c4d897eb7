package model_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/testutil"
)

func TestEffectiveHostgroups(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	tests := []struct {
		host string
		want []string
	}{
		// own list, inherited list, nesting through servers
		{"web01", []string{"web", "linux", "servers"}},
		{"db01", []string{"databases", "servers"}},
	}
	for _, tt := range tests {
		obj := testutil.MustGet(t, reg, model.TypeHost, tt.host)
		groups, err := obj.EffectiveHostgroups()
		if err != nil {
			t.Fatalf("%s: EffectiveHostgroups() error: %v", tt.host, err)
		}
		if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: EffectiveHostgroups() = %v, want %v", tt.host, got, tt.want)
		}
	}

	tpl, err := reg.Objects(model.TypeHost).Where("name", "generic-host")
	if err != nil || len(tpl) != 1 {
		t.Fatalf("template lookup = %v, %v", tpl, err)
	}
	groups, err := tpl[0].EffectiveHostgroups()
	if err != nil || groups == nil || len(groups) != 0 {
		t.Errorf("template EffectiveHostgroups() = %v, %v; want empty", groups, err)
	}
}

func TestEffectiveHostgroupsTransitiveAndTemplates(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeHost, "host_name", "h1"),
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "leaf", "members", "h1"),
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "middle", "hostgroup_members", "leaf"),
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "top", "hostgroup_members", "middle"),
		// Two groups nesting each other must not loop.
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "loop-a", "hostgroup_members", "leaf,loop-b"),
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "loop-b", "hostgroup_members", "loop-a"),
		testutil.Def(model.TypeHostgroup, "hostgroup_name", "derived", "use", "leaf", "members", "other"),
	}, nil)
	h1 := testutil.MustGet(t, reg, model.TypeHost, "h1")

	groups, err := h1.EffectiveHostgroups()
	if err != nil {
		t.Fatalf("EffectiveHostgroups() error: %v", err)
	}
	want := []string{"leaf", "middle", "loop-a", "top", "loop-b", "derived"}
	if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, want) {
		t.Errorf("EffectiveHostgroups() = %v, want %v", got, want)
	}
}

func TestEffectiveHostgroupsMissingGroup(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeHost, "host_name", "h1", "hostgroups", "nowhere"),
	}, nil)
	h1 := testutil.MustGet(t, reg, model.TypeHost, "h1")
	if _, err := h1.EffectiveHostgroups(); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("EffectiveHostgroups() error = %v, want ErrNotFound", err)
	}
}

func TestEffectiveContactgroups(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	tests := []struct {
		contact string
		want    []string
	}{
		{"alice", []string{"admins"}},
		{"bob", []string{"linux-admins"}},
		{"carol", []string{"admins", "linux-admins"}},
	}
	for _, tt := range tests {
		obj := testutil.MustGet(t, reg, model.TypeContact, tt.contact)
		groups, err := obj.EffectiveContactgroups()
		if err != nil {
			t.Fatalf("%s: EffectiveContactgroups() error: %v", tt.contact, err)
		}
		if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: EffectiveContactgroups() = %v, want %v", tt.contact, got, tt.want)
		}
	}
}

func TestEffectiveMembers(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	tests := []struct {
		group string
		want  []string
	}{
		{"admins", []string{"carol", "alice"}},
		{"linux-admins", []string{"carol", "alice", "bob"}},
	}
	for _, tt := range tests {
		obj := testutil.MustGet(t, reg, model.TypeContactgroup, tt.group)
		members, err := obj.EffectiveMembers()
		if err != nil {
			t.Fatalf("%s: EffectiveMembers() error: %v", tt.group, err)
		}
		if got := testutil.Shortnames(members); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: EffectiveMembers() = %v, want %v", tt.group, got, tt.want)
		}
	}

	web := testutil.MustGet(t, reg, model.TypeHost, "web01")
	if _, err := web.EffectiveMembers(); !errors.Is(err, model.ErrUnimplemented) {
		t.Errorf("host EffectiveMembers() error = %v, want ErrUnimplemented", err)
	}
}

func TestEffectiveMembersNestedReverseMembership(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeContact, "contact_name", "alice", "contactgroups", "inner"),
		testutil.Def(model.TypeContactgroup, "contactgroup_name", "inner"),
		testutil.Def(model.TypeContactgroup, "contactgroup_name", "outer", "contactgroup_members", "inner"),
	}, nil)

	tests := []struct {
		group string
		want  []string
	}{
		{"inner", []string{"alice"}},
		{"outer", []string{"alice"}},
	}
	for _, tt := range tests {
		g := testutil.MustGet(t, reg, model.TypeContactgroup, tt.group)
		members, err := g.EffectiveMembers()
		if err != nil {
			t.Fatalf("%s: EffectiveMembers() error: %v", tt.group, err)
		}
		if got := testutil.Shortnames(members); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: EffectiveMembers() = %v, want %v", tt.group, got, tt.want)
		}
	}
}

func TestEffectiveMembersErrors(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeContactgroup, "contactgroup_name", "g1", "contactgroup_members", "g2"),
		testutil.Def(model.TypeContactgroup, "contactgroup_name", "g2", "contactgroup_members", "g1"),
		testutil.Def(model.TypeContactgroup, "contactgroup_name", "g3", "members", "nobody"),
	}, nil)

	g1 := testutil.MustGet(t, reg, model.TypeContactgroup, "g1")
	if _, err := g1.EffectiveMembers(); !errors.Is(err, model.ErrCycleDetected) {
		t.Errorf("EffectiveMembers() error = %v, want ErrCycleDetected", err)
	}
	g3 := testutil.MustGet(t, reg, model.TypeContactgroup, "g3")
	if _, err := g3.EffectiveMembers(); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("EffectiveMembers() error = %v, want ErrNotFound", err)
	}
}

func TestRelatedObjects(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	templates, err := reg.Objects(model.TypeHost).Where("name", "generic-host")
	if err != nil || len(templates) != 1 {
		t.Fatalf("template lookup = %v, %v", templates, err)
	}
	related, err := templates[0].RelatedObjects()
	if err != nil {
		t.Fatalf("RelatedObjects() error: %v", err)
	}
	var names []string
	for _, o := range related {
		if n := o.Value(model.FieldName); n != "" {
			names = append(names, n)
		} else {
			names = append(names, o.Shortname())
		}
	}
	if want := []string{"linux-server", "db01"}; !reflect.DeepEqual(names, want) {
		t.Errorf("RelatedObjects() = %v, want %v", names, want)
	}

	web := testutil.MustGet(t, reg, model.TypeHost, "web01")
	related, err = web.RelatedObjects()
	if err != nil {
		t.Fatalf("RelatedObjects() error: %v", err)
	}
	if got, want := testutil.Shortnames(related), []string{"web01/PING", "web01/HTTP"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RelatedObjects() = %v, want %v", got, want)
	}
}

func TestEffectiveServices(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	tests := []struct {
		host string
		want []string
	}{
		{"web01", []string{"web01/PING", "web01/HTTP", "/SSH"}},
		{"db01", []string{}},
	}
	for _, tt := range tests {
		obj := testutil.MustGet(t, reg, model.TypeHost, tt.host)
		services, err := obj.EffectiveServices()
		if err != nil {
			t.Fatalf("%s: EffectiveServices() error: %v", tt.host, err)
		}
		if got := testutil.Shortnames(services); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: EffectiveServices() = %v, want %v", tt.host, got, tt.want)
		}
	}

	alice := testutil.MustGet(t, reg, model.TypeContact, "alice")
	if _, err := alice.EffectiveServices(); !errors.Is(err, model.ErrUnimplemented) {
		t.Errorf("contact EffectiveServices() error = %v, want ErrUnimplemented", err)
	}
}

func TestEffectiveContactsAndGroups(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, append(testutil.StandardDefinitions(),
		testutil.Def(model.TypeService, "host_name", "db01", "service_description", "MYSQL",
			"contacts", "alice,bob", "contact_groups", "+linux-admins"),
	), testutil.StandardResources())

	mysql := testutil.MustGet(t, reg, model.TypeService, "db01/MYSQL")
	contacts, err := mysql.EffectiveContacts()
	if err != nil {
		t.Fatalf("EffectiveContacts() error: %v", err)
	}
	if got := testutil.Shortnames(contacts); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("EffectiveContacts() = %v", got)
	}
	groups, err := mysql.EffectiveContactGroups()
	if err != nil {
		t.Fatalf("EffectiveContactGroups() error: %v", err)
	}
	if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, []string{"linux-admins"}) {
		t.Errorf("EffectiveContactGroups() = %v", got)
	}

	web := testutil.MustGet(t, reg, model.TypeHost, "web01")
	groups, err = web.EffectiveContactGroups()
	if err != nil {
		t.Fatalf("EffectiveContactGroups() error: %v", err)
	}
	if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, []string{"linux-admins", "admins"}) {
		t.Errorf("host EffectiveContactGroups() = %v", got)
	}

	alice := testutil.MustGet(t, reg, model.TypeContact, "alice")
	groups, err = alice.EffectiveContactGroups()
	if err != nil {
		t.Fatalf("EffectiveContactGroups() error: %v", err)
	}
	if got := testutil.Shortnames(groups); !reflect.DeepEqual(got, []string{"admins"}) {
		t.Errorf("contact EffectiveContactGroups() = %v", got)
	}

	if _, err := web.EffectiveHosts(); !errors.Is(err, model.ErrUnimplemented) {
		t.Errorf("EffectiveHosts() error = %v, want ErrUnimplemented", err)
	}
}
