package model_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/testutil"
)

func TestParents(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	parents, err := web.Parents()
	if err != nil {
		t.Fatalf("Parents() error: %v", err)
	}
	if len(parents) != 1 || parents[0].Value(model.FieldName) != "linux-server" {
		t.Errorf("Parents() = %v", parents)
	}

	all, err := web.EffectiveParents(true)
	if err != nil {
		t.Fatalf("EffectiveParents() error: %v", err)
	}
	var names []string
	for _, p := range all {
		names = append(names, p.Value(model.FieldName))
	}
	if !reflect.DeepEqual(names, []string{"linux-server", "generic-host"}) {
		t.Errorf("EffectiveParents(true) = %v", names)
	}

	tpl := testutil.MustGet(t, reg, model.TypeContact, "carol")
	if ps, err := tpl.Parents(); err != nil || len(ps) != 0 {
		t.Errorf("Parents() without use = %v, %v", ps, err)
	}
}

func TestParentsMissingTemplate(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeHost, "host_name", "orphan", "use", "does-not-exist"),
	}, nil)
	orphan := testutil.MustGet(t, reg, model.TypeHost, "orphan")

	if _, err := orphan.Parents(); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Parents() error = %v, want ErrNotFound", err)
	}
	if _, err := orphan.EffectiveAttribute("contact_groups"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("EffectiveAttribute() error = %v, want ErrNotFound", err)
	}
}

func TestEffectiveAttribute(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeHost, "name", "a", "register", "0", "contact_groups", "ga"),
		testutil.Def(model.TypeHost, "name", "b", "use", "a", "register", "0", "contact_groups", "+gb"),
		testutil.Def(model.TypeHost, "host_name", "chain", "use", "b", "contact_groups", "+gc"),
		testutil.Def(model.TypeHost, "host_name", "inherits-only", "use", "b"),
		testutil.Def(model.TypeHost, "host_name", "replaces", "use", "b", "contact_groups", "own"),

		testutil.Def(model.TypeHost, "name", "f", "register", "0", "contact_groups", "gf"),
		testutil.Def(model.TypeHost, "name", "g", "register", "0", "contact_groups", "gg"),
		testutil.Def(model.TypeHost, "host_name", "stops", "use", "f,g", "contact_groups", "+gh"),

		testutil.Def(model.TypeHost, "name", "p1", "register", "0", "contact_groups", "+gp1"),
		testutil.Def(model.TypeHost, "name", "p2", "register", "0", "contact_groups", "gp2"),
		testutil.Def(model.TypeHost, "host_name", "continues", "use", "p1,p2", "contact_groups", "+gx"),

		testutil.Def(model.TypeHost, "host_name", "dupes", "use", "a", "contact_groups", "+ga,ga,,gz"),
		testutil.Def(model.TypeHost, "host_name", "bare"),

		testutil.Def(model.TypeHost, "name", "base", "register", "0", "contact_groups", "gbase"),
		testutil.Def(model.TypeHost, "name", "left", "use", "base", "register", "0", "contact_groups", "+gl"),
		testutil.Def(model.TypeHost, "name", "right", "use", "base", "register", "0", "contact_groups", "+gr"),
		testutil.Def(model.TypeHost, "host_name", "diamond", "use", "left,right", "contact_groups", "+gd"),
	}, nil)

	tests := []struct {
		host string
		want string
	}{
		{"chain", "gc,gb,ga"},
		{"inherits-only", "gb,ga"},
		{"replaces", "own"},
		{"stops", "gh,gf"},
		{"continues", "gx,gp1,gp2"},
		{"dupes", "ga,gz"},
		{"bare", ""},
		{"diamond", "gd,gl,gbase,gr"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.host, func(t *testing.T) {
			obj := testutil.MustGet(t, reg, model.TypeHost, tt.host)
			got, err := obj.EffectiveAttribute("contact_groups")
			if err != nil {
				t.Fatalf("EffectiveAttribute() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EffectiveAttribute() = %q, want %q", got, tt.want)
			}
		})
	}

	chain := testutil.MustGet(t, reg, model.TypeHost, "chain")
	list, err := chain.EffectiveList("contact_groups")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(list, []string{"gc", "gb", "ga"}) {
		t.Errorf("EffectiveList() = %v", list)
	}

	// Pending edits take part in resolution.
	chain.Set("contact_groups", "override")
	if got, _ := chain.EffectiveAttribute("contact_groups"); got != "override" {
		t.Errorf("EffectiveAttribute() after Set = %q, want override", got)
	}
}

func TestEffectiveAttributeCycle(t *testing.T) {
	t.Parallel()
	reg, _ := testutil.NewRegistry(t, []*model.Definition{
		testutil.Def(model.TypeHost, "name", "x", "use", "y", "register", "0"),
		testutil.Def(model.TypeHost, "name", "y", "use", "x", "register", "0"),
		testutil.Def(model.TypeHost, "host_name", "looped", "use", "x", "contact_groups", "+gz"),
	}, nil)
	looped := testutil.MustGet(t, reg, model.TypeHost, "looped")

	_, err := looped.EffectiveAttribute("contact_groups")
	if !errors.Is(err, model.ErrCycleDetected) {
		t.Fatalf("EffectiveAttribute() error = %v, want ErrCycleDetected", err)
	}
	var ce *model.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not *CycleError", err)
	}
	if want := []string{"looped", "x", "y", "x"}; !reflect.DeepEqual(ce.Chain, want) {
		t.Errorf("cycle chain = %v, want %v", ce.Chain, want)
	}

	if _, err := looped.EffectiveParents(true); !errors.Is(err, model.ErrCycleDetected) {
		t.Errorf("EffectiveParents(true) error = %v, want ErrCycleDetected", err)
	}
	// Single-level lookups never recurse.
	if ps, err := looped.EffectiveParents(false); err != nil || len(ps) != 1 {
		t.Errorf("EffectiveParents(false) = %v, %v", ps, err)
	}
}
