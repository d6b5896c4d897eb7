package model_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/query"
	"github.com/aidanlsb/nagmodel/internal/testutil"
)

func TestCollectionAll(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	hosts, err := reg.Objects(model.TypeHost).All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(hosts) != 4 {
		t.Errorf("got %d hosts, want 4", len(hosts))
	}

	all, err := reg.Objects("").All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != len(testutil.StandardDefinitions()) {
		t.Errorf("got %d objects, want %d", len(all), len(testutil.StandardDefinitions()))
	}

	// The all-types collection shares the per-type objects.
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")
	found := false
	for _, o := range all {
		if o == web {
			found = true
		}
	}
	if !found {
		t.Error("all-types collection does not contain the cached web01 object")
	}
}

func TestCollectionIdentityMap(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	a := testutil.MustGet(t, reg, model.TypeHost, "web01")
	b := testutil.MustGet(t, reg, model.TypeHost, "web01")
	if a != b {
		t.Fatal("repeated lookups returned different objects")
	}
	a.Set("notes", "seen by every holder")
	if got := b.Value(model.FieldNotes); got != "seen by every holder" {
		t.Errorf("pending edit not visible through second handle: %q", got)
	}

	byID, err := reg.Objects(model.TypeHost).GetByID(a.ID())
	if err != nil || byID != a {
		t.Errorf("GetByID() = %v, %v; want web01", byID, err)
	}
	anyType, err := reg.Objects("").GetByID(a.ID())
	if err != nil || anyType != a {
		t.Errorf("GetByID() across types = %v, %v; want web01", anyType, err)
	}
}

func TestCollectionNotFound(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	_, err := reg.Objects(model.TypeHost).GetByShortname("mail01")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByShortname error = %v, want ErrNotFound", err)
	}
	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error %T is not *NotFoundError", err)
	}
	if nf.Key != "host_name" || nf.Value != "mail01" || nf.Type != model.TypeHost {
		t.Errorf("NotFoundError = %+v", nf)
	}

	_, err = reg.Objects(model.TypeService).GetByID("0000")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestCollectionFilter(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	tests := []struct {
		name  string
		typ   model.ObjectType
		preds []query.Predicate
		want  []string
	}{
		{
			name:  "registered hosts",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.Where("register", "1")},
			want:  []string{"web01", "db01"},
		},
		{
			name:  "templates",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.Where("register", 0)},
			want:  []string{"", ""},
		},
		{
			name:  "register absent",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.Where("register", nil)},
			want:  []string{"web01", "db01"},
		},
		{
			name:  "register absent and defaulted",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.WhereAbsent("register"), query.Where("register", "1")},
			want:  []string{"web01", "db01"},
		},
		{
			name:  "no address",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.WhereAbsent("address")},
			want:  []string{"", ""},
		},
		{
			name:  "startswith",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.Where("host_name__startswith", "web")},
			want:  []string{"web01"},
		},
		{
			name:  "has_field on inherited additive list",
			typ:   model.TypeHost,
			preds: []query.Predicate{query.Where("contact_groups__has_field", "admins")},
			want:  []string{"", "db01"},
		},
		{
			name:  "services by hostgroup",
			typ:   model.TypeService,
			preds: []query.Predicate{query.Where("hostgroup_name__has_field", "linux")},
			want:  []string{"/SSH"},
		},
		{
			name: "services on host excluding templates",
			typ:  model.TypeService,
			preds: []query.Predicate{
				query.Where("host_name", "web01"),
				query.Where("service_description__isnot", "HTTP"),
			},
			want: []string{"web01/PING"},
		},
		{
			name:  "meta field",
			typ:   model.TypeCommand,
			preds: []query.Predicate{query.Where("object_type", "command"), query.Where("command_line__contains", "check_http")},
			want:  []string{"check_http"},
		},
		{
			name:  "nothing",
			typ:   model.TypeContact,
			preds: []query.Predicate{query.Where("email__endswith", ".org")},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Objects(tt.typ).Filter(tt.preds...)
			if err != nil {
				t.Fatalf("Filter() error: %v", err)
			}
			if names := testutil.Shortnames(got); !reflect.DeepEqual(names, tt.want) {
				t.Errorf("Filter() = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestCollectionWhere(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	got, err := reg.Objects(model.TypeContact).Where(model.FieldEmail, "alice@example.com", "pager", "555-0100")
	if err != nil {
		t.Fatalf("Where() error: %v", err)
	}
	if names := testutil.Shortnames(got); !reflect.DeepEqual(names, []string{"alice"}) {
		t.Errorf("Where() = %v, want [alice]", names)
	}

	got, err = reg.Objects(model.TypeContact).Where("email", nil)
	if err != nil {
		t.Fatalf("Where() error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Where(email, nil) matched %d contacts, want 3", len(got))
	}

	if _, err := reg.Objects(model.TypeContact).Where("email"); err == nil {
		t.Error("Where() with odd arguments succeeded")
	}
	if _, err := reg.Objects(model.TypeContact).Where(42, "x"); err == nil {
		t.Error("Where() with non-string field succeeded")
	}
}

func TestRegistryNew(t *testing.T) {
	t.Parallel()
	rec := &testutil.EventRecorder{}
	reg := testutil.StandardRegistry(t, model.WithObserver(rec))

	// Load hosts first so the new object joins the cached collection.
	if _, err := reg.Objects(model.TypeHost).All(); err != nil {
		t.Fatal(err)
	}
	host, err := reg.New(model.TypeHost, model.DefaultFilename(model.TypeHost, "mail01"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	host.Set("host_name", "mail01")
	host.Set("address", "10.0.0.3")
	if n, err := host.Save(); err != nil || n != 2 {
		t.Fatalf("Save() = %d, %v; want 2, nil", n, err)
	}

	got := testutil.MustGet(t, reg, model.TypeHost, "mail01")
	if got != host {
		t.Error("new host is not the cached object")
	}
	if got.Value(model.FieldFilename) != "hosts/mail01.cfg" {
		t.Errorf("filename = %q", got.Value(model.FieldFilename))
	}

	// A fresh registry over the same store sees the saved definition.
	fresh := model.NewRegistry(reg.Store())
	if other := testutil.MustGet(t, fresh, model.TypeHost, "mail01"); other.Value(model.FieldAddress) != "10.0.0.3" {
		t.Errorf("persisted address = %q", other.Value(model.FieldAddress))
	}
}

func TestRegistryNewBeforeLoad(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)

	host, err := reg.New(model.TypeHost, "hosts/mail01.cfg")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	all, err := reg.Objects(model.TypeHost).All()
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("All() returned %d hosts, want 5", len(all))
	}
	count := 0
	for _, o := range all {
		if o.Meta().Key == host.Meta().Key {
			count++
			if o != host {
				t.Error("collection holds a second instance of the new host")
			}
		}
	}
	if count != 1 {
		t.Errorf("new host appears %d times, want 1", count)
	}
}

func TestRegistryResources(t *testing.T) {
	t.Parallel()
	reg := testutil.StandardRegistry(t)
	res, err := reg.Resources()
	if err != nil {
		t.Fatalf("Resources() error: %v", err)
	}
	if len(res) != 2 || res[0].Name != "$USER1$" {
		t.Errorf("Resources() = %v", res)
	}
}

func TestRegistryObserverAndClock(t *testing.T) {
	t.Parallel()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &testutil.EventRecorder{}
	reg := testutil.StandardRegistry(t, model.WithObserver(rec), model.WithClock(func() time.Time { return fixed }))

	web := testutil.MustGet(t, reg, model.TypeHost, "web01")
	web.Set("alias", "Front")
	if len(rec.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.Events))
	}
	e := rec.Events[0]
	if e.Level != model.EventDebug || e.Object != web || !e.Time.Equal(fixed) {
		t.Errorf("event = %+v", e)
	}
	if e.Message != "attribute changed: alias = Front" {
		t.Errorf("message = %q", e.Message)
	}

	reg.Close()
	web.Set("alias", "Back")
	if len(rec.Events) != 1 {
		t.Error("observer notified after Close")
	}
}
