package model_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aidanlsb/nagmodel/internal/model"
	"github.com/aidanlsb/nagmodel/internal/testutil"
)

// countingStore records the writes that reach the wrapped store.
type countingStore struct {
	model.Store
	edits int
}

func (s *countingStore) EditField(def *model.Definition, field, value string) (bool, error) {
	s.edits++
	return s.Store.EditField(def, field, value)
}

func TestSaveWithoutEditsWritesNothing(t *testing.T) {
	t.Parallel()
	_, mem := testutil.NewRegistry(t, testutil.StandardDefinitions(), nil)
	counting := &countingStore{Store: mem}
	reg := model.NewRegistry(counting)
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	web.Set("address", "10.0.0.9")
	if n, err := web.Save(); err != nil || n != 1 {
		t.Fatalf("Save() = %d, %v; want 1, nil", n, err)
	}
	if counting.edits != 1 {
		t.Fatalf("store edits after first save = %d, want 1", counting.edits)
	}

	for i := 0; i < 2; i++ {
		if n, err := web.Save(); err != nil || n != 0 {
			t.Errorf("repeated Save() = %d, %v; want 0, nil", n, err)
		}
	}
	if counting.edits != 1 {
		t.Errorf("store edits after repeated saves = %d, want 1", counting.edits)
	}
}

func TestSave(t *testing.T) {
	t.Parallel()
	rec := &testutil.EventRecorder{}
	reg, mem := testutil.NewRegistry(t, testutil.StandardDefinitions(), testutil.StandardResources(), model.WithObserver(rec))
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	web.Set("address", "10.0.0.9")
	web.Set("notes", "moved racks")
	n, err := web.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Save() = %d, want 2", n)
	}
	if web.IsDirty() {
		t.Errorf("object still dirty after save: %v", web.Changes())
	}
	if got := web.Definition().Meta.Defined["address"]; got != "10.0.0.9" {
		t.Errorf("defined address = %q", got)
	}

	want := []string{
		"address changed from '10.0.0.1' to '10.0.0.9'",
		"notes changed from '' to 'moved racks'",
	}
	if got := rec.Messages(model.EventWrite); !reflect.DeepEqual(got, want) {
		t.Errorf("write events = %v, want %v", got, want)
	}

	// Saving again with no edits is a no-op.
	if n, err := web.Save(); err != nil || n != 0 {
		t.Errorf("second Save() = %d, %v; want 0, nil", n, err)
	}

	fresh := model.NewRegistry(mem)
	reloaded := testutil.MustGet(t, fresh, model.TypeHost, "web01")
	if got := reloaded.Value(model.FieldAddress); got != "10.0.0.9" {
		t.Errorf("reloaded address = %q", got)
	}
	if got := reloaded.Value(model.FieldNotes); got != "moved racks" {
		t.Errorf("reloaded notes = %q", got)
	}
}

func TestSaveRejectedEditStaysPending(t *testing.T) {
	t.Parallel()
	rec := &testutil.EventRecorder{}
	reg, mem := testutil.NewRegistry(t, testutil.StandardDefinitions(), nil, model.WithObserver(rec))
	mem.SetReadOnly("alias")
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	web.Set("alias", "Renamed")
	web.Set("address", "10.0.0.5")
	n, err := web.Save()
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Save() = %d, want 1", n)
	}
	if !web.IsDirty() {
		t.Error("rejected edit was dropped")
	}
	if got := web.Changes(); !reflect.DeepEqual(got, map[string]string{"alias": "Renamed"}) {
		t.Errorf("Changes() = %v", got)
	}
	if got := len(rec.Messages(model.EventWrite)); got != 1 {
		t.Errorf("got %d write events, want 1", got)
	}
}

func TestRewrite(t *testing.T) {
	t.Parallel()
	rec := &testutil.EventRecorder{}
	reg, mem := testutil.NewRegistry(t, testutil.StandardDefinitions(), nil, model.WithObserver(rec))
	web := testutil.MustGet(t, reg, model.TypeHost, "web01")

	text := "define host {\n  host_name web01\n}\n"
	if err := web.Rewrite(text); err != nil {
		t.Fatalf("Rewrite() error: %v", err)
	}
	if got := web.Value(model.FieldRawDefinition); got != text {
		t.Errorf("raw_definition = %q", got)
	}
	if err := web.Rewrite(""); err != nil {
		t.Fatalf("Rewrite(\"\") error: %v", err)
	}
	if got := web.Meta().RawDefinition; got != text {
		t.Errorf("empty rewrite changed the text to %q", got)
	}

	stored, _ := mem.ListDefinitions(model.TypeHost)
	for _, d := range stored {
		if d.Meta.Defined["host_name"] == "web01" && d.Meta.RawDefinition != text {
			t.Errorf("store raw definition = %q", d.Meta.RawDefinition)
		}
	}
	if got := rec.Messages(model.EventWrite); len(got) != 2 || got[0] != "Object definition rewritten" {
		t.Errorf("write events = %v", got)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	rec := &testutil.EventRecorder{}
	reg, mem := testutil.NewRegistry(t, testutil.StandardDefinitions(), nil, model.WithObserver(rec))
	db := testutil.MustGet(t, reg, model.TypeHost, "db01")

	if _, err := db.Delete(true); !errors.Is(err, model.ErrUnimplemented) {
		t.Fatalf("Delete(true) error = %v, want ErrUnimplemented", err)
	}

	removed, err := db.Delete(false)
	if err != nil || !removed {
		t.Fatalf("Delete(false) = %v, %v", removed, err)
	}
	if _, err := reg.Objects(model.TypeHost).GetByShortname("db01"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("deleted host still in collection: %v", err)
	}
	if _, err := model.NewRegistry(mem).Objects(model.TypeHost).GetByShortname("db01"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("deleted host still in store: %v", err)
	}
	if got := rec.Messages(model.EventWrite); !reflect.DeepEqual(got, []string{"Object was deleted"}) {
		t.Errorf("write events = %v", got)
	}

	// A second delete finds nothing to remove.
	if removed, err := db.Delete(false); err != nil || removed {
		t.Errorf("second Delete() = %v, %v", removed, err)
	}
}
