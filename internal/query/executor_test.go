package query

import "testing"

type testRecord struct {
	id    string
	attrs map[string]string
}

func (r testRecord) Get(key string) (string, bool) {
	v, ok := r.attrs[key]
	return v, ok
}

func (r testRecord) Has(key string) bool {
	_, ok := r.attrs[key]
	return ok
}

func (r testRecord) ID() string { return r.id }

func TestMatch(t *testing.T) {
	t.Parallel()

	web := testRecord{id: "abc123", attrs: map[string]string{
		"host_name":  "web01",
		"address":    "10.0.0.1",
		"hostgroups": "+linux,web",
		"notes":      "",
	}}
	template := testRecord{id: "tpl", attrs: map[string]string{
		"name":     "generic-host",
		"register": "0",
	}}

	tests := []struct {
		name  string
		rec   testRecord
		preds []Predicate
		want  bool
	}{
		{"no predicates", web, nil, true},
		{"exact", web, []Predicate{Where("host_name", "web01")}, true},
		{"exact mismatch", web, []Predicate{Where("host_name", "web02")}, false},
		{"startswith", web, []Predicate{Where("host_name__startswith", "web")}, true},
		{"endswith", web, []Predicate{Where("address__endswith", ".1")}, true},
		{"contains", web, []Predicate{Where("address__contains", "0.0")}, true},
		{"notcontains", web, []Predicate{Where("address__notcontains", "192")}, true},
		{"notcontains hit", web, []Predicate{Where("address__notcontains", "10.")}, false},
		{"isnot", web, []Predicate{Where("host_name__isnot", "db01")}, true},
		{"isnot same", web, []Predicate{Where("host_name__isnot", "web01")}, false},
		{"has_field strips marker", web, []Predicate{Where("hostgroups__has_field", "linux")}, true},
		{"has_field no partial", web, []Predicate{Where("hostgroups__has_field", "lin")}, false},
		{"missing field fails", web, []Predicate{Where("alias", "x")}, false},
		{"missing field fails for isnot", web, []Predicate{Where("alias__isnot", "x")}, false},
		{"absent matches missing", web, []Predicate{WhereAbsent("alias")}, true},
		{"absent rejects present", web, []Predicate{WhereAbsent("host_name")}, false},
		{"absent rejects empty value", web, []Predicate{WhereAbsent("notes")}, false},
		{"empty value is a value", web, []Predicate{Where("notes", "")}, true},
		{"register defaults to registered", web, []Predicate{Where("register", "1")}, true},
		{"register 1 with explicit 0", template, []Predicate{Where("register", "1")}, false},
		{"register 0", template, []Predicate{Where("register", 0)}, true},
		{"register 0 without field", web, []Predicate{Where("register", "0")}, false},
		{"register absent without field", web, []Predicate{Where("register", nil)}, true},
		{"register absent with explicit 0", template, []Predicate{WhereAbsent("register")}, false},
		{"id short-circuits", web, []Predicate{Where("id", "abc123"), Where("host_name", "nope")}, true},
		{"id mismatch", web, []Predicate{Where("id", "zzz")}, false},
		{"and of predicates", web, []Predicate{Where("host_name", "web01"), Where("address", "10.0.0.2")}, false},
		{"integer coerced", testRecord{attrs: map[string]string{"max_check_attempts": "3"}}, []Predicate{Where("max_check_attempts", 3)}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Match(tt.rec, tt.preds...); got != tt.want {
				t.Errorf("Match(%v) = %v, want %v", tt.preds, got, tt.want)
			}
		})
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	t.Parallel()

	recs := []testRecord{
		{id: "1", attrs: map[string]string{"host_name": "web01"}},
		{id: "2", attrs: map[string]string{"host_name": "db01"}},
		{id: "3", attrs: map[string]string{"host_name": "web02"}},
	}
	got := Filter(recs, Where("host_name__startswith", "web"))
	if len(got) != 2 || got[0].id != "1" || got[1].id != "3" {
		t.Fatalf("Filter() = %v, want records 1 and 3", got)
	}

	none := Filter(recs, Where("host_name", "mail01"))
	if none == nil {
		t.Fatal("Filter() with no matches returned nil, want empty slice")
	}
	if len(none) != 0 {
		t.Fatalf("Filter() = %v, want empty", none)
	}
}

func TestHasField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		list, item string
		want       bool
	}{
		{"linux,web", "web", true},
		{"+linux,web", "linux", true},
		{"linux", "linux", true},
		{"linux,web", "db", false},
		{"", "", true},
		{"linux, web", "web", false},
	}
	for _, tt := range tests {
		if got := HasField(tt.list, tt.item); got != tt.want {
			t.Errorf("HasField(%q, %q) = %v, want %v", tt.list, tt.item, got, tt.want)
		}
	}
}
