package adapter

import (
	"reflect"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(NewFactory())
	if _, err := r.RegisterWorkspace("google_chat", "chat", &echoService{}); err != nil {
		t.Fatalf("RegisterWorkspace() error = %v", err)
	}
	if _, err := r.Register("local", &echoService{}, WithMetadata(Metadata{
		Name:     "local",
		Category: "testing",
		Keywords: []string{"local", "test"},
	})); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return r
}

func TestRegistryGetCountsUsage(t *testing.T) {
	r := newTestRegistry(t)

	if _, ok := r.Get("google_chat"); !ok {
		t.Fatal("expected adapter")
	}
	if _, ok := r.Get("google_chat"); !ok {
		t.Fatal("expected adapter")
	}
	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected miss")
	}

	if got := r.Usage("google_chat"); got != 2 {
		t.Errorf("usage = %d, want 2", got)
	}
	if got := r.Usage("local"); got != 0 {
		t.Errorf("usage = %d, want 0", got)
	}
}

func TestRegistryWorkspaceDefaults(t *testing.T) {
	r := newTestRegistry(t)

	meta, ok := r.Metadata("google_chat")
	if !ok {
		t.Fatal("expected metadata")
	}
	if meta.Name != "google_chat" {
		t.Errorf("name = %q", meta.Name)
	}
	if meta.Category != "google_workspace" {
		t.Errorf("category = %q", meta.Category)
	}
	if !meta.RequiresAuth {
		t.Error("expected requiresAuth")
	}
	if !meta.HasKeyword("chat") || !meta.HasKeyword("google") {
		t.Errorf("keywords = %v", meta.Keywords)
	}
}

func TestRegistryFilters(t *testing.T) {
	r := newTestRegistry(t)

	if got := r.FilterByCategory("google_workspace"); !reflect.DeepEqual(got, []string{"google_chat"}) {
		t.Errorf("FilterByCategory = %v", got)
	}
	if got := r.FilterByKeywords([]string{"test"}); !reflect.DeepEqual(got, []string{"local"}) {
		t.Errorf("FilterByKeywords = %v", got)
	}
	if got := r.FilterByKeywords([]string{"workspace", "local"}); len(got) != 2 {
		t.Errorf("FilterByKeywords = %v", got)
	}
	if got := r.FilterByKeywords([]string{"nothing"}); len(got) != 0 {
		t.Errorf("FilterByKeywords = %v", got)
	}
}

func TestRegistryUnregisterAndClear(t *testing.T) {
	r := newTestRegistry(t)

	if !r.Unregister("local") {
		t.Error("expected unregister to succeed")
	}
	if r.Unregister("local") {
		t.Error("expected second unregister to fail")
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"google_chat"}) {
		t.Errorf("Names = %v", got)
	}

	r.Clear()
	if got := r.Names(); len(got) != 0 {
		t.Errorf("Names after Clear = %v", got)
	}
}
