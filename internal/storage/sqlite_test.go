package storage

import (
	"encoding/json"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_events_session_created", "idx_events_kind"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

func TestAppendAndListEvents(t *testing.T) {
	s := openTestStore(t)

	payload, _ := json.Marshal(map[string]any{"turn": 1})
	if err := s.AppendEvent("sess-1", EventTurnRecorded, payload); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent("sess-1", EventArtifactStored, []byte(`{"artifact_id":"a1"}`)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent("sess-2", EventSessionCreated, []byte(`{}`)); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}

	events, err := s.ListSessionEvents("sess-1", 100)
	if err != nil {
		t.Fatalf("ListSessionEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Kind != EventTurnRecorded || events[1].Kind != EventArtifactStored {
		t.Errorf("events out of order: %s, %s", events[0].Kind, events[1].Kind)
	}
	if events[0].Payload != `{"turn":1}` {
		t.Errorf("payload = %q", events[0].Payload)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("created_at not round-tripped")
	}
}

func TestRecentEventsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, kind := range []string{EventSessionCreated, EventTurnRecorded, EventSummaryGenerated} {
		if err := s.AppendEvent("sess-1", kind, []byte(`{}`)); err != nil {
			t.Fatalf("AppendEvent(%s): %v", kind, err)
		}
	}

	events, err := s.RecentEvents(2)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Kind != EventSummaryGenerated {
		t.Errorf("newest event = %s, want %s", events[0].Kind, EventSummaryGenerated)
	}
}

func TestGetEventUnknown(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetEvent("ghost"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
