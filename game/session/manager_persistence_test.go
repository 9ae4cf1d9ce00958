package session

import (
	"errors"
	"testing"
)

func TestManagerWithPersistence(t *testing.T) {
	persistence, levels, _ := newTestPersistence(t)
	m := NewManagerWithPersistence(persistence)

	sess, err := m.Create("durable", levels.GetDefault())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !persistence.Exists("durable") {
		t.Fatalf("expected the new session to be persisted")
	}

	sess.Engine.Move("right")
	if err := m.Save("durable"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("reload after memory eviction", func(t *testing.T) {
		if err := m.DeleteFromMemory("durable"); err != nil {
			t.Fatalf("DeleteFromMemory failed: %v", err)
		}
		if m.Count() != 0 {
			t.Fatalf("expected no sessions in memory")
		}

		reloaded, err := m.Get("durable")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if reloaded.Engine.GetState().TotalMoves != 1 {
			t.Errorf("expected 1 restored move, got %d", reloaded.Engine.GetState().TotalMoves)
		}
	})

	t.Run("load persisted sessions at startup", func(t *testing.T) {
		fresh := NewManagerWithPersistence(persistence)
		if err := fresh.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if fresh.Count() != 1 {
			t.Errorf("expected 1 loaded session, got %d", fresh.Count())
		}
		if err := fresh.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})

	t.Run("delete removes the file", func(t *testing.T) {
		if err := m.Delete("durable"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("durable") {
			t.Errorf("expected the persisted file to be removed")
		}
		if _, err := m.Get("durable"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})
}
