package core

import "testing"

func TestRegistryBindUnbind(t *testing.T) {
	r := NewRegistry()

	r.Bind("alice", "conn-1")
	if !r.IsOnline("alice") {
		t.Fatal("alice should be online after bind")
	}

	connID, ok := r.Lookup("alice")
	if !ok || connID != "conn-1" {
		t.Fatalf("unexpected lookup result: %q %v", connID, ok)
	}

	identity, ok := r.Unbind("conn-1")
	if !ok || identity != "alice" {
		t.Fatalf("unexpected unbind result: %q %v", identity, ok)
	}
	if r.IsOnline("alice") {
		t.Fatal("alice should be offline after unbind")
	}
}

func TestRegistryUnbindUnknownConnection(t *testing.T) {
	r := NewRegistry()

	if identity, ok := r.Unbind("ghost"); ok || identity != "" {
		t.Fatalf("unbind of unknown connection should be a no-op, got %q %v", identity, ok)
	}
}

func TestRegistryRebindSupersedesOldConnection(t *testing.T) {
	r := NewRegistry()

	r.Bind("alice", "conn-1")
	r.Bind("alice", "conn-2")

	if !r.IsOnline("alice") {
		t.Fatal("alice should stay online across reconnect")
	}

	// The superseded connection no longer owns the identity, so its
	// disconnect must not take alice offline.
	if identity, ok := r.Unbind("conn-1"); ok {
		t.Fatalf("stale connection should not unbind anything, got %q", identity)
	}
	if !r.IsOnline("alice") {
		t.Fatal("alice must remain online after the old connection disconnects")
	}

	if identity, ok := r.Unbind("conn-2"); !ok || identity != "alice" {
		t.Fatalf("unexpected unbind result: %q %v", identity, ok)
	}
}

func TestRegistryOnlineSnapshotSorted(t *testing.T) {
	r := NewRegistry()

	r.Bind("carol", "c3")
	r.Bind("alice", "c1")
	r.Bind("bob", "c2")

	got := r.Online()
	want := []string{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("unexpected roster: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roster not sorted: %v", got)
		}
	}
}
