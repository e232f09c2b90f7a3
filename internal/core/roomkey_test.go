package core

import "testing"

func TestDirectRoomKeySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"zed", "adam"},
		{"same", "same"},
	}

	for _, p := range pairs {
		if DirectRoomKey(p[0], p[1]) != DirectRoomKey(p[1], p[0]) {
			t.Fatalf("room key not symmetric for %q and %q", p[0], p[1])
		}
	}

	if got := DirectRoomKey("bob", "alice"); got != "alice-bob" {
		t.Fatalf("unexpected room key: %q", got)
	}
}
