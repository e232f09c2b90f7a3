package core

import "strings"

// DirectRoomKey derives the room key for a 1:1 chat between two
// identities. The key is order-independent: both participants compute
// the same key without a lookup.
func DirectRoomKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strings.Join([]string{a, b}, "-")
}
