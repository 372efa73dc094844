//go:build !windows

package focus

import "testing"

func TestIsFocusedStub(t *testing.T) {
	r := NewResolver(func(title string) bool { return true })

	if r.IsFocused(0xA) {
		t.Error("no window should report focused on a platform without a desktop")
	}
}
