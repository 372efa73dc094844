// Package focus resolves whether a console window currently has the
// user's attention. A window is considered focused when it is the
// foreground window and not minimized, or when the foreground window's
// title carries the tracked tool's identity markers. The latter covers
// terminal hosts that render multiple console sessions as tabs of a
// single top-level window; a minimized host never counts as focused.
package focus

// TitleMatcher reports whether a window title belongs to a tracked tool.
type TitleMatcher func(title string) bool

// desktop abstracts the platform queries behind focus resolution.
type desktop interface {
	foreground() uintptr
	minimized(hwnd uintptr) bool
	title(hwnd uintptr) string
}

// Resolver answers focus queries against the desktop foreground window.
type Resolver struct {
	matches TitleMatcher
	desk    desktop
}

// NewResolver creates a Resolver. matches may be nil, in which case only
// direct handle equality counts as focused.
func NewResolver(matches TitleMatcher) *Resolver {
	return &Resolver{matches: matches, desk: newDesktop()}
}

// IsFocused reports whether the window identified by handle should be
// treated as having the user's attention.
func (r *Resolver) IsFocused(handle uintptr) bool {
	fg := r.desk.foreground()
	if fg == 0 {
		return false
	}

	if fg == handle {
		return !r.desk.minimized(handle)
	}

	// The tracked console may be hosted as a tab inside the foreground
	// terminal window. Fall back to matching the foreground title.
	if r.matches == nil {
		return false
	}
	if !r.matches(r.desk.title(fg)) {
		return false
	}
	return !r.desk.minimized(fg)
}
