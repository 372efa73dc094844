//go:build !windows

package focus

// stubDesktop reports no foreground window, so suppression never
// triggers on platforms without a desktop.
type stubDesktop struct{}

func newDesktop() desktop {
	return stubDesktop{}
}

func (stubDesktop) foreground() uintptr { return 0 }

func (stubDesktop) minimized(hwnd uintptr) bool { return false }

func (stubDesktop) title(hwnd uintptr) string { return "" }
