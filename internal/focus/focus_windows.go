//go:build windows

package focus

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetForegroundWindow  = user32.NewProc("GetForegroundWindow")
	procIsIconic             = user32.NewProc("IsIconic")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
)

// win32Desktop queries user32 for the foreground window state.
type win32Desktop struct{}

func newDesktop() desktop {
	return win32Desktop{}
}

func (win32Desktop) foreground() uintptr {
	fg, _, _ := procGetForegroundWindow.Call()
	return fg
}

func (win32Desktop) minimized(hwnd uintptr) bool {
	iconic, _, _ := procIsIconic.Call(hwnd)
	return iconic != 0
}

func (win32Desktop) title(hwnd uintptr) string {
	length, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if length == 0 {
		return ""
	}

	buf := make([]uint16, length+1)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}
