//go:build windows

package console

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Misadov/gemini-cli-notify/internal/errors"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procAttachConsole               = kernel32.NewProc("AttachConsole")
	procFreeConsole                 = kernel32.NewProc("FreeConsole")
	procGetConsoleTitleW            = kernel32.NewProc("GetConsoleTitleW")
	procGetConsoleWindow            = kernel32.NewProc("GetConsoleWindow")
	procReadConsoleOutputCharacterW = kernel32.NewProc("ReadConsoleOutputCharacterW")
)

// attachParentProcess is the AttachConsole pseudo-PID for "my parent".
const attachParentProcess = ^uintptr(0)

const titleBufferLen = 1024

// Provider reads console snapshots via the Windows console API.
// It is not safe for concurrent use: AttachConsole switches the whole
// process's console, so snapshots must be serialized. The watchdog's
// single-threaded cycle model guarantees this.
type Provider struct {
	// readLen is how many cells to read from the bottom of the buffer.
	readLen int
}

// NewProvider creates a Provider reading readLen cells per snapshot.
func NewProvider(readLen int) *Provider {
	return &Provider{readLen: readLen}
}

// Snapshot attaches to pid's console, reads its window title, window
// handle, and the bottom of its screen buffer, then restores our own
// console. The target's console state is never modified.
func (p *Provider) Snapshot(pid int) (watchdog.Snapshot, error) {
	// Detach from our current console so AttachConsole can succeed.
	_, _, _ = procFreeConsole.Call()

	ok, _, _ := procAttachConsole.Call(uintptr(uint32(pid)))
	if ok == 0 {
		restoreConsole()
		return watchdog.Snapshot{}, errors.NewSnapshotError("attach refused", errors.ErrAttachDenied).WithPID(pid)
	}
	defer restoreConsole()

	var snap watchdog.Snapshot

	titleBuf := make([]uint16, titleBufferLen)
	n, _, _ := procGetConsoleTitleW.Call(
		uintptr(unsafe.Pointer(&titleBuf[0])),
		uintptr(titleBufferLen),
	)
	if n > 0 {
		snap.Title = windows.UTF16ToString(titleBuf[:n])
	}

	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return watchdog.Snapshot{}, errors.NewSnapshotError("console has no window", errors.ErrNoConsoleWindow).WithPID(pid)
	}
	snap.Handle = hwnd

	buffer, err := p.readBuffer()
	if err != nil {
		return watchdog.Snapshot{}, errors.NewSnapshotError("reading screen buffer", err).WithPID(pid)
	}
	snap.Buffer = buffer

	return snap, nil
}

// readBuffer opens the attached console's active screen buffer and reads
// the last readLen cells.
func (p *Provider) readBuffer() (string, error) {
	conout, err := windows.CreateFile(
		windows.StringToUTF16Ptr("CONOUT$"),
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(conout)

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(conout, &info); err != nil {
		return "", err
	}

	width := int(info.Size.X)
	height := int(info.Size.Y)
	if width <= 0 || height <= 0 {
		return "", nil
	}

	readLen := p.readLen
	if total := width * height; readLen > total {
		readLen = total
	}
	if readLen <= 0 {
		return "", nil
	}

	startIdx := width*height - readLen
	coord := packCoord(int16(startIdx%width), int16(startIdx/width))

	buf := make([]uint16, readLen)
	var charsRead uint32
	ok, _, _ := procReadConsoleOutputCharacterW.Call(
		uintptr(conout),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(readLen)),
		coord,
		uintptr(unsafe.Pointer(&charsRead)),
	)
	if ok == 0 {
		return "", errors.New("ReadConsoleOutputCharacterW failed")
	}

	return windows.UTF16ToString(buf[:charsRead]), nil
}

// restoreConsole detaches from whatever console we are attached to and
// re-attaches to the parent's console. Best-effort: a headless watchdog
// (no parent console) simply stays detached.
func restoreConsole() {
	_, _, _ = procFreeConsole.Call()
	_, _, _ = procAttachConsole.Call(attachParentProcess)
}

// packCoord packs a COORD into the single register Windows expects for
// by-value COORD parameters.
func packCoord(x, y int16) uintptr {
	return uintptr(uint32(uint16(x)) | uint32(uint16(y))<<16)
}
