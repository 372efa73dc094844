// Package console implements the console snapshot provider: a
// non-destructive read of a foreign process's console window title and
// visible screen buffer.
//
// On Windows this attaches to the target's console (AttachConsole), reads
// the title and the bottom of the screen buffer, then detaches and
// re-attaches to the parent console, restoring this process's own console
// state. The read must not alter the target: no input is written and no
// buffer state is modified. Attach refusals (permissions, the target
// having no console) fail fast with ErrAttachDenied so one unreadable
// candidate never stalls a polling cycle.
//
// On other platforms every operation fails with ErrConsoleUnavailable;
// the stub exists so the rest of the module builds and tests everywhere.
package console
