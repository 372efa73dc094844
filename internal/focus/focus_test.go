package focus

import (
	"strings"
	"testing"
)

type fakeDesktop struct {
	fg        uintptr
	iconic    map[uintptr]bool
	titles    map[uintptr]string
	titleAsks int
}

func (f *fakeDesktop) foreground() uintptr { return f.fg }

func (f *fakeDesktop) minimized(hwnd uintptr) bool { return f.iconic[hwnd] }

func (f *fakeDesktop) title(hwnd uintptr) string {
	f.titleAsks++
	return f.titles[hwnd]
}

func geminiTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "gemini")
}

func TestIsFocused(t *testing.T) {
	tests := []struct {
		name    string
		desk    fakeDesktop
		matches TitleMatcher
		handle  uintptr
		want    bool
	}{
		{
			name:   "foreground handle",
			desk:   fakeDesktop{fg: 0xA},
			handle: 0xA,
			want:   true,
		},
		{
			name:   "foreground but minimized",
			desk:   fakeDesktop{fg: 0xA, iconic: map[uintptr]bool{0xA: true}},
			handle: 0xA,
			want:   false,
		},
		{
			name:   "no foreground window",
			desk:   fakeDesktop{fg: 0},
			handle: 0xA,
			want:   false,
		},
		{
			name:    "hosted as tab of the foreground terminal",
			desk:    fakeDesktop{fg: 0xF, titles: map[uintptr]string{0xF: "gemini - Windows Terminal"}},
			matches: geminiTitle,
			handle:  0xA,
			want:    true,
		},
		{
			name: "terminal host minimized",
			desk: fakeDesktop{
				fg:     0xF,
				titles: map[uintptr]string{0xF: "gemini - Windows Terminal"},
				iconic: map[uintptr]bool{0xF: true},
			},
			matches: geminiTitle,
			handle:  0xA,
			want:    false,
		},
		{
			name:    "foreground title without identity",
			desk:    fakeDesktop{fg: 0xF, titles: map[uintptr]string{0xF: "explorer"}},
			matches: geminiTitle,
			handle:  0xA,
			want:    false,
		},
		{
			name:   "no matcher falls back to handle equality only",
			desk:   fakeDesktop{fg: 0xF, titles: map[uintptr]string{0xF: "gemini"}},
			handle: 0xA,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resolver{matches: tt.matches, desk: &tt.desk}
			if got := r.IsFocused(tt.handle); got != tt.want {
				t.Errorf("IsFocused(%#x) = %v, want %v", tt.handle, got, tt.want)
			}
		})
	}
}

func TestIsFocusedSkipsTitleQueryWithoutMatcher(t *testing.T) {
	desk := &fakeDesktop{fg: 0xF, titles: map[uintptr]string{0xF: "gemini"}}
	r := &Resolver{desk: desk}

	r.IsFocused(0xA)
	if desk.titleAsks != 0 {
		t.Errorf("title queried %d times without a matcher, want 0", desk.titleAsks)
	}
}
