package shared

import (
	"os"
	"strings"
	"testing"
)

func TestNormalizeKey(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "basic normalization",
			in:   "Song Title",
			want: "song title",
		},
		{
			name: "extra whitespace",
			in:   "  Song   Title  ",
			want: "song title",
		},
		{
			name: "mixed case",
			in:   "SoNg TiTlE",
			want: "song title",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKey(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid format, got %q", a)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := ExpandHome("~/x"); got != home+"/x" {
		t.Errorf("ExpandHome(~/x) = %q", got)
	}
	if got := ExpandHome("~"); got != home {
		t.Errorf("ExpandHome(~) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
}

func TestBrowserCommand(t *testing.T) {
	orig := osName
	defer func() { osName = orig }()

	tests := []struct {
		os       string
		wantName string
		wantArgs int
	}{
		{"darwin", "open", 1},
		{"linux", "xdg-open", 1},
		{"windows", "cmd", 3},
		{"plan9", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.os, func(t *testing.T) {
			osName = tt.os
			name, args := browserCommand("https://example.com")
			if name != tt.wantName || len(args) != tt.wantArgs {
				t.Errorf("browserCommand = %q %v", name, args)
			}
		})
	}

	osName = "plan9"
	if err := OpenBrowser("https://example.com"); err == nil {
		t.Error("expected an error on an unsupported platform")
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := MarshalJSON(map[string]int{"n": 1}, true)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !strings.Contains(string(data), "\n") {
		t.Error("indented output expected")
	}

	data, err = MarshalJSON(map[string]int{"n": 1}, false)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `{"n":1}` {
		t.Errorf("compact output = %s", data)
	}
}
