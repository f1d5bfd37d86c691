package utils

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	t.Setenv("EMORAND_TEST_DIR", "/var/cache")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/emorand", "/tmp/emorand"},
		{"~/emorand", filepath.Join(home, "emorand")},
		{"$EMORAND_TEST_DIR/emorand", "/var/cache/emorand"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAbsPath(t *testing.T) {
	got := AbsPath("relative/dir")
	if !filepath.IsAbs(got) {
		t.Errorf("AbsPath returned relative path %q", got)
	}
	if AbsPath("") != "" {
		t.Error("AbsPath of empty path should be empty")
	}
}
