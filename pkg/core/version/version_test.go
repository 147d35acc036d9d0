package version

import (
	"regexp"
	"strings"
	"testing"
)

var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	for name, v := range map[string]string{
		"Platform": Platform,
		"Engine":   Engine,
		"Language": Language,
		"Server":   Server,
		"Shell":    Shell,
	} {
		if !semverRegex.MatchString(v) {
			t.Errorf("%s version %q is not semver", name, v)
		}
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"engine", Engine},
		{"nexusscript", Language},
		{"server", Server},
		{"shell", Shell},
		{"whatever", Platform},
	}
	for _, tt := range tests {
		if got := ComponentVersion(tt.name); got != tt.want {
			t.Errorf("ComponentVersion(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if s := String(); !strings.HasPrefix(s, "nexus "+Platform) {
		t.Errorf("String() = %q", s)
	}
}
