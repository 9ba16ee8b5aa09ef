package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	got := Short()
	if !strings.Contains(got, Version) || !strings.Contains(got, Commit) {
		t.Errorf("Short() = %q, should carry version and commit", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version:", "commit:", "built:"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}}") {
		t.Errorf("Template() = %q, should reference the command name", Template())
	}
}
