package version

import (
	"strings"
	"testing"
)

func TestVersionMatchesPlain(t *testing.T) {
	// Version несёт ANSI-раскраску, Plain - нет; цифры должны совпадать
	for _, part := range strings.Split(strings.TrimSuffix(Plain, "-dev"), ".") {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q does not contain %q from Plain %q", Version, part, Plain)
		}
	}
}

func TestOverridableAtBuildTime(t *testing.T) {
	orig := GitCommit
	GitCommit = "abc123"
	if GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", GitCommit)
	}
	GitCommit = orig
}
