package cli

import (
	"strings"
	"testing"
)

func TestVersionTemplate(t *testing.T) {
	defer SetVersion("", "", "")

	SetVersion("v1.2.0", "abc123", "2026-08-30")
	out := versionTemplate()

	if !strings.HasPrefix(out, "curmap v1.2.0\n") {
		t.Errorf("versionTemplate() = %q, want curmap prefix with version", out)
	}
	for _, want := range []string{"commit: abc123", "built: 2026-08-30"} {
		if !strings.Contains(out, want) {
			t.Errorf("versionTemplate() = %q, missing %q", out, want)
		}
	}
}

func TestVersionTemplateUnset(t *testing.T) {
	defer SetVersion("", "", "")

	SetVersion("", "", "")
	if out := versionTemplate(); !strings.HasPrefix(out, "curmap ") {
		t.Errorf("versionTemplate() = %q, want curmap prefix even without version info", out)
	}
}
