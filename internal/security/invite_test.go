package security_test

import (
	"strings"
	"testing"

	"github.com/workpulse/workpulse/internal/security"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := security.GenerateInviteCode()

		if len(code) != 8 {
			t.Fatalf("invite code length: got %d, want 8", len(code))
		}
		if code != strings.ToLower(code) {
			t.Errorf("invite code is not lowercase: %q", code)
		}
		if strings.Contains(code, "-") {
			t.Errorf("invite code contains a dash: %q", code)
		}
		for _, c := range code {
			if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
				t.Errorf("invite code contains non-alphanumeric character: %q", code)
			}
		}
		if seen[code] {
			t.Errorf("duplicate invite code generated: %q", code)
		}
		seen[code] = true
	}
}

func TestGenerateTaskCode(t *testing.T) {
	code := security.GenerateTaskCode()

	if !strings.HasPrefix(code, "TASK-") {
		t.Errorf("task code missing prefix: %q", code)
	}

	suffix := strings.TrimPrefix(code, "TASK-")
	if len(suffix) != 6 {
		t.Errorf("task code suffix length: got %d, want 6", len(suffix))
	}
	if suffix != strings.ToUpper(suffix) {
		t.Errorf("task code suffix is not uppercase: %q", suffix)
	}
}
