package uuid

import (
	"strings"
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew_IsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New() returned invalid uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("version = %d, want 7", parsed.Version())
	}
}

func TestNew_TimeOrdered(t *testing.T) {
	prev := New()
	for i := 0; i < 50; i++ {
		next := New()
		if next == prev {
			t.Fatalf("duplicate id %q", next)
		}
		if next[:8] < prev[:8] {
			t.Fatalf("timestamp prefix went backwards: %q then %q", prev, next)
		}
		prev = next
	}
}

func TestParse(t *testing.T) {
	upper := strings.ToUpper(New())
	got, err := Parse(upper)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != strings.ToLower(upper) {
		t.Errorf("Parse() = %q, want canonical lowercase", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid uuid")
	}
	if IsValid("TS0001-0001") {
		t.Error("transaction ids are not uuids")
	}
}
