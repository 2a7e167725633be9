package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystem(t *testing.T) {
	if got := ApplySystem("   ", "json"); got != "" {
		t.Fatalf("blank: got=%q", got)
	}
	out := ApplySystem("Fill the sections.", "json")
	if !strings.HasPrefix(out, marker) || !strings.HasSuffix(out, "Fill the sections.") {
		t.Fatalf("unexpected prompt: %q", out)
	}
	if !strings.Contains(out, "JSON object") {
		t.Fatalf("json guidance missing: %q", out)
	}
	if again := ApplySystem(out, "json"); again != out {
		t.Fatalf("not idempotent")
	}
	if text := ApplySystem("Summarize.", "text"); strings.Contains(text, "JSON") {
		t.Fatalf("text mode mentions JSON: %q", text)
	}
}
