package promptstyle

import "strings"

const marker = "PROMPTDESK_STYLE_V1"

// ApplySystem prepends the shared output guidance to a system prompt. mode
// "json" asks for a single JSON object; anything else asks for plain text.
// Prompts that already carry the block are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou rewrite operator-supplied content into document templates.")
	b.WriteString("\nUse only facts present in the provided content.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\nReturn a single JSON object and nothing else.")
	} else {
		b.WriteString("\nReturn plain text without commentary.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
