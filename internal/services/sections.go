package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
)

var sectionPattern = regexp.MustCompile(`\*\*Section:\s*([^\*]+)\*\*\s*- \*\*Purpose\*\*:\s*This section represents\s*([^\s]+)\s*content`)

// ParseSections extracts the section declarations of a template prompt in
// the order they appear. Duplicate keys keep their first declaration.
func ParseSections(promptContent string) []types.Section {
	matches := sectionPattern.FindAllStringSubmatch(promptContent, -1)
	out := make([]types.Section, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		key := strings.TrimSpace(m[2])
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, types.Section{
			Name: strings.TrimSpace(m[1]),
			Key:  key,
		})
	}
	return out
}

func encodeSections(promptContent string) (datatypes.JSON, error) {
	raw, err := json.Marshal(ParseSections(promptContent))
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return datatypes.JSON(raw), nil
}
