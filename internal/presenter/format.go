package presenter

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/spigell/rh-pro/internal/analysis"
)

// Detail keys the service uses internally; they never reach the detail grid.
const (
	ReservedTotalScore   = "totalScore"
	ReservedCommonSkills = "common_skills"
)

// DetailFields returns the displayable criteria in service order.
func DetailFields(details analysis.Details) []Field {
	fields := make([]Field, 0, len(details))
	for _, d := range details {
		if d.Key == ReservedTotalScore || d.Key == ReservedCommonSkills {
			continue
		}
		fields = append(fields, Field{Label: FormatKey(d.Key), Value: FormatValue(d.Value)})
	}
	return fields
}

// FormatKey turns "years_of_experience" into "Years Of Experience". Only ASCII
// letters at the start of the key or after whitespace are upper-cased; other
// letters are left alone.
func FormatKey(key string) string {
	key = strings.ReplaceAll(key, "_", " ")

	var b strings.Builder
	b.Grow(len(key))

	prevSpace := true
	for _, r := range key {
		if prevSpace && 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		prevSpace = unicode.IsSpace(r)
		b.WriteRune(r)
	}

	return b.String()
}

// FormatValue prints JSON strings verbatim and anything else as compact JSON.
func FormatValue(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return string(raw)
	}
	return b.String()
}
