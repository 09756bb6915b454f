package interaction

import "strings"

// Severity is the clinical-risk classification of a known interaction.
// Reference corpora deliver it as free text; it is parsed once at the
// boundary and handled as a typed value everywhere else.
type Severity string

const (
	SeverityContraindicated Severity = "contraindicated"
	SeverityMajor           Severity = "major"
	SeverityModerate        Severity = "moderate"
	SeverityMinor           Severity = "minor"
	SeverityUnknown         Severity = "unknown"
)

var severityPriority = map[Severity]int{
	SeverityContraindicated: 5,
	SeverityMajor:           4,
	SeverityModerate:        3,
	SeverityMinor:           2,
	SeverityUnknown:         1,
}

// ParseSeverity maps free-text severity labels to a typed value,
// case-insensitively. Unrecognized input degrades to SeverityUnknown rather
// than failing the whole query.
func ParseSeverity(s string) Severity {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severityPriority[sev]; ok {
		return sev
	}
	return SeverityUnknown
}

// Priority returns the sort rank of the severity, highest risk first.
func (s Severity) Priority() int {
	if p, ok := severityPriority[s]; ok {
		return p
	}
	return severityPriority[SeverityUnknown]
}
