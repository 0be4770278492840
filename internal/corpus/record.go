// Package corpus holds the retrieval data model: records projected to
// evidence text, the vector index over them, and the sources they load from
package corpus

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind tags which corpus a record belongs to
type Kind uint8

const (
	// KindStatistic is a yearly sector statistics row
	KindStatistic Kind = iota + 1
	// KindBusiness is a single registered business row
	KindBusiness
	// KindPolicy is a support-program announcement row
	KindPolicy
)

// Status is the operating state of a business record
type Status string

const (
	StatusOpen      Status = "영업"
	StatusClosed    Status = "폐업"
	StatusCancelled Status = "취소"
	StatusUnknown   Status = "미상"
)

// markers prefix the projected text so sector filters can tell the corpora apart
const (
	MarkStatistic = "[통계]"
	MarkBusiness  = "[사업장]"
)

// Record is one projected evidence row. Structured fields are parsed once at
// ingestion; request-time selectors never re-parse Text
type Record struct {
	Kind   Kind
	Text   string
	Year   int    // statistics; 0 when no 4-digit year parses
	Name   string // business display name
	Status Status // business operating state
}

var yearRe = regexp.MustCompile(`(19|20)\d{2}`)

// ParseYear extracts the first 4-digit year from text, 0 when absent
func ParseYear(text string) int {
	m := yearRe.FindString(text)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

var parenRe = regexp.MustCompile(`\(([^)]*)\)`)

// ParseBusiness extracts the display name and status from a projected
// business text. The name is the span between the business marker and the
// first parenthesis; status is checked by literal term in priority order,
// falling back to the parenthesized field
func ParseBusiness(text string) (name string, status Status) {
	rest := text
	if i := strings.Index(rest, MarkBusiness); i >= 0 {
		rest = rest[i+len(MarkBusiness):]
	}
	name = rest
	if i := strings.Index(rest, "("); i >= 0 {
		name = rest[:i]
	}
	name = strings.TrimSpace(name)

	switch {
	case strings.Contains(text, string(StatusOpen)):
		status = StatusOpen
	case strings.Contains(text, string(StatusClosed)):
		status = StatusClosed
	case strings.Contains(text, string(StatusCancelled)):
		status = StatusCancelled
	default:
		status = StatusUnknown
		if m := parenRe.FindStringSubmatch(text); m != nil {
			if s := Status(strings.TrimSpace(m[1])); s == StatusOpen || s == StatusClosed || s == StatusCancelled {
				status = s
			}
		}
	}
	return name, status
}

// NewStatistic builds a statistics record, parsing the year once
func NewStatistic(text string) Record {
	return Record{Kind: KindStatistic, Text: text, Year: ParseYear(text)}
}

// NewBusiness builds a business record, parsing name and status once
func NewBusiness(text string) Record {
	name, status := ParseBusiness(text)
	return Record{Kind: KindBusiness, Text: text, Name: name, Status: status}
}

// NewPolicy builds a policy record
func NewPolicy(text string) Record {
	return Record{Kind: KindPolicy, Text: text}
}
