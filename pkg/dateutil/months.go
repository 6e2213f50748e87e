package dateutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MonthSet is an immutable set of calendar months (1 = January ... 12 = December).
// Bit m holds month m; bit 0 is unused.
type MonthSet uint16

const allMonths MonthSet = 0x1FFE

// NewMonthSet builds a set from month numbers, ignoring anything outside 1..12.
func NewMonthSet(months ...int) MonthSet {
	var s MonthSet
	for _, m := range months {
		s = s.With(m)
	}
	return s
}

// AllMonths returns the set containing every month of the year.
func AllMonths() MonthSet { return allMonths }

// With returns a copy of s that also contains month m.
func (s MonthSet) With(m int) MonthSet {
	if m < 1 || m > 12 {
		return s
	}
	return s | 1<<uint(m)
}

// Contains reports whether month m is in the set. Values outside 1..12 are never members.
func (s MonthSet) Contains(m int) bool {
	if m < 1 || m > 12 {
		return false
	}
	return s&(1<<uint(m)) != 0
}

// Len returns the number of months in the set.
func (s MonthSet) Len() int {
	n := 0
	for m := 1; m <= 12; m++ {
		if s.Contains(m) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set has no months.
func (s MonthSet) IsEmpty() bool { return s&allMonths == 0 }

// Months returns the members in ascending order.
func (s MonthSet) Months() []int {
	out := make([]int, 0, 12)
	for m := 1; m <= 12; m++ {
		if s.Contains(m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders the set as a comma-separated list, e.g. "6,12".
func (s MonthSet) String() string {
	parts := make([]string, 0, 12)
	for _, m := range s.Months() {
		parts = append(parts, strconv.Itoa(m))
	}
	return strings.Join(parts, ",")
}

// MarshalText implements encoding.TextMarshaler so YAML renders the compact list form.
func (s MonthSet) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the free-form list syntax handled by ParseMonths.
func (s *MonthSet) UnmarshalText(text []byte) error {
	*s = ParseMonths(string(text))
	return nil
}

// MarshalJSON renders the set as an array of month numbers.
func (s MonthSet) MarshalJSON() ([]byte, error) { return json.Marshal(s.Months()) }

// UnmarshalJSON accepts either an array of month numbers or a list string.
func (s *MonthSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = 0
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = ParseMonths(text)
		return nil
	}
	var months []int
	if err := json.Unmarshal(data, &months); err != nil {
		return fmt.Errorf("month set must be a list string or an array of integers: %w", err)
	}
	*s = NewMonthSet(months...)
	return nil
}

// monthTokens splits free-form month text into valid month numbers in input order.
// Spaces are ignored, tokens may be written as floats ("6.0"), and anything that
// does not resolve to 1..12 is dropped.
func monthTokens(text string) []int {
	cleaned := strings.ReplaceAll(text, " ", "")
	if cleaned == "" {
		return nil
	}
	var out []int
	for _, tok := range strings.Split(cleaned, ",") {
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		m := int(v)
		if m >= 1 && m <= 12 {
			out = append(out, m)
		}
	}
	return out
}

// ParseMonths parses a comma-separated month list such as "6, 12" into a MonthSet.
// Invalid tokens and out-of-range values are silently discarded.
func ParseMonths(text string) MonthSet {
	return NewMonthSet(monthTokens(text)...)
}

// NormalizeMonths returns the valid months of text with duplicates removed,
// preserving the order in which they first appear ("12, 6,x,6" -> "12,6").
func NormalizeMonths(text string) string {
	var seen MonthSet
	parts := make([]string, 0, 12)
	for _, m := range monthTokens(text) {
		if seen.Contains(m) {
			continue
		}
		seen = seen.With(m)
		parts = append(parts, strconv.Itoa(m))
	}
	return strings.Join(parts, ",")
}
