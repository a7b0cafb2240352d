package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label is the verdict produced by the binary classifier.
//
// Design decision: LabelUnknown is the zero value so that a result whose
// classification never ran (or failed) cannot be mistaken for a verdict.
// The classifier itself only ever produces LabelFake or LabelReal.
type Label int

const (
	// LabelUnknown means no verdict is available.
	LabelUnknown Label = iota

	// LabelFake means the text was classified as fake news.
	LabelFake

	// LabelReal means the text was classified as real news.
	LabelReal
)

// String returns the upper-case name of the label.
func (l Label) String() string {
	switch l {
	case LabelFake:
		return "FAKE"
	case LabelReal:
		return "REAL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the label is a classifier verdict.
func (l Label) Valid() bool {
	return l == LabelFake || l == LabelReal
}

// ParseLabel converts a label name into a Label. Matching is case-insensitive.
func ParseLabel(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FAKE":
		return LabelFake, nil
	case "REAL":
		return LabelReal, nil
	default:
		return LabelUnknown, fmt.Errorf("unknown label %q", s)
	}
}

// MarshalJSON encodes the label as its name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name. "UNKNOWN" and "" decode to LabelUnknown.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || strings.EqualFold(s, "UNKNOWN") {
		*l = LabelUnknown
		return nil
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
