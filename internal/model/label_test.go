package model

import (
	"encoding/json"
	"testing"
)

func TestParseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"REAL", LabelReal, false},
		{"fake", LabelFake, false},
		{"  Real ", LabelReal, false},
		{"UNKNOWN", LabelUnknown, true},
		{"", LabelUnknown, true},
		{"maybe", LabelUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLabel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabelValid(t *testing.T) {
	t.Parallel()

	if LabelUnknown.Valid() {
		t.Error("the zero label must not be a verdict")
	}
	if !LabelFake.Valid() || !LabelReal.Valid() {
		t.Error("FAKE and REAL must be verdicts")
	}
	if Label(42).String() != "UNKNOWN" {
		t.Errorf("out-of-range label = %q", Label(42).String())
	}
}

func TestLabelJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		L Label `json:"label"`
	}{LabelFake})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"label":"FAKE"}` {
		t.Errorf("got %s", data)
	}

	var l Label
	if err := json.Unmarshal([]byte(`""`), &l); err != nil || l != LabelUnknown {
		t.Errorf("empty string decoded to %v, %v", l, err)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &l); err == nil {
		t.Error("expected error for unknown label")
	}
}
