package types

import (
	"encoding/json"
	"testing"
)

func TestDiopter_String(t *testing.T) {
	tests := []struct {
		scaled int64
		want   string
	}{
		{0, "0.00"},
		{25, "0.25"},
		{-125, "-1.25"},
		{200, "2.00"},
		{-75, "-0.75"},
		{1050, "10.50"},
	}

	for _, tt := range tests {
		got := NewDiopterFromInt64Scaled(tt.scaled).String()
		if got != tt.want {
			t.Errorf("Diopter(%d).String() = %s, want %s", tt.scaled, got, tt.want)
		}
	}
}

func TestDiopter_JSONRoundTrip(t *testing.T) {
	d := NewDiopterFromInt64Scaled(-425)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "-4.25" {
		t.Errorf("marshal = %s, want -4.25", data)
	}

	var back Diopter
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %d, want %d", back, d)
	}
}

func TestDiopter_UnmarshalForms(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{`"1.25"`, 125},
		{`-0.5`, -50},
		{`2`, 200},
		{`"+0.75"`, 75},
		{`null`, 0},
	}

	for _, tt := range tests {
		var d Diopter
		if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
			t.Errorf("unmarshal %s failed: %v", tt.input, err)
			continue
		}
		if int64(d) != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.input, int64(d), tt.want)
		}
	}
}
