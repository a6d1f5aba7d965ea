package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "J-101", false},
		{"max length", strings.Repeat("a", 31), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 32), true},
		{"space", "J 1", true},
		{"semicolon", "J;1", true},
		{"tab", "J\t1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q) error should wrap ErrInvalidID", tt.id)
			}
		})
	}
}

type sampleConfig struct {
	Input  string  `validate:"required"`
	Trials int     `validate:"gt=0"`
	Mode   string  `validate:"oneof=DDA PDA"`
	Factor float64 `validate:"gte=0,lte=1"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sampleConfig
		wantErr string
	}{
		{"valid", sampleConfig{Input: "a.inp", Trials: 40, Mode: "DDA", Factor: 0.5}, ""},
		{"missing input", sampleConfig{Trials: 40, Mode: "DDA"}, "field is required"},
		{"zero trials", sampleConfig{Input: "a", Mode: "PDA"}, "greater than"},
		{"bad mode", sampleConfig{Input: "a", Trials: 1, Mode: "XXX"}, "must be one of"},
		{"factor too big", sampleConfig{Input: "a", Trials: 1, Mode: "DDA", Factor: 2}, "must not exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Struct() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Struct() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}

	if err := Struct(nil); err == nil {
		t.Error("Struct(nil) should fail")
	}
}
