package form

import (
	"strings"
	"testing"
)

func TestMachineNameFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Staging", "staging"},
		{"Live Site", "live_site"},
		{"  Dev -- Team  ", "dev_team"},
		{"Crème Brûlée", "creme_brulee"},
		{"already_ok_1", "already_ok_1"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := MachineNameFromLabel(tt.label); got != tt.want {
				t.Errorf("MachineNameFromLabel(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestMachineNameFromLabel_Truncates(t *testing.T) {
	got := MachineNameFromLabel(strings.Repeat("ab ", 200))
	if len(got) > MaxLength {
		t.Errorf("len = %d, want <= %d", len(got), MaxLength)
	}
	if strings.HasSuffix(got, "_") {
		t.Errorf("truncated name ends with underscore: %q", got)
	}
	if !ValidMachineName(got) {
		t.Errorf("derived name %q is not valid", got)
	}
}

func TestValidMachineName(t *testing.T) {
	for _, s := range []string{"staging", "live_2", "_x"} {
		if !ValidMachineName(s) {
			t.Errorf("ValidMachineName(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Staging", "a-b", "a b", "é"} {
		if ValidMachineName(s) {
			t.Errorf("ValidMachineName(%q) = true", s)
		}
	}
}
