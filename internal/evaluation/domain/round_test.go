package domain

import (
	"reflect"
	"testing"
)

func TestRoundSummary(t *testing.T) {
	r := &Round{
		Kind: KindTechnical,
		Scores: ContractorScores{
			"acme":    {"quality": 40, "schedule": 30},
			"initech": {"quality": 50, "schedule": 30},
			"globex":  {"quality": 40, "schedule": 30},
		},
	}

	got := r.Summary()
	want := []ContractorTotal{
		{Contractor: "initech", Total: 80},
		{Contractor: "acme", Total: 70},
		{Contractor: "globex", Total: 70},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestRoundSummary_Empty(t *testing.T) {
	r := &Round{Kind: KindCommercial}
	if got := r.Summary(); len(got) != 0 {
		t.Errorf("Summary() = %+v, want empty", got)
	}
}

func TestRoundValidate(t *testing.T) {
	tests := []struct {
		name    string
		round   Round
		wantErr bool
	}{
		{"valid technical", Round{PackageID: "pkg-1", Kind: KindTechnical, Number: 1}, false},
		{"valid commercial", Round{PackageID: "pkg-1", Kind: KindCommercial, Number: 2}, false},
		{"missing package", Round{Kind: KindTechnical, Number: 1}, true},
		{"bad kind", Round{PackageID: "pkg-1", Kind: "financial", Number: 1}, true},
		{"zero number", Round{PackageID: "pkg-1", Kind: KindTechnical}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.round.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
