package risk

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		r    int
		want Level
	}{
		{1, LevelLow},
		{36, LevelLow},
		{37, LevelMedium},
		{70, LevelMedium},
		{71, LevelHigh},
		{1000, LevelHigh},
	}

	for _, tt := range tests {
		if got := Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.r, got, tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index(3, 5, 6); got != 90 {
		t.Errorf("Index(3,5,6) = %d, want 90", got)
	}
	if got := Index(1, 1, 1); got != 1 {
		t.Errorf("Index(1,1,1) = %d, want 1", got)
	}
}

func TestValidFactor(t *testing.T) {
	for _, n := range []int{1, 5, 10} {
		if !ValidFactor(n) {
			t.Errorf("ValidFactor(%d) should be true", n)
		}
	}
	for _, n := range []int{0, -1, 11, 100} {
		if ValidFactor(n) {
			t.Errorf("ValidFactor(%d) should be false", n)
		}
	}
}

func TestCheckResidual(t *testing.T) {
	tests := []struct {
		name     string
		residual int
		ri       int
		wantErr  bool
	}{
		{"lower than initial", 36, 90, false},
		{"equal to initial", 90, 90, true},
		{"greater than initial", 95, 90, true},
		{"negative", -1, 90, true},
		{"high initial, residual still high", 75, 90, true},
		{"high initial, residual acceptable", 70, 90, false},
		{"medium initial, residual low", 20, 50, false},
		{"zero residual", 0, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResidual(tt.residual, tt.ri)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckResidual(%d, %d) error = %v, wantErr %v", tt.residual, tt.ri, err, tt.wantErr)
			}
		})
	}
}
