package logic

import "testing"

func TestSwitchForLight(t *testing.T) {
	tests := []struct {
		raw  int
		want State
	}{
		{0, StateOff},
		{100, StateOff},
		{127, StateOff},
		{128, StateOn},
		{200, StateOn},
		{255, StateOn},
	}

	for _, tt := range tests {
		if got := SwitchForLight(tt.raw); got != tt.want {
			t.Errorf("raw %d: got %s, want %s", tt.raw, got, tt.want)
		}
		if IsDark(tt.raw) != (tt.want == StateOff) {
			t.Errorf("raw %d: IsDark disagrees with SwitchForLight", tt.raw)
		}
	}
}

func TestSwitchForTemperature(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		temp *float64
		want State
	}{
		{"absent", nil, StateOff},
		{"hot", f(25.0), StateOn},
		{"cold", f(15.0), StateOff},
		{"at threshold", f(20.0), StateOff},
		{"just above", f(20.0001), StateOn},
		{"zero", f(0), StateOff},
		{"negative", f(-5), StateOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SwitchForTemperature(tt.temp); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStateValid(t *testing.T) {
	if !StateOn.Valid() || !StateOff.Valid() {
		t.Error("ON and OFF must be valid")
	}
	for _, s := range []State{"", "on", "UNKNOWN"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}
