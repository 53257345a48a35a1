package gpio

import (
	"errors"
	"math"
	"testing"
)

func TestFakeLEDRecordsWrites(t *testing.T) {
	f := NewFakeLED()

	if _, ok := f.LastLevel(); ok {
		t.Error("no level should be recorded initially")
	}

	if err := f.SetDutyCycle(40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetLevel(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetLevel(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.LevelWrites() != 2 {
		t.Errorf("expected 2 level writes, got %d", f.LevelWrites())
	}
	on, ok := f.LastLevel()
	if !ok || on {
		t.Errorf("expected last level OFF, got on=%v ok=%v", on, ok)
	}
	d, ok := f.LastDuty()
	if !ok || d != 40 {
		t.Errorf("expected last duty 40, got %v ok=%v", d, ok)
	}
}

func TestFakeLEDClampsDuty(t *testing.T) {
	f := NewFakeLED()
	f.SetDutyCycle(150)
	f.SetDutyCycle(-10)
	f.SetDutyCycle(math.NaN())

	want := []float64{100, 0, 0}
	if len(f.Duties) != len(want) {
		t.Fatalf("expected %d duties, got %d", len(want), len(f.Duties))
	}
	for i := range want {
		if f.Duties[i] != want[i] {
			t.Errorf("duty %d: got %v, want %v", i, f.Duties[i], want[i])
		}
	}
}

func TestFakeLEDErrors(t *testing.T) {
	f := NewFakeLED()
	f.SetLevelError = errors.New("simulated error")
	f.SetDutyError = errors.New("simulated error")

	if err := f.SetLevel(true); err == nil {
		t.Error("expected SetLevel error")
	}
	if err := f.SetDutyCycle(10); err == nil {
		t.Error("expected SetDutyCycle error")
	}
	if f.LevelWrites() != 0 || len(f.Duties) != 0 {
		t.Error("failed writes must not be recorded")
	}
}

func TestFakeLEDCloseAndReset(t *testing.T) {
	f := NewFakeLED()
	f.SetLevel(true)

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || f.LevelWrites() != 0 {
		t.Error("reset should clear state")
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{39.2, 39.2},
		{100, 100},
		{150, 100},
		{-10, 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := clampPercent(tt.in); got != tt.want {
			t.Errorf("clampPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
