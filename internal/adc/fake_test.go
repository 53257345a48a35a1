package adc

import (
	"errors"
	"testing"
)

func TestFakeReaderRequiresInit(t *testing.T) {
	f := NewFakeReader([]Sample{{Temp: 128, Light: 200}})

	if _, err := f.ReadChannel(0); !errors.Is(err, ErrSensorUnavailable) {
		t.Fatalf("expected ErrSensorUnavailable before Init, got %v", err)
	}

	if err := f.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := f.ReadChannel(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 128 {
		t.Errorf("expected 128, got %d", v)
	}
}

func TestFakeReaderChannelsIndependent(t *testing.T) {
	f := NewInitializedFakeReader([]Sample{
		{Temp: 10, Light: 20},
		{Temp: 11, Light: 21},
	})

	// Reading channel 1 twice must not advance channel 0.
	if v, _ := f.ReadChannel(1); v != 20 {
		t.Errorf("light 0: got %d", v)
	}
	if v, _ := f.ReadChannel(1); v != 21 {
		t.Errorf("light 1: got %d", v)
	}
	if v, _ := f.ReadChannel(0); v != 10 {
		t.Errorf("temp 0: got %d", v)
	}

	// Exhausted samples repeat the last one.
	if v, _ := f.ReadChannel(1); v != 21 {
		t.Errorf("light repeat: got %d", v)
	}
	if f.Reads() != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads())
	}
}

func TestFakeReaderInvalidChannel(t *testing.T) {
	f := NewInitializedFakeReader([]Sample{{}})
	for _, ch := range []int{-1, 2} {
		if _, err := f.ReadChannel(ch); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("channel %d: expected ErrInvalidChannel, got %v", ch, err)
		}
	}
}

func TestFakeReaderErrors(t *testing.T) {
	f := NewInitializedFakeReader(nil)
	if _, err := f.ReadChannel(0); err == nil {
		t.Error("expected error with no samples")
	}

	f = NewInitializedFakeReader([]Sample{{}})
	f.ReadError = errors.New("simulated error")
	if _, err := f.ReadChannel(0); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}

	f = NewFakeReader(nil)
	f.InitError = errors.New("no chip")
	if err := f.Init(); err == nil {
		t.Error("expected init error")
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewInitializedFakeReader([]Sample{{Temp: 1, Light: 2}})

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
	if _, err := f.ReadChannel(1); !errors.Is(err, ErrSensorUnavailable) {
		t.Errorf("expected ErrSensorUnavailable after Close, got %v", err)
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewInitializedFakeReader([]Sample{{Temp: 1}, {Temp: 2}})
	f.ReadChannel(0)
	f.Reset()
	if v, _ := f.ReadChannel(0); v != 1 {
		t.Errorf("after reset: expected 1, got %d", v)
	}
}
