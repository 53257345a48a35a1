package gpio

import (
	"errors"
	"testing"
)

func TestRunCloseJoinsErrors(t *testing.T) {
	errLine := errors.New("line busy")
	errChip := errors.New("chip gone")
	var ran []string

	err := runClose([]closeStep{
		{"close line", func() error { ran = append(ran, "line"); return errLine }},
		{"reconfigure", func() error { ran = append(ran, "reconfigure"); return nil }},
		{"close chip", func() error { ran = append(ran, "chip"); return errChip }},
	})

	if len(ran) != 3 {
		t.Errorf("every step must run, ran %v", ran)
	}
	if !errors.Is(err, errLine) || !errors.Is(err, errChip) {
		t.Errorf("expected both errors to match, got %v", err)
	}
}

func TestRunCloseNoErrors(t *testing.T) {
	if err := runClose([]closeStep{{"close", func() error { return nil }}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := runClose(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
