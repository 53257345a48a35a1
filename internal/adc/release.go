package adc

import (
	"errors"
	"fmt"
)

// closeStep is one stage of releasing hardware.
type closeStep struct {
	name string
	fn   func() error
}

// runClose runs every step, even after a failure, and joins the errors.
func runClose(steps []closeStep) error {
	var errs []error
	for _, s := range steps {
		if err := s.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
