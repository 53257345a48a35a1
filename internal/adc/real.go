//go:build linux

package adc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// ADC0832 reads an ADC0832 wired to three GPIO lines using the Linux GPIO
// character device.
type ADC0832 struct {
	chipName string
	pinCS    int
	pinCLK   int
	pinDIO   int

	mu          sync.Mutex
	chip        *gpiocdev.Chip
	cs, clk     *gpiocdev.Line
	dio         *gpiocdev.Line
	initialized bool
}

// NewADC0832 creates a reader for the given chip and BCM pins.
// No hardware is touched until Init.
func NewADC0832(chipName string, pinCS, pinCLK, pinDIO int) *ADC0832 {
	return &ADC0832{
		chipName: chipName,
		pinCS:    pinCS,
		pinCLK:   pinCLK,
		pinDIO:   pinDIO,
	}
}

// Init opens the chip and requests the CS, CLK and DIO lines as outputs.
// CS idles high (deselected).
func (a *ADC0832) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	chip, err := gpiocdev.NewChip(a.chipName)
	if err != nil {
		return fmt.Errorf("open gpio chip: %w", err)
	}

	cs, err := chip.RequestLine(a.pinCS, gpiocdev.AsOutput(1), gpiocdev.WithConsumer("champlain-adc-cs"))
	if err != nil {
		chip.Close()
		return fmt.Errorf("request CS pin %d: %w", a.pinCS, err)
	}

	clk, err := chip.RequestLine(a.pinCLK, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("champlain-adc-clk"))
	if err != nil {
		cs.Close()
		chip.Close()
		return fmt.Errorf("request CLK pin %d: %w", a.pinCLK, err)
	}

	dio, err := chip.RequestLine(a.pinDIO, gpiocdev.AsOutput(1), gpiocdev.WithConsumer("champlain-adc-dio"))
	if err != nil {
		clk.Close()
		cs.Close()
		chip.Close()
		return fmt.Errorf("request DIO pin %d: %w", a.pinDIO, err)
	}

	a.chip, a.cs, a.clk, a.dio = chip, cs, clk, dio
	a.initialized = true
	return nil
}

// ReadChannel performs one conversion. Reads are serialized.
func (a *ADC0832) ReadChannel(ch int) (int, error) {
	if !validChannel(ch) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return 0, fmt.Errorf("%w: not initialized", ErrSensorUnavailable)
	}

	v, err := readFrame(gpioLines{a}, ch, sleepBitDelay)
	if errors.Is(err, ErrSensorUnavailable) {
		return 0, fmt.Errorf("channel %d: %w", ch, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: channel %d: %w", ErrSensorUnavailable, ch, err)
	}
	return v, nil
}

// Close releases the lines. Each line is reconfigured to input with pull-down
// (matching Pi boot defaults) before closing.
func (a *ADC0832) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return nil
	}
	a.initialized = false

	var steps []closeStep
	for _, p := range []struct {
		name string
		line *gpiocdev.Line
	}{{"CS", a.cs}, {"CLK", a.clk}, {"DIO", a.dio}} {
		if p.line == nil {
			continue
		}
		l := p.line
		steps = append(steps,
			closeStep{"reconfigure " + p.name + " pin", func() error {
				return l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown)
			}},
			closeStep{"close " + p.name + " pin", l.Close},
		)
	}
	if a.chip != nil {
		steps = append(steps, closeStep{"close chip", a.chip.Close})
	}
	a.chip, a.cs, a.clk, a.dio = nil, nil, nil, nil

	return runClose(steps)
}

// gpioLines adapts the requested lines to the protocol. Caller holds a.mu.
type gpioLines struct{ a *ADC0832 }

func (g gpioLines) setCS(v int) error { return g.a.cs.SetValue(v) }
func (g gpioLines) setCLK(v int) error { return g.a.clk.SetValue(v) }
func (g gpioLines) setDIO(v int) error { return g.a.dio.SetValue(v) }

func (g gpioLines) dioAsInput() error {
	return g.a.dio.Reconfigure(gpiocdev.AsInput)
}

func (g gpioLines) dioAsOutput(v int) error {
	return g.a.dio.Reconfigure(gpiocdev.AsOutput(v))
}

func (g gpioLines) readDIO() (int, error) {
	return g.a.dio.Value()
}
