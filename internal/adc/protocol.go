package adc

import (
	"errors"
	"fmt"
	"time"
)

// bitDelay is the half-period of the serial clock.
const bitDelay = 2 * time.Microsecond

// lines abstracts the three ADC0832 control lines so the protocol can be
// exercised without hardware.
type lines interface {
	setCS(v int) error
	setCLK(v int) error
	setDIO(v int) error
	dioAsInput() error
	dioAsOutput(v int) error
	readDIO() (int, error)
}

// readFrame runs one single-ended conversion on ch and returns the sample.
// The converter shifts the result out MSB-first and then repeats it LSB-first;
// the two copies must agree.
func readFrame(l lines, ch int, delay func()) (int, error) {
	var err error
	set := func(f func(int) error, v int) {
		if err == nil {
			err = f(v)
		}
	}
	clock := func() {
		set(l.setCLK, 1)
		delay()
		set(l.setCLK, 0)
		delay()
	}

	set(l.setCS, 0)
	set(l.dioAsOutput, 1)

	// Start bit.
	set(l.setCLK, 0)
	set(l.setDIO, 1)
	delay()
	set(l.setCLK, 1)
	delay()
	set(l.setCLK, 0)

	// SGL/DIF = 1: single-ended.
	set(l.setDIO, 1)
	delay()
	set(l.setCLK, 1)
	delay()
	set(l.setCLK, 0)

	// ODD/SIGN selects the channel.
	set(l.setDIO, ch)
	delay()
	set(l.setCLK, 1)
	set(l.setDIO, 1)
	delay()
	set(l.setCLK, 0)
	set(l.setDIO, 1)
	delay()

	if err != nil {
		err = fmt.Errorf("write mux address: %w", err)
		if csErr := l.setCS(1); csErr != nil {
			err = errors.Join(err, fmt.Errorf("release CS: %w", csErr))
		}
		return 0, err
	}

	msb := 0
	for i := 0; i < 8 && err == nil; i++ {
		clock()
		if i == 0 && err == nil {
			err = l.dioAsInput()
		}
		if err != nil {
			break
		}
		var bit int
		bit, err = l.readDIO()
		msb = msb<<1 | bit&1
	}

	lsb := 0
	for i := 0; i < 8 && err == nil; i++ {
		var bit int
		bit, err = l.readDIO()
		lsb |= (bit & 1) << i
		clock()
	}

	// Release the bus even when the read failed.
	csErr := l.setCS(1)
	dioErr := l.dioAsOutput(1)

	if err != nil {
		err = fmt.Errorf("read frame: %w", err)
	}
	if csErr != nil {
		err = errors.Join(err, fmt.Errorf("release CS: %w", csErr))
	}
	if dioErr != nil {
		err = errors.Join(err, fmt.Errorf("release DIO: %w", dioErr))
	}
	if err != nil {
		return 0, err
	}
	if msb != lsb {
		return 0, fmt.Errorf("%w: checksum mismatch (msb=%d lsb=%d)", ErrSensorUnavailable, msb, lsb)
	}
	return msb, nil
}

func sleepBitDelay() {
	time.Sleep(bitDelay)
}
