package agent

import (
	"errors"
	"sync"

	"github.com/sweeney/champlain-agent/internal/logic"
)

// recordingActuator records every call in order.
type recordingActuator struct {
	mu          sync.Mutex
	brightness  []float64
	switches    []logic.State
	switchError error
}

func (a *recordingActuator) SetBrightness(p float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.brightness = append(a.brightness, p)
	return nil
}

func (a *recordingActuator) SetSwitch(s logic.State) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.switchError != nil {
		return a.switchError
	}
	a.switches = append(a.switches, s)
	return nil
}

func (a *recordingActuator) switchCalls() []logic.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]logic.State, len(a.switches))
	copy(out, a.switches)
	return out
}

func (a *recordingActuator) brightnessCalls() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float64, len(a.brightness))
	copy(out, a.brightness)
	return out
}

var errSimulated = errors.New("simulated error")
