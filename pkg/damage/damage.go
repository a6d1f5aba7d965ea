// Package damage applies and removes the temporary network edits a damage
// scenario needs between solver runs: explicit leaks, bypasses around broken
// pipes, and the carry-over of tank levels and link states from one run's
// results into the next run's model.
package damage

import (
	"errors"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

var (
	// ErrLeaksPending is returned when explicit leaks are added while a
	// previous set has not been reset.
	ErrLeaksPending = errors.New("explicit leaks not reset")

	// ErrBreaksPending is returned when breaks are linked while a previous
	// set has not been unlinked.
	ErrBreaksPending = errors.New("breakage links not removed")

	// ErrLeakWithDemand is returned for a leaking junction that also carries
	// a demand.
	ErrLeakWithDemand = errors.New("leak node has demand")

	// ErrPartialBreak is returned when only some elements of a break exist.
	ErrPartialBreak = errors.New("break partially present")

	// ErrTimeMismatch is returned when results end at a different time than
	// the caller expected.
	ErrTimeMismatch = errors.New("results time does not match simulation time")

	// ErrUnconverted is returned for results still in file units.
	ErrUnconverted = errors.New("results not converted to SI")
)

// demandTolerance is the largest base demand, in m3/s, a leaking junction
// may carry.
const demandTolerance = 0.001

// Manager tracks the elements it added to one model so that they can be
// removed again before the next scenario step.
type Manager struct {
	model  *network.Model
	log    logging.Logger
	leaks  []Leak
	breaks map[string]string
}

// NewManager creates a Manager for m. A nil logger logs nowhere.
func NewManager(m *network.Model, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		model:  m,
		log:    logger.With(logging.Component("damage")),
		breaks: make(map[string]string),
	}
}

// Leaks returns the explicit leaks currently in the model.
func (g *Manager) Leaks() []Leak {
	return append([]Leak(nil), g.leaks...)
}

// Bypasses returns the bypass pipe added for each linked break, keyed by
// damage name.
func (g *Manager) Bypasses() map[string]string {
	out := make(map[string]string, len(g.breaks))
	for k, v := range g.breaks {
		out[k] = v
	}
	return out
}
