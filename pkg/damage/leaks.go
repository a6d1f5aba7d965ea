package damage

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// LeakMethod is how a leak is made explicit.
type LeakMethod string

const (
	// EmitterLeak discharges through an emitter on a new junction.
	EmitterLeak LeakMethod = "emitter"
	// ReservoirLeak discharges into a new reservoir at the node's elevation.
	ReservoirLeak LeakMethod = "reservoir"
)

const gravity = 9.81

// Leak records the elements added to make one junction's leak explicit.
type Leak struct {
	Node   string
	Method LeakMethod
	// Pipe joins Node to Outlet.
	Pipe   string
	Outlet string
	// Coefficient is the emitter coefficient given to Outlet, in
	// m3/s per m^0.5. Zero for reservoir leaks.
	Coefficient float64
}

// LeaksToEmitters replaces every junction's leak flag by a check-valve pipe
// to a new junction carrying an emitter sized from the leak area.
func (g *Manager) LeaksToEmitters() ([]Leak, error) {
	return g.addLeaks(EmitterLeak)
}

// LeaksToReservoirs replaces every junction's leak flag by a check-valve
// pipe, sized from the leak area, to a new reservoir.
func (g *Manager) LeaksToReservoirs() ([]Leak, error) {
	return g.addLeaks(ReservoirLeak)
}

func (g *Manager) addLeaks(method LeakMethod) ([]Leak, error) {
	if len(g.leaks) > 0 {
		return nil, ErrLeaksPending
	}

	var added []Leak
	for _, j := range g.model.Junctions() {
		if !j.Leak {
			continue
		}
		if j.BaseDemand() > demandTolerance {
			g.rollback(added)
			return nil, fmt.Errorf("%w: %s", ErrLeakWithDemand, j.Name)
		}
		leak, err := g.addLeak(j, method)
		if err != nil {
			g.rollback(added)
			return nil, err
		}
		added = append(added, leak)
		g.log.Debug("explicit leak added",
			logging.Node(j.Name),
			logging.String("method", string(method)),
			logging.Link(leak.Pipe))
	}
	g.leaks = added
	if len(added) > 0 {
		g.log.Info("explicit leaks added", logging.String("method", string(method)), logging.Count(len(added)))
	}
	return g.Leaks(), nil
}

func (g *Manager) addLeak(j *network.Junction, method LeakMethod) (Leak, error) {
	leak := Leak{Node: j.Name, Method: method}
	at := network.Point{X: j.Coordinates.X + 1, Y: j.Coordinates.Y + 1}

	switch method {
	case EmitterLeak:
		leak.Outlet = j.Name + "-nn"
		leak.Pipe = j.Name + "-elk"
		leak.Coefficient = j.LeakArea * math.Sqrt(2*gravity)
		outlet := &network.Junction{
			NodeBase:           network.NodeBase{Name: leak.Outlet, Coordinates: at},
			Elevation:          j.Elevation,
			EmitterCoefficient: leak.Coefficient,
		}
		if err := g.model.AddJunction(outlet); err != nil {
			return Leak{}, err
		}
		pipe := &network.Pipe{
			LinkBase:   network.LinkBase{Name: leak.Pipe, StartNode: j.Name, EndNode: leak.Outlet},
			Length:     1,
			Diameter:   100,
			Roughness:  1e6,
			CheckValve: true,
		}
		if err := g.model.AddPipe(pipe); err != nil {
			_ = g.model.RemoveNode(leak.Outlet, true)
			return Leak{}, err
		}

	case ReservoirLeak:
		leak.Outlet = j.Name + "_nn"
		leak.Pipe = j.Name + "-rlk"
		outlet := &network.Reservoir{
			NodeBase: network.NodeBase{Name: leak.Outlet, Coordinates: at},
			BaseHead: j.Elevation,
		}
		if err := g.model.AddReservoir(outlet); err != nil {
			return Leak{}, err
		}
		pipe := &network.Pipe{
			LinkBase:   network.LinkBase{Name: leak.Pipe, StartNode: j.Name, EndNode: leak.Outlet},
			Length:     1,
			Diameter:   math.Sqrt(j.LeakArea * 4 / math.Pi),
			Roughness:  1e6,
			MinorLoss:  1,
			CheckValve: true,
		}
		if err := g.model.AddPipe(pipe); err != nil {
			_ = g.model.RemoveNode(leak.Outlet, true)
			return Leak{}, err
		}

	default:
		return Leak{}, fmt.Errorf("unknown leak method %q", method)
	}
	return leak, nil
}

func (g *Manager) rollback(leaks []Leak) {
	for _, l := range leaks {
		_ = g.model.RemoveNode(l.Outlet, true)
	}
}

// ResetLeaks removes every element the last LeaksTo call added.
func (g *Manager) ResetLeaks() error {
	for _, l := range g.leaks {
		if err := g.model.RemoveLink(l.Pipe, true); err != nil && !network.IsNotFound(err) {
			return err
		}
		if err := g.model.RemoveNode(l.Outlet, true); err != nil && !network.IsNotFound(err) {
			return err
		}
	}
	if len(g.leaks) > 0 {
		g.log.Info("explicit leaks reset", logging.Count(len(g.leaks)))
	}
	g.leaks = nil
	return nil
}
