package damage

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// Break describes a pipe split at a damage location into PipeA, ending at
// NodeA, and PipeB, starting at NodeB.
type Break struct {
	Damage   string
	PipeA    string
	PipeB    string
	NodeA    string
	NodeB    string
	Repaired bool
}

// LinkBreaks adds a short bypass pipe from PipeA's start node to PipeB's end
// node for every unrepaired break whose elements are all in the model.
// Breaks whose elements are all absent are skipped.
func (g *Manager) LinkBreaks(breaks []Break) error {
	if len(g.breaks) > 0 {
		return ErrBreaksPending
	}

	pipes := g.model.PipeNames()
	junctions := g.model.JunctionNames()
	added := make(map[string]string)
	for _, b := range breaks {
		if b.Repaired {
			continue
		}
		present := []bool{
			slices.Contains(pipes, b.PipeA),
			slices.Contains(pipes, b.PipeB),
			slices.Contains(junctions, b.NodeA),
			slices.Contains(junctions, b.NodeB),
		}
		switch c := count(present); {
		case c == 0:
			continue
		case c < len(present):
			g.unlink(added)
			return fmt.Errorf("%w: %s (pipes %v/%v, nodes %v/%v)", ErrPartialBreak, b.Damage,
				present[0], present[1], present[2], present[3])
		}

		a, _ := g.model.Pipe(b.PipeA)
		z, _ := g.model.Pipe(b.PipeB)
		name := b.Damage + "_BLP"
		bypass := &network.Pipe{
			LinkBase:  network.LinkBase{Name: name, StartNode: a.StartNode, EndNode: z.EndNode},
			Length:    1,
			Diameter:  0.0254,
			Roughness: 100,
		}
		if err := g.model.AddPipe(bypass); err != nil {
			g.unlink(added)
			return err
		}
		added[b.Damage] = name
		g.log.Debug("break bypass added", logging.String("damage", b.Damage), logging.Link(name))
	}
	g.breaks = added
	return nil
}

// UnlinkBreaks removes the bypass pipes the last LinkBreaks call added.
func (g *Manager) UnlinkBreaks() error {
	for _, pipe := range g.breaks {
		if err := g.model.RemoveLink(pipe, true); err != nil && !network.IsNotFound(err) {
			return err
		}
	}
	g.breaks = make(map[string]string)
	return nil
}

func (g *Manager) unlink(added map[string]string) {
	for _, pipe := range added {
		_ = g.model.RemoveLink(pipe, true)
	}
}

func count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
