package network

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestReferenceInvariants checks that link endpoints always name existing
// nodes, whatever sequence of adds and removals produced the model.
func TestReferenceInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("links only join existing nodes", prop.ForAll(
		func(nodes int, edges [][2]int, removals []int, force bool) bool {
			m := NewModel()
			for i := 0; i < nodes; i++ {
				if err := m.AddJunction(&Junction{NodeBase: NodeBase{Name: fmt.Sprintf("J%d", i)}}); err != nil {
					return false
				}
			}
			for i, e := range edges {
				p := &Pipe{LinkBase: LinkBase{
					Name:      fmt.Sprintf("P%d", i),
					StartNode: fmt.Sprintf("J%d", e[0]),
					EndNode:   fmt.Sprintf("J%d", e[1]),
				}}
				err := m.AddPipe(p)
				endsExist := e[0] < nodes && e[1] < nodes
				if (err == nil) != endsExist {
					return false
				}
			}
			for _, r := range removals {
				_ = m.RemoveNode(fmt.Sprintf("J%d", r), force)
			}
			for _, l := range m.Links() {
				b := l.Base()
				if _, err := m.Node(b.StartNode); err != nil {
					return false
				}
				if _, err := m.Node(b.EndNode); err != nil {
					return false
				}
			}
			return len(m.Nodes()) == len(m.NodeNames())
		},
		gen.IntRange(1, 8),
		gen.SliceOf(gen.SliceOfN(2, gen.IntRange(0, 9)).Map(func(v []int) [2]int { return [2]int{v[0], v[1]} })),
		gen.SliceOf(gen.IntRange(0, 9)),
		gen.Bool(),
	))

	properties.Property("removal without force keeps connected nodes", prop.ForAll(
		func(n int) bool {
			m := NewModel()
			for i := 0; i <= n; i++ {
				_ = m.AddJunction(&Junction{NodeBase: NodeBase{Name: fmt.Sprintf("J%d", i)}})
			}
			for i := 0; i < n; i++ {
				_ = m.AddPipe(&Pipe{LinkBase: LinkBase{
					Name:      fmt.Sprintf("P%d", i),
					StartNode: fmt.Sprintf("J%d", i),
					EndNode:   fmt.Sprintf("J%d", i+1),
				}})
			}
			for i := 0; i <= n; i++ {
				if m.RemoveNode(fmt.Sprintf("J%d", i), false) == nil {
					return false
				}
			}
			return len(m.Nodes()) == n+1
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
