package network

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
)

// newTestModel builds R1 -> J1 -> J2 with a pump P1 from R1 to J1, a pipe
// from J1 to J2 and a tank T1 on J2.
func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	must(m.AddPattern(&Pattern{Name: "day", Multipliers: []float64{0.5, 1, 1.5}}))
	must(m.AddCurve(&Curve{Name: "C1", Points: []CurvePoint{{X: 0.05, Y: 30}}}))
	must(m.AddReservoir(&Reservoir{NodeBase: NodeBase{Name: "R1"}, BaseHead: 50}))
	must(m.AddJunction(&Junction{NodeBase: NodeBase{Name: "J1"}, Elevation: 10,
		Demands: []Demand{{Base: 0.01, Pattern: "day"}}}))
	must(m.AddJunction(&Junction{NodeBase: NodeBase{Name: "J2"}, Elevation: 12}))
	must(m.AddTank(&Tank{NodeBase: NodeBase{Name: "T1"}, Elevation: 20, InitLevel: 3, MinLevel: 1, MaxLevel: 6, Diameter: 10}))
	must(m.AddPump(&Pump{LinkBase: LinkBase{Name: "P1", StartNode: "R1", EndNode: "J1"}, HeadCurve: "C1"}))
	must(m.AddPipe(&Pipe{LinkBase: LinkBase{Name: "L1", StartNode: "J1", EndNode: "J2", InitialStatus: Open},
		Length: 100, Diameter: 0.3, Roughness: 100}))
	must(m.AddPipe(&Pipe{LinkBase: LinkBase{Name: "L2", StartNode: "J2", EndNode: "T1", InitialStatus: Open},
		Length: 50, Diameter: 0.2, Roughness: 100}))
	return m
}

func TestAddRejectsDuplicates(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		name string
		add  func() error
	}{
		{"junction shares node namespace", func() error { return m.AddJunction(&Junction{NodeBase: NodeBase{Name: "T1"}}) }},
		{"reservoir", func() error { return m.AddReservoir(&Reservoir{NodeBase: NodeBase{Name: "R1"}}) }},
		{"pipe", func() error {
			return m.AddPipe(&Pipe{LinkBase: LinkBase{Name: "L1", StartNode: "J1", EndNode: "J2"}})
		}},
		{"valve shares link namespace", func() error {
			return m.AddValve(&Valve{LinkBase: LinkBase{Name: "P1", StartNode: "J1", EndNode: "J2"}, Kind: PRV})
		}},
		{"curve", func() error { return m.AddCurve(&Curve{Name: "C1"}) }},
		{"pattern", func() error { return m.AddPattern(&Pattern{Name: "day"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.add(); !IsDuplicate(err) {
				t.Errorf("error = %v, want ErrDuplicateName", err)
			}
		})
	}

	// Nodes and links have separate namespaces.
	if err := m.AddJunction(&Junction{NodeBase: NodeBase{Name: "L1"}}); err != nil {
		t.Errorf("junction named like a pipe: %v", err)
	}
}

func TestAddRejectsMissingReferences(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		name string
		add  func() error
	}{
		{"pipe end node", func() error {
			return m.AddPipe(&Pipe{LinkBase: LinkBase{Name: "X", StartNode: "J1", EndNode: "nowhere"}})
		}},
		{"pump curve", func() error {
			return m.AddPump(&Pump{LinkBase: LinkBase{Name: "X", StartNode: "J1", EndNode: "J2"}, HeadCurve: "nope"})
		}},
		{"pump without curve", func() error {
			return m.AddPump(&Pump{LinkBase: LinkBase{Name: "X", StartNode: "J1", EndNode: "J2"}})
		}},
		{"demand pattern", func() error {
			return m.AddJunction(&Junction{NodeBase: NodeBase{Name: "X"}, Demands: []Demand{{Pattern: "nope"}}})
		}},
		{"reservoir pattern", func() error {
			return m.AddReservoir(&Reservoir{NodeBase: NodeBase{Name: "X"}, HeadPattern: "nope"})
		}},
		{"tank curve", func() error {
			return m.AddTank(&Tank{NodeBase: NodeBase{Name: "X"}, MaxLevel: 1, VolCurve: "nope"})
		}},
		{"gpv curve", func() error {
			return m.AddValve(&Valve{LinkBase: LinkBase{Name: "X", StartNode: "J1", EndNode: "J2"}, Kind: GPV})
		}},
		{"source node", func() error { return m.AddSource(&Source{Name: "S", Node: "nope"}) }},
		{"control link", func() error {
			return m.AddControl(&Control{Name: "c", Condition: &SimTimeCondition{Seconds: 10},
				Then: []Action{{Link: "nope", Attribute: AttrStatus, Status: Closed}}})
		}},
		{"control node", func() error {
			return m.AddControl(&Control{Name: "c", Condition: &ValueCondition{Name: "nope", Attribute: AttrPressure},
				Then: []Action{{Link: "L1", Attribute: AttrStatus, Status: Closed}}})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.add()
			if !IsMissingReference(err) {
				t.Errorf("error = %v, want ErrMissingReference", err)
			}
		})
	}

	if _, err := m.Link("X"); !IsNotFound(err) {
		t.Error("failed adds must not leave the link behind")
	}
}

func TestAddRejectsInvalidNames(t *testing.T) {
	m := NewModel()
	if err := m.AddJunction(&Junction{NodeBase: NodeBase{Name: "has space"}}); err == nil {
		t.Error("expected error for name with a space")
	}
	if err := m.AddPattern(&Pattern{Name: ""}); err == nil {
		t.Error("expected error for empty pattern name")
	}
}

func TestGetters(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.Junction("J1"); err != nil {
		t.Errorf("Junction(J1) = %v", err)
	}
	if _, err := m.Junction("T1"); !IsNotFound(err) {
		t.Errorf("Junction(T1) error = %v, want not found", err)
	}
	if _, err := m.Pump("L1"); !IsNotFound(err) {
		t.Errorf("Pump(L1) error = %v, want not found", err)
	}
	if _, err := m.Curve("missing"); !IsNotFound(err) {
		t.Errorf("Curve(missing) error = %v", err)
	}
	if _, err := m.Control("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Control(missing) error = %v", err)
	}

	c := m.Counts()
	want := Counts{Junctions: 2, Reservoirs: 1, Tanks: 1, Pipes: 2, Pumps: 1, Curves: 1, Patterns: 1}
	if c != want {
		t.Errorf("Counts() = %+v, want %+v", c, want)
	}
}

func TestRemoveNodeRequiresForce(t *testing.T) {
	m := newTestModel(t)

	err := m.RemoveNode("J2", false)
	if !errors.Is(err, ErrInUse) {
		t.Fatalf("RemoveNode(J2, false) = %v, want ErrInUse", err)
	}
	if _, err := m.Node("J2"); err != nil {
		t.Fatal("failed removal must keep the node")
	}

	if err := m.RemoveNode("J2", true); err != nil {
		t.Fatalf("RemoveNode(J2, true) = %v", err)
	}
	for _, l := range []string{"L1", "L2"} {
		if _, err := m.Link(l); !IsNotFound(err) {
			t.Errorf("link %s should be removed with J2", l)
		}
	}
	if got := m.LinksFor("J1"); len(got) != 1 || got[0] != "P1" {
		t.Errorf("LinksFor(J1) = %v, want [P1]", got)
	}
	if got := m.PipeNames(); len(got) != 0 {
		t.Errorf("PipeNames() = %v, want empty", got)
	}
}

func TestRemoveLinkWithControls(t *testing.T) {
	m := newTestModel(t)
	ctl := &Control{
		Name:      "control 1",
		Condition: &ValueCondition{Element: NodeElement, Name: "T1", Attribute: AttrLevel, Relation: Above, Threshold: 5},
		Then:      []Action{{Link: "P1", Attribute: AttrStatus, Status: Closed}},
	}
	if err := m.AddControl(ctl); err != nil {
		t.Fatal(err)
	}

	if err := m.RemoveLink("P1", false); !errors.Is(err, ErrInUse) {
		t.Fatalf("RemoveLink(P1, false) = %v, want ErrInUse", err)
	}
	if err := m.RemoveNode("T1", false); !errors.Is(err, ErrInUse) {
		t.Fatalf("RemoveNode(T1, false) = %v, want ErrInUse", err)
	}
	if err := m.RemoveLink("P1", true); err != nil {
		t.Fatal(err)
	}
	if len(m.Controls()) != 0 {
		t.Error("control should be removed with its link")
	}
	if err := m.RemoveLink("P1", true); !IsNotFound(err) {
		t.Errorf("second removal = %v, want not found", err)
	}
}

func TestRemoveCurveInUse(t *testing.T) {
	m := newTestModel(t)
	if err := m.RemoveCurve("C1"); !errors.Is(err, ErrInUse) {
		t.Errorf("RemoveCurve(C1) = %v, want ErrInUse", err)
	}
	if err := m.AddCurve(&Curve{Name: "spare"}); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveCurve("spare"); err != nil {
		t.Errorf("RemoveCurve(spare) = %v", err)
	}
}

func TestCurveTyping(t *testing.T) {
	m := newTestModel(t)

	c, _ := m.Curve("C1")
	if c.Type != CurveHead {
		t.Fatalf("pump curve type = %v, want HEAD", c.Type)
	}

	err := m.AddTank(&Tank{NodeBase: NodeBase{Name: "T2"}, MaxLevel: 5, VolCurve: "C1"})
	if !errors.Is(err, ErrCurveTypeConflict) {
		t.Errorf("second type error = %v, want ErrCurveTypeConflict", err)
	}

	if err := m.AddCurve(&Curve{Name: "V", Points: []CurvePoint{{X: 1, Y: 2}}}); err != nil {
		t.Fatal(err)
	}
	double := func(p CurvePoint) CurvePoint { return CurvePoint{X: p.X * 2, Y: p.Y * 2} }
	if err := m.TypeCurve("V", CurveVolume, double); err != nil {
		t.Fatal(err)
	}
	if err := m.TypeCurve("V", CurveVolume, double); err != nil {
		t.Fatal(err)
	}
	v, _ := m.Curve("V")
	if v.Points[0] != (CurvePoint{X: 2, Y: 4}) {
		t.Errorf("points converted more than once: %+v", v.Points)
	}
}

func TestFinalizeCurves(t *testing.T) {
	rec := logging.NewRecorder()
	m := newTestModel(t)
	m.SetLogger(rec)

	if err := m.AddCurve(&Curve{Name: "orphan"}); err != nil {
		t.Fatal(err)
	}
	got := m.FinalizeCurves()
	if len(got) != 1 || got[0] != "orphan" {
		t.Fatalf("FinalizeCurves() = %v", got)
	}
	c, _ := m.Curve("orphan")
	if c.Type != CurveUnknown {
		t.Errorf("orphan type = %v, want UNKNOWN", c.Type)
	}
	if len(rec.AtLevel(logging.WarnLevel)) != 1 {
		t.Error("expected one warning for the untyped curve")
	}
}

// TestTankClampPolicy checks AddTank and SetTankLevel apply the same clamp.
func TestTankClampPolicy(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		want  float64
	}{
		{"below min", -2, 1},
		{"above max", 9, 6},
		{"inside", 4, 4},
		{"at bound", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel()
			tank := &Tank{NodeBase: NodeBase{Name: "T"}, InitLevel: tt.level, MinLevel: 1, MaxLevel: 6}
			if err := m.AddTank(tank); err != nil {
				t.Fatal(err)
			}
			if tank.InitLevel != tt.want {
				t.Errorf("AddTank level = %v, want %v", tank.InitLevel, tt.want)
			}

			tank.InitLevel = 3
			if err := m.SetTankLevel("T", tt.level); err != nil {
				t.Fatal(err)
			}
			if tank.InitLevel != tt.want {
				t.Errorf("SetTankLevel level = %v, want %v", tank.InitLevel, tt.want)
			}
		})
	}

	m := NewModel()
	err := m.AddTank(&Tank{NodeBase: NodeBase{Name: "bad"}, MinLevel: 5, MaxLevel: 1})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("inverted bounds error = %v", err)
	}
}

func TestActiveFlag(t *testing.T) {
	m := newTestModel(t)
	j, _ := m.Junction("J2")
	if !j.IsActive() {
		t.Fatal("nodes start active")
	}
	j.SetActive(false)
	if j.IsActive() {
		t.Error("SetActive(false) did not stick")
	}
}

func TestNameCacheInvalidation(t *testing.T) {
	m := newTestModel(t)
	if got := len(m.JunctionNames()); got != 2 {
		t.Fatalf("JunctionNames() = %d", got)
	}
	if err := m.AddJunction(&Junction{NodeBase: NodeBase{Name: "J3"}}); err != nil {
		t.Fatal(err)
	}
	if got := m.JunctionNames(); len(got) != 3 || got[2] != "J3" {
		t.Errorf("JunctionNames() after add = %v", got)
	}
	if err := m.AddPipe(&Pipe{LinkBase: LinkBase{Name: "L3", StartNode: "J2", EndNode: "J3"}}); err != nil {
		t.Fatal(err)
	}
	if got := m.LinksFor("J2"); len(got) != 3 {
		t.Errorf("LinksFor(J2) = %v, want 3 links", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults", func(*Options) {}, false},
		{"report below hydraulic", func(o *Options) { o.Time.ReportTimestep = 600 }, true},
		{"report not multiple", func(o *Options) { o.Time.HydraulicTimestep = 1000 }, true},
		{"bad headloss", func(o *Options) { o.Hydraulic.Headloss = "X" }, true},
		{"trace without node", func(o *Options) { o.Quality.Parameter = "TRACE" }, true},
		{"trace with node", func(o *Options) { o.Quality.Parameter = "TRACE"; o.Quality.TraceNode = "R1" }, false},
		{"zero trials", func(o *Options) { o.Hydraulic.Trials = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := newTestModel(t)
	m.Options.SetExtra("QUALITY_EXTRA", "1")
	c := m.Clone()

	j, _ := c.Junction("J1")
	j.Demands[0].Base = 9
	p, _ := c.Pattern("day")
	p.Multipliers[0] = 9
	pipe, _ := c.Pipe("L1")
	pipe.Vertices = append(pipe.Vertices, Point{X: 1, Y: 1})
	c.Options.Extra["QUALITY_EXTRA"] = "2"
	if err := c.AddJunction(&Junction{NodeBase: NodeBase{Name: "J3"}}); err != nil {
		t.Fatalf("AddJunction: %v", err)
	}

	orig, _ := m.Junction("J1")
	if orig.Demands[0].Base != 0.01 {
		t.Errorf("original demand changed to %v", orig.Demands[0].Base)
	}
	op, _ := m.Pattern("day")
	if op.Multipliers[0] != 0.5 {
		t.Errorf("original pattern changed to %v", op.Multipliers)
	}
	opipe, _ := m.Pipe("L1")
	if len(opipe.Vertices) != 0 {
		t.Errorf("original vertices changed: %v", opipe.Vertices)
	}
	if m.Options.Extra["QUALITY_EXTRA"] != "1" {
		t.Errorf("original extra option changed")
	}
	if _, err := m.Junction("J3"); err == nil {
		t.Error("node added to clone appears in original")
	}
	if got, want := len(c.JunctionNames()), len(m.JunctionNames())+1; got != want {
		t.Errorf("clone junctions = %d, want %d", got, want)
	}
}
