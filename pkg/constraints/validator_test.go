package constraints

import (
	"strings"
	"testing"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// setupTestModel builds R1 -> J1 -> T1 with sane data.
func setupTestModel(t *testing.T) *network.Model {
	t.Helper()
	m := network.NewModel()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	must(m.AddReservoir(&network.Reservoir{NodeBase: network.NodeBase{Name: "R1"}, BaseHead: 100}))
	must(m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "J1"}, Elevation: 10}))
	must(m.AddTank(&network.Tank{NodeBase: network.NodeBase{Name: "T1"},
		Elevation: 50, MinLevel: 1, InitLevel: 3, MaxLevel: 6, Diameter: 10}))
	must(m.AddPipe(&network.Pipe{LinkBase: network.LinkBase{Name: "P1", StartNode: "R1", EndNode: "J1"},
		Length: 100, Diameter: 0.3, Roughness: 100}))
	must(m.AddPipe(&network.Pipe{LinkBase: network.LinkBase{Name: "P2", StartNode: "J1", EndNode: "T1"},
		Length: 200, Diameter: 0.2, Roughness: 100}))
	return m
}

func TestDefaultValidator_CleanModel(t *testing.T) {
	m := setupTestModel(t)

	result, err := DefaultValidator().Validate(m)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !result.Valid || len(result.Violations) != 0 {
		t.Errorf("Expected clean model, got %+v", result.Violations)
	}
	if result.CheckedAt.IsZero() {
		t.Error("Expected CheckedAt to be set")
	}
}

func TestDimensionConstraint(t *testing.T) {
	m := setupTestModel(t)
	p, _ := m.Pipe("P2")
	p.Diameter = 0

	violations, err := (&DimensionConstraint{}).Validate(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(violations))
	}
	if violations[0].Link != "P2" || violations[0].Details["property"] != "diameter" {
		t.Errorf("Unexpected violation %+v", violations[0])
	}
}

func TestTankLevelConstraint(t *testing.T) {
	m := setupTestModel(t)
	tank, _ := m.Tank("T1")
	tank.InitLevel = 10 // bypasses the model's clamp
	tank.Diameter = 0

	violations, _ := (&TankLevelConstraint{}).Validate(m)
	if len(violations) != 2 {
		t.Fatalf("Expected 2 violations, got %d: %+v", len(violations), violations)
	}
	for _, v := range violations {
		if v.Node != "T1" || v.Type != OutOfRange {
			t.Errorf("Unexpected violation %+v", v)
		}
	}

	tank.Diameter = 0
	tank.VolCurve = "V1"
	tank.InitLevel = 3
	violations, _ = (&TankLevelConstraint{}).Validate(m)
	if len(violations) != 0 {
		t.Errorf("Volume curve tank should pass, got %+v", violations)
	}
}

func TestEndpointConstraint(t *testing.T) {
	m := setupTestModel(t)
	if err := m.AddPipe(&network.Pipe{LinkBase: network.LinkBase{Name: "LOOP", StartNode: "J1", EndNode: "J1"},
		Length: 1, Diameter: 1, Roughness: 1}); err != nil {
		t.Fatal(err)
	}

	violations, _ := (&EndpointConstraint{}).Validate(m)
	if len(violations) != 1 || violations[0].Link != "LOOP" {
		t.Errorf("Unexpected violations %+v", violations)
	}
}

func TestDegreeConstraint(t *testing.T) {
	m := setupTestModel(t)
	if err := m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "ORPHAN"}}); err != nil {
		t.Fatal(err)
	}

	violations, _ := (&DegreeConstraint{Min: 1}).Validate(m)
	if len(violations) != 1 || violations[0].Node != "ORPHAN" {
		t.Fatalf("Unexpected violations %+v", violations)
	}
	if violations[0].Severity != Warning {
		t.Errorf("Expected warning severity, got %s", violations[0].Severity)
	}

	violations, _ = (&DegreeConstraint{Max: 1}).Validate(m)
	if len(violations) != 1 || violations[0].Node != "J1" {
		t.Errorf("Max: unexpected violations %+v", violations)
	}
}

func TestCurveConstraint(t *testing.T) {
	m := setupTestModel(t)
	curves := []*network.Curve{
		{Name: "GOOD", Type: network.CurveHead, Points: []network.CurvePoint{{X: 0, Y: 50}, {X: 1, Y: 40}}},
		{Name: "RISING", Type: network.CurveHead, Points: []network.CurvePoint{{X: 0, Y: 40}, {X: 1, Y: 50}}},
		{Name: "UNSORTED", Type: network.CurveVolume, Points: []network.CurvePoint{{X: 2, Y: 1}, {X: 1, Y: 2}}},
		{Name: "EFF", Type: network.CurveEfficiency, Points: []network.CurvePoint{{X: 1, Y: 120}}},
		{Name: "EMPTY", Type: network.CurveUnknown},
	}
	for _, c := range curves {
		if err := m.AddCurve(c); err != nil {
			t.Fatal(err)
		}
	}

	violations, _ := (&CurveConstraint{}).Validate(m)
	got := make([]string, 0, len(violations))
	for _, v := range violations {
		got = append(got, v.Curve)
	}
	want := "RISING,UNSORTED,EFF,EMPTY"
	if strings.Join(got, ",") != want {
		t.Errorf("Flagged curves %v, want %s", got, want)
	}
}

func TestUniquenessConstraint(t *testing.T) {
	m := setupTestModel(t)
	if err := m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "j1"}}); err != nil {
		t.Fatal(err)
	}

	violations, _ := (&UniquenessConstraint{}).Validate(m)
	if len(violations) != 1 || violations[0].Node != "j1" {
		t.Fatalf("Unexpected violations %+v", violations)
	}
	if violations[0].Details["conflicts_with"] != "J1" {
		t.Errorf("Expected conflict with J1, got %v", violations[0].Details)
	}
}

func TestConnectivityConstraint(t *testing.T) {
	m := setupTestModel(t)
	p, _ := m.Pipe("P1")
	p.InitialStatus = network.Closed

	// J1 still reaches T1, so nothing is isolated
	violations, _ := (&ConnectivityConstraint{}).Validate(m)
	if len(violations) != 0 {
		t.Errorf("Expected no violations, got %+v", violations)
	}

	p2, _ := m.Pipe("P2")
	p2.InitialStatus = network.Closed
	violations, _ = (&ConnectivityConstraint{}).Validate(m)
	if len(violations) != 1 || violations[0].Node != "J1" {
		t.Errorf("Expected J1 isolated, got %+v", violations)
	}
}

func TestValidationResult_Filters(t *testing.T) {
	m := setupTestModel(t)
	p, _ := m.Pipe("P1")
	p.Length = -1
	if err := m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "ORPHAN"}}); err != nil {
		t.Fatal(err)
	}

	result, err := DefaultValidator().Validate(m)
	if err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Error("Expected invalid result")
	}
	if n := len(result.BySeverity(Error)); n != 1 {
		t.Errorf("Expected 1 error, got %d", n)
	}
	if n := len(result.ByType(CardinalityViolation)); n != 1 {
		t.Errorf("Expected 1 cardinality violation, got %d", n)
	}

	rec := logging.NewRecorder()
	result.Log(rec)
	if !rec.Contains(logging.WarnLevel, "non-positive length") {
		t.Error("Expected error violation logged at warn level")
	}
	for _, e := range rec.AtLevel(logging.WarnLevel) {
		if e.Fields["link"] != "P1" {
			t.Errorf("warn entry fields = %v, want link P1", e.Fields)
		}
	}
}

func TestValidator_ConstraintManagement(t *testing.T) {
	v := NewValidator(&EndpointConstraint{})
	v.Add(&CurveConstraint{}, &DimensionConstraint{})
	if len(v.Constraints()) != 3 {
		t.Errorf("Expected 3 constraints, got %d", len(v.Constraints()))
	}
	if got := NewValidator().Constraints(); len(got) != 0 {
		t.Errorf("empty validator has %d constraints", len(got))
	}
}

func TestViolationString(t *testing.T) {
	v := Violation{Severity: Warning, Constraint: "DegreeConstraint", Node: "J9", Message: "isolated node"}
	if got := v.String(); got != "Warning DegreeConstraint J9: isolated node" {
		t.Errorf("String() = %q", got)
	}
	if got := Severity(7).String(); got != "Severity(7)" {
		t.Errorf("Severity(7) = %q", got)
	}
}
