package inp

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-epanet/pkg/algorithms"
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

func encode(t *testing.T, w *Writer, m *network.Model) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, w.Encode(&buf, m))
	return buf.String()
}

func TestWriteIsIdempotent(t *testing.T) {
	m := readFixture(t)
	first := encode(t, &Writer{}, m)

	again, err := (&Reader{}).Decode(nil, "first.inp", strings.NewReader(first))
	require.NoError(t, err)
	second := encode(t, &Writer{}, again)

	assert.Equal(t, first, second)
}

func TestWriteRoundTripPreservesModel(t *testing.T) {
	m := readFixture(t)
	text := encode(t, &Writer{}, m)

	back, err := (&Reader{}).Decode(nil, "round.inp", strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, m.Counts(), back.Counts())
	assert.Equal(t, m.Title, back.Title)
	assert.Equal(t, m.TopComments, back.TopComments)

	for _, j := range m.Junctions() {
		got, err := back.Junction(j.Name)
		require.NoError(t, err)
		assert.InDelta(t, j.Elevation, got.Elevation, 1e-9, j.Name)
		require.Len(t, got.Demands, len(j.Demands), j.Name)
		for i, d := range j.Demands {
			assert.InDelta(t, d.Base, got.Demands[i].Base, 1e-12)
			assert.Equal(t, d.Pattern, got.Demands[i].Pattern)
			assert.Equal(t, d.Category, got.Demands[i].Category)
		}
	}

	pump, _ := back.Pump("PU1")
	assert.Equal(t, network.Closed, pump.InitialStatus)
	assert.Equal(t, 1.2, pump.BaseSpeed)

	v, _ := back.Valve("V1")
	assert.InDelta(t, 40*psi, v.InitialSetting, 1e-9)

	r2, err := back.Control("R2")
	require.NoError(t, err)
	and, ok := r2.Condition.(*network.AndCondition)
	require.True(t, ok, "R2 condition is %T", r2.Condition)
	_, ok = and.Right.(*network.OrCondition)
	assert.True(t, ok, "R2 right side is %T", and.Right)
	assert.Len(t, r2.Else, 2)

	assert.Equal(t, m.Options.Time, back.Options.Time)
	assert.Equal(t, m.Options.Quality, back.Options.Quality)
	assert.InDelta(t, m.Options.Hydraulic.RequiredPressure, back.Options.Hydraulic.RequiredPressure, 1e-9)
}

func TestWriteRoundTripPipesAndReservoirs(t *testing.T) {
	m := readFixture(t)
	back, err := (&Reader{}).Decode(nil, "round.inp", strings.NewReader(encode(t, &Writer{}, m)))
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.EquateApprox(0, 1e-9),
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreUnexported(network.LinkBase{}, network.NodeBase{}),
	}
	for _, want := range m.Pipes() {
		got, err := back.Pipe(want.Name)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got, opts); diff != "" {
			t.Errorf("pipe %s mismatch (-want +got):\n%s", want.Name, diff)
		}
	}
	for _, want := range m.Reservoirs() {
		got, err := back.Reservoir(want.Name)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got, opts); diff != "" {
			t.Errorf("reservoir %s mismatch (-want +got):\n%s", want.Name, diff)
		}
	}
}

func TestWriteRule(t *testing.T) {
	m := readFixture(t)
	text := encode(t, &Writer{}, m)

	want := strings.Join([]string{
		"RULE R1",
		"IF TANK T1 LEVEL > 10",
		"THEN PUMP PU1 STATUS IS CLOSED",
		"PRIORITY 5",
	}, "\n")
	assert.Contains(t, text, want)
	assert.Contains(t, text, "IF SYSTEM CLOCKTIME >= 8:00:00 AM\nAND JUNCTION J1 PRESSURE < 30\nOR TANK T1 LEVEL < 4")
	assert.Contains(t, text, "ELSE PUMP PU1 STATUS IS CLOSED\nAND VALVE V1 SETTING = 45")
}

func TestWriteControls(t *testing.T) {
	m := readFixture(t)
	text := encode(t, &Writer{}, m)

	for _, line := range []string{
		"LINK PU1 OPEN IF NODE T1 BELOW 5",
		"LINK PU1 CLOSED IF NODE T1 ABOVE 18",
		"LINK P5 OPEN AT TIME 6:00:00",
		"LINK V1 50 AT CLOCKTIME 6:00:00 PM",
	} {
		assert.Contains(t, text, line)
	}
}

func TestWriteComplexControlAsRule(t *testing.T) {
	m := readFixture(t)
	require.NoError(t, m.AddControl(&network.Control{
		Name: "window",
		Kind: network.SimpleControl,
		Condition: &network.SimTimeCondition{
			Relation: network.AtLeast,
			Seconds:  7200,
		},
		Then: []network.Action{{Link: "P5", Attribute: network.AttrStatus, Status: network.Closed}},
	}))

	text := encode(t, &Writer{}, m)
	assert.Contains(t, text, "RULE window\nIF SYSTEM TIME >= 2:00:00\nTHEN PIPE P5 STATUS IS CLOSED")
}

func TestWriteVersions(t *testing.T) {
	m := readFixture(t)

	v22 := encode(t, &Writer{}, m)
	assert.Contains(t, v22, "DEMAND MODEL")
	assert.Regexp(t, `(?m)^ T1 .* \* +NO ;$`, v22)

	v20 := encode(t, &Writer{Version: Version20}, m)
	assert.NotContains(t, v20, "DEMAND MODEL")
	assert.NotContains(t, v20, "HEADERROR")
	assert.NotRegexp(t, `(?m)^ T1 .* NO ;$`, v20)

	back, err := (&Reader{}).Decode(nil, "v20.inp", strings.NewReader(v20))
	require.NoError(t, err)
	tank, _ := back.Tank("T1")
	assert.False(t, tank.Overflow)
	assert.Equal(t, "DDA", back.Options.Hydraulic.DemandModel)

	err = (&Writer{Version: "3.0"}).Encode(&bytes.Buffer{}, m)
	assert.ErrorIs(t, err, ErrVersion)
}

func TestWriteConvertsUnits(t *testing.T) {
	m := readFixture(t)
	lps := units.LPS
	text := encode(t, &Writer{Units: &lps}, m)
	assert.Regexp(t, `(?m)^ UNITS +LPS$`, text)

	back, err := (&Reader{}).Decode(nil, "lps.inp", strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, units.LPS, back.Options.Hydraulic.Units)

	for _, name := range []string{"P1", "P2", "P5"} {
		want, _ := m.Pipe(name)
		got, _ := back.Pipe(name)
		assert.InDelta(t, want.Length, got.Length, 1e-9, name)
		assert.InDelta(t, want.Diameter, got.Diameter, 1e-9, name)
	}
	j3, _ := m.Junction("J3")
	got, _ := back.Junction("J3")
	assert.InDelta(t, j3.EmitterCoefficient, got.EmitterCoefficient, 1e-12)

	c1, _ := back.Control("control 1")
	cond := c1.Condition.(*network.ValueCondition)
	assert.InDelta(t, 5*ft, cond.Threshold, 1e-9)
}

func TestWriteWarnsOnUntypedCurveUnitChange(t *testing.T) {
	m := readFixture(t)
	require.NoError(t, m.AddCurve(&network.Curve{Name: "spare", Points: []network.CurvePoint{{X: 10, Y: 20}}}))

	rec := logging.NewRecorder()
	text := encode(t, &Writer{Logger: rec}, m)
	assert.False(t, rec.Contains(logging.WarnLevel, "untyped curve"), "no warning without a unit change")

	lps := units.LPS
	text = encode(t, &Writer{Units: &lps, Logger: rec}, m)
	var warned []string
	for _, e := range rec.AtLevel(logging.WarnLevel) {
		if e.Message == "untyped curve written without unit conversion" {
			warned = append(warned, fmt.Sprint(e.Fields[logging.KeyCurve]))
		}
	}
	assert.Equal(t, []string{"spare"}, warned)
	assert.Regexp(t, `(?m)^ spare +10 +20$`, text)
}

func TestWriteJunctionWithoutDemands(t *testing.T) {
	m := network.NewModel()
	require.NoError(t, m.AddReservoir(&network.Reservoir{NodeBase: network.NodeBase{Name: "R1"}, BaseHead: 30}))
	require.NoError(t, m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "J1"}, Elevation: 5}))
	require.NoError(t, m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: "J2"}, Elevation: 5,
		Demands: []network.Demand{{Base: 0}}}))

	back, err := (&Reader{}).Decode(nil, "nodemand.inp", strings.NewReader(encode(t, &Writer{}, m)))
	require.NoError(t, err)

	j1, err := back.Junction("J1")
	require.NoError(t, err)
	assert.Empty(t, j1.Demands)
	j2, err := back.Junction("J2")
	require.NoError(t, err)
	assert.Equal(t, []network.Demand{{Base: 0}}, j2.Demands)
}

func TestWriteDemandPatternColumns(t *testing.T) {
	m := network.NewModel()
	require.NoError(t, m.AddPattern(&network.Pattern{Name: "day", Multipliers: []float64{1, 2}}))
	require.NoError(t, m.AddPattern(&network.Pattern{Name: "night", Multipliers: []float64{0.5}}))
	m.Options.Hydraulic.Pattern = "day"
	require.NoError(t, m.AddReservoir(&network.Reservoir{NodeBase: network.NodeBase{Name: "R1"}, BaseHead: 30}))
	for name, pattern := range map[string]string{"J1": "day", "J2": "night", "J3": ""} {
		require.NoError(t, m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: name}, Elevation: 5,
			Demands: []network.Demand{{Base: 0.01, Pattern: pattern}}}))
	}

	rec := logging.NewRecorder()
	text := encode(t, &Writer{Logger: rec}, m)
	assert.Regexp(t, `(?m)^ J1 +[0-9.e+-]+ +[0-9.e+-]+ +day +;$`, text)
	assert.Regexp(t, `(?m)^ J2 +[0-9.e+-]+ +[0-9.e+-]+ +night +;$`, text)

	var warned []string
	for _, e := range rec.AtLevel(logging.WarnLevel) {
		if e.Message == "demand without pattern will read back on the default pattern" {
			warned = append(warned, fmt.Sprint(e.Fields[logging.KeyNode]))
		}
	}
	assert.Equal(t, []string{"J3"}, warned)

	// Explicit columns keep their pattern when the default changes.
	text = regexp.MustCompile(`(?m)^ PATTERN +day$`).ReplaceAllString(text, " PATTERN night")
	back, err := (&Reader{}).Decode(nil, "patterns.inp", strings.NewReader(text))
	require.NoError(t, err)
	j1, _ := back.Junction("J1")
	assert.Equal(t, "day", j1.Demands[0].Pattern)
	j2, _ := back.Junction("J2")
	assert.Equal(t, "night", j2.Demands[0].Pattern)
}

func TestWriteSkipsInactive(t *testing.T) {
	m := network.NewModel()
	require.NoError(t, m.AddReservoir(&network.Reservoir{NodeBase: network.NodeBase{Name: "R1"}, BaseHead: 30}))
	for _, name := range []string{"J1", "J2", "J3"} {
		require.NoError(t, m.AddJunction(&network.Junction{NodeBase: network.NodeBase{Name: name}, Elevation: 5}))
	}
	pipe := func(name, a, b string) *network.Pipe {
		return &network.Pipe{
			LinkBase: network.LinkBase{Name: name, StartNode: a, EndNode: b},
			Length:   100, Diameter: 0.3, Roughness: 100,
		}
	}
	require.NoError(t, m.AddPipe(pipe("P1", "R1", "J1")))
	require.NoError(t, m.AddPipe(pipe("P2", "J2", "J3")))
	require.NoError(t, m.AddControl(&network.Control{
		Name:      "island",
		Condition: &network.SimTimeCondition{Relation: network.Equal, Seconds: 3600},
		Then:      []network.Action{{Link: "P2", Attribute: network.AttrStatus, Status: network.Closed}},
	}))

	nodes, links := algorithms.MarkIsolated(m, algorithms.OpenLinks)
	require.Equal(t, 2, nodes)
	require.Equal(t, 1, links)

	text := encode(t, &Writer{}, m)
	assert.NotContains(t, text, " J2 ")
	assert.NotContains(t, text, " P2 ")

	back, err := (&Reader{}).Decode(nil, "active.inp", strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, []string{"J1"}, back.JunctionNames())
	assert.Empty(t, back.Controls())
}

func TestWriteCoordinatesWithMapFile(t *testing.T) {
	m := readFixture(t)
	m.Options.Graphics.MapFilename = "net1.map"

	assert.NotContains(t, encode(t, &Writer{}, m), "[COORDINATES]")
	assert.Contains(t, encode(t, &Writer{ForceCoordinates: true}, m), "[COORDINATES]")
}

func TestWritePatternLines(t *testing.T) {
	m := readFixture(t)
	text := encode(t, &Writer{}, m)

	var lines int
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "day ") {
			lines++
		}
	}
	// Eight multipliers are written six per line.
	assert.Equal(t, 2, lines)
}

func TestWriteFileAndMetrics(t *testing.T) {
	m := readFixture(t)
	reg := metrics.NewRegistry()
	path := filepath.Join(t.TempDir(), "out.inp")

	require.NoError(t, (&Writer{Metrics: reg}).Write(path, m))
	back, err := (&Reader{Metrics: reg}).Read(path)
	require.NoError(t, err)
	assert.Equal(t, m.Counts(), back.Counts())

	families, err := reg.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["epanet_inp_writes_total"], "gathered %v", names)
	assert.True(t, names["epanet_inp_reads_total"], "gathered %v", names)
}

// TestRoundTripProperty writes generated networks in every flow unit and
// checks that reading them back restores the SI values.
func TestRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	flowUnits := []units.FlowUnits{
		units.CFS, units.GPM, units.MGD, units.IMGD, units.AFD,
		units.LPS, units.LPM, units.MLD, units.CMH, units.CMD,
	}
	same := func(a, b float64) bool {
		return math.Abs(a-b) <= 1e-6*math.Max(math.Abs(a), math.Abs(b))+1e-15
	}

	properties.Property("read(write(m)) restores SI values", prop.ForAll(
		func(unitIdx int, elevations, demands, lengths []float64) bool {
			m := network.NewModel()
			if err := m.AddReservoir(&network.Reservoir{NodeBase: network.NodeBase{Name: "R"}, BaseHead: 100}); err != nil {
				return false
			}
			prev := "R"
			for i, e := range elevations {
				name := fmt.Sprintf("J%d", i)
				j := &network.Junction{
					NodeBase:  network.NodeBase{Name: name},
					Elevation: e,
					Demands:   []network.Demand{{Base: demands[i%len(demands)]}},
				}
				if err := m.AddJunction(j); err != nil {
					return false
				}
				p := &network.Pipe{
					LinkBase: network.LinkBase{Name: fmt.Sprintf("P%d", i), StartNode: prev, EndNode: name},
					Length:   lengths[i%len(lengths)], Diameter: 0.25, Roughness: 110,
				}
				if err := m.AddPipe(p); err != nil {
					return false
				}
				prev = name
			}

			u := flowUnits[unitIdx]
			var buf bytes.Buffer
			if err := (&Writer{Units: &u}).Encode(&buf, m); err != nil {
				return false
			}
			back, err := (&Reader{}).Decode(nil, "prop.inp", &buf)
			if err != nil {
				return false
			}
			for _, j := range m.Junctions() {
				got, err := back.Junction(j.Name)
				if err != nil || !same(j.Elevation, got.Elevation) || !same(j.BaseDemand(), got.BaseDemand()) {
					return false
				}
			}
			for _, p := range m.Pipes() {
				got, err := back.Pipe(p.Name)
				if err != nil || !same(p.Length, got.Length) || !same(p.Diameter, got.Diameter) {
					return false
				}
			}
			return back.Options.Hydraulic.Units == u
		},
		gen.IntRange(0, len(flowUnits)-1),
		gen.SliceOfN(5, gen.Float64Range(-50, 500)),
		gen.SliceOfN(3, gen.Float64Range(0, 0.5)),
		gen.SliceOfN(3, gen.Float64Range(1, 5000)),
	))

	properties.TestingRun(t)
}
