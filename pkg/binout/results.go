package binout

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// NodeAttribute names a per-node result series.
type NodeAttribute string

const (
	NodeDemand   NodeAttribute = "demand"
	NodeHead     NodeAttribute = "head"
	NodePressure NodeAttribute = "pressure"
	NodeQuality  NodeAttribute = "quality"
)

// NodeAttributes lists the node series in file order.
var NodeAttributes = []NodeAttribute{NodeDemand, NodeHead, NodePressure, NodeQuality}

// LinkAttribute names a per-link result series.
type LinkAttribute string

const (
	LinkFlow           LinkAttribute = "flowrate"
	LinkVelocity       LinkAttribute = "velocity"
	LinkHeadloss       LinkAttribute = "headloss"
	LinkQuality        LinkAttribute = "quality"
	LinkStatus         LinkAttribute = "status"
	LinkSetting        LinkAttribute = "setting"
	LinkReactionRate   LinkAttribute = "reaction_rate"
	LinkFrictionFactor LinkAttribute = "friction_factor"
)

// LinkAttributes lists the link series in file order.
var LinkAttributes = []LinkAttribute{
	LinkFlow, LinkVelocity, LinkHeadloss, LinkQuality,
	LinkStatus, LinkSetting, LinkReactionRate, LinkFrictionFactor,
}

// ErrorCode flags a degraded results object.
type ErrorCode int

const (
	StatusOK ErrorCode = iota
	// StatusError marks results truncated before the announced duration.
	StatusError
)

// Description is the static network description stored ahead of the
// report periods. Lengths are SI unless the reader was told not to convert.
type Description struct {
	NodeNames  []string   `json:"node_names"`
	LinkNames  []string   `json:"link_names"`
	LinkStart  []string   `json:"link_start"`
	LinkEnd    []string   `json:"link_end"`
	LinkTypes  []LinkType `json:"link_types"`
	TankNodes  []string   `json:"tank_nodes"`
	TankAreas  []float64  `json:"tank_areas"`
	Elevations []float64  `json:"elevations"`
	Lengths    []float64  `json:"lengths"`
	Diameters  []float64  `json:"diameters"`
}

// IsReservoir reports whether name is a storage node with zero area.
func (d *Description) IsReservoir(name string) bool {
	i := slices.Index(d.TankNodes, name)
	return i >= 0 && d.TankAreas[i] == 0
}

// IsTank reports whether name is a storage node with a positive area.
func (d *Description) IsTank(name string) bool {
	i := slices.Index(d.TankNodes, name)
	return i >= 0 && d.TankAreas[i] > 0
}

// PumpEnergy is one pump's line of the energy summary. Values are stored
// as the solver wrote them.
type PumpEnergy struct {
	Link        string  `json:"link"`
	Utilization float64 `json:"utilization"`
	Efficiency  float64 `json:"efficiency"`
	KWPerFlow   float64 `json:"kw_per_flow"`
	AverageKW   float64 `json:"average_kw"`
	PeakKW      float64 `json:"peak_kw"`
	CostPerDay  float64 `json:"cost_per_day"`
}

// Results is the decoded content of one binary results file. It is not
// modified after the reader returns it.
type Results struct {
	Title      string `json:"title"`
	InputFile  string `json:"input_file"`
	ReportFile string `json:"report_file"`
	Version    int    `json:"version"`

	FlowUnits     units.FlowUnits     `json:"flow_units"`
	PressureUnits units.PressureUnits `json:"pressure_units"`
	MassUnits     units.MassUnits     `json:"mass_units"`
	Quality       QualityMode         `json:"quality"`
	Chemical      string              `json:"chemical,omitempty"`
	QualityUnits  string              `json:"quality_units,omitempty"`
	TraceNode     string              `json:"trace_node,omitempty"`
	Statistics    StatisticsMode      `json:"statistics"`
	Converted     bool                `json:"converted"`

	ReportStart int `json:"report_start"`
	ReportStep  int `json:"report_step"`
	Duration    int `json:"duration"`
	// ExpectedPeriods is the period count a complete file would hold.
	ExpectedPeriods int `json:"expected_periods"`

	Network    Description  `json:"network"`
	Energy     []PumpEnergy `json:"energy"`
	PeakEnergy float64      `json:"peak_energy"`

	Averages [4]float64 `json:"averages"`
	WarnFlag int        `json:"warn_flag"`

	// Integrity is false when the epilog was missing or its magic number
	// did not match.
	Integrity bool      `json:"integrity"`
	ErrorCode ErrorCode `json:"error_code"`

	ReportTimes []int                    `json:"times"`
	Nodes       map[NodeAttribute]*Frame `json:"nodes"`
	Links       map[LinkAttribute]*Frame `json:"links"`
}

// Times returns a copy of the report times held, in seconds.
func (r *Results) Times() []int {
	return slices.Clone(r.ReportTimes)
}

// Truncated reports whether fewer periods were decoded than announced.
func (r *Results) Truncated() bool {
	return r.ErrorCode != StatusOK
}

// Node returns the frame for a node attribute.
func (r *Results) Node(attr NodeAttribute) (*Frame, error) {
	f, ok := r.Nodes[attr]
	if !ok {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownAttribute, attr)
	}
	return f, nil
}

// Link returns the frame for a link attribute.
func (r *Results) Link(attr LinkAttribute) (*Frame, error) {
	f, ok := r.Links[attr]
	if !ok {
		return nil, fmt.Errorf("%w: link %q", ErrUnknownAttribute, attr)
	}
	return f, nil
}

// Reindex rebuilds the frames' name and time lookups. Call it after
// assembling or editing a Results value by hand.
func (r *Results) Reindex() {
	for _, f := range r.Nodes {
		f.index(r.ReportTimes, r.Network.NodeNames)
	}
	for _, f := range r.Links {
		f.index(r.ReportTimes, r.Network.LinkNames)
	}
}

// Frame is one attribute's values, one row per report period and one column
// per entity.
type Frame struct {
	Rows [][]float64 `json:"rows"`

	names   []string
	columns map[string]int
	periods map[int]int
}

func newFrame(periods, width int) *Frame {
	f := &Frame{Rows: make([][]float64, periods)}
	for i := range f.Rows {
		f.Rows[i] = make([]float64, width)
	}
	return f
}

func (f *Frame) index(times []int, names []string) {
	f.names = names
	f.columns = make(map[string]int, len(names))
	for i, n := range names {
		f.columns[n] = i
	}
	f.periods = make(map[int]int, len(times))
	for i, t := range times {
		f.periods[t] = i
	}
}

// Names returns the column names.
func (f *Frame) Names() []string {
	return slices.Clone(f.names)
}

// At returns the value for name at report time t.
func (f *Frame) At(name string, t int) (float64, error) {
	col, ok := f.columns[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	row, ok := f.periods[t]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTime, t)
	}
	return f.Rows[row][col], nil
}

// Series returns name's values over every report period.
func (f *Frame) Series(name string) ([]float64, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	out := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[col]
	}
	return out, nil
}

// Last returns the final report period's values by name.
func (f *Frame) Last() map[string]float64 {
	out := make(map[string]float64, len(f.names))
	if len(f.Rows) == 0 {
		return out
	}
	row := f.Rows[len(f.Rows)-1]
	for i, n := range f.names {
		out[n] = row[i]
	}
	return out
}
