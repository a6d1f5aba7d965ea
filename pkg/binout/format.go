package binout

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

const (
	idLen         = 32
	titleLen      = 240
	fileNameLen   = 260
	energyFields  = 6
	nodeRowFields = 4
	linkRowFields = 8
)

// prolog is the fixed integer header at the start of every results file.
type prolog struct {
	Magic         int32
	Version       int32
	Nodes         int32
	Tanks         int32
	Links         int32
	Pumps         int32
	Valves        int32
	QualityOption int32
	TraceNode     int32
	FlowUnits     int32
	PressureUnits int32
	Statistics    int32
	ReportStart   int32
	ReportStep    int32
	Duration      int32
}

func (p prolog) validate() error {
	for _, c := range []struct {
		name string
		v    int32
	}{
		{"nodes", p.Nodes}, {"tanks", p.Tanks}, {"links", p.Links},
		{"pumps", p.Pumps}, {"valves", p.Valves},
		{"report start", p.ReportStart}, {"duration", p.Duration},
	} {
		if c.v < 0 {
			return fmt.Errorf("negative %s count %d", c.name, c.v)
		}
	}
	if p.Tanks > p.Nodes {
		return fmt.Errorf("%d tanks exceed %d nodes", p.Tanks, p.Nodes)
	}
	if p.Pumps+p.Valves > p.Links {
		return fmt.Errorf("%d pumps and valves exceed %d links", p.Pumps+p.Valves, p.Links)
	}
	if p.ReportStep <= 0 {
		return fmt.Errorf("report step %d is not positive", p.ReportStep)
	}
	return nil
}

// epilog trails the last report period.
type epilog struct {
	Averages [4]float32
	Periods  int32
	WarnFlag int32
	Magic    int32
}

// LinkType is the link type code stored in the static link arrays.
type LinkType int

const (
	CVPipe LinkType = iota
	Pipe
	Pump
	PRV
	PSV
	PBV
	FCV
	TCV
	GPV
)

var linkTypeNames = [...]string{"CV", "PIPE", "PUMP", "PRV", "PSV", "PBV", "FCV", "TCV", "GPV"}

func (t LinkType) String() string {
	if t >= 0 && int(t) < len(linkTypeNames) {
		return linkTypeNames[t]
	}
	return fmt.Sprintf("LinkType(%d)", int(t))
}

// IsPipe reports whether the type is a pipe or a check-valve pipe.
func (t LinkType) IsPipe() bool { return t == CVPipe || t == Pipe }

// IsValve reports whether the type is one of the valve kinds.
func (t LinkType) IsValve() bool { return t >= PRV && t <= GPV }

// QualityMode is the water quality option recorded in the prolog.
type QualityMode int

const (
	QualityNone QualityMode = iota
	QualityChemical
	QualityAge
	QualityTrace
)

func (q QualityMode) String() string {
	switch q {
	case QualityChemical:
		return "CHEMICAL"
	case QualityAge:
		return "AGE"
	case QualityTrace:
		return "TRACE"
	default:
		return "NONE"
	}
}

// StatisticsMode is the report statistic recorded in the prolog.
type StatisticsMode int

const (
	StatsNone StatisticsMode = iota
	StatsAverage
	StatsMinimum
	StatsMaximum
	StatsRange
)

func (s StatisticsMode) String() string {
	switch s {
	case StatsAverage:
		return "AVERAGED"
	case StatsMinimum:
		return "MINIMUM"
	case StatsMaximum:
		return "MAXIMUM"
	case StatsRange:
		return "RANGE"
	default:
		return "NONE"
	}
}

// Aggregate reports whether the mode stores one summary period instead of
// a time series.
func (s StatisticsMode) Aggregate() bool {
	return s == StatsMinimum || s == StatsMaximum || s == StatsRange
}

// Simplified link status values held in the status frame unless raw codes
// were requested.
const (
	StatusClosed = 0
	StatusOpen   = 1
	StatusActive = 2
)

// remapStatus folds the solver's cause-coded status into closed, open or
// active.
func remapStatus(code float64) float64 {
	switch c := int(code); {
	case c <= 2:
		return StatusClosed
	case c == 4:
		return StatusActive
	default:
		return StatusOpen
	}
}

// ModelStatus maps a simplified status value to the network model's link
// status.
func ModelStatus(v float64) network.LinkStatus {
	switch int(v) {
	case StatusClosed:
		return network.Closed
	case StatusActive:
		return network.Active
	default:
		return network.Open
	}
}

// reportTimes lists the report period start times a complete file holds.
func reportTimes(p prolog) []int {
	start, step, duration := int(p.ReportStart), int(p.ReportStep), int(p.Duration)
	if StatisticsMode(p.Statistics).Aggregate() {
		return []int{start + step}
	}
	end := duration + step - duration%step
	var times []int
	for t := start; t < end; t += step {
		times = append(times, t)
	}
	return times
}
