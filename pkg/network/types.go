package network

import (
	"fmt"
	"strings"
)

// Point is a map coordinate.
type Point struct {
	X, Y float64
}

// NodeType distinguishes the node variants.
type NodeType int

const (
	JunctionType NodeType = iota
	ReservoirType
	TankType
)

func (t NodeType) String() string {
	switch t {
	case JunctionType:
		return "Junction"
	case ReservoirType:
		return "Reservoir"
	case TankType:
		return "Tank"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// LinkType distinguishes the link variants.
type LinkType int

const (
	PipeType LinkType = iota
	PumpType
	ValveType
)

func (t LinkType) String() string {
	switch t {
	case PipeType:
		return "Pipe"
	case PumpType:
		return "Pump"
	case ValveType:
		return "Valve"
	}
	return fmt.Sprintf("LinkType(%d)", int(t))
}

// LinkStatus is the simplified state of a link. The zero value is Open.
type LinkStatus int

const (
	Open LinkStatus = iota
	Closed
	Active
	CheckValve
)

func (s LinkStatus) String() string {
	switch s {
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	case Active:
		return "Active"
	case CheckValve:
		return "CV"
	}
	return fmt.Sprintf("LinkStatus(%d)", int(s))
}

// ParseLinkStatus accepts OPEN, CLOSED, ACTIVE and CV in any case.
func ParseLinkStatus(token string) (LinkStatus, bool) {
	switch strings.ToUpper(token) {
	case "OPEN":
		return Open, true
	case "CLOSED":
		return Closed, true
	case "ACTIVE":
		return Active, true
	case "CV":
		return CheckValve, true
	}
	return 0, false
}

// PumpKind says how a pump's performance is described.
type PumpKind int

const (
	HeadPump PumpKind = iota
	PowerPump
)

func (k PumpKind) String() string {
	if k == PowerPump {
		return "POWER"
	}
	return "HEAD"
}

// ValveKind is the EPANET valve type.
type ValveKind int

const (
	PRV ValveKind = iota
	PSV
	PBV
	FCV
	TCV
	GPV
)

var valveNames = [...]string{"PRV", "PSV", "PBV", "FCV", "TCV", "GPV"}

func (k ValveKind) String() string {
	if int(k) >= 0 && int(k) < len(valveNames) {
		return valveNames[k]
	}
	return fmt.Sprintf("ValveKind(%d)", int(k))
}

// ParseValveKind resolves a valve type token.
func ParseValveKind(token string) (ValveKind, bool) {
	t := strings.ToUpper(token)
	for i, n := range valveNames {
		if n == t {
			return ValveKind(i), true
		}
	}
	return 0, false
}

// CurveType is the role a curve plays. CurveUntyped marks a curve that no
// entity has consumed yet.
type CurveType int

const (
	CurveUntyped CurveType = iota
	CurveHead
	CurveEfficiency
	CurveVolume
	CurveHeadloss
	CurveUnknown
)

func (t CurveType) String() string {
	switch t {
	case CurveHead:
		return "HEAD"
	case CurveEfficiency:
		return "EFFICIENCY"
	case CurveVolume:
		return "VOLUME"
	case CurveHeadloss:
		return "HEADLOSS"
	case CurveUnknown:
		return "UNKNOWN"
	}
	return "UNTYPED"
}

// MixingModel is a tank mixing model.
type MixingModel int

const (
	MixingNone MixingModel = iota
	Mixed
	TwoComp
	FIFO
	LIFO
)

var mixingNames = [...]string{"", "MIXED", "2COMP", "FIFO", "LIFO"}

func (m MixingModel) String() string {
	if int(m) >= 0 && int(m) < len(mixingNames) {
		return mixingNames[m]
	}
	return fmt.Sprintf("MixingModel(%d)", int(m))
}

// ParseMixingModel resolves a MIXING section model token.
func ParseMixingModel(token string) (MixingModel, bool) {
	t := strings.ToUpper(token)
	if t == "2COMP" || t == "2-COMP" {
		return TwoComp, true
	}
	for i := 1; i < len(mixingNames); i++ {
		if mixingNames[i] == t {
			return MixingModel(i), true
		}
	}
	return MixingNone, false
}

// SourceKind is a water quality source type.
type SourceKind int

const (
	Concen SourceKind = iota
	Mass
	Setpoint
	FlowPaced
)

var sourceNames = [...]string{"CONCEN", "MASS", "SETPOINT", "FLOWPACED"}

func (k SourceKind) String() string {
	if int(k) >= 0 && int(k) < len(sourceNames) {
		return sourceNames[k]
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// ParseSourceKind resolves a SOURCES type token.
func ParseSourceKind(token string) (SourceKind, bool) {
	t := strings.ToUpper(token)
	for i, n := range sourceNames {
		if n == t {
			return SourceKind(i), true
		}
	}
	return 0, false
}
