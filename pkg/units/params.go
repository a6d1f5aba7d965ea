package units

import (
	"fmt"
	"math"
)

// Param identifies the physical quantity carried by a field.
type Param int

const (
	Demand Param = iota
	Flow
	EmitterCoeff
	Elevation
	HydraulicHead
	Length
	PipeDiameter
	TankDiameter
	Pressure
	Velocity
	HeadLoss
	Power
	Volume
	Energy
	EnergyPrice
	RoughnessCoeff
	Concentration
	WaterAge
	ReactionRate
	SourceMassInject
	BulkReactionCoeff
	WallReactionCoeff
)

var paramNames = [...]string{
	"Demand", "Flow", "EmitterCoeff", "Elevation", "HydraulicHead", "Length",
	"PipeDiameter", "TankDiameter", "Pressure", "Velocity", "HeadLoss", "Power",
	"Volume", "Energy", "EnergyPrice", "RoughnessCoeff", "Concentration",
	"WaterAge", "ReactionRate", "SourceMassInject", "BulkReactionCoeff",
	"WallReactionCoeff",
}

func (p Param) String() string {
	if int(p) >= 0 && int(p) < len(paramNames) {
		return paramNames[p]
	}
	return fmt.Sprintf("Param(%d)", int(p))
}

// AllParams lists every convertible quantity.
func AllParams() []Param {
	out := make([]Param, len(paramNames))
	for i := range out {
		out[i] = Param(i)
	}
	return out
}

const (
	foot        = 0.3048
	inch        = 0.0254
	psiToMetres = 0.703249614902
	horsepower  = 745.699872
	kwh         = 3.6e6
)

// System is the conversion context of one read or write session.
type System struct {
	Flow          FlowUnits
	Mass          MassUnits
	DarcyWeisbach bool
}

// NewSystem returns a context with mg/L concentrations and no Darcy-Weisbach
// roughness.
func NewSystem(flow FlowUnits) System {
	return System{Flow: flow, Mass: MG}
}

// Factor returns the multiplier that takes a value of kind p from file units
// to SI. Reaction coefficients use order 1; see ReactionFactor.
func (s System) Factor(p Param) float64 {
	us := s.Flow.IsTraditional()
	pick := func(usf, sif float64) float64 {
		if us {
			return usf
		}
		return sif
	}

	switch p {
	case Demand, Flow:
		return s.Flow.Factor()
	case EmitterCoeff:
		if us {
			return s.Flow.Factor() / math.Sqrt(psiToMetres)
		}
		return s.Flow.Factor()
	case Elevation, HydraulicHead, Length, TankDiameter, Velocity:
		return pick(foot, 1)
	case PipeDiameter:
		return pick(inch, 0.001)
	case Pressure:
		return pick(psiToMetres, 1)
	case HeadLoss:
		return 0.001
	case Power:
		return pick(horsepower, 1000)
	case Volume:
		return pick(foot*foot*foot, 1)
	case Energy:
		return kwh
	case EnergyPrice:
		return 1 / kwh
	case RoughnessCoeff:
		if s.DarcyWeisbach {
			return pick(0.001*foot, 0.001)
		}
		return 1
	case Concentration:
		return s.Mass.Factor()
	case WaterAge:
		return 3600
	case ReactionRate:
		return s.Mass.Factor() / day
	case SourceMassInject:
		return s.Mass.Factor() * 1e-3 / 60
	case BulkReactionCoeff, WallReactionCoeff:
		return s.ReactionFactor(p, 1)
	}
	return 1
}

// ReactionFactor returns the SI multiplier of a bulk or wall reaction
// coefficient of the given order.
func (s System) ReactionFactor(p Param, order float64) float64 {
	switch p {
	case BulkReactionCoeff:
		return math.Pow(s.Mass.Factor(), 1-order) / day
	case WallReactionCoeff:
		if order == 0 {
			area := 1.0
			if s.Flow.IsTraditional() {
				area = foot * foot
			}
			return s.Mass.Factor() * 1e-3 / area / day
		}
		if s.Flow.IsTraditional() {
			return foot / day
		}
		return 1 / day
	}
	return s.Factor(p)
}

// ToSI converts v from file units to SI.
func (s System) ToSI(v float64, p Param) float64 {
	return v * s.Factor(p)
}

// FromSI converts v from SI to file units.
func (s System) FromSI(v float64, p Param) float64 {
	return v / s.Factor(p)
}

// ReactionToSI converts a reaction coefficient of the given order to SI.
func (s System) ReactionToSI(v float64, p Param, order float64) float64 {
	return v * s.ReactionFactor(p, order)
}

// ReactionFromSI converts a reaction coefficient of the given order from SI.
func (s System) ReactionFromSI(v float64, p Param, order float64) float64 {
	return v / s.ReactionFactor(p, order)
}

// ToSI converts v of kind p from flow's unit system into SI using mg/L and
// Hazen-Williams defaults.
func ToSI(flow FlowUnits, v float64, p Param) float64 {
	return NewSystem(flow).ToSI(v, p)
}

// FromSI is the inverse of ToSI.
func FromSI(flow FlowUnits, v float64, p Param) float64 {
	return NewSystem(flow).FromSI(v, p)
}
