// Package units converts EPANET field values between the unit system declared
// in an input file and the SI representation held by the network model.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownUnitSystem is returned when a UNITS token names no known flow unit.
var ErrUnknownUnitSystem = errors.New("unknown unit system")

// FlowUnits is the flow unit declared by an input file. The numeric values
// match the codes EPANET writes to the binary results prolog.
type FlowUnits int

const (
	CFS  FlowUnits = 0
	GPM  FlowUnits = 1
	MGD  FlowUnits = 2
	IMGD FlowUnits = 3
	AFD  FlowUnits = 4
	LPS  FlowUnits = 5
	LPM  FlowUnits = 6
	MLD  FlowUnits = 7
	CMH  FlowUnits = 8
	CMD  FlowUnits = 9
	// SI is m3/s. It never appears in a file.
	SI FlowUnits = 11
)

var flowNames = map[FlowUnits]string{
	CFS: "CFS", GPM: "GPM", MGD: "MGD", IMGD: "IMGD", AFD: "AFD",
	LPS: "LPS", LPM: "LPM", MLD: "MLD", CMH: "CMH", CMD: "CMD", SI: "SI",
}

const (
	gallon    = 0.003785411784
	impGallon = 0.00454609
	acreFoot  = 1233.48184
	cubicFoot = 0.0283168466
	litre     = 0.001
	day       = 86400.0
)

var flowFactors = map[FlowUnits]float64{
	CFS:  cubicFoot,
	GPM:  gallon / 60,
	MGD:  1e6 * gallon / day,
	IMGD: 1e6 * impGallon / day,
	AFD:  acreFoot / day,
	LPS:  litre,
	LPM:  litre / 60,
	MLD:  1e6 * litre / day,
	CMH:  1.0 / 3600,
	CMD:  1.0 / day,
	SI:   1,
}

// String returns the INP token for the unit.
func (f FlowUnits) String() string {
	if s, ok := flowNames[f]; ok {
		return s
	}
	return fmt.Sprintf("FlowUnits(%d)", int(f))
}

// ParseFlowUnits resolves a UNITS option token.
func ParseFlowUnits(token string) (FlowUnits, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	for f, name := range flowNames {
		if f != SI && name == t {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnitSystem, token)
}

// FlowUnitsFromCode resolves the flow unit code stored in a binary file.
func FlowUnitsFromCode(code int) (FlowUnits, error) {
	f := FlowUnits(code)
	if f < CFS || f > CMD {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownUnitSystem, code)
	}
	return f, nil
}

// IsTraditional reports whether the unit belongs to the US customary family.
func (f FlowUnits) IsTraditional() bool {
	return f >= CFS && f <= AFD
}

// IsMetric reports whether the unit belongs to the SI-metric family.
func (f FlowUnits) IsMetric() bool {
	return (f >= LPS && f <= CMD) || f == SI
}

// Factor returns the multiplier from this unit to m3/s.
func (f FlowUnits) Factor() float64 {
	if v, ok := flowFactors[f]; ok {
		return v
	}
	return math.NaN()
}

// MassUnits is the chemical mass unit used for concentrations.
type MassUnits int

const (
	MG MassUnits = iota
	UG
)

// ParseMassUnits accepts "mg", "ug" and their "/L" forms.
func ParseMassUnits(token string) (MassUnits, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.TrimSuffix(t, "/l")
	switch t {
	case "mg":
		return MG, nil
	case "ug":
		return UG, nil
	}
	return 0, fmt.Errorf("%w: mass units %q", ErrUnknownUnitSystem, token)
}

// Factor returns the multiplier from mass/L to kg/m3.
func (m MassUnits) Factor() float64 {
	if m == UG {
		return 1e-6
	}
	return 1e-3
}

func (m MassUnits) String() string {
	if m == UG {
		return "ug/L"
	}
	return "mg/L"
}

// PressureUnits is the pressure unit code stored in a binary results prolog.
type PressureUnits int

const (
	PSI PressureUnits = iota
	Meters
	KPA
)

// Factor returns the multiplier from this unit to metres of head.
func (p PressureUnits) Factor() float64 {
	switch p {
	case PSI:
		return psiToMetres
	case KPA:
		return 0.101971621
	default:
		return 1
	}
}

func (p PressureUnits) String() string {
	switch p {
	case PSI:
		return "PSI"
	case KPA:
		return "KPA"
	default:
		return "METERS"
	}
}
