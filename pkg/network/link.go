package network

// Link is implemented by Pipe, Pump and Valve.
type Link interface {
	Base() *LinkBase
	Type() LinkType
}

// LinkBase holds the fields every link carries.
type LinkBase struct {
	Name          string
	StartNode     string
	EndNode       string
	Tag           string
	Vertices      []Point
	InitialStatus LinkStatus

	inactive bool
}

// Base returns the shared link fields.
func (b *LinkBase) Base() *LinkBase { return b }

// IsActive reports whether the link takes part in output.
func (b *LinkBase) IsActive() bool { return !b.inactive }

// SetActive sets the active flag.
func (b *LinkBase) SetActive(active bool) { b.inactive = !active }

// Pipe is a pressurised pipe. Length and diameter are in metres.
type Pipe struct {
	LinkBase
	Length     float64
	Diameter   float64
	Roughness  float64
	MinorLoss  float64
	CheckValve bool
	BulkCoeff  *float64
	WallCoeff  *float64
}

// Type returns PipeType.
func (*Pipe) Type() LinkType { return PipeType }

// Pump moves water between two nodes. Power is in W.
type Pump struct {
	LinkBase
	Kind           PumpKind
	HeadCurve      string
	Power          float64
	BaseSpeed      float64
	SpeedPattern   string
	InitialSetting float64
	Efficiency     string
	EnergyPrice    *float64
	EnergyPattern  string
}

// Type returns PumpType.
func (*Pump) Type() LinkType { return PumpType }

// Valve is a control valve. InitialSetting is stored in SI units of the
// quantity the valve type controls.
type Valve struct {
	LinkBase
	Kind           ValveKind
	Diameter       float64
	InitialSetting float64
	HeadlossCurve  string
	MinorLoss      float64
}

// Type returns ValveType.
func (*Valve) Type() LinkType { return ValveType }
