package network

// Node is implemented by Junction, Reservoir and Tank.
type Node interface {
	Base() *NodeBase
	Type() NodeType
}

// NodeBase holds the fields every node carries.
type NodeBase struct {
	Name           string
	Coordinates    Point
	Tag            string
	InitialQuality float64

	inactive bool
}

// Base returns the shared node fields.
func (b *NodeBase) Base() *NodeBase { return b }

// IsActive reports whether the node takes part in output. Isolated nodes are
// marked inactive and skipped by writers.
func (b *NodeBase) IsActive() bool { return !b.inactive }

// SetActive sets the active flag.
func (b *NodeBase) SetActive(active bool) { b.inactive = !active }

// Demand is one demand category attached to a junction. Base is in m3/s.
type Demand struct {
	Base     float64
	Pattern  string
	Category string
}

// Junction is a demand node. Lengths are in metres.
type Junction struct {
	NodeBase
	Elevation          float64
	Demands            []Demand
	EmitterCoefficient float64

	// Leak marks a junction carrying an explicit leak; LeakArea is in m2.
	Leak     bool
	LeakArea float64
}

// Type returns JunctionType.
func (*Junction) Type() NodeType { return JunctionType }

// BaseDemand returns the base value of the first demand, or zero.
func (j *Junction) BaseDemand() float64 {
	if len(j.Demands) == 0 {
		return 0
	}
	return j.Demands[0].Base
}

// Reservoir is a fixed head node. BaseHead is in metres.
type Reservoir struct {
	NodeBase
	BaseHead    float64
	HeadPattern string
}

// Type returns ReservoirType.
func (*Reservoir) Type() NodeType { return ReservoirType }

// Tank is a storage node. Levels and diameter are in metres, MinVol in m3.
type Tank struct {
	NodeBase
	Elevation      float64
	InitLevel      float64
	MinLevel       float64
	MaxLevel       float64
	Diameter       float64
	MinVol         float64
	VolCurve       string
	Overflow       bool
	MixingModel    MixingModel
	MixingFraction float64
	BulkCoeff      *float64
}

// Type returns TankType.
func (*Tank) Type() NodeType { return TankType }

// Head returns the hydraulic head at the initial level.
func (t *Tank) Head() float64 { return t.Elevation + t.InitLevel }
