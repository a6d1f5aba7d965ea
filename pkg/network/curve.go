package network

// CurvePoint is one (x, y) pair of a curve.
type CurvePoint struct {
	X, Y float64
}

// Curve is a named data series. Points are held in file units while the
// curve is untyped and in SI once TypeCurve has assigned a type.
type Curve struct {
	Name   string
	Type   CurveType
	Points []CurvePoint
}

// Pattern is a named list of time multipliers.
type Pattern struct {
	Name        string
	Multipliers []float64
}

// Source is a water quality source at a node. Strength is in SI.
type Source struct {
	Name     string
	Node     string
	Kind     SourceKind
	Strength float64
	Pattern  string
}

// Label is a map annotation.
type Label struct {
	X, Y   float64
	Text   string
	Anchor string
}
