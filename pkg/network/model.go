// Package network holds the in-memory EPANET network: nodes, links, curves,
// patterns, controls and options, with all quantities in SI units.
//
// A Model is owned by one caller at a time and has no internal locking.
package network

import (
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/validation"
)

// Model is a water distribution network.
type Model struct {
	Name        string
	Title       []string
	TopComments []string
	Labels      []Label
	Options     Options

	nodes     map[string]Node
	nodeOrder []string
	links     map[string]Link
	linkOrder []string

	curves       map[string]*Curve
	curveOrder   []string
	patterns     map[string]*Pattern
	patternOrder []string
	sources      map[string]*Source
	sourceOrder  []string
	controls     map[string]*Control
	controlOrder []string

	logger logging.Logger
	cache  *nameCache
}

// NewModel creates an empty network with default options.
func NewModel() *Model {
	return &Model{
		Options:  DefaultOptions(),
		nodes:    make(map[string]Node),
		links:    make(map[string]Link),
		curves:   make(map[string]*Curve),
		patterns: make(map[string]*Pattern),
		sources:  make(map[string]*Source),
		controls: make(map[string]*Control),
		logger:   logging.NewNopLogger(),
	}
}

// SetLogger sets the logger used for consistency warnings.
func (m *Model) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NewNopLogger()
	}
	m.logger = l
}

// Logger returns the model's logger.
func (m *Model) Logger() logging.Logger { return m.logger }

func (m *Model) invalidate() { m.cache = nil }

func removeName(order []string, name string) []string {
	for i, n := range order {
		if n == name {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

func (m *Model) checkNewNode(kind, name string) error {
	if err := validation.ValidateID(name); err != nil {
		return NewError("add").Entity(kind, name).Cause(err).Err()
	}
	if _, ok := m.nodes[name]; ok {
		return duplicateError(kind, name)
	}
	return nil
}

func (m *Model) checkPattern(kind, name, pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, ok := m.patterns[pattern]; !ok {
		return referenceError(kind, name, "pattern", pattern)
	}
	return nil
}

func (m *Model) checkCurve(kind, name, curve string, t CurveType) error {
	if curve == "" {
		return nil
	}
	if _, ok := m.curves[curve]; !ok {
		return referenceError(kind, name, "curve", curve)
	}
	return m.TypeCurve(curve, t, nil)
}

func (m *Model) insertNode(n Node) {
	name := n.Base().Name
	m.nodes[name] = n
	m.nodeOrder = append(m.nodeOrder, name)
	m.invalidate()
}

// AddJunction adds a junction. Demand patterns must already exist.
func (m *Model) AddJunction(j *Junction) error {
	if err := m.checkNewNode("junction", j.Name); err != nil {
		return err
	}
	for _, d := range j.Demands {
		if err := m.checkPattern("junction", j.Name, d.Pattern); err != nil {
			return err
		}
	}
	m.insertNode(j)
	return nil
}

// AddReservoir adds a reservoir.
func (m *Model) AddReservoir(r *Reservoir) error {
	if err := m.checkNewNode("reservoir", r.Name); err != nil {
		return err
	}
	if err := m.checkPattern("reservoir", r.Name, r.HeadPattern); err != nil {
		return err
	}
	m.insertNode(r)
	return nil
}

// AddTank adds a tank. An initial level outside [MinLevel, MaxLevel] is
// clamped into range and logged.
func (m *Model) AddTank(t *Tank) error {
	if err := m.checkNewNode("tank", t.Name); err != nil {
		return err
	}
	if t.MinLevel > t.MaxLevel {
		return NewError("add").Entity("tank", t.Name).
			Context("min level %g exceeds max level %g", t.MinLevel, t.MaxLevel).
			Cause(ErrInvalidValue).Err()
	}
	if err := m.checkCurve("tank", t.Name, t.VolCurve, CurveVolume); err != nil {
		return err
	}
	t.InitLevel = m.clampTankLevel(t, t.InitLevel)
	m.insertNode(t)
	return nil
}

// SetTankLevel changes a tank's initial level under the same clamping rule
// as AddTank.
func (m *Model) SetTankLevel(name string, level float64) error {
	t, err := m.Tank(name)
	if err != nil {
		return err
	}
	t.InitLevel = m.clampTankLevel(t, level)
	return nil
}

func (m *Model) clampTankLevel(t *Tank, level float64) float64 {
	clamped := validation.Clamp(level, t.MinLevel, t.MaxLevel)
	if clamped != level {
		m.logger.Warn("tank level clamped into range",
			logging.Node(t.Name),
			logging.Float64("level", level),
			logging.Float64("min_level", t.MinLevel),
			logging.Float64("max_level", t.MaxLevel))
	}
	return clamped
}

func (m *Model) checkNewLink(kind string, l *LinkBase) error {
	if err := validation.ValidateID(l.Name); err != nil {
		return NewError("add").Entity(kind, l.Name).Cause(err).Err()
	}
	if _, ok := m.links[l.Name]; ok {
		return duplicateError(kind, l.Name)
	}
	for _, end := range []string{l.StartNode, l.EndNode} {
		if _, ok := m.nodes[end]; !ok {
			return referenceError(kind, l.Name, "node", end)
		}
	}
	return nil
}

func (m *Model) insertLink(l Link) {
	name := l.Base().Name
	m.links[name] = l
	m.linkOrder = append(m.linkOrder, name)
	m.invalidate()
}

// AddPipe adds a pipe between two existing nodes.
func (m *Model) AddPipe(p *Pipe) error {
	if err := m.checkNewLink("pipe", &p.LinkBase); err != nil {
		return err
	}
	if p.CheckValve {
		p.InitialStatus = Open
	}
	m.insertLink(p)
	return nil
}

// AddPump adds a pump. Its head and efficiency curves are typed on the way in.
func (m *Model) AddPump(p *Pump) error {
	if err := m.checkNewLink("pump", &p.LinkBase); err != nil {
		return err
	}
	if p.Kind == HeadPump {
		if p.HeadCurve == "" {
			return referenceError("pump", p.Name, "curve", "")
		}
		if err := m.checkCurve("pump", p.Name, p.HeadCurve, CurveHead); err != nil {
			return err
		}
	}
	if err := m.checkCurve("pump", p.Name, p.Efficiency, CurveEfficiency); err != nil {
		return err
	}
	if err := m.checkPattern("pump", p.Name, p.SpeedPattern); err != nil {
		return err
	}
	if err := m.checkPattern("pump", p.Name, p.EnergyPattern); err != nil {
		return err
	}
	if p.BaseSpeed == 0 {
		p.BaseSpeed = 1
	}
	m.insertLink(p)
	return nil
}

// AddValve adds a valve. A GPV must name a headloss curve.
func (m *Model) AddValve(v *Valve) error {
	if err := m.checkNewLink("valve", &v.LinkBase); err != nil {
		return err
	}
	if v.Kind == GPV {
		if v.HeadlossCurve == "" {
			return referenceError("valve", v.Name, "curve", "")
		}
		if err := m.checkCurve("valve", v.Name, v.HeadlossCurve, CurveHeadloss); err != nil {
			return err
		}
	}
	m.insertLink(v)
	return nil
}

// AddCurve registers a curve. Untyped curves get their type from the first
// entity that uses them.
func (m *Model) AddCurve(c *Curve) error {
	if err := validation.ValidateID(c.Name); err != nil {
		return NewError("add").Entity("curve", c.Name).Cause(err).Err()
	}
	if _, ok := m.curves[c.Name]; ok {
		return duplicateError("curve", c.Name)
	}
	m.curves[c.Name] = c
	m.curveOrder = append(m.curveOrder, c.Name)
	return nil
}

// TypeCurve assigns t to an untyped curve, passing each point through
// convert. Re-typing with the same type is a no-op; a different type fails
// with ErrCurveTypeConflict.
func (m *Model) TypeCurve(name string, t CurveType, convert func(CurvePoint) CurvePoint) error {
	c, ok := m.curves[name]
	if !ok {
		return notFoundError("curve", name)
	}
	switch c.Type {
	case t:
		return nil
	case CurveUntyped:
		if convert != nil {
			for i, p := range c.Points {
				c.Points[i] = convert(p)
			}
		}
		c.Type = t
		return nil
	}
	return NewError("type").Entity("curve", name).
		Context("already %s, requested %s", c.Type, t).
		Cause(ErrCurveTypeConflict).Err()
}

// FinalizeCurves marks every curve still untyped as CurveUnknown and returns
// their names.
func (m *Model) FinalizeCurves() []string {
	var untyped []string
	for _, name := range m.curveOrder {
		c := m.curves[name]
		if c.Type == CurveUntyped {
			c.Type = CurveUnknown
			untyped = append(untyped, name)
			m.logger.Warn("curve never used, typed as UNKNOWN", logging.Curve(name))
		}
	}
	return untyped
}

// AddPattern registers a pattern.
func (m *Model) AddPattern(p *Pattern) error {
	if err := validation.ValidateID(p.Name); err != nil {
		return NewError("add").Entity("pattern", p.Name).Cause(err).Err()
	}
	if _, ok := m.patterns[p.Name]; ok {
		return duplicateError("pattern", p.Name)
	}
	m.patterns[p.Name] = p
	m.patternOrder = append(m.patternOrder, p.Name)
	return nil
}

// AddSource attaches a quality source to an existing node.
func (m *Model) AddSource(s *Source) error {
	if _, ok := m.sources[s.Name]; ok {
		return duplicateError("source", s.Name)
	}
	if _, ok := m.nodes[s.Node]; !ok {
		return referenceError("source", s.Name, "node", s.Node)
	}
	if err := m.checkPattern("source", s.Name, s.Pattern); err != nil {
		return err
	}
	m.sources[s.Name] = s
	m.sourceOrder = append(m.sourceOrder, s.Name)
	return nil
}

// AddControl appends a control or rule. Every node and link it mentions must
// exist.
func (m *Model) AddControl(c *Control) error {
	if _, ok := m.controls[c.Name]; ok {
		return duplicateError("control", c.Name)
	}
	nodes, links := c.References()
	for _, n := range nodes {
		if _, ok := m.nodes[n]; !ok {
			return referenceError("control", c.Name, "node", n)
		}
	}
	for _, l := range links {
		if _, ok := m.links[l]; !ok {
			return referenceError("control", c.Name, "link", l)
		}
	}
	m.controls[c.Name] = c
	m.controlOrder = append(m.controlOrder, c.Name)
	return nil
}
