package network

import "maps"

// Clone returns a deep copy of the model. Control conditions are shared, as
// they are never modified after parsing.
func (m *Model) Clone() *Model {
	c := &Model{
		Name:        m.Name,
		Title:       append([]string(nil), m.Title...),
		TopComments: append([]string(nil), m.TopComments...),
		Labels:      append([]Label(nil), m.Labels...),
		Options:     m.Options.clone(),

		nodes:        make(map[string]Node, len(m.nodes)),
		nodeOrder:    append([]string(nil), m.nodeOrder...),
		links:        make(map[string]Link, len(m.links)),
		linkOrder:    append([]string(nil), m.linkOrder...),
		curves:       make(map[string]*Curve, len(m.curves)),
		curveOrder:   append([]string(nil), m.curveOrder...),
		patterns:     make(map[string]*Pattern, len(m.patterns)),
		patternOrder: append([]string(nil), m.patternOrder...),
		sources:      make(map[string]*Source, len(m.sources)),
		sourceOrder:  append([]string(nil), m.sourceOrder...),
		controls:     make(map[string]*Control, len(m.controls)),
		controlOrder: append([]string(nil), m.controlOrder...),

		logger: m.logger,
	}
	for name, n := range m.nodes {
		c.nodes[name] = cloneNode(n)
	}
	for name, l := range m.links {
		c.links[name] = cloneLink(l)
	}
	for name, cv := range m.curves {
		cp := *cv
		cp.Points = append([]CurvePoint(nil), cv.Points...)
		c.curves[name] = &cp
	}
	for name, p := range m.patterns {
		cp := *p
		cp.Multipliers = append([]float64(nil), p.Multipliers...)
		c.patterns[name] = &cp
	}
	for name, s := range m.sources {
		cp := *s
		c.sources[name] = &cp
	}
	for name, ctl := range m.controls {
		cp := *ctl
		cp.Then = append([]Action(nil), ctl.Then...)
		cp.Else = append([]Action(nil), ctl.Else...)
		c.controls[name] = &cp
	}
	return c
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Junction:
		cp := *v
		cp.Demands = append([]Demand(nil), v.Demands...)
		return &cp
	case *Reservoir:
		cp := *v
		return &cp
	case *Tank:
		cp := *v
		cp.BulkCoeff = cloneFloat(v.BulkCoeff)
		return &cp
	}
	return n
}

func cloneLink(l Link) Link {
	switch v := l.(type) {
	case *Pipe:
		cp := *v
		cp.Vertices = append([]Point(nil), v.Vertices...)
		cp.BulkCoeff = cloneFloat(v.BulkCoeff)
		cp.WallCoeff = cloneFloat(v.WallCoeff)
		return &cp
	case *Pump:
		cp := *v
		cp.Vertices = append([]Point(nil), v.Vertices...)
		cp.EnergyPrice = cloneFloat(v.EnergyPrice)
		return &cp
	case *Valve:
		cp := *v
		cp.Vertices = append([]Point(nil), v.Vertices...)
		return &cp
	}
	return l
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (o Options) clone() Options {
	c := o
	c.Report.Nodes = append([]string(nil), o.Report.Nodes...)
	c.Report.Links = append([]string(nil), o.Report.Links...)
	c.Report.Params = maps.Clone(o.Report.Params)
	if o.Report.ParamOpts != nil {
		c.Report.ParamOpts = make(map[string]map[string]float64, len(o.Report.ParamOpts))
		for k, v := range o.Report.ParamOpts {
			c.Report.ParamOpts[k] = maps.Clone(v)
		}
	}
	c.Reaction.LimitingPotential = cloneFloat(o.Reaction.LimitingPotential)
	c.Reaction.RoughnessCorrelation = cloneFloat(o.Reaction.RoughnessCorrelation)
	c.Graphics.Dimensions = append([]float64(nil), o.Graphics.Dimensions...)
	c.Extra = maps.Clone(o.Extra)
	c.ExtraKeys = append([]string(nil), o.ExtraKeys...)
	return c
}
