package inp

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// converter translates values whose physical quantity depends on the model,
// such as a link setting, between file units and SI.
type converter struct {
	m   *network.Model
	sys units.System
}

// valveSettingParam returns the conversion of a valve setting. TCV and GPV
// settings are stored raw.
func valveSettingParam(k network.ValveKind) (units.Param, bool) {
	switch k {
	case network.PRV, network.PSV, network.PBV:
		return units.Pressure, true
	case network.FCV:
		return units.Flow, true
	}
	return 0, false
}

func (c converter) valveSettingToSI(k network.ValveKind, v float64) float64 {
	if p, ok := valveSettingParam(k); ok {
		return c.sys.ToSI(v, p)
	}
	return v
}

func (c converter) valveSettingFromSI(k network.ValveKind, v float64) float64 {
	if p, ok := valveSettingParam(k); ok {
		return c.sys.FromSI(v, p)
	}
	return v
}

// qualityParam is the conversion of quality values for the selected
// quality parameter. TRACE and NONE values are stored raw.
func (c converter) qualityParam() (units.Param, bool) {
	switch c.m.Options.Quality.Parameter {
	case "CHEMICAL":
		return units.Concentration, true
	case "AGE":
		return units.WaterAge, true
	}
	return 0, false
}

// settingToSI converts a numeric control setting for link. Pump speeds are
// unitless; pipes take no numeric setting.
func (c converter) settingToSI(link string, v float64) (float64, error) {
	l, err := c.m.Link(link)
	if err != nil {
		return 0, err
	}
	switch l := l.(type) {
	case *network.Pump:
		return v, nil
	case *network.Valve:
		return c.valveSettingToSI(l.Kind, v), nil
	}
	return 0, fmt.Errorf("%w: pipe %s takes no numeric setting", network.ErrInvalidValue, link)
}

func (c converter) settingFromSI(link string, v float64) float64 {
	if l, err := c.m.Link(link); err == nil {
		if valve, ok := l.(*network.Valve); ok {
			return c.valveSettingFromSI(valve.Kind, v)
		}
	}
	return v
}

// attrScale returns the SI multiplier of a condition threshold.
func (c converter) attrScale(elem network.ElementKind, link string, attr network.Attribute) (float64, error) {
	if elem == network.LinkElement {
		switch attr {
		case network.AttrFlow:
			return c.sys.Factor(units.Flow), nil
		case network.AttrSetting:
			one, err := c.settingToSI(link, 1)
			if err != nil {
				return 0, err
			}
			return one, nil
		}
		return 0, fmt.Errorf("%w: link attribute %s", ErrBadKeyword, attr)
	}

	switch attr {
	case network.AttrDemand:
		return c.sys.Factor(units.Demand), nil
	case network.AttrHead, network.AttrLevel:
		return c.sys.Factor(units.HydraulicHead), nil
	case network.AttrPressure:
		return c.sys.Factor(units.Pressure), nil
	case network.AttrQuality:
		if p, ok := c.qualityParam(); ok {
			return c.sys.Factor(p), nil
		}
		return 1, nil
	case network.AttrFillTime, network.AttrDrainTime:
		return 3600, nil
	}
	return 0, fmt.Errorf("%w: node attribute %s", ErrBadKeyword, attr)
}

// attrToSI converts a condition threshold from file units.
func (c converter) attrToSI(elem network.ElementKind, name string, attr network.Attribute, v float64) (float64, error) {
	scale, err := c.attrScale(elem, name, attr)
	if err != nil {
		return 0, err
	}
	return v * scale, nil
}

// attrFromSI converts a condition threshold back to file units.
func (c converter) attrFromSI(elem network.ElementKind, name string, attr network.Attribute, v float64) float64 {
	scale, err := c.attrScale(elem, name, attr)
	if err != nil || scale == 0 {
		return v
	}
	return v / scale
}
