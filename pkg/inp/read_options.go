package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
)

// twoWordOptions are [OPTIONS] keys spelled with two words.
var twoWordOptions = map[string]bool{
	"SPECIFIC GRAVITY":  true,
	"DEMAND MULTIPLIER": true,
	"DEMAND MODEL":      true,
	"MINIMUM PRESSURE":  true,
	"REQUIRED PRESSURE": true,
	"PRESSURE EXPONENT": true,
	"EMITTER EXPONENT":  true,
}

// splitKey separates an option key from its values, joining the first two
// words when they form a known two-word key.
func splitKey(f []string, twoWord map[string]bool) (string, []string) {
	if len(f) >= 2 {
		k := strings.ToUpper(f[0] + " " + f[1])
		if twoWord[k] {
			return k, f[2:]
		}
	}
	return strings.ToUpper(f[0]), f[1:]
}

// resolveUnits reads the options every numeric conversion depends on.
func (s *session) resolveUnits() error {
	o := &s.m.Options
	for _, l := range s.sections[secOptions] {
		f, _ := l.fields()
		if len(f) < 2 {
			continue
		}
		var err error
		switch strings.ToUpper(f[0]) {
		case "UNITS":
			o.Hydraulic.Units, err = units.ParseFlowUnits(f[1])
		case "HEADLOSS":
			o.Hydraulic.Headloss = strings.ToUpper(f[1])
		case "QUALITY":
			mode := strings.ToUpper(f[1])
			if len(f) > 2 && mode != "TRACE" && mode != "AGE" && mode != "NONE" {
				o.Quality.Mass, err = units.ParseMassUnits(f[2])
			}
		}
		if err != nil {
			return s.wrap(l, secOptions, err)
		}
	}
	s.sys = units.System{
		Flow:          o.Hydraulic.Units,
		Mass:          o.Quality.Mass,
		DarcyWeisbach: o.Hydraulic.Headloss == "D-W",
	}
	return nil
}

func (s *session) readOptions() error {
	if err := s.resolveUnits(); err != nil {
		return err
	}
	h := &s.m.Options.Hydraulic
	q := &s.m.Options.Quality

	return s.each(secOptions, func(_ rawLine, f []string, _ string) error {
		key, rest := splitKey(f, twoWordOptions)
		if len(rest) == 0 {
			return fmt.Errorf("option %s: %w", key, fieldCountError(len(f), "a value"))
		}
		var err error
		switch key {
		case "UNITS", "HEADLOSS":
			// resolved above
		case "HYDRAULICS":
			h.Hydraulics = strings.ToUpper(rest[0])
			if len(rest) > 1 {
				h.HydraulicsFilename = rest[1]
			}
		case "QUALITY":
			s.readQualityOption(rest)
		case "VISCOSITY":
			h.Viscosity, err = parseNumber(rest[0])
		case "DIFFUSIVITY":
			q.Diffusivity, err = parseNumber(rest[0])
		case "SPECIFIC GRAVITY":
			h.SpecificGravity, err = parseNumber(rest[0])
		case "TRIALS":
			h.Trials, err = parseInt(rest[0])
		case "ACCURACY":
			h.Accuracy, err = parseNumber(rest[0])
		case "HEADERROR":
			h.HeadError, err = s.number(rest[0], units.HydraulicHead)
		case "FLOWCHANGE":
			h.FlowChange, err = s.number(rest[0], units.Flow)
		case "UNBALANCED":
			h.Unbalanced = strings.ToUpper(rest[0])
			h.UnbalancedValue = 0
			if len(rest) > 1 {
				h.UnbalancedValue, err = parseInt(rest[1])
			}
		case "PATTERN":
			h.Pattern = rest[0]
		case "DEMAND MULTIPLIER":
			h.DemandMultiplier, err = parseNumber(rest[0])
		case "DEMAND MODEL":
			h.DemandModel = strings.ToUpper(rest[0])
		case "MINIMUM PRESSURE":
			h.MinimumPressure, err = s.number(rest[0], units.Pressure)
		case "REQUIRED PRESSURE":
			h.RequiredPressure, err = s.number(rest[0], units.Pressure)
		case "PRESSURE EXPONENT":
			h.PressureExponent, err = parseNumber(rest[0])
		case "EMITTER EXPONENT":
			h.EmitterExponent, err = parseNumber(rest[0])
		case "TOLERANCE":
			q.Tolerance, err = parseNumber(rest[0])
		case "MAP":
			s.m.Options.Graphics.MapFilename = rest[0]
		case "CHECKFREQ":
			h.CheckFreq, err = parseInt(rest[0])
		case "MAXCHECK":
			h.MaxCheck, err = parseInt(rest[0])
		case "DAMPLIMIT":
			h.DampLimit, err = parseNumber(rest[0])
		default:
			s.m.Options.SetExtra(key, strings.Join(rest, " "))
			s.warn("unknown_option", "unknown option kept verbatim", logging.String("option", key))
		}
		if err != nil {
			return fmt.Errorf("option %s: %w", key, err)
		}
		return nil
	})
}

func (s *session) readQualityOption(rest []string) {
	q := &s.m.Options.Quality
	mode := strings.ToUpper(rest[0])
	switch mode {
	case "NONE", "AGE":
		q.Parameter = mode
	case "TRACE":
		q.Parameter = mode
		if len(rest) > 1 {
			q.TraceNode = rest[1]
		}
	case "CHEMICAL":
		q.Parameter = mode
		q.ChemicalName = "CHEMICAL"
	default:
		q.Parameter = "CHEMICAL"
		q.ChemicalName = rest[0]
	}
}

var twoWordTimes = map[string]bool{
	"HYDRAULIC TIMESTEP": true,
	"QUALITY TIMESTEP":   true,
	"RULE TIMESTEP":      true,
	"PATTERN TIMESTEP":   true,
	"PATTERN START":      true,
	"REPORT TIMESTEP":    true,
	"REPORT START":       true,
	"START CLOCKTIME":    true,
}

func (s *session) readTimes() error {
	t := &s.m.Options.Time
	return s.each(secTimes, func(_ rawLine, f []string, _ string) error {
		key, rest := splitKey(f, twoWordTimes)
		if len(rest) == 0 {
			return fmt.Errorf("time %s: %w", key, fieldCountError(len(f), "a value"))
		}
		var err error
		switch key {
		case "DURATION":
			t.Duration, err = parseDuration(rest)
		case "HYDRAULIC TIMESTEP":
			t.HydraulicTimestep, err = parseDuration(rest)
		case "QUALITY TIMESTEP":
			t.QualityTimestep, err = parseDuration(rest)
		case "RULE TIMESTEP":
			t.RuleTimestep, err = parseDuration(rest)
		case "PATTERN TIMESTEP":
			t.PatternTimestep, err = parseDuration(rest)
		case "PATTERN START":
			t.PatternStart, err = parseDuration(rest)
		case "REPORT TIMESTEP":
			t.ReportTimestep, err = parseDuration(rest)
		case "REPORT START":
			t.ReportStart, err = parseDuration(rest)
		case "START CLOCKTIME":
			t.StartClocktime, err = parseClock(rest)
		case "STATISTIC":
			t.Statistic, err = parseStatistic(rest[0])
		default:
			return fmt.Errorf("%w: time option %q", ErrBadKeyword, key)
		}
		if err != nil {
			return fmt.Errorf("time %s: %w", key, err)
		}
		return nil
	})
}

func parseStatistic(token string) (string, error) {
	switch strings.ToUpper(token) {
	case "NONE", "NO":
		return "NONE", nil
	case "AVERAGE", "AVERAGED", "AVG":
		return "AVERAGED", nil
	case "MIN", "MINIMUM":
		return "MINIMUM", nil
	case "MAX", "MAXIMUM":
		return "MAXIMUM", nil
	case "RANGE":
		return "RANGE", nil
	}
	return "", fmt.Errorf("%w: statistic %q", ErrBadKeyword, token)
}

func (s *session) readReport() error {
	r := &s.m.Options.Report
	return s.each(secReport, func(_ rawLine, f []string, _ string) error {
		key := strings.ToUpper(f[0])
		if len(f) < 2 {
			return fmt.Errorf("report %s: %w", key, fieldCountError(len(f), "at least 2"))
		}
		var err error
		switch key {
		case "PAGE", "PAGESIZE":
			r.Pagesize, err = parseInt(f[1])
		case "FILE":
			r.File = f[1]
		case "STATUS":
			r.Status = strings.ToUpper(f[1])
		case "SUMMARY":
			r.Summary = strings.ToUpper(f[1])
		case "ENERGY":
			r.Energy = strings.ToUpper(f[1])
		case "NODES":
			r.AllNodes, r.Nodes = reportSelection(r.AllNodes, r.Nodes, f[1:])
		case "LINKS":
			r.AllLinks, r.Links = reportSelection(r.AllLinks, r.Links, f[1:])
		default:
			err = s.readReportParam(key, f[1:])
		}
		if err != nil {
			return fmt.Errorf("report %s: %w", key, err)
		}
		return nil
	})
}

// reportSelection applies a NODES or LINKS line. Plain names accumulate
// across lines.
func reportSelection(all bool, names []string, values []string) (bool, []string) {
	switch strings.ToUpper(values[0]) {
	case "ALL":
		return true, nil
	case "NONE":
		return false, nil
	}
	return all, append(names, values...)
}

func (s *session) readReportParam(param string, values []string) error {
	r := &s.m.Options.Report
	switch opt := strings.ToUpper(values[0]); opt {
	case "YES", "NO":
		r.Params[param] = opt == "YES"
	case "PRECISION", "ABOVE", "BELOW":
		if len(values) < 2 {
			return fieldCountError(len(values)+1, "3")
		}
		v, err := parseNumber(values[1])
		if err != nil {
			return err
		}
		if r.ParamOpts[param] == nil {
			r.ParamOpts[param] = map[string]float64{}
		}
		r.ParamOpts[param][opt] = v
	default:
		return fmt.Errorf("%w: %q", ErrBadKeyword, values[0])
	}
	return nil
}

func (s *session) readReactions() error {
	rx := &s.m.Options.Reaction

	// Orders are needed to convert every coefficient, wherever they appear.
	for _, l := range s.sections[secReactions] {
		f, _ := l.fields()
		if len(f) < 3 || strings.ToUpper(f[0]) != "ORDER" {
			continue
		}
		v, err := parseNumber(f[2])
		if err != nil {
			return s.wrap(l, secReactions, err)
		}
		switch strings.ToUpper(f[1]) {
		case "BULK":
			rx.BulkOrder = v
		case "WALL":
			rx.WallOrder = v
		case "TANK":
			rx.TankOrder = v
		default:
			return s.wrap(l, secReactions, fmt.Errorf("%w: reaction order %q", ErrBadKeyword, f[1]))
		}
	}

	bulk := func(token string) (*float64, error) {
		v, err := parseNumber(token)
		if err != nil {
			return nil, err
		}
		v = s.sys.ReactionToSI(v, units.BulkReactionCoeff, rx.BulkOrder)
		return &v, nil
	}
	wall := func(token string) (*float64, error) {
		v, err := parseNumber(token)
		if err != nil {
			return nil, err
		}
		v = s.sys.ReactionToSI(v, units.WallReactionCoeff, rx.WallOrder)
		return &v, nil
	}

	return s.each(secReactions, func(_ rawLine, f []string, _ string) error {
		if len(f) != 3 {
			return fieldCountError(len(f), "3")
		}
		key := strings.ToUpper(f[0])
		switch key {
		case "ORDER":
			return nil
		case "GLOBAL":
			switch strings.ToUpper(f[1]) {
			case "BULK":
				v, err := bulk(f[2])
				if err != nil {
					return err
				}
				rx.BulkCoeff = *v
			case "WALL":
				v, err := wall(f[2])
				if err != nil {
					return err
				}
				rx.WallCoeff = *v
			default:
				return fmt.Errorf("%w: GLOBAL %q", ErrBadKeyword, f[1])
			}
		case "BULK", "WALL":
			p, err := s.m.Pipe(f[1])
			if err != nil {
				return asReference(err, secReactions, "pipe", f[1])
			}
			if key == "BULK" {
				p.BulkCoeff, err = bulk(f[2])
			} else {
				p.WallCoeff, err = wall(f[2])
			}
			return err
		case "TANK":
			t, err := s.m.Tank(f[1])
			if err != nil {
				return asReference(err, secReactions, "tank", f[1])
			}
			t.BulkCoeff, err = bulk(f[2])
			return err
		case "LIMITING":
			v, err := parseNumber(f[2])
			if err != nil {
				return err
			}
			rx.LimitingPotential = &v
		case "ROUGHNESS":
			v, err := parseNumber(f[2])
			if err != nil {
				return err
			}
			rx.RoughnessCorrelation = &v
		default:
			return fmt.Errorf("%w: reaction %q", ErrBadKeyword, f[0])
		}
		return nil
	})
}

func (s *session) readEnergy() error {
	e := &s.m.Options.Energy
	return s.each(secEnergy, func(_ rawLine, f []string, _ string) error {
		key := strings.ToUpper(f[0])
		switch key {
		case "GLOBAL":
			if len(f) != 3 {
				return fieldCountError(len(f), "3")
			}
			var err error
			switch kw := strings.ToUpper(f[1]); {
			case kw == "PRICE":
				e.GlobalPrice, err = s.number(f[2], units.EnergyPrice)
			case kw == "PATTERN":
				if !s.m.HasPattern(f[2]) {
					return referenceError(secEnergy, "pattern", f[2])
				}
				e.GlobalPattern = f[2]
			case strings.HasPrefix(kw, "EFFIC"):
				e.GlobalEfficiency, err = parseNumber(f[2])
			default:
				return fmt.Errorf("%w: GLOBAL %q", ErrBadKeyword, f[1])
			}
			return err
		case "DEMAND":
			if len(f) != 3 || strings.ToUpper(f[1]) != "CHARGE" {
				return fmt.Errorf("%w: expected DEMAND CHARGE value", ErrBadKeyword)
			}
			var err error
			e.DemandCharge, err = s.number(f[2], units.EnergyPrice)
			return err
		case "PUMP":
			if len(f) != 4 {
				return fieldCountError(len(f), "4")
			}
			return s.readPumpEnergy(f[1], strings.ToUpper(f[2]), f[3])
		}
		return fmt.Errorf("%w: energy %q", ErrBadKeyword, f[0])
	})
}

func (s *session) readPumpEnergy(name, kw, value string) error {
	p, err := s.m.Pump(name)
	if err != nil {
		return asReference(err, secEnergy, "pump", name)
	}
	switch {
	case kw == "PRICE":
		v, err := s.number(value, units.EnergyPrice)
		if err != nil {
			return err
		}
		p.EnergyPrice = &v
	case kw == "PATTERN":
		if !s.m.HasPattern(value) {
			return referenceError(secEnergy, "pattern", value)
		}
		p.EnergyPattern = value
	case strings.HasPrefix(kw, "EFFIC"):
		if _, err := s.m.Curve(value); err != nil {
			return referenceError(secEnergy, "curve", value)
		}
		if err := s.typeCurve(value, network.CurveEfficiency, units.Flow, rawParam); err != nil {
			return err
		}
		p.Efficiency = value
	default:
		return fmt.Errorf("%w: pump energy %q", ErrBadKeyword, kw)
	}
	return nil
}
