package network

import (
	"github.com/dd0wney/cluso-epanet/pkg/units"
	"github.com/dd0wney/cluso-epanet/pkg/validation"
)

// HydraulicOptions are the [OPTIONS] hydraulic settings. Pressures are in
// metres.
type HydraulicOptions struct {
	Units              units.FlowUnits
	Headloss           string `validate:"oneof=H-W D-W C-M"`
	Hydraulics         string `validate:"omitempty,oneof=USE SAVE"`
	HydraulicsFilename string
	Viscosity          float64 `validate:"gt=0"`
	SpecificGravity    float64 `validate:"gt=0"`
	Pattern            string
	DemandMultiplier   float64 `validate:"gte=0"`
	DemandModel        string  `validate:"oneof=DDA PDA"`
	MinimumPressure    float64
	RequiredPressure   float64
	PressureExponent   float64 `validate:"gt=0"`
	EmitterExponent    float64 `validate:"gt=0"`
	Trials             int     `validate:"gt=0"`
	Accuracy           float64 `validate:"gt=0"`
	Unbalanced         string  `validate:"oneof=STOP CONTINUE"`
	UnbalancedValue    int     `validate:"gte=0"`
	CheckFreq          int     `validate:"gte=0"`
	MaxCheck           int     `validate:"gte=0"`
	DampLimit          float64 `validate:"gte=0"`
	HeadError          float64 `validate:"gte=0"`
	FlowChange         float64 `validate:"gte=0"`
}

// QualityOptions select the water quality simulation.
type QualityOptions struct {
	Parameter    string `validate:"oneof=NONE CHEMICAL AGE TRACE"`
	ChemicalName string
	Mass         units.MassUnits
	TraceNode    string
	Diffusivity  float64 `validate:"gte=0"`
	Tolerance    float64 `validate:"gte=0"`
}

// TimeOptions are the [TIMES] settings, all in seconds.
type TimeOptions struct {
	Duration          int    `validate:"gte=0"`
	HydraulicTimestep int    `validate:"gt=0"`
	QualityTimestep   int    `validate:"gte=0"`
	RuleTimestep      int    `validate:"gte=0"`
	PatternTimestep   int    `validate:"gt=0"`
	PatternStart      int    `validate:"gte=0"`
	ReportTimestep    int    `validate:"gt=0"`
	ReportStart       int    `validate:"gte=0"`
	StartClocktime    int    `validate:"gte=0"`
	Statistic         string `validate:"oneof=NONE AVERAGED MINIMUM MAXIMUM RANGE"`
}

// EnergyOptions are the global [ENERGY] settings. Prices are per J.
type EnergyOptions struct {
	GlobalPrice      float64
	GlobalPattern    string
	GlobalEfficiency float64 `validate:"gte=0,lte=100"`
	DemandCharge     float64
}

// ReactionOptions are the global [REACTIONS] settings in SI.
type ReactionOptions struct {
	BulkOrder            float64
	WallOrder            float64 `validate:"gte=0,lte=1"`
	TankOrder            float64
	BulkCoeff            float64
	WallCoeff            float64
	LimitingPotential    *float64
	RoughnessCorrelation *float64
}

// ReportOptions are the [REPORT] settings.
type ReportOptions struct {
	Pagesize  int
	File      string
	Status    string `validate:"oneof=YES NO FULL"`
	Summary   string `validate:"oneof=YES NO"`
	Energy    string `validate:"oneof=YES NO"`
	AllNodes  bool
	Nodes     []string
	AllLinks  bool
	Links     []string
	Params    map[string]bool
	ParamOpts map[string]map[string]float64
}

// GraphicsOptions are the cosmetic [BACKDROP] settings and map file.
type GraphicsOptions struct {
	Dimensions  []float64
	Units       string
	Image       string
	Offset      [2]float64
	MapFilename string
}

// Options groups all global settings of a network.
type Options struct {
	Hydraulic HydraulicOptions
	Quality   QualityOptions
	Time      TimeOptions
	Energy    EnergyOptions
	Reaction  ReactionOptions
	Report    ReportOptions
	Graphics  GraphicsOptions

	// Extra keeps options the codec does not interpret, keyed by upper-case
	// option name, so they survive a round trip.
	Extra     map[string]string
	ExtraKeys []string
}

// DefaultOptions returns EPANET 2.2 defaults.
func DefaultOptions() Options {
	return Options{
		Hydraulic: HydraulicOptions{
			Units:            units.GPM,
			Headloss:         "H-W",
			Viscosity:        1,
			SpecificGravity:  1,
			Pattern:          "1",
			DemandMultiplier: 1,
			DemandModel:      "DDA",
			RequiredPressure: 0.07,
			PressureExponent: 0.5,
			EmitterExponent:  0.5,
			Trials:           200,
			Accuracy:         0.001,
			Unbalanced:       "STOP",
			CheckFreq:        2,
			MaxCheck:         10,
		},
		Quality: QualityOptions{
			Parameter:    "NONE",
			ChemicalName: "CHEMICAL",
			Mass:         units.MG,
			Diffusivity:  1,
			Tolerance:    0.01,
		},
		Time: TimeOptions{
			HydraulicTimestep: 3600,
			QualityTimestep:   360,
			RuleTimestep:      360,
			PatternTimestep:   3600,
			ReportTimestep:    3600,
			Statistic:         "NONE",
		},
		Energy: EnergyOptions{GlobalEfficiency: 75},
		Reaction: ReactionOptions{
			BulkOrder: 1,
			WallOrder: 1,
			TankOrder: 1,
		},
		Report: ReportOptions{
			Status:    "NO",
			Summary:   "YES",
			Energy:    "NO",
			Params:    map[string]bool{},
			ParamOpts: map[string]map[string]float64{},
		},
		Graphics: GraphicsOptions{Units: "NONE"},
		Extra:    map[string]string{},
	}
}

// SetExtra records an uninterpreted option, keeping first-seen order.
func (o *Options) SetExtra(key, value string) {
	if o.Extra == nil {
		o.Extra = map[string]string{}
	}
	if _, ok := o.Extra[key]; !ok {
		o.ExtraKeys = append(o.ExtraKeys, key)
	}
	o.Extra[key] = value
}

// Validate checks field ranges and the relations between timesteps.
func (o *Options) Validate() error {
	if err := validation.Struct(o); err != nil {
		return err
	}

	t := o.Time
	return validation.NewConfigValidator("Options").
		AtLeast("Time.ReportTimestep", t.ReportTimestep, "Time.HydraulicTimestep", t.HydraulicTimestep).
		MultipleOf("Time.ReportTimestep", t.ReportTimestep, "Time.HydraulicTimestep", t.HydraulicTimestep).
		When(o.Quality.Parameter == "TRACE", func(cv *validation.ConfigValidator) {
			cv.Required("Quality.TraceNode", o.Quality.TraceNode)
		}).
		When(o.Hydraulic.DemandModel == "PDA", func(cv *validation.ConfigValidator) {
			cv.Custom("Hydraulic.RequiredPressure", func() error {
				if o.Hydraulic.RequiredPressure < o.Hydraulic.MinimumPressure {
					return ErrInvalidValue
				}
				return nil
			})
		}).
		Validate()
}
