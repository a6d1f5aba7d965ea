package damage

import (
	"fmt"

	"github.com/dd0wney/cluso-epanet/pkg/binout"
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// ApplyOptions controls ApplyResults.
type ApplyOptions struct {
	// LatestTime, when set, must equal the last report time in the results.
	LatestTime *int
	Logger     logging.Logger
}

// ApplyResults carries the last report period of res into m so that the
// next run starts where this one stopped. Tank levels come from the final
// head and are clamped into the tank's range; valve and pump settings and
// link statuses are copied. Inactive tanks and links missing from the
// results are left alone.
func ApplyResults(m *network.Model, res *binout.Results, opts ApplyOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.With(logging.Component("damage"))

	if !res.Converted {
		return ErrUnconverted
	}
	times := res.Times()
	if len(times) == 0 {
		return nil
	}
	last := times[len(times)-1]
	if opts.LatestTime != nil && *opts.LatestTime != last {
		return fmt.Errorf("%w: expected %d, results end at %d", ErrTimeMismatch, *opts.LatestTime, last)
	}

	head, err := res.Node(binout.NodeHead)
	if err != nil {
		return err
	}
	heads := head.Last()
	for _, t := range m.Tanks() {
		h, ok := heads[t.Name]
		if !ok || !t.IsActive() {
			continue
		}
		level := max(h-t.Elevation, 0)
		if err := m.SetTankLevel(t.Name, level); err != nil {
			return err
		}
	}

	setting, err := res.Link(binout.LinkSetting)
	if err != nil {
		return err
	}
	status, err := res.Link(binout.LinkStatus)
	if err != nil {
		return err
	}
	settings, statuses := setting.Last(), status.Last()
	applied := 0
	for _, l := range m.Links() {
		name := l.Base().Name
		s, ok := settings[name]
		st, ok2 := statuses[name]
		if !ok || !ok2 {
			continue
		}
		switch v := l.(type) {
		case *network.Valve:
			v.InitialSetting = s
		case *network.Pump:
			v.InitialSetting = s
		}
		switch st {
		case binout.StatusClosed, binout.StatusOpen, binout.StatusActive:
			l.Base().InitialStatus = binout.ModelStatus(st)
		default:
			logger.Error("unexpected link status in results",
				logging.Link(name),
				logging.Float64("status", st))
		}
		applied++
	}

	logger.Info("results applied to model",
		logging.Int("time", last),
		logging.Int("tanks", len(m.Tanks())),
		logging.Count(applied))
	return nil
}
