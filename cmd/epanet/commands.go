package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/algorithms"
	"github.com/dd0wney/cluso-epanet/pkg/binout"
	"github.com/dd0wney/cluso-epanet/pkg/constraints"
	"github.com/dd0wney/cluso-epanet/pkg/inp"
	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/network"
	"github.com/dd0wney/cluso-epanet/pkg/units"
	"github.com/dd0wney/cluso-epanet/pkg/visualization"
)

func (e *env) inpReader() *inp.Reader {
	return &inp.Reader{Logger: e.log, Metrics: e.metrics}
}

func (e *env) readModel(paths []string) (*network.Model, error) {
	if len(paths) == 0 {
		return nil, errUsage
	}
	return e.inpReader().Read(paths...)
}

func convertCommand() *command {
	var (
		output       string
		unitsFlag    string
		version      string
		forceCoords  bool
		skipIsolated bool
		layout       string
	)
	return &command{
		usage: "convert [-o out.inp] [-units GPM|LPS|...] [-version 2.0|2.2] [-force-coordinates] [-skip-isolated] [-layout force|circular|hierarchical] in.inp [more.inp...]",
		flags: func(fs *flag.FlagSet) {
			fs.StringVar(&output, "o", "", "output file (default stdout)")
			fs.StringVar(&unitsFlag, "units", "", "flow units of the output (default: input units)")
			fs.StringVar(&version, "version", "", "output format version")
			fs.BoolVar(&forceCoords, "force-coordinates", false, "write [COORDINATES] even when a map file is set")
			fs.BoolVar(&skipIsolated, "skip-isolated", false, "omit nodes and links cut off from every source")
			fs.StringVar(&layout, "layout", "", "generate coordinates for nodes without any")
		},
		run: func(e *env, fs *flag.FlagSet, args []string) error {
			m, err := e.readModel(args)
			if err != nil {
				return err
			}

			out := e.cfg.Output
			set := setFlags(fs)
			if set["units"] {
				out.Units = unitsFlag
			}
			if set["version"] {
				out.Version = version
			}
			if set["force-coordinates"] {
				out.ForceCoordinates = forceCoords
			}
			if set["skip-isolated"] {
				out.SkipIsolated = skipIsolated
			}
			if set["layout"] {
				out.Layout = layout
			}

			if out.SkipIsolated {
				nodes, links := algorithms.MarkIsolated(m, algorithms.OpenLinks)
				e.log.Info("isolated elements skipped", logging.Int("nodes", nodes), logging.Int("links", links))
			}

			if out.Layout != "" {
				l, err := visualization.New(out.Layout, &visualization.LayoutConfig{Width: 10000, Height: 10000, Padding: 100})
				if err != nil {
					return err
				}
				if _, err := visualization.FillCoordinates(m, l, e.log); err != nil {
					return err
				}
			}

			w := &inp.Writer{
				Version:          out.Version,
				ForceCoordinates: out.ForceCoordinates,
				Logger:           e.log,
				Metrics:          e.metrics,
			}
			if out.Units != "" {
				flow, err := units.ParseFlowUnits(out.Units)
				if err != nil {
					return err
				}
				w.Units = &flow
			}
			if output == "" || output == "-" {
				return w.Encode(e.stdout, m)
			}
			return w.Write(output, m)
		},
	}
}

func summaryCommand() *command {
	return &command{
		usage: "summary in.inp [more.inp...]",
		run: func(e *env, _ *flag.FlagSet, args []string) error {
			m, err := e.readModel(args)
			if err != nil {
				return err
			}
			p := newPrinter(e.stdout)
			title := strings.Join(m.Title, " ")
			if title == "" {
				title = strings.Join(args, ", ")
			}
			p.heading("%s", title)

			c := m.Counts()
			p.table([]string{"Element", "Count"}, [][]string{
				{"Junctions", strconv.Itoa(c.Junctions)},
				{"Reservoirs", strconv.Itoa(c.Reservoirs)},
				{"Tanks", strconv.Itoa(c.Tanks)},
				{"Pipes", strconv.Itoa(c.Pipes)},
				{"Pumps", strconv.Itoa(c.Pumps)},
				{"Valves", strconv.Itoa(c.Valves)},
				{"Patterns", strconv.Itoa(c.Patterns)},
				{"Curves", strconv.Itoa(c.Curves)},
				{"Controls", strconv.Itoa(c.Controls)},
				{"Sources", strconv.Itoa(c.Sources)},
			})

			o := m.Options
			p.keyValues([][2]string{
				{"Flow units", o.Hydraulic.Units.String()},
				{"Headloss", o.Hydraulic.Headloss},
				{"Demand model", o.Hydraulic.DemandModel},
				{"Quality", o.Quality.Parameter},
				{"Duration", clock(o.Time.Duration)},
				{"Hydraulic step", clock(o.Time.HydraulicTimestep)},
				{"Report step", clock(o.Time.ReportTimestep)},
			})
			return nil
		},
	}
}

func checkCommand() *command {
	var allLinks bool
	return &command{
		usage: "check [-all-links] in.inp [more.inp...]",
		flags: func(fs *flag.FlagSet) {
			fs.BoolVar(&allLinks, "all-links", false, "treat closed links as connected when looking for isolated nodes")
		},
		run: func(e *env, _ *flag.FlagSet, args []string) error {
			m, err := e.readModel(args)
			if err != nil {
				return err
			}
			res, err := constraints.DefaultValidator().Validate(m)
			if err != nil {
				return err
			}

			filter := algorithms.OpenLinks
			if allLinks {
				filter = algorithms.AllLinks
			}
			isolated := algorithms.IsolatedNodes(m, filter)

			p := newPrinter(e.stdout)
			if len(res.Violations) == 0 {
				p.line("no constraint violations")
			} else {
				rows := make([][]string, 0, len(res.Violations))
				for _, v := range res.Violations {
					sev := v.Severity.String()
					switch v.Severity {
					case constraints.Error:
						sev = p.bad.Render(sev)
					case constraints.Warning:
						sev = p.warn.Render(sev)
					}
					rows = append(rows, []string{sev, v.Constraint, v.Subject(), v.Message})
				}
				p.table([]string{"Severity", "Constraint", "Element", "Message"}, rows)
			}
			if len(isolated) > 0 {
				p.line("isolated nodes (%d): %s", len(isolated), strings.Join(isolated, " "))
			}

			if !res.Valid {
				return errCheckFailed
			}
			return nil
		},
	}
}

func (e *env) binReader() *binout.Reader {
	rc := e.cfg.Results
	return &binout.Reader{
		Strict:        rc.Strict,
		RawStatus:     rc.RawStatus,
		NoConvert:     rc.NoConvert,
		DarcyWeisbach: rc.DarcyWeisbach,
		Logger:        e.log,
		Metrics:       e.metrics,
	}
}

func resultsCommand() *command {
	var (
		strict, rawStatus, noConvert, dw bool
		node, link, attr                 string
		fromArchive                      bool
	)
	return &command{
		usage: "results [-strict] [-raw-status] [-no-convert] [-darcy-weisbach] [-archive] [-node NAME | -link NAME] [-attr NAME] out.bin",
		flags: func(fs *flag.FlagSet) {
			fs.BoolVar(&strict, "strict", false, "fail on truncated results")
			fs.BoolVar(&rawStatus, "raw-status", false, "keep the solver's link status codes")
			fs.BoolVar(&noConvert, "no-convert", false, "keep values in the file's units")
			fs.BoolVar(&dw, "darcy-weisbach", false, "pipe settings are Darcy-Weisbach roughness")
			fs.BoolVar(&fromArchive, "archive", false, "input is a results archive")
			fs.StringVar(&node, "node", "", "print the series for this node")
			fs.StringVar(&link, "link", "", "print the series for this link")
			fs.StringVar(&attr, "attr", "", "attribute to print (default pressure for nodes, flowrate for links)")
		},
		run: func(e *env, fs *flag.FlagSet, args []string) error {
			if len(args) != 1 || (node != "" && link != "") {
				return errUsage
			}
			set := setFlags(fs)
			rc := &e.cfg.Results
			if set["strict"] {
				rc.Strict = strict
			}
			if set["raw-status"] {
				rc.RawStatus = rawStatus
			}
			if set["no-convert"] {
				rc.NoConvert = noConvert
			}
			if set["darcy-weisbach"] {
				rc.DarcyWeisbach = dw
			}

			var (
				res *binout.Results
				err error
			)
			if fromArchive {
				res, err = (&binout.Archive{Logger: e.log, Metrics: e.metrics}).Read(args[0])
			} else {
				res, err = e.binReader().Read(args[0])
			}
			if err != nil {
				return err
			}

			p := newPrinter(e.stdout)
			printResults(p, res)
			switch {
			case node != "":
				a := binout.NodePressure
				if attr != "" {
					a = binout.NodeAttribute(attr)
				}
				f, err := res.Node(a)
				if err != nil {
					return err
				}
				return printSeries(p, res, f, node, string(a))
			case link != "":
				a := binout.LinkFlow
				if attr != "" {
					a = binout.LinkAttribute(attr)
				}
				f, err := res.Link(a)
				if err != nil {
					return err
				}
				return printSeries(p, res, f, link, string(a))
			}
			return nil
		},
	}
}

func archiveCommand() *command {
	var output string
	return &command{
		usage: "archive -o out.arc in.bin",
		flags: func(fs *flag.FlagSet) {
			fs.StringVar(&output, "o", "", "archive file to write")
		},
		run: func(e *env, _ *flag.FlagSet, args []string) error {
			if len(args) != 1 || output == "" {
				return errUsage
			}
			res, err := e.binReader().Read(args[0])
			if err != nil {
				return err
			}
			if err := (&binout.Archive{Logger: e.log, Metrics: e.metrics}).Write(output, res); err != nil {
				return err
			}
			newPrinter(e.stdout).line("archived %d periods of %s to %s", len(res.ReportTimes), args[0], output)
			return nil
		},
	}
}

func printResults(p *printer, res *binout.Results) {
	title := res.Title
	if title == "" {
		title = res.InputFile
	}
	p.heading("%s", title)
	pairs := [][2]string{
		{"Nodes", strconv.Itoa(len(res.Network.NodeNames))},
		{"Links", strconv.Itoa(len(res.Network.LinkNames))},
		{"Flow units", res.FlowUnits.String()},
		{"Pressure units", res.PressureUnits.String()},
		{"Quality", res.Quality.String()},
		{"Statistics", res.Statistics.String()},
		{"Periods", fmt.Sprintf("%d of %d", len(res.ReportTimes), res.ExpectedPeriods)},
		{"Converted to SI", strconv.FormatBool(res.Converted)},
		{"Integrity", strconv.FormatBool(res.Integrity)},
	}
	if res.Chemical != "" {
		pairs = append(pairs, [2]string{"Chemical", res.Chemical + " (" + res.QualityUnits + ")"})
	}
	if res.Truncated() {
		pairs = append(pairs, [2]string{"Status", p.warn.Render("truncated")})
	}
	p.keyValues(pairs)

	if len(res.Energy) > 0 {
		rows := make([][]string, 0, len(res.Energy))
		for _, pe := range res.Energy {
			rows = append(rows, []string{
				pe.Link,
				strconv.FormatFloat(pe.Utilization, 'f', 2, 64),
				strconv.FormatFloat(pe.Efficiency, 'f', 2, 64),
				strconv.FormatFloat(pe.AverageKW, 'f', 2, 64),
				strconv.FormatFloat(pe.PeakKW, 'f', 2, 64),
				strconv.FormatFloat(pe.CostPerDay, 'f', 2, 64),
			})
		}
		p.table([]string{"Pump", "Utilization", "Efficiency", "Avg kW", "Peak kW", "Cost/day"}, rows)
	}
}

func printSeries(p *printer, res *binout.Results, f *binout.Frame, name, attr string) error {
	values, err := f.Series(name)
	if err != nil {
		return err
	}
	times := res.Times()
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{clock(times[i]), strconv.FormatFloat(v, 'g', 6, 64)}
	}
	p.heading("%s %s", name, attr)
	p.table([]string{"Time", attr}, rows)
	return nil
}

// setFlags returns the names of flags given on the command line, so they
// can override configuration values without clobbering them with defaults.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
