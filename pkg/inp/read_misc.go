package inp

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-epanet/pkg/network"
)

// readTitle keeps title lines verbatim, comments included.
func (s *session) readTitle() error {
	lines := s.sections[secTitle]
	if s.metrics != nil && len(lines) > 0 {
		s.metrics.RecordSectionLines(secTitle, len(lines))
	}
	for _, l := range lines {
		s.m.Title = append(s.m.Title, l.Text)
	}
	return nil
}

// readLabels parses `x y "text" [anchor]`. The label text may hold spaces.
func (s *session) readLabels() error {
	return s.each(secLabels, func(l rawLine, f []string, _ string) error {
		if len(f) < 3 {
			return fieldCountError(len(f), "at least 3")
		}
		x, err := parseNumber(f[0])
		if err != nil {
			return err
		}
		y, err := parseNumber(f[1])
		if err != nil {
			return err
		}

		data, _, _ := strings.Cut(l.Text, ";")
		label := network.Label{X: x, Y: y}
		if open := strings.Index(data, `"`); open >= 0 {
			end := strings.Index(data[open+1:], `"`)
			if end < 0 {
				return fmt.Errorf("%w: unterminated label text", ErrBadKeyword)
			}
			label.Text = data[open+1 : open+1+end]
			label.Anchor = strings.TrimSpace(data[open+end+2:])
		} else {
			label.Text = f[2]
			if len(f) > 3 {
				label.Anchor = f[3]
			}
		}
		s.m.Labels = append(s.m.Labels, label)
		return nil
	})
}

func (s *session) readBackdrop() error {
	g := &s.m.Options.Graphics
	return s.each(secBackdrop, func(_ rawLine, f []string, _ string) error {
		key := strings.ToUpper(f[0])
		values := make([]float64, 0, len(f)-1)
		numeric := func() error {
			for _, tok := range f[1:] {
				v, err := parseNumber(tok)
				if err != nil {
					return err
				}
				values = append(values, v)
			}
			return nil
		}

		switch key {
		case "DIMENSIONS":
			if len(f) != 5 {
				return fieldCountError(len(f), "5")
			}
			if err := numeric(); err != nil {
				return err
			}
			g.Dimensions = values
		case "UNITS":
			if len(f) != 2 {
				return fieldCountError(len(f), "2")
			}
			g.Units = strings.ToUpper(f[1])
		case "FILE":
			if len(f) != 2 {
				return fieldCountError(len(f), "2")
			}
			g.Image = f[1]
		case "OFFSET":
			if len(f) != 3 {
				return fieldCountError(len(f), "3")
			}
			if err := numeric(); err != nil {
				return err
			}
			g.Offset = [2]float64{values[0], values[1]}
		default:
			return fmt.Errorf("%w: backdrop %q", ErrBadKeyword, f[0])
		}
		return nil
	})
}
