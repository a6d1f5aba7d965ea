package inp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseDuration converts an EPANET time value to seconds. It accepts
// H:MM:SS, H:MM, or a decimal number with an optional unit word
// (SECONDS, MINUTES, HOURS, DAYS; decimal hours when absent).
func parseDuration(tokens []string) (int, error) {
	if len(tokens) == 0 || len(tokens) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, strings.Join(tokens, " "))
	}
	if strings.Contains(tokens[0], ":") {
		if len(tokens) == 2 {
			return 0, fmt.Errorf("%w: unit after clock value %q", ErrBadTime, strings.Join(tokens, " "))
		}
		return parseHMS(tokens[0])
	}

	v, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, tokens[0])
	}
	scale := 3600.0
	if len(tokens) == 2 {
		u := strings.ToUpper(tokens[1])
		switch {
		case strings.HasPrefix(u, "SEC"):
			scale = 1
		case strings.HasPrefix(u, "MIN"):
			scale = 60
		case strings.HasPrefix(u, "HOUR"):
			scale = 3600
		case strings.HasPrefix(u, "DAY"):
			scale = 86400
		default:
			return 0, fmt.Errorf("%w: unit %q", ErrBadTime, tokens[1])
		}
	}
	return int(math.Round(v * scale)), nil
}

func parseHMS(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	total := 0.0
	scales := []float64{3600, 60, 1}
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
		}
		total += v * scales[i]
	}
	return int(math.Round(total)), nil
}

// parseClock converts a time of day, optionally followed by AM or PM, to
// seconds after midnight.
func parseClock(tokens []string) (int, error) {
	if len(tokens) == 0 || len(tokens) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, strings.Join(tokens, " "))
	}
	if len(tokens) == 1 {
		return parseDuration(tokens)
	}

	suffix := strings.ToUpper(tokens[1])
	if suffix != "AM" && suffix != "PM" {
		return parseDuration(tokens)
	}
	secs, err := parseDuration(tokens[:1])
	if err != nil {
		return 0, err
	}
	switch suffix {
	case "AM":
		if secs >= 12*3600 {
			secs -= 12 * 3600
		}
	case "PM":
		if secs < 12*3600 {
			secs += 12 * 3600
		}
	}
	if secs < 0 || secs >= 24*3600 {
		return 0, fmt.Errorf("%w: clock time %q out of range", ErrBadTime, strings.Join(tokens, " "))
	}
	return secs, nil
}

// formatDuration writes seconds as H:MM:SS.
func formatDuration(secs int) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, secs/3600, secs/60%60, secs%60)
}

// formatClock writes seconds after midnight as a 12-hour clock time.
// Values of a day or more wrap.
func formatClock(secs int) string {
	secs %= 86400
	if secs < 0 {
		secs += 86400
	}
	h := secs / 3600
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
		h -= 12
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d:%02d %s", h, secs/60%60, secs%60, suffix)
}
