package inp

import (
	"fmt"
	"strconv"
	"strings"
)

func parseNumber(token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, token)
	}
	return v, nil
}

func parseInt(token string) (int, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || v != float64(int(v)) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBadNumber, token)
	}
	return int(v), nil
}

func parseYesNo(token string) (bool, error) {
	switch strings.ToUpper(token) {
	case "YES", "TRUE", "1":
		return true, nil
	case "NO", "FALSE", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected YES or NO, got %q", ErrBadKeyword, token)
}

// num formats a value with 11 significant digits and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 11, 64)
}
