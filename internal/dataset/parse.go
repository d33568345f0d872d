package dataset

import (
	"strconv"
	"strings"
	"time"
)

// parseIntOr parses a string as an integer, returning def if parsing fails or the string is empty.
// Accepts float renderings such as "2.0" that dataframe exports produce.
func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" || s == "(null)" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, ok := parseFloat(s); ok {
		return int(f)
	}
	return def
}

// parseFloat parses decimals written with either '.' or ',' as separator.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" || s == "(null)" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// 1.234,5 style: dots group thousands.
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFloatOr parses s as a float, returning def when it is empty or malformed.
func parseFloatOr(s string, def float64) float64 {
	if v, ok := parseFloat(s); ok {
		return v
	}
	return def
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05", "2006/01/02"}

// parseDate accepts ISO dates (data_inversa) and dd/mm/yyyy.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// normalizeID strips a trailing ".0" left by float-typed id columns.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".0") {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}
