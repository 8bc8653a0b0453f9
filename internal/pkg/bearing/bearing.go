// Package bearing parses, validates and converts surveying bearings between
// degrees-minutes-seconds, quadrant notation and decimal degrees.
//
// Nothing in this package returns an error or panics: malformed input comes
// back as ok=false (or the untouched input for BackBearing) so a live form
// can keep accepting keystrokes.
package bearing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Format string

const (
	FormatDMS  Format = "dms"
	FormatDD   Format = "dd"
	FormatAuto Format = "auto"
)

var (
	dmsPattern      = regexp.MustCompile(`^(\d{1,3})°(\d{1,2})'(\d{1,2}(?:\.\d+)?)"$`)
	quadrantPattern = regexp.MustCompile(`^([NS])\s*(\d{1,3})°(\d{1,2})'(\d{1,2}(?:\.\d+)?)"\s*([EW])$`)
	decimalPattern  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Validate reports whether text is acceptable for the given format.
// Blank input is always valid: the field simply has no value yet.
func Validate(text string, format Format) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	switch format {
	case FormatDMS:
		return dmsPattern.MatchString(text) || quadrantPattern.MatchString(text)
	case FormatDD:
		_, ok := parseDecimal(text)
		return ok
	default:
		return dmsPattern.MatchString(text) ||
			quadrantPattern.MatchString(text) ||
			func() bool { _, ok := parseDecimal(text); return ok }()
	}
}

// ToDecimalDegrees converts a DMS or quadrant bearing string to decimal
// degrees. ok is false when the text matches neither pattern.
func ToDecimalDegrees(text string) (float64, bool) {
	text = strings.TrimSpace(text)

	if m := dmsPattern.FindStringSubmatch(text); m != nil {
		return dmsToDecimal(m[1], m[2], m[3]), true
	}

	if m := quadrantPattern.FindStringSubmatch(text); m != nil {
		d := dmsToDecimal(m[2], m[3], m[4])

		// Simplified quadrant remap carried over from the original traverse
		// notation handling. Not rigorous quadrant geometry; the arithmetic
		// is load-bearing and must not be "corrected".
		switch m[1] + m[5] {
		case "NW":
			d = 360 - d
		case "SE":
			d = 180 - d
		case "SW":
			d = 180 + d
		}
		return normalize(d), true
	}

	return 0, false
}

// ToDMS renders a decimal-degree value as `D°MM'SS.s"`. ok is false for NaN
// or values outside [0, 360).
func ToDMS(decimal float64) (string, bool) {
	if math.IsNaN(decimal) || decimal < 0 || decimal >= 360 {
		return "", false
	}

	degrees := math.Floor(decimal)
	minutesFloat := (decimal - degrees) * 60
	minutes := math.Floor(minutesFloat)
	seconds := (minutesFloat - minutes) * 60

	return strconv.Itoa(int(degrees)) + "°" +
		pad2(int(minutes)) + "'" +
		padSeconds(seconds) + "\"", true
}

// BackBearing returns the reciprocal bearing (+180° mod 360) rendered in the
// same format as the input. If the input cannot be converted at any step the
// original text is returned unchanged.
func BackBearing(text string, format Format) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}

	if format == FormatDD {
		d, ok := parseDecimal(trimmed)
		if !ok {
			return text
		}
		return formatDecimal(normalize(d + 180))
	}

	d, ok := ToDecimalDegrees(trimmed)
	if !ok {
		return text
	}
	out, ok := ToDMS(normalize(d + 180))
	if !ok {
		return text
	}
	return out
}

func dmsToDecimal(deg, min, sec string) float64 {
	d, _ := strconv.ParseFloat(deg, 64)
	m, _ := strconv.ParseFloat(min, 64)
	s, _ := strconv.ParseFloat(sec, 64)
	return d + m/60 + s/3600
}

// parseDecimal accepts a bare nonnegative decimal strictly below 360.
func parseDecimal(text string) (float64, bool) {
	if !decimalPattern.MatchString(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v >= 360 {
		return 0, false
	}
	return v, true
}

func normalize(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func formatDecimal(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

func pad2(v int) string {
	s := strconv.Itoa(v)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// padSeconds renders seconds to one decimal place, left-padded to width 4
// so single-digit seconds come out as "04.5".
func padSeconds(s float64) string {
	out := strconv.FormatFloat(s, 'f', 1, 64)
	if len(out) < 4 {
		out = "0" + out
	}
	return out
}
