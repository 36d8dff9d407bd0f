// Package fitment implements the tire/wheel fitment calculation engine:
// tire-size parsing, tire and wheel geometry derivation, baseline-vs-candidate
// comparison, clearance verdicts, and scrub-radius estimation.
//
// Every function in this package is pure and total: identical inputs yield
// identical outputs, nothing blocks, and failure is signalled through nil
// results rather than errors. All produced lengths are millimeters.
package fitment

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Notation identifies which tire-size grammar a ParsedSize came from.
type Notation string

const (
	// NotationMetric is section-width/aspect-ratio sizing, e.g. 225/45R17.
	NotationMetric Notation = "metric"
	// NotationFlotation is inch-based light-truck sizing, e.g. 31X10.5R15.
	NotationFlotation Notation = "flotation"
)

// ParsedSize is a tire size decoded from one of the two supported notations.
// Notation selects which field group is populated; RimDiameterIn is a whole
// inch count in both.
type ParsedSize struct {
	Notation Notation `json:"notation"`

	// Metric fields.
	SectionWidthMM int `json:"section_width_mm,omitempty"`
	AspectRatioPct int `json:"aspect_ratio_pct,omitempty"`

	// Flotation fields.
	OverallDiameterIn float64 `json:"overall_diameter_in,omitempty"`
	SectionWidthIn    float64 `json:"section_width_in,omitempty"`

	RimDiameterIn int `json:"rim_diameter_in"`
}

var (
	metricPattern    = regexp.MustCompile(`^(\d{3})/(\d{2,3})[R-]?(\d{2})$`)
	flotationPattern = regexp.MustCompile(`^(\d{2,3}(?:\.\d)?)X(\d{1,2}(?:\.\d{1,2})?)[R-]?(\d{2})$`)
)

// ParseTireSize parses a raw tire-size string in metric (225/45R17) or
// flotation (31X10.5R15) notation. Input is normalized by upper-casing and
// stripping all whitespace before matching. Returns nil for anything that
// matches neither grammar; unparsable input is an expected condition for the
// caller, not a failure.
func ParseTireSize(raw string) *ParsedSize {
	s := normalizeSize(raw)

	if m := metricPattern.FindStringSubmatch(s); m != nil {
		width, _ := strconv.Atoi(m[1])
		aspect, _ := strconv.Atoi(m[2])
		rim, _ := strconv.Atoi(m[3])
		return &ParsedSize{
			Notation:       NotationMetric,
			SectionWidthMM: width,
			AspectRatioPct: aspect,
			RimDiameterIn:  rim,
		}
	}

	if m := flotationPattern.FindStringSubmatch(s); m != nil {
		overall, _ := strconv.ParseFloat(m[1], 64)
		width, _ := strconv.ParseFloat(m[2], 64)
		rim, _ := strconv.Atoi(m[3])
		return &ParsedSize{
			Notation:          NotationFlotation,
			OverallDiameterIn: overall,
			SectionWidthIn:    width,
			RimDiameterIn:     rim,
		}
	}

	return nil
}

// normalizeSize upper-cases the input and removes every whitespace rune,
// so "225 / 45 r 17" and "225/45R17" parse identically.
func normalizeSize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, raw)
}

// String renders the size in its canonical notation.
func (p ParsedSize) String() string {
	switch p.Notation {
	case NotationMetric:
		return strconv.Itoa(p.SectionWidthMM) + "/" + strconv.Itoa(p.AspectRatioPct) + "R" + strconv.Itoa(p.RimDiameterIn)
	case NotationFlotation:
		return strconv.FormatFloat(p.OverallDiameterIn, 'f', -1, 64) + "X" +
			strconv.FormatFloat(p.SectionWidthIn, 'f', -1, 64) + "R" + strconv.Itoa(p.RimDiameterIn)
	default:
		return ""
	}
}
