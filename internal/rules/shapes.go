package rules

import "regexp"

// Token shapes.
const (
	ShapeGrouped     = "grouped"
	ShapeDecimal     = "decimal"
	ShapeThousands   = "thousands"
	ShapeThree       = "three"
	ShapeFour        = "four"
	ShapeTwo         = "two"
	ShapeDollar      = "dollar"
	ShapePercent     = "percent"
	ShapePercentSign = "percent_sign"
)

var shapes = map[string]*regexp.Regexp{
	ShapeGrouped:     regexp.MustCompile(`\d[\d,]*`),
	ShapeDecimal:     regexp.MustCompile(`[\d,]+\.?\d*`),
	ShapeThousands:   regexp.MustCompile(`\b\d{1,2},\d{3}\b`),
	ShapeThree:       regexp.MustCompile(`\b\d{3}\b`),
	ShapeFour:        regexp.MustCompile(`\b\d{4}\b`),
	ShapeTwo:         regexp.MustCompile(`\b\d{2}\b`),
	ShapeDollar:      regexp.MustCompile(`\$\s*[\d,]+(?:\.\d+)?`),
	ShapePercent:     regexp.MustCompile(`\d+(?:\.\d+)?`),
	ShapePercentSign: regexp.MustCompile(`\d+(?:\.\d+)?\s*%`),
}

// ShapeRegexp returns the token pattern for a shape name, or nil if unknown.
func ShapeRegexp(name string) *regexp.Regexp {
	return shapes[name]
}

// IsPercentShape reports whether tokens of this shape are percentages.
func IsPercentShape(name string) bool {
	return name == ShapePercent || name == ShapePercentSign
}
