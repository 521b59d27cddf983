package locale

import (
	"strconv"
	"strings"
)

// Region codes recognized by the service. Anything else falls back to BR.
const (
	RegionBR     = "BR"
	RegionGlobal = "GLOBAL"
)

// Labels holds the region-specific display strings used by templates and captions
type Labels struct {
	CurrencySymbol string
	Brand          string
}

var labelsByRegion = map[string]Labels{
	RegionBR: {
		CurrencySymbol: "R$",
		Brand:          "THRONECLASH",
	},
	RegionGlobal: {
		CurrencySymbol: "$",
		Brand:          "THRONECLASH GLOBAL",
	},
}

// LabelsFor returns the display labels for a region, defaulting to BR
// for unrecognized region codes
func LabelsFor(region string) Labels {
	if labels, ok := labelsByRegion[region]; ok {
		return labels
	}
	return labelsByRegion[RegionBR]
}

// Normalize uppercases a region code and applies the BR default for empty input
func Normalize(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return RegionBR
	}
	return region
}

// FormatCurrency formats an amount with two fraction digits using the
// region's convention: 1.234,50 for BR, 1,234.50 for everything else.
// The currency symbol is not included; callers prepend it from Labels.
func FormatCurrency(amount float64, region string) string {
	formatted := strconv.FormatFloat(amount, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	intPart, fracPart, _ := strings.Cut(formatted, ".")
	grouped := groupThousands(intPart)

	if region == RegionBR {
		return sign + strings.ReplaceAll(grouped, ",", ".") + "," + fracPart
	}
	return sign + grouped + "." + fracPart
}

// groupThousands inserts a comma every three digits from the right
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
