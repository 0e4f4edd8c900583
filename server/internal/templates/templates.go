package templates

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"
)

//go:embed *.html partials/*.html
var FS embed.FS

// Parse returns the parsed templates with custom functions
func Parse() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatCount":    formatCount,
		"formatCost":     formatCost,
		"formatUnitCost": formatUnitCost,
	}

	return template.New("").Funcs(funcMap).ParseFS(FS, "*.html", "partials/*.html")
}

// formatCount renders a numeric quantity with thousand separators.
// Integral values drop the decimals; fractional values keep two.
func formatCount(n float64) string {
	if n != math.Trunc(n) {
		return fmt.Sprintf("%.2f", n)
	}

	str := fmt.Sprintf("%.0f", math.Abs(n))
	var result strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	if n < 0 {
		return "-" + result.String()
	}
	return result.String()
}

func formatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}

// formatUnitCost keeps extra precision for small per-message amounts
func formatUnitCost(cost float64) string {
	return fmt.Sprintf("$%.4f", cost)
}
