package detector

import (
	"regexp"
	"time"

	"github.com/ccollicutt/fwf/pkg/config"
)

// ValueFormat is a known cell format that maps to a layout type.
type ValueFormat struct {
	Name     string           // Human-readable name
	Pattern  *regexp.Regexp   // Compiled regex (set during init)
	Type     config.FieldType // Type proposed for matching columns
	Layout   string           // Go time layout for date formats
	Examples []string         // Example cells
}

// Match reports whether a trimmed cell has this format.
func (f *ValueFormat) Match(cell string) bool {
	if !f.Pattern.MatchString(cell) {
		return false
	}
	if f.Type == config.TypeDate {
		_, err := time.Parse(f.Layout, cell)
		return err == nil
	}
	return true
}

// DefaultFormats returns the built-in cell formats, most specific first.
func DefaultFormats() []*ValueFormat {
	formats := []*ValueFormat{
		{
			Name:     "compact date",
			Pattern:  regexp.MustCompile(`^\d{8}$`),
			Type:     config.TypeDate,
			Layout:   config.DefaultDateLayout,
			Examples: []string{"19800704", "20030130"},
		},
		{
			Name:     "ISO date",
			Pattern:  regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
			Type:     config.TypeDate,
			Layout:   "2006-01-02",
			Examples: []string{"1980-07-04"},
		},
		{
			Name:     "day/month/year",
			Pattern:  regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
			Type:     config.TypeDate,
			Layout:   "02/01/2006",
			Examples: []string{"04/07/1980"},
		},
		{
			Name:     "number",
			Pattern:  regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`),
			Type:     config.TypeNumber,
			Examples: []string{"42", "-1.50", "000123"},
		},
		{
			Name:     "boolean",
			Pattern:  regexp.MustCompile(`^(?i:true|false)$`),
			Type:     config.TypeBool,
			Examples: []string{"true", "FALSE"},
		},
	}
	return formats
}
