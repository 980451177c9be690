// Package layouts holds ready-made variants for the sample files that ship
// with fwf. They double as examples of writing hooks in Go.
package layouts

import (
	"slices"
	"strings"
	"time"

	"github.com/ccollicutt/fwf/pkg/record"
)

// Unparseable birthdays fall back to this date.
var fallbackBirthday = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// HumanFields is the map of the humans sample file.
func HumanFields() *record.FieldMap {
	return record.MustFieldMap(
		record.F("name", 32, 56),
		record.F("sex", 19, 20),
		record.F("birthday", 11, 19),
		record.F("location", 0, 9),
		record.F("state", 9, 11),
		record.F("universe", 56, 68),
		record.F("profession", 68, 81),
	)
}

// Human parses the humans file with no hooks.
func Human() *record.Variant {
	return &record.Variant{Name: "human", Fields: HumanFields()}
}

// EnhancedHuman turns birthday into a date, adds an age field and skips
// humans without a profession.
func EnhancedHuman() *record.Variant {
	return AgeAt(time.Now())
}

// AgeAt is EnhancedHuman with ages computed as of now.
func AgeAt(now time.Time) *record.Variant {
	return &record.Variant{
		Name:      "enhanced-human",
		Fields:    HumanFields(),
		PostParse: enhance(now),
	}
}

func enhance(now time.Time) record.PostParseFunc {
	return func(f *record.Fields) (bool, error) {
		bday, err := time.Parse("20060102", f.Text("birthday"))
		if err != nil {
			bday = fallbackBirthday
		}
		f.Set("birthday", record.Date(bday))
		f.Set("age", record.Int(int64(now.Year()-bday.Year())))

		return f.Text("profession") != "", nil
	}
}

// USOnly is EnhancedHuman restricted to lines starting with "US".
func USOnly() *record.Variant {
	return usOnly(EnhancedHuman())
}

func usOnly(v *record.Variant) *record.Variant {
	v.Name = "us-only"
	v.PreParse = func(line string) (string, bool, error) {
		return line, strings.HasPrefix(line, "US"), nil
	}
	return v
}

// AllCaps is EnhancedHuman with every line upper-cased before slicing.
func AllCaps() *record.Variant {
	return allCaps(EnhancedHuman())
}

func allCaps(v *record.Variant) *record.Variant {
	v.Name = "all-caps"
	v.PreParse = func(line string) (string, bool, error) {
		return strings.ToUpper(line), true, nil
	}
	return v
}

// PROH maps the B3 corporate events file.
func PROH() *record.Variant {
	return &record.Variant{
		Name: "proh",
		Fields: record.MustFieldMap(
			record.F("event_type", 52, 54),
			record.F("asset", 2, 14),
			record.F("distribution_number", 14, 17),
			record.F("value", 77, 95),
			record.F("destination_asset", 113, 125),
			record.F("new_distribution_number", 125, 128),
			record.F("cod_isin_dir", 143, 155),
			record.F("prec_pap_subs", 158, 176),
			record.F("data_lim_subs", 176, 184),
			record.F("payment_date", 184, 192),
			record.F("execution_date", 333, 341),
			record.F("sequence_number", 341, 348),
			record.F("cod_neg", 17, 29),
			record.F("cod_isin_ori", 128, 140),
		),
	}
}

// Builtin is a named variant the CLI can use in place of a layout file.
type Builtin struct {
	Name        string
	Description string
	New         func() *record.Variant
	kinds       map[string]record.Kind
}

// Variant builds a fresh variant.
func (b Builtin) Variant() *record.Variant { return b.New() }

// KindOf reports the kind a field holds after the variant's hooks run.
func (b Builtin) KindOf(field string) record.Kind {
	if k, ok := b.kinds[field]; ok {
		return k
	}
	return record.KindString
}

var enhancedKinds = map[string]record.Kind{
	"birthday": record.KindDate,
	"age":      record.KindNumber,
}

var builtins = []Builtin{
	{Name: "human", Description: "humans sample, plain strings", New: Human},
	{Name: "enhanced-human", Description: "humans sample with dates, age and profession required", New: EnhancedHuman, kinds: enhancedKinds},
	{Name: "us-only", Description: "enhanced humans living in the US", New: USOnly, kinds: enhancedKinds},
	{Name: "all-caps", Description: "enhanced humans, upper-cased", New: AllCaps, kinds: enhancedKinds},
	{Name: "proh", Description: "B3 corporate events (PROH)", New: PROH},
}

// Lookup finds a builtin by name.
func Lookup(name string) (Builtin, bool) {
	i := slices.IndexFunc(builtins, func(b Builtin) bool { return b.Name == name })
	if i < 0 {
		return Builtin{}, false
	}
	return builtins[i], true
}

// All lists the builtins in registration order.
func All() []Builtin {
	return slices.Clone(builtins)
}
