package config

// Default values for layouts.
const (
	DefaultLayoutName  = "layout"
	DefaultDateLayout  = "20060102"
	FallbackDateLayout = "2006-01-02"
)

// DefaultLayout returns an empty layout with defaults applied.
func DefaultLayout() *Layout {
	return &Layout{
		Name:   DefaultLayoutName,
		Fields: []FieldConfig{},
	}
}

func (l *Layout) applyDefaults() {
	if l.Name == "" {
		l.Name = DefaultLayoutName
	}
	for i := range l.Types {
		if l.Types[i].Type == TypeDate && l.Types[i].Layout == "" {
			l.Types[i].Layout = DefaultDateLayout
		}
	}
}
