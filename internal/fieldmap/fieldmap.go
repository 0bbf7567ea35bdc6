// Package fieldmap holds the declarative table mapping form-field text to profile attributes.
package fieldmap

// Control types accepted by attributes.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypeURL      = "url"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeRadio    = "radio"
	TypeCheckbox = "checkbox"
	TypeFile     = "file"
)

// Attribute is one canonical profile attribute with the patterns that identify it on a form.
type Attribute struct {
	Name         string
	Patterns     []string
	ControlTypes []string
	Priority     int
	// Aliases maps a canonical profile value to the option texts a form may use for it.
	Aliases map[string][]string
}

// Accepts reports whether controlType is one of the attribute's accepted control types.
func (a *Attribute) Accepts(controlType string) bool {
	for _, t := range a.ControlTypes {
		if t == controlType {
			return true
		}
	}
	return false
}

// AliasesFor returns the option texts declared for a canonical value.
func (a *Attribute) AliasesFor(value string) []string {
	out := []string{}
	if aliases, ok := a.Aliases[value]; ok {
		out = append(out, aliases...)
	}
	return out
}

// Table is an ordered, read-only list of attributes.
type Table []Attribute

// Lookup returns the attribute with the given name, or nil.
func (t Table) Lookup(name string) *Attribute {
	for i := range t {
		if t[i].Name == name {
			return &t[i]
		}
	}
	return nil
}

// Names returns attribute names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, a := range t {
		names = append(names, a.Name)
	}
	return names
}

var defaultTable = buildDefault()

// Default returns the built-in mapping table. The returned table is shared and must not be modified.
func Default() Table {
	return defaultTable
}
