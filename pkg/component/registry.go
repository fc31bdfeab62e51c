package component

import "strings"

// Registry holds an ordered, immutable set of classes, matched by prefix
// in order: the first class whose prefix is a case-insensitive prefix of
// the candidate name wins.
type Registry struct {
	classes []Class
}

func NewRegistry(classes ...Class) Registry { return Registry{classes: classes} }

// DefaultRegistry returns the built-in component table: resistor,
// independent V-source, independent I-source.
func DefaultRegistry() Registry {
	return NewRegistry(ResistorClass{}, VoltageSourceClass{}, CurrentSourceClass{})
}

// FindByPrefix returns the first class whose prefix is a case-insensitive
// prefix of name.
func (r Registry) FindByPrefix(name string) (Class, bool) {
	lower := strings.ToLower(name)
	for _, c := range r.classes {
		if strings.HasPrefix(lower, strings.ToLower(c.Prefix())) {
			return c, true
		}
	}
	return nil, false
}
