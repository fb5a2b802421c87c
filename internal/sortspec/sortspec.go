package sortspec

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator joins attribute tokens in a sort parameter.
const DefaultSeparator = ","

// descMarker prefixes a token that requests descending order.
const descMarker = "-"

// Direction is a sort direction for an attribute or column.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Common configuration and lookup errors.
var (
	ErrUnknownAttribute   = errors.New("unknown sort attribute")
	ErrDuplicateAttribute = errors.New("duplicate sort attribute")
	ErrEmptyAttributeName = errors.New("sort attribute name cannot be empty")
	ErrPartialMapping     = errors.New("sort attribute must define both ascending and descending column mappings")
)

// ColumnOrder pairs a physical sort column with a direction.
type ColumnOrder struct {
	Column    string
	Direction Direction
}

// Attribute defines one sortable attribute: the column mappings applied when
// it is sorted ascending or descending, the direction used when it is first
// toggled, and an optional display label.
//
// An attribute with both mappings empty is shorthand for a single self-mapped
// column and is expanded during New.
type Attribute struct {
	Name    string
	Asc     []ColumnOrder
	Desc    []ColumnOrder
	Default Direction
	Label   string
}

// Entry is one element of a parsed sort order.
type Entry struct {
	Attribute string
	Direction Direction
}

// Options configures a Spec.
type Options struct {
	// Attributes is the whitelist of sortable attributes, in display order.
	Attributes []Attribute

	// Separator joins tokens in the sort parameter. Defaults to ",".
	Separator string

	// MultiSort allows more than one attribute in a sort parameter.
	// When false, parsing stops at the first recognized attribute.
	MultiSort bool

	// DefaultOrder is returned by CurrentOrder when the parameter yields
	// no recognized attributes. Every entry must reference a configured
	// attribute.
	DefaultOrder []Entry
}

// Columns builds shorthand attribute definitions, one self-mapped attribute
// per name.
func Columns(names ...string) []Attribute {
	attrs := make([]Attribute, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, Attribute{Name: name})
	}
	return attrs
}

// Spec is an immutable sort-order parser/encoder. All methods are pure
// functions of their inputs; a Spec is safe for concurrent use after New.
type Spec struct {
	attrs        map[string]Attribute
	names        []string
	separator    string
	multiSort    bool
	defaultOrder []Entry
}

// New validates and normalizes the configured attributes and returns a Spec.
// Shorthand attributes (both mappings empty) expand to a single self-mapped
// column; an attribute with exactly one mapping is rejected.
func New(opts Options) (*Spec, error) {
	s := &Spec{
		attrs:     make(map[string]Attribute, len(opts.Attributes)),
		separator: opts.Separator,
		multiSort: opts.MultiSort,
	}
	if s.separator == "" {
		s.separator = DefaultSeparator
	}

	for _, attr := range opts.Attributes {
		attr.Name = strings.TrimSpace(attr.Name)
		if attr.Name == "" {
			return nil, ErrEmptyAttributeName
		}
		if _, exists := s.attrs[attr.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttribute, attr.Name)
		}

		switch {
		case len(attr.Asc) == 0 && len(attr.Desc) == 0:
			attr.Asc = []ColumnOrder{{Column: attr.Name, Direction: Asc}}
			attr.Desc = []ColumnOrder{{Column: attr.Name, Direction: Desc}}
		case len(attr.Asc) == 0 || len(attr.Desc) == 0:
			return nil, fmt.Errorf("%w: %q", ErrPartialMapping, attr.Name)
		}
		if attr.Default == "" {
			attr.Default = Asc
		}
		if attr.Label == "" {
			attr.Label = attr.Name
		}

		s.attrs[attr.Name] = attr
		s.names = append(s.names, attr.Name)
	}

	for _, e := range opts.DefaultOrder {
		if _, ok := s.attrs[e.Attribute]; !ok {
			return nil, fmt.Errorf("%w: default order references %q", ErrUnknownAttribute, e.Attribute)
		}
		dir := e.Direction
		if dir == "" {
			dir = Asc
		}
		s.defaultOrder = append(s.defaultOrder, Entry{Attribute: e.Attribute, Direction: dir})
	}

	return s, nil
}

// IsSortable reports whether name is a configured attribute.
func (s *Spec) IsSortable(name string) bool {
	_, ok := s.attrs[name]
	return ok
}

// AttributeNames returns the configured attribute names in definition order.
func (s *Spec) AttributeNames() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Attribute returns the normalized definition for name.
func (s *Spec) Attribute(name string) (Attribute, bool) {
	attr, ok := s.attrs[name]
	return attr, ok
}

// CurrentOrder parses a raw sort parameter into an ordered list of
// (attribute, direction) entries.
//
// Unknown tokens are silently dropped: the parameter originates from
// untrusted request input and partial garbage degrades gracefully instead of
// failing the whole page. Duplicate attributes keep their first occurrence.
// With multi-sort disabled only the first recognized attribute is returned.
// An empty result falls back to the configured default order.
func (s *Spec) CurrentOrder(raw string) []Entry {
	var order []Entry
	seen := make(map[string]bool)

	for token := range strings.SplitSeq(raw, s.separator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		dir := Asc
		if strings.HasPrefix(token, descMarker) {
			dir = Desc
			token = strings.TrimSpace(token[len(descMarker):])
		}

		if _, ok := s.attrs[token]; !ok || seen[token] {
			continue
		}
		seen[token] = true

		order = append(order, Entry{Attribute: token, Direction: dir})
		if !s.multiSort {
			break
		}
	}

	if len(order) == 0 && len(s.defaultOrder) > 0 {
		order = make([]Entry, len(s.defaultOrder))
		copy(order, s.defaultOrder)
	}

	return order
}

// ResolveColumns expands an attribute-level order into the ordered physical
// column directions that drive an actual sort. Entry order is preserved, as
// is the configured column order within each attribute. When two attributes
// map the same column, the earlier attribute wins.
func (s *Spec) ResolveColumns(order []Entry) []ColumnOrder {
	var cols []ColumnOrder
	seen := make(map[string]bool)

	for _, e := range order {
		attr, ok := s.attrs[e.Attribute]
		if !ok {
			continue
		}

		mapping := attr.Asc
		if e.Direction == Desc {
			mapping = attr.Desc
		}
		for _, co := range mapping {
			if seen[co.Column] {
				continue
			}
			seen[co.Column] = true
			cols = append(cols, co)
		}
	}

	return cols
}

// Toggle returns the sort parameter that flips the direction of the named
// attribute relative to the current parameter.
//
// If the attribute is currently sorted its direction is flipped and its old
// entry dropped; otherwise its configured default direction applies. With
// multi-sort enabled the toggled attribute is prepended to the remaining
// order, other attributes keeping their directions; with multi-sort disabled
// it becomes the only entry.
func (s *Spec) Toggle(raw, name string) (string, error) {
	attr, ok := s.attrs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}

	dir := attr.Default
	current := s.CurrentOrder(raw)
	rest := make([]Entry, 0, len(current))
	for _, e := range current {
		if e.Attribute == name {
			dir = e.Direction.Flip()
			continue
		}
		rest = append(rest, e)
	}

	next := []Entry{{Attribute: name, Direction: dir}}
	if s.multiSort {
		next = append(next, rest...)
	}

	return s.Encode(next), nil
}

// Encode serializes an order back into parameter form: "-name" for a
// descending entry, entries joined by the separator.
func (s *Spec) Encode(order []Entry) string {
	tokens := make([]string, 0, len(order))
	for _, e := range order {
		if e.Direction == Desc {
			tokens = append(tokens, descMarker+e.Attribute)
			continue
		}
		tokens = append(tokens, e.Attribute)
	}
	return strings.Join(tokens, s.separator)
}
