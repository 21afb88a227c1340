package filter

import "sort"

// AttrType is the type tag a record source declares for one of its attributes.
type AttrType string

const (
	TypeString   AttrType = "string"
	TypeInt      AttrType = "int"
	TypeFloat    AttrType = "float"
	TypeDecimal  AttrType = "decimal"
	TypeBool     AttrType = "bool"
	TypeDate     AttrType = "date"
	TypeDateTime AttrType = "datetime"
)

// Valid reports whether t is a known type tag.
func (t AttrType) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeDecimal, TypeBool, TypeDate, TypeDateTime:
		return true
	}
	return false
}

// DateLike reports whether values of this type can anchor a time series.
func (t AttrType) DateLike() bool {
	return t == TypeDate || t == TypeDateTime
}

// Schema maps attribute names to their declared type.
type Schema map[string]AttrType

// Lookup returns the type of attr and whether the schema declares it.
func (s Schema) Lookup(attr string) (AttrType, bool) {
	t, ok := s[attr]
	return t, ok
}

// DateAttributes returns the date-like attribute names in lexical order.
func (s Schema) DateAttributes() []string {
	out := make([]string, 0, len(s))
	for name, t := range s {
		if t.DateLike() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
