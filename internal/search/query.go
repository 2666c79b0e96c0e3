// Package search turns saved-search criteria into a backend-agnostic query
// descriptor: a conjunction of typed predicates plus one sort directive.
package search

import (
	"fmt"
	"strings"
)

type Field string

const (
	FieldCity             Field = "city"
	FieldTown             Field = "town"
	FieldAddress          Field = "address"
	FieldPrice            Field = "price"
	FieldBedrooms         Field = "bedrooms"
	FieldBathrooms        Field = "bathrooms"
	FieldSquareFeet       Field = "square_feet"
	FieldIsFurnished      Field = "is_furnished"
	FieldListingType      Field = "listing_type"
	FieldFeatures         Field = "features"
	FieldFloorNumber      Field = "floor_number"
	FieldCreatedAt        Field = "created_at"
	FieldAvailabilityDate Field = "availability_date"
)

type Op string

const (
	// OpContains is a case-insensitive substring match; Value is the lower-cased needle.
	OpContains Op = "contains"
	// OpEq is exact equality on Value.
	OpEq Op = "eq"
	// OpRange bounds the attribute by Lower and/or Upper, both inclusive.
	OpRange Op = "range"
	// OpIntersects requires at least one shared element with Value ([]string).
	OpIntersects Op = "intersects"
)

// Predicate is one condition of the conjunction. Numbers are float64, dates
// are time.Time; a nil Lower or Upper leaves that side unbounded.
type Predicate struct {
	Field Field
	Op    Op
	Value any
	Lower any
	Upper any
}

func (p Predicate) String() string {
	switch p.Op {
	case OpRange:
		return fmt.Sprintf("%s in [%v, %v]", p.Field, boundString(p.Lower), boundString(p.Upper))
	default:
		return fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value)
	}
}

func boundString(v any) string {
	if v == nil {
		return "*"
	}
	return fmt.Sprint(v)
}

type Sort struct {
	Field Field
	Desc  bool
}

type Query struct {
	Where []Predicate
	Sort  Sort
}

// DefaultSort orders by creation time, newest first.
var DefaultSort = Sort{Field: FieldCreatedAt, Desc: true}

// IsMatchAll reports whether the query has no predicates at all.
func (q Query) IsMatchAll() bool {
	return len(q.Where) == 0
}

// Predicate returns the first predicate on field, if any.
func (q Query) Predicate(field Field) (Predicate, bool) {
	for _, p := range q.Where {
		if p.Field == field {
			return p, true
		}
	}
	return Predicate{}, false
}

func (q Query) String() string {
	if q.IsMatchAll() {
		return "match all " + q.Sort.String()
	}
	parts := make([]string, len(q.Where))
	for i, p := range q.Where {
		parts[i] = p.String()
	}
	return strings.Join(parts, " AND ") + " " + q.Sort.String()
}

func (s Sort) String() string {
	if s.Desc {
		return "order by " + string(s.Field) + " desc"
	}
	return "order by " + string(s.Field) + " asc"
}
