package search

import (
	"strings"
	"time"

	"estateBack/internal/models"
)

// Matches evaluates the query against a single listing in memory. A listing
// with no floor or availability date fails any range on that attribute, the
// same way a NULL column fails a SQL comparison.
func (q Query) Matches(a models.Apartment) bool {
	for _, p := range q.Where {
		if !p.matches(a) {
			return false
		}
	}
	return true
}

func (p Predicate) matches(a models.Apartment) bool {
	attr, ok := attribute(a, p.Field)
	if !ok {
		return false
	}
	switch p.Op {
	case OpContains:
		s, _ := attr.(string)
		needle, _ := p.Value.(string)
		return strings.Contains(strings.ToLower(s), needle)
	case OpEq:
		return equal(attr, p.Value)
	case OpRange:
		if p.Lower != nil {
			c, ok := compare(attr, p.Lower)
			if !ok || c < 0 {
				return false
			}
		}
		if p.Upper != nil {
			c, ok := compare(attr, p.Upper)
			if !ok || c > 0 {
				return false
			}
		}
		return true
	case OpIntersects:
		have, _ := attr.([]string)
		want, _ := p.Value.([]string)
		for _, h := range have {
			for _, w := range want {
				if h == w {
					return true
				}
			}
		}
		return false
	}
	return false
}

// attribute returns the listing value for field, or false when it is NULL.
func attribute(a models.Apartment, field Field) (any, bool) {
	switch field {
	case FieldCity:
		return a.City, true
	case FieldTown:
		return a.Town, true
	case FieldAddress:
		return a.Address, true
	case FieldPrice:
		return a.Price, true
	case FieldBedrooms:
		return float64(a.Bedrooms), true
	case FieldBathrooms:
		return float64(a.Bathrooms), true
	case FieldSquareFeet:
		return a.SquareFeet, true
	case FieldIsFurnished:
		return a.IsFurnished, true
	case FieldListingType:
		return string(a.ListingType), true
	case FieldFeatures:
		return a.Features, true
	case FieldFloorNumber:
		if a.FloorNumber == nil {
			return nil, false
		}
		return float64(*a.FloorNumber), true
	case FieldCreatedAt:
		return a.CreatedAt, true
	case FieldAvailabilityDate:
		if a.AvailabilityDate == nil {
			return nil, false
		}
		return *a.AvailabilityDate, true
	}
	return nil, false
}

func equal(attr, v any) bool {
	switch want := v.(type) {
	case float64:
		got, ok := attr.(float64)
		return ok && got == want
	case bool:
		got, ok := attr.(bool)
		return ok && got == want
	case string:
		got, ok := attr.(string)
		return ok && got == want
	}
	return false
}

// compare orders attr against a bound of the same kind; ok is false when the
// kinds differ.
func compare(attr, bound any) (c int, ok bool) {
	switch b := bound.(type) {
	case float64:
		a, isNum := attr.(float64)
		if !isNum {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}
		return 0, true
	case time.Time:
		a, isTime := attr.(time.Time)
		if !isTime {
			return 0, false
		}
		return a.Compare(b), true
	}
	return 0, false
}
