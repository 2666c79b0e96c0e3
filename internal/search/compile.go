package search

import (
	"strings"

	"estateBack/internal/models"
)

// Compile maps criteria onto a query. It never fails: every present field
// contributes exactly one predicate and absent fields contribute nothing.
// Inverted ranges are kept as-is and simply match no listing.
func Compile(c *models.Criteria) Query {
	q := Query{Sort: DefaultSort}
	if c == nil {
		return q
	}

	q.addContains(FieldCity, c.City)
	q.addContains(FieldTown, c.Town)
	q.addContains(FieldAddress, c.Address)

	q.addRange(FieldPrice, floatBound(c.MinPrice), floatBound(c.MaxPrice))
	q.addEq(FieldBedrooms, intValue(c.Bedrooms))
	q.addEq(FieldBathrooms, intValue(c.Bathrooms))
	q.addRange(FieldSquareFeet, floatBound(c.MinSquareFeet), floatBound(c.MaxSquareFeet))

	if c.IsFurnished != nil {
		q.addEq(FieldIsFurnished, *c.IsFurnished)
	}
	if c.ListingType != nil && *c.ListingType != "" {
		q.addEq(FieldListingType, string(*c.ListingType))
	}

	if features := models.NormalizeFeatures(c.Features); len(features) > 0 {
		q.Where = append(q.Where, Predicate{Field: FieldFeatures, Op: OpIntersects, Value: features})
	}

	q.addRange(FieldFloorNumber, intBound(c.MinFloor), intBound(c.MaxFloor))
	q.addRange(FieldCreatedAt, dateBound(c.DatePostedFrom), dateBound(c.DatePostedTo))
	q.addRange(FieldAvailabilityDate, dateBound(c.AvailabilityDateFrom), dateBound(c.AvailabilityDateTo))

	if c.SortOrder == models.SortOldestFirst {
		q.Sort.Desc = false
	}
	return q
}

func (q *Query) addContains(field Field, s *string) {
	if s == nil {
		return
	}
	needle := strings.ToLower(strings.TrimSpace(*s))
	if needle == "" {
		return
	}
	q.Where = append(q.Where, Predicate{Field: field, Op: OpContains, Value: needle})
}

func (q *Query) addEq(field Field, v any) {
	if v == nil {
		return
	}
	q.Where = append(q.Where, Predicate{Field: field, Op: OpEq, Value: v})
}

func (q *Query) addRange(field Field, lower, upper any) {
	if lower == nil && upper == nil {
		return
	}
	q.Where = append(q.Where, Predicate{Field: field, Op: OpRange, Lower: lower, Upper: upper})
}

// The helpers below return an untyped nil for absent values so that
// Predicate.Lower/Upper compare equal to nil.

func floatBound(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intBound(v *int) any {
	if v == nil {
		return nil
	}
	return float64(*v)
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return float64(*v)
}

func dateBound(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time.UTC()
}
