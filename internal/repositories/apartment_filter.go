package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"estateBack/internal/search"
)

var apartmentColumns = map[search.Field]string{
	search.FieldCity:             "a.city",
	search.FieldTown:             "a.town",
	search.FieldAddress:          "a.address",
	search.FieldPrice:            "a.price",
	search.FieldBedrooms:         "a.bedrooms",
	search.FieldBathrooms:        "a.bathrooms",
	search.FieldSquareFeet:       "a.square_feet",
	search.FieldIsFurnished:      "a.is_furnished",
	search.FieldListingType:      "a.listing_type",
	search.FieldFeatures:         "a.features",
	search.FieldFloorNumber:      "a.floor_number",
	search.FieldCreatedAt:        "a.created_at",
	search.FieldAvailabilityDate: "a.availability_date",
}

// buildApartmentFilter translates a query descriptor into a MySQL condition
// list with positional params and an ORDER BY clause.
func buildApartmentFilter(q search.Query) (conditions []string, params []interface{}, orderBy string, err error) {
	for _, p := range q.Where {
		col, ok := apartmentColumns[p.Field]
		if !ok {
			return nil, nil, "", fmt.Errorf("unsupported search field %q", p.Field)
		}

		switch p.Op {
		case search.OpContains:
			needle, _ := p.Value.(string)
			conditions = append(conditions, "LOWER("+col+") LIKE ?")
			params = append(params, "%"+escapeLike(needle)+"%")
		case search.OpEq:
			conditions = append(conditions, col+" = ?")
			params = append(params, p.Value)
		case search.OpRange:
			if p.Lower != nil {
				conditions = append(conditions, col+" >= ?")
				params = append(params, p.Lower)
			}
			if p.Upper != nil {
				conditions = append(conditions, col+" <= ?")
				params = append(params, p.Upper)
			}
		case search.OpIntersects:
			values, err := json.Marshal(p.Value)
			if err != nil {
				return nil, nil, "", fmt.Errorf("encode %s values: %w", p.Field, err)
			}
			conditions = append(conditions, "JSON_OVERLAPS("+col+", CAST(? AS JSON))")
			params = append(params, string(values))
		default:
			return nil, nil, "", fmt.Errorf("unsupported search op %q", p.Op)
		}
	}

	sortCol, ok := apartmentColumns[q.Sort.Field]
	if !ok {
		sortCol = "a.created_at"
	}
	dir := "ASC"
	if q.Sort.Desc {
		dir = "DESC"
	}
	orderBy = fmt.Sprintf(" ORDER BY %s %s, a.id %s", sortCol, dir, dir)
	return conditions, params, orderBy, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
