package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

func TestBuildApartmentFilterMatchAll(t *testing.T) {
	conditions, params, orderBy, err := buildApartmentFilter(search.Compile(nil))
	require.NoError(t, err)
	assert.Empty(t, conditions)
	assert.Empty(t, params)
	assert.Equal(t, " ORDER BY a.created_at DESC, a.id DESC", orderBy)
}

func TestBuildApartmentFilterCairoScenario(t *testing.T) {
	city := "Cairo"
	minPrice, maxPrice := 1000.0, 5000.0
	q := search.Compile(&models.Criteria{
		City:      &city,
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Features:  []string{"pool", "gym"},
		SortOrder: models.SortOldestFirst,
	})

	conditions, params, orderBy, err := buildApartmentFilter(q)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"LOWER(a.city) LIKE ?",
		"a.price >= ?",
		"a.price <= ?",
		"JSON_OVERLAPS(a.features, CAST(? AS JSON))",
	}, conditions)
	assert.Equal(t, []interface{}{"%cairo%", 1000.0, 5000.0, `["pool","gym"]`}, params)
	assert.Equal(t, " ORDER BY a.created_at ASC, a.id ASC", orderBy)
}

func TestBuildApartmentFilterSingleBoundAndEquality(t *testing.T) {
	furnished := false
	floor := 3
	from := models.Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	q := search.Compile(&models.Criteria{IsFurnished: &furnished, MaxFloor: &floor, AvailabilityDateFrom: &from})

	conditions, params, _, err := buildApartmentFilter(q)
	require.NoError(t, err)
	assert.Equal(t, "a.is_furnished = ? AND a.floor_number <= ? AND a.availability_date >= ?", strings.Join(conditions, " AND "))
	assert.Equal(t, []interface{}{false, 3.0, from.Time}, params)
}

func TestBuildApartmentFilterEscapesLikeWildcards(t *testing.T) {
	addr := `50%_off\road`
	q := search.Compile(&models.Criteria{Address: &addr})
	_, params, _, err := buildApartmentFilter(q)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%50\%\_off\\road%`}, params)
}

func TestBuildApartmentFilterRejectsUnknownField(t *testing.T) {
	q := search.Query{Where: []search.Predicate{{Field: "owner_password", Op: search.OpEq, Value: "x"}}}
	_, _, _, err := buildApartmentFilter(q)
	assert.Error(t, err)
}
