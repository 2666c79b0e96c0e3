package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d.Time)

	d, err = ParseDate("2024-01-15T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), d.Time)

	d, err = ParseDate("2024-01-15t10:30:00z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), d.Time)

	d, err = ParseDate(" 2024-01-15t10:30:00+02:00 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), d.Time)

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestNormalizeFeatures(t *testing.T) {
	assert.Equal(t, []string{"gym", "pool", "Gym"}, NormalizeFeatures([]string{" gym ", "pool", "", "gym", "Gym", "  "}))
	assert.Nil(t, NormalizeFeatures([]string{" ", ""}))
	assert.Nil(t, NormalizeFeatures(nil))
}

func TestCriteriaDecodeKeepsPresence(t *testing.T) {
	var c Criteria
	body := `{"city":"Cairo","is_furnished":false,"bedrooms":0,"date_posted_from":"2024-01-01","sort_by_date":"oldest_first"}`
	require.NoError(t, json.Unmarshal([]byte(body), &c))

	require.NotNil(t, c.IsFurnished)
	assert.False(t, *c.IsFurnished)
	require.NotNil(t, c.Bedrooms)
	assert.Equal(t, 0, *c.Bedrooms)
	require.NotNil(t, c.DatePostedFrom)
	assert.Nil(t, c.MinPrice)
	assert.Equal(t, SortOldestFirst, c.SortOrder)
}

func TestCriteriaNormalized(t *testing.T) {
	city := "  Cairo "
	blank := "  "
	c := Criteria{City: &city, Town: &blank, Features: []string{" gym", "", "gym", "pool"}, SortOrder: "sideways"}

	n := c.Normalized()
	require.NotNil(t, n.City)
	assert.Equal(t, "Cairo", *n.City)
	assert.Nil(t, n.Town)
	assert.Equal(t, []string{"gym", "pool"}, n.Features)
	assert.Equal(t, SortNewestFirst, n.SortOrder)

	// The receiver is untouched.
	assert.Equal(t, "  Cairo ", *c.City)
}

func TestSavedSearchWireNames(t *testing.T) {
	s := SavedSearch{ID: "01HZ", UserID: 7, Name: "Flats", EmailAlerts: true, IsActive: true}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, key := range []string{"id", "user_id", "search_name", "search_criteria", "email_alerts", "results_count", "is_active"} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "last_executed")
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("price", "must be greater than 0")
	verr.Add("price", "ignored")
	verr.Add("city", "is required")
	require.Error(t, verr.OrNil())
	assert.Equal(t, "validation failed: city: is required; price: must be greater than 0", verr.Error())
}
