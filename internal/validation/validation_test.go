package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estateBack/internal/models"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestSavedSearchCreateAcceptsValidBody(t *testing.T) {
	v := newValidator(t)
	body := `{
		"search_name": "Cairo flats",
		"search_criteria": {
			"city": "Cairo",
			"min_price": 1000,
			"max_price": 5000,
			"is_furnished": false,
			"features": ["pool", "gym"],
			"date_posted_from": "2024-01-01",
			"availability_date_to": "2024-06-01T00:00:00Z",
			"sort_by_date": "oldest_first"
		},
		"email_alerts": true
	}`
	assert.NoError(t, v.Validate(SavedSearchCreate, []byte(body)))
}

func TestSavedSearchCreateRequiresCriteria(t *testing.T) {
	v := newValidator(t)
	fields := fieldErrors(t, v.Validate(SavedSearchCreate, []byte(`{"search_name":"x"}`)))
	assert.Contains(t, fields, "search_criteria")
}

func TestSavedSearchCreateAcceptsEmptyCriteria(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Validate(SavedSearchCreate, []byte(`{"search_criteria":{}}`)))
}

func TestCriteriaTypeErrors(t *testing.T) {
	v := newValidator(t)
	body := `{"search_criteria":{"min_price":"cheap","listing_type":"lease","features":"pool","date_posted_to":"yesterday"}}`
	fields := fieldErrors(t, v.Validate(SavedSearchCreate, []byte(body)))

	assert.Contains(t, fields, "search_criteria.min_price")
	assert.Contains(t, fields, "search_criteria.listing_type")
	assert.Contains(t, fields, "search_criteria.features")
	assert.Contains(t, fields, "search_criteria.date_posted_to")
}

func TestCriteriaRejectsUnknownFields(t *testing.T) {
	v := newValidator(t)
	err := v.Validate(Criteria, []byte(`{"minPrice": 5}`))
	require.Error(t, err)
}

func TestInvertedRangeIsNotAValidationError(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Validate(Criteria, []byte(`{"min_price": 5000, "max_price": 1000}`)))
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	v := newValidator(t)
	fields := fieldErrors(t, v.Validate(Review, []byte(`{"rating":`)))
	assert.Equal(t, "must be valid JSON", fields["body"])

	fields = fieldErrors(t, v.Validate(Review, []byte(`[1,2]`)))
	assert.Equal(t, "must be a JSON object", fields["body"])
}

func TestReviewRatingBounds(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Validate(Review, []byte(`{"rating":5,"comment":"great"}`)))
	fields := fieldErrors(t, v.Validate(Review, []byte(`{"rating":6}`)))
	assert.Contains(t, fields, "rating")
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	v := newValidator(t)
	fields := fieldErrors(t, v.Validate(Register, []byte(`{"name":"a","email":"a@b.c","password":"secret1","role":"admin"}`)))
	assert.Contains(t, fields, "role")
}

func TestUnknownSchema(t *testing.T) {
	v := newValidator(t)
	err := v.Validate("nope", []byte(`{}`))
	require.Error(t, err)
	var verr *models.ValidationError
	assert.False(t, errors.As(err, &verr))
}
