package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type SortOrder string

const (
	SortNewestFirst SortOrder = "newest_first"
	SortOldestFirst SortOrder = "oldest_first"
)

const dateOnlyLayout = "2006-01-02"

// Date accepts either an RFC3339 timestamp or a plain YYYY-MM-DD day (UTC midnight).
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date {
	return &Date{Time: t.UTC()}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	// RFC 3339 allows a lowercase "t" separator and "z" offset; Go's layout does not.
	if t, err := time.Parse(time.RFC3339, strings.ToUpper(s)); err == nil {
		return Date{Time: t.UTC()}, nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

// Criteria is the stored filter of a saved search. Every field is optional;
// a nil pointer means "no constraint".
type Criteria struct {
	City                 *string      `json:"city,omitempty"`
	Town                 *string      `json:"town,omitempty"`
	Address              *string      `json:"address,omitempty"`
	MinPrice             *float64     `json:"min_price,omitempty"`
	MaxPrice             *float64     `json:"max_price,omitempty"`
	Bedrooms             *int         `json:"bedrooms,omitempty"`
	Bathrooms            *int         `json:"bathrooms,omitempty"`
	MinSquareFeet        *float64     `json:"min_square_feet,omitempty"`
	MaxSquareFeet        *float64     `json:"max_square_feet,omitempty"`
	IsFurnished          *bool        `json:"is_furnished,omitempty"`
	ListingType          *ListingType `json:"listing_type,omitempty"`
	Features             []string     `json:"features,omitempty"`
	MinFloor             *int         `json:"min_floor,omitempty"`
	MaxFloor             *int         `json:"max_floor,omitempty"`
	DatePostedFrom       *Date        `json:"date_posted_from,omitempty"`
	DatePostedTo         *Date        `json:"date_posted_to,omitempty"`
	AvailabilityDateFrom *Date        `json:"availability_date_from,omitempty"`
	AvailabilityDateTo   *Date        `json:"availability_date_to,omitempty"`
	SortOrder            SortOrder    `json:"sort_by_date,omitempty"`
}

// Normalized returns a copy with blank strings cleared, features trimmed and
// de-duplicated, and an unknown sort order reset to the default.
func (c Criteria) Normalized() Criteria {
	out := c
	out.City = trimmedOrNil(c.City)
	out.Town = trimmedOrNil(c.Town)
	out.Address = trimmedOrNil(c.Address)

	out.Features = NormalizeFeatures(c.Features)

	if out.SortOrder != SortOldestFirst {
		out.SortOrder = SortNewestFirst
	}
	return out
}

// NormalizeFeatures trims feature names, drops blanks and duplicates, and
// keeps the first-seen order. It returns nil when nothing is left.
func NormalizeFeatures(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, f := range in {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type SavedSearch struct {
	ID             string     `json:"id"`
	UserID         int        `json:"user_id"`
	Name           string     `json:"search_name"`
	Criteria       Criteria   `json:"search_criteria"`
	EmailAlerts    bool       `json:"email_alerts"`
	LastExecutedAt *time.Time `json:"last_executed,omitempty"`
	ResultsCount   int        `json:"results_count"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CreateSavedSearchRequest struct {
	Name        string    `json:"search_name"`
	Criteria    *Criteria `json:"search_criteria"`
	EmailAlerts *bool     `json:"email_alerts"`
}

type UpdateSavedSearchRequest struct {
	Name        *string   `json:"search_name"`
	Criteria    *Criteria `json:"search_criteria"`
	EmailAlerts *bool     `json:"email_alerts"`
}

type SavedSearchExecution struct {
	Search  SavedSearch `json:"search"`
	Results []Apartment `json:"results"`
	Count   int         `json:"count"`
}

// SavedSearchAlert is queued for the mailer when a new listing matches a search.
type SavedSearchAlert struct {
	SavedSearchID string    `json:"saved_search_id"`
	UserID        int       `json:"user_id"`
	ApartmentID   int       `json:"apartment_id"`
	MatchedAt     time.Time `json:"matched_at"`
}
