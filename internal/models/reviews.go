package models

import (
	"time"
)

const (
	MinRating            = 1
	MaxRating            = 5
	MaxReviewCommentSize = 1000
)

type Review struct {
	ID          int        `json:"id"`
	ApartmentID int        `json:"apartment_id"`
	UserID      int        `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	Rating      int        `json:"rating"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type ReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ApartmentReviews struct {
	Count         int      `json:"count"`
	AverageRating float64  `json:"average_rating"`
	Data          []Review `json:"data"`
}
