package models

import (
	"time"
)

type ListingType string

const (
	ListingForRent ListingType = "for_rent"
	ListingForSale ListingType = "for_sale"
	ListingBoth    ListingType = "both"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingForRent, ListingForSale, ListingBoth:
		return true
	}
	return false
}

const (
	ApartmentStatusAvailable = "available"

	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxBedrooms          = 20
	MaxBathrooms         = 10
	MaxFloorNumber       = 200
)

type Booking struct {
	ID          int       `json:"id"`
	ApartmentID int       `json:"apartment_id"`
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ApartmentOwner struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Apartment struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Price            float64        `json:"price"`
	Bedrooms         int            `json:"bedrooms"`
	Bathrooms        int            `json:"bathrooms"`
	SquareFeet       float64        `json:"square_feet"`
	Address          string         `json:"address"`
	City             string         `json:"city"`
	Town             string         `json:"town,omitempty"`
	IsFurnished      bool           `json:"is_furnished"`
	FloorNumber      *int           `json:"floor_number,omitempty"`
	IsFeatured       bool           `json:"is_featured"`
	ListingType      ListingType    `json:"listing_type"`
	AvailabilityDate *time.Time     `json:"availability_date,omitempty"`
	Features         []string       `json:"features"`
	Pictures         []string       `json:"apartment_pics"`
	OwnerID          int            `json:"owner_id"`
	Owner            ApartmentOwner `json:"owner"`
	Status           string         `json:"status"`
	Views            int            `json:"views"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

// ApartmentInput is the body of create and update requests. Nil fields are
// left untouched on update and reported as missing on create.
type ApartmentInput struct {
	Title            *string      `json:"title"`
	Description      *string      `json:"description"`
	Price            *float64     `json:"price"`
	Bedrooms         *int         `json:"bedrooms"`
	Bathrooms        *int         `json:"bathrooms"`
	SquareFeet       *float64     `json:"square_feet"`
	Address          *string      `json:"address"`
	City             *string      `json:"city"`
	Town             *string      `json:"town"`
	IsFurnished      *bool        `json:"is_furnished"`
	FloorNumber      *int         `json:"floor_number"`
	IsFeatured       *bool        `json:"is_featured"`
	ListingType      *ListingType `json:"listing_type"`
	AvailabilityDate *Date        `json:"availability_date"`
	Features         []string     `json:"features"`
	Pictures         []string     `json:"apartment_pics"`
	Status           *string      `json:"status"`
}
