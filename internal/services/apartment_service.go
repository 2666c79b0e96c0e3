package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

type ApartmentStore interface {
	CreateApartment(ctx context.Context, apt models.Apartment) (models.Apartment, error)
	GetApartmentByID(ctx context.Context, id int) (models.Apartment, error)
	GetApartmentsByOwner(ctx context.Context, ownerID int) ([]models.Apartment, error)
	Search(ctx context.Context, q search.Query) ([]models.Apartment, error)
	UpdateApartment(ctx context.Context, apt models.Apartment) (models.Apartment, error)
	DeleteApartment(ctx context.Context, id int) error
	IncrementViews(ctx context.Context, id int) error
	Book(ctx context.Context, apartmentID, userID int) (models.Booking, error)
}

type ListingNotifier interface {
	NotifyNewListing(ctx context.Context, apt models.Apartment) (int, error)
}

type ApartmentService struct {
	ApartmentRepo ApartmentStore
	Alerts        ListingNotifier
	Logger        *zap.Logger
}

func (s *ApartmentService) CreateApartment(ctx context.Context, ownerID int, role string, in models.ApartmentInput) (models.Apartment, error) {
	if role != models.RoleOwner && role != models.RoleAdmin {
		return models.Apartment{}, models.ErrForbidden
	}

	verr := models.NewValidationError()
	requireApartmentFields(in, verr)

	apt := models.Apartment{
		OwnerID:     ownerID,
		ListingType: models.ListingForRent,
		Status:      models.ApartmentStatusAvailable,
	}
	applyApartmentInput(&apt, in)
	validateApartment(apt, verr)
	if err := verr.OrNil(); err != nil {
		return models.Apartment{}, err
	}

	created, err := s.ApartmentRepo.CreateApartment(ctx, apt)
	if err != nil {
		return models.Apartment{}, fmt.Errorf("create apartment: %w", err)
	}

	if s.Alerts != nil {
		if _, err := s.Alerts.NotifyNewListing(ctx, created); err != nil {
			s.Logger.Warn("saved search alerts failed", zap.Int("apartment_id", created.ID), zap.Error(err))
		}
	}
	return created, nil
}

func (s *ApartmentService) GetApartments(ctx context.Context) ([]models.Apartment, error) {
	return s.ApartmentRepo.Search(ctx, search.Compile(nil))
}

func (s *ApartmentService) GetMyApartments(ctx context.Context, ownerID int) ([]models.Apartment, error) {
	return s.ApartmentRepo.GetApartmentsByOwner(ctx, ownerID)
}

// GetApartment returns one listing and counts the view. The counter is best
// effort; a failed increment is only logged.
func (s *ApartmentService) GetApartment(ctx context.Context, id int) (models.Apartment, error) {
	apt, err := s.ApartmentRepo.GetApartmentByID(ctx, id)
	if err != nil {
		return models.Apartment{}, err
	}
	if err := s.ApartmentRepo.IncrementViews(ctx, id); err != nil {
		s.Logger.Warn("failed to increment apartment views", zap.Int("apartment_id", id), zap.Error(err))
	} else {
		apt.Views++
	}
	return apt, nil
}

func (s *ApartmentService) UpdateApartment(ctx context.Context, id, userID int, role string, in models.ApartmentInput) (models.Apartment, error) {
	apt, err := s.ApartmentRepo.GetApartmentByID(ctx, id)
	if err != nil {
		return models.Apartment{}, err
	}
	if apt.OwnerID != userID && role != models.RoleAdmin {
		return models.Apartment{}, models.ErrForbidden
	}

	applyApartmentInput(&apt, in)
	verr := models.NewValidationError()
	validateApartment(apt, verr)
	if err := verr.OrNil(); err != nil {
		return models.Apartment{}, err
	}

	updated, err := s.ApartmentRepo.UpdateApartment(ctx, apt)
	if err != nil {
		return models.Apartment{}, fmt.Errorf("update apartment %d: %w", id, err)
	}
	return updated, nil
}

func (s *ApartmentService) DeleteApartment(ctx context.Context, id, userID int, role string) error {
	apt, err := s.ApartmentRepo.GetApartmentByID(ctx, id)
	if err != nil {
		return err
	}
	if apt.OwnerID != userID && role != models.RoleAdmin {
		return models.ErrForbidden
	}
	return s.ApartmentRepo.DeleteApartment(ctx, id)
}

// BookApartment records a booking by userID. Only listings whose status is
// available can be booked, and each user books a listing at most once.
func (s *ApartmentService) BookApartment(ctx context.Context, id, userID int) (models.Booking, error) {
	apt, err := s.ApartmentRepo.GetApartmentByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if apt.Status != models.ApartmentStatusAvailable {
		return models.Booking{}, models.ErrNotAvailable
	}

	booking, err := s.ApartmentRepo.Book(ctx, id, userID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyBooked) {
			return models.Booking{}, err
		}
		return models.Booking{}, fmt.Errorf("book apartment %d: %w", id, err)
	}
	s.Logger.Info("apartment booked", zap.Int("apartment_id", id), zap.Int("user_id", userID))
	return booking, nil
}

func requireApartmentFields(in models.ApartmentInput, verr *models.ValidationError) {
	if in.Title == nil {
		verr.Add("title", "title is required")
	}
	if in.Description == nil {
		verr.Add("description", "description is required")
	}
	if in.Price == nil {
		verr.Add("price", "price is required")
	}
	if in.SquareFeet == nil {
		verr.Add("square_feet", "square feet is required")
	}
	if in.Address == nil {
		verr.Add("address", "address is required")
	}
	if in.City == nil {
		verr.Add("city", "city is required")
	}
}

func applyApartmentInput(apt *models.Apartment, in models.ApartmentInput) {
	if in.Title != nil {
		apt.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		apt.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		apt.Price = *in.Price
	}
	if in.Bedrooms != nil {
		apt.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		apt.Bathrooms = *in.Bathrooms
	}
	if in.SquareFeet != nil {
		apt.SquareFeet = *in.SquareFeet
	}
	if in.Address != nil {
		apt.Address = strings.TrimSpace(*in.Address)
	}
	if in.City != nil {
		apt.City = strings.TrimSpace(*in.City)
	}
	if in.Town != nil {
		apt.Town = strings.TrimSpace(*in.Town)
	}
	if in.IsFurnished != nil {
		apt.IsFurnished = *in.IsFurnished
	}
	if in.FloorNumber != nil {
		floor := *in.FloorNumber
		apt.FloorNumber = &floor
	}
	if in.IsFeatured != nil {
		apt.IsFeatured = *in.IsFeatured
	}
	if in.ListingType != nil {
		apt.ListingType = *in.ListingType
	}
	if in.AvailabilityDate != nil {
		t := in.AvailabilityDate.Time.UTC()
		apt.AvailabilityDate = &t
	}
	if in.Features != nil {
		apt.Features = nonEmpty(in.Features)
	}
	if in.Pictures != nil {
		apt.Pictures = nonEmpty(in.Pictures)
	}
	if in.Status != nil {
		apt.Status = *in.Status
	}
}

func validateApartment(apt models.Apartment, verr *models.ValidationError) {
	if apt.Title == "" {
		verr.Add("title", "title is required")
	} else if len([]rune(apt.Title)) > models.MaxTitleLength {
		verr.Add("title", fmt.Sprintf("title cannot exceed %d characters", models.MaxTitleLength))
	}
	if apt.Description == "" {
		verr.Add("description", "description is required")
	} else if len([]rune(apt.Description)) > models.MaxDescriptionLength {
		verr.Add("description", fmt.Sprintf("description cannot exceed %d characters", models.MaxDescriptionLength))
	}
	if apt.Price <= 0 {
		verr.Add("price", "price must be greater than 0")
	}
	if apt.Bedrooms < 0 || apt.Bedrooms > models.MaxBedrooms {
		verr.Add("bedrooms", fmt.Sprintf("bedrooms must be between 0 and %d", models.MaxBedrooms))
	}
	if apt.Bathrooms < 0 || apt.Bathrooms > models.MaxBathrooms {
		verr.Add("bathrooms", fmt.Sprintf("bathrooms must be between 0 and %d", models.MaxBathrooms))
	}
	if apt.SquareFeet <= 0 {
		verr.Add("square_feet", "square feet must be greater than 0")
	}
	if apt.Address == "" {
		verr.Add("address", "address is required")
	}
	if apt.City == "" {
		verr.Add("city", "city is required")
	}
	if apt.FloorNumber != nil && (*apt.FloorNumber < 0 || *apt.FloorNumber > models.MaxFloorNumber) {
		verr.Add("floor_number", fmt.Sprintf("floor number must be between 0 and %d", models.MaxFloorNumber))
	}
	if !apt.ListingType.Valid() {
		verr.Add("listing_type", "listing type must be one of for_rent, for_sale, both")
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

