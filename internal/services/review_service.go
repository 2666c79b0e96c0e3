package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"estateBack/internal/models"
)

type ReviewStore interface {
	CreateReview(ctx context.Context, rev models.Review) (models.Review, error)
	GetReviewsByApartmentID(ctx context.Context, apartmentID int) ([]models.Review, error)
	GetReviewByID(ctx context.Context, id int) (models.Review, error)
	UpdateReview(ctx context.Context, rev models.Review) (models.Review, error)
	DeleteReview(ctx context.Context, id int) error
}

type ApartmentChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type ReviewService struct {
	ReviewsRepo ReviewStore
	Apartments  ApartmentChecker
}

func (s *ReviewService) CreateReview(ctx context.Context, apartmentID, userID int, in models.ReviewInput) (models.Review, error) {
	verr := models.NewValidationError()
	if in.Rating == nil {
		verr.Add("rating", "rating is required")
	}
	rev := models.Review{ApartmentID: apartmentID, UserID: userID}
	applyReviewInput(&rev, in)
	validateReview(rev, verr)
	if err := verr.OrNil(); err != nil {
		return models.Review{}, err
	}

	exists, err := s.Apartments.Exists(ctx, apartmentID)
	if err != nil {
		return models.Review{}, fmt.Errorf("check apartment %d: %w", apartmentID, err)
	}
	if !exists {
		return models.Review{}, models.ErrApartmentNotFound
	}

	return s.ReviewsRepo.CreateReview(ctx, rev)
}

func (s *ReviewService) GetApartmentReviews(ctx context.Context, apartmentID int) (models.ApartmentReviews, error) {
	reviews, err := s.ReviewsRepo.GetReviewsByApartmentID(ctx, apartmentID)
	if err != nil {
		return models.ApartmentReviews{}, err
	}

	out := models.ApartmentReviews{Count: len(reviews), Data: reviews}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		out.AverageRating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}
	return out, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, id, userID int, role string, in models.ReviewInput) (models.Review, error) {
	rev, err := s.ReviewsRepo.GetReviewByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if rev.UserID != userID && role != models.RoleAdmin {
		return models.Review{}, models.ErrForbidden
	}

	applyReviewInput(&rev, in)
	verr := models.NewValidationError()
	validateReview(rev, verr)
	if err := verr.OrNil(); err != nil {
		return models.Review{}, err
	}
	return s.ReviewsRepo.UpdateReview(ctx, rev)
}

func (s *ReviewService) DeleteReview(ctx context.Context, id, userID int, role string) error {
	rev, err := s.ReviewsRepo.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if rev.UserID != userID && role != models.RoleAdmin {
		return models.ErrForbidden
	}
	return s.ReviewsRepo.DeleteReview(ctx, id)
}

func applyReviewInput(rev *models.Review, in models.ReviewInput) {
	if in.Rating != nil {
		rev.Rating = *in.Rating
	}
	if in.Comment != nil {
		rev.Comment = strings.TrimSpace(*in.Comment)
	}
}

func validateReview(rev models.Review, verr *models.ValidationError) {
	if rev.Rating < models.MinRating || rev.Rating > models.MaxRating {
		verr.Add("rating", fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if len([]rune(rev.Comment)) > models.MaxReviewCommentSize {
		verr.Add("comment", fmt.Sprintf("comment cannot exceed %d characters", models.MaxReviewCommentSize))
	}
}
