package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"estateBack/internal/models"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	publicMiddleware := standardMiddleware.Append(app.rateLimit)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""), app.rateLimit)
	ownerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleOwner), app.rateLimit)
	ownerWriteMiddleware := ownerMiddleware.Append(app.limitApartmentWrites)
	bookMiddleware := authMiddleware.Append(app.limitApartmentWrites)

	mux := pat.New()

	mux.Get("/health", standardMiddleware.ThenFunc(app.health))

	// Users
	mux.Post("/api/users/register", publicMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/api/users/login", publicMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/api/users/profile", authMiddleware.ThenFunc(app.userHandler.Profile))
	mux.Get("/api/users/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))

	// Apartments
	mux.Get("/api/apartments", publicMiddleware.ThenFunc(app.apartmentHandler.GetApartments))
	mux.Get("/api/apartments/my", authMiddleware.ThenFunc(app.apartmentHandler.GetMyApartments))
	mux.Get("/api/apartments/:id", publicMiddleware.ThenFunc(app.apartmentHandler.GetApartmentByID))
	mux.Post("/api/apartments", ownerWriteMiddleware.ThenFunc(app.apartmentHandler.CreateApartment))
	mux.Post("/api/apartments/:id/book", bookMiddleware.ThenFunc(app.apartmentHandler.BookApartment))
	mux.Put("/api/apartments/:id", ownerWriteMiddleware.ThenFunc(app.apartmentHandler.UpdateApartment))
	mux.Del("/api/apartments/:id", ownerMiddleware.ThenFunc(app.apartmentHandler.DeleteApartment))

	// Reviews
	mux.Post("/api/reviews/:apartment_id", authMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/api/reviews/:apartment_id", publicMiddleware.ThenFunc(app.reviewHandler.GetApartmentReviews))
	mux.Put("/api/reviews/:id", authMiddleware.ThenFunc(app.reviewHandler.UpdateReview))
	mux.Del("/api/reviews/:id", authMiddleware.ThenFunc(app.reviewHandler.DeleteReview))

	// Saved searches
	mux.Post("/api/saved-searches", authMiddleware.ThenFunc(app.savedSearchHandler.CreateSavedSearch))
	mux.Get("/api/saved-searches", authMiddleware.ThenFunc(app.savedSearchHandler.GetSavedSearches))
	mux.Post("/api/saved-searches/:id/execute", authMiddleware.ThenFunc(app.savedSearchHandler.ExecuteSavedSearch))
	mux.Get("/api/saved-searches/:id", authMiddleware.ThenFunc(app.savedSearchHandler.GetSavedSearch))
	mux.Put("/api/saved-searches/:id", authMiddleware.ThenFunc(app.savedSearchHandler.UpdateSavedSearch))
	mux.Del("/api/saved-searches/:id", authMiddleware.ThenFunc(app.savedSearchHandler.DeleteSavedSearch))

	return mux
}
