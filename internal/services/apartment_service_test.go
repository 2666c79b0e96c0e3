package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

type memoryApartments struct {
	rows      map[int]models.Apartment
	nextID    int
	viewsErr  error
	lastQuery search.Query
	bookings  map[[2]int]bool
	bookErr   error
}

func newMemoryApartments(rows ...models.Apartment) *memoryApartments {
	m := &memoryApartments{rows: make(map[int]models.Apartment), nextID: 100}
	for _, r := range rows {
		m.rows[r.ID] = r
	}
	return m
}

func (m *memoryApartments) CreateApartment(_ context.Context, apt models.Apartment) (models.Apartment, error) {
	m.nextID++
	apt.ID = m.nextID
	m.rows[apt.ID] = apt
	return apt, nil
}

func (m *memoryApartments) GetApartmentByID(_ context.Context, id int) (models.Apartment, error) {
	apt, ok := m.rows[id]
	if !ok {
		return models.Apartment{}, models.ErrApartmentNotFound
	}
	return apt, nil
}

func (m *memoryApartments) GetApartmentsByOwner(_ context.Context, ownerID int) ([]models.Apartment, error) {
	var out []models.Apartment
	for _, a := range m.rows {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryApartments) Search(_ context.Context, q search.Query) ([]models.Apartment, error) {
	m.lastQuery = q
	var out []models.Apartment
	for _, a := range m.rows {
		if q.Matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryApartments) UpdateApartment(_ context.Context, apt models.Apartment) (models.Apartment, error) {
	m.rows[apt.ID] = apt
	return apt, nil
}

func (m *memoryApartments) DeleteApartment(_ context.Context, id int) error {
	delete(m.rows, id)
	return nil
}

func (m *memoryApartments) IncrementViews(_ context.Context, id int) error {
	if m.viewsErr != nil {
		return m.viewsErr
	}
	apt := m.rows[id]
	apt.Views++
	m.rows[id] = apt
	return nil
}

func (m *memoryApartments) Book(_ context.Context, apartmentID, userID int) (models.Booking, error) {
	if m.bookErr != nil {
		return models.Booking{}, m.bookErr
	}
	if m.bookings == nil {
		m.bookings = make(map[[2]int]bool)
	}
	key := [2]int{apartmentID, userID}
	if m.bookings[key] {
		return models.Booking{}, models.ErrAlreadyBooked
	}
	m.bookings[key] = true
	return models.Booking{ID: len(m.bookings), ApartmentID: apartmentID, UserID: userID}, nil
}

type countingNotifier struct {
	calls int
	err   error
}

func (n *countingNotifier) NotifyNewListing(context.Context, models.Apartment) (int, error) {
	n.calls++
	return 0, n.err
}

func validInput() models.ApartmentInput {
	title, desc, addr, city := "Sunny flat", "Two rooms", "1 Nile St", "Cairo"
	price, sqft := 2500.0, 80.0
	beds := 2
	return models.ApartmentInput{
		Title: &title, Description: &desc, Address: &addr, City: &city,
		Price: &price, SquareFeet: &sqft, Bedrooms: &beds,
		Features: []string{"gym", " ", ""},
	}
}

func TestCreateApartmentRequiresOwnerRole(t *testing.T) {
	svc := &ApartmentService{ApartmentRepo: newMemoryApartments(), Logger: zap.NewNop()}
	_, err := svc.CreateApartment(context.Background(), 1, models.RoleTenant, validInput())
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreateApartmentValidates(t *testing.T) {
	svc := &ApartmentService{ApartmentRepo: newMemoryApartments(), Logger: zap.NewNop()}
	in := validInput()
	price := -5.0
	beds := 21
	floor := 201
	lt := models.ListingType("lease")
	in.Price, in.Bedrooms, in.FloorNumber, in.ListingType = &price, &beds, &floor, &lt
	in.City = nil

	_, err := svc.CreateApartment(context.Background(), 1, models.RoleOwner, in)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"price", "bedrooms", "floor_number", "listing_type", "city"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestCreateApartmentNotifiesAndIgnoresAlertErrors(t *testing.T) {
	notifier := &countingNotifier{err: errors.New("redis down")}
	svc := &ApartmentService{ApartmentRepo: newMemoryApartments(), Alerts: notifier, Logger: zap.NewNop()}

	apt, err := svc.CreateApartment(context.Background(), 7, models.RoleOwner, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, 7, apt.OwnerID)
	assert.Equal(t, models.ListingForRent, apt.ListingType)
	assert.Equal(t, models.ApartmentStatusAvailable, apt.Status)
	assert.Equal(t, []string{"gym"}, apt.Features)
}

func TestGetApartmentCountsViewBestEffort(t *testing.T) {
	repo := newMemoryApartments(models.Apartment{ID: 1, Views: 4})
	svc := &ApartmentService{ApartmentRepo: repo, Logger: zap.NewNop()}

	apt, err := svc.GetApartment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, apt.Views)

	repo.viewsErr = errors.New("lock wait timeout")
	apt, err = svc.GetApartment(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, apt.Views)

	_, err = svc.GetApartment(context.Background(), 2)
	assert.ErrorIs(t, err, models.ErrApartmentNotFound)
}

func TestUpdateAndDeleteApartmentOwnership(t *testing.T) {
	existing := models.Apartment{ID: 1, OwnerID: 7, Title: "Old", Description: "d", Price: 10, SquareFeet: 10,
		Address: "a", City: "Cairo", ListingType: models.ListingForSale}
	repo := newMemoryApartments(existing)
	svc := &ApartmentService{ApartmentRepo: repo, Logger: zap.NewNop()}
	ctx := context.Background()

	title := "New"
	_, err := svc.UpdateApartment(ctx, 1, 8, models.RoleOwner, models.ApartmentInput{Title: &title})
	assert.ErrorIs(t, err, models.ErrForbidden)

	updated, err := svc.UpdateApartment(ctx, 1, 7, models.RoleOwner, models.ApartmentInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, models.ListingForSale, updated.ListingType)

	_, err = svc.UpdateApartment(ctx, 1, 99, models.RoleAdmin, models.ApartmentInput{Title: &title})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteApartment(ctx, 1, 8, models.RoleTenant), models.ErrForbidden)
	assert.NoError(t, svc.DeleteApartment(ctx, 1, 7, models.RoleOwner))
	assert.ErrorIs(t, svc.DeleteApartment(ctx, 1, 7, models.RoleOwner), models.ErrApartmentNotFound)
}

func TestGetApartmentsIsMatchAll(t *testing.T) {
	repo := newMemoryApartments(models.Apartment{ID: 1}, models.Apartment{ID: 2})
	svc := &ApartmentService{ApartmentRepo: repo, Logger: zap.NewNop()}

	list, err := svc.GetApartments(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, repo.lastQuery.IsMatchAll())
	assert.Equal(t, search.DefaultSort, repo.lastQuery.Sort)
}

func TestBookApartment(t *testing.T) {
	repo := newMemoryApartments(
		models.Apartment{ID: 1, OwnerID: 7, Status: models.ApartmentStatusAvailable},
		models.Apartment{ID: 2, OwnerID: 7, Status: "rented"},
	)
	svc := &ApartmentService{ApartmentRepo: repo, Logger: zap.NewNop()}
	ctx := context.Background()

	booking, err := svc.BookApartment(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, booking.ApartmentID)
	assert.Equal(t, 3, booking.UserID)

	_, err = svc.BookApartment(ctx, 1, 3)
	assert.ErrorIs(t, err, models.ErrAlreadyBooked)

	_, err = svc.BookApartment(ctx, 1, 4)
	assert.NoError(t, err)

	_, err = svc.BookApartment(ctx, 2, 3)
	assert.ErrorIs(t, err, models.ErrNotAvailable)

	_, err = svc.BookApartment(ctx, 99, 3)
	assert.ErrorIs(t, err, models.ErrApartmentNotFound)
}

func TestBookApartmentWrapsStoreErrors(t *testing.T) {
	repo := newMemoryApartments(models.Apartment{ID: 1, Status: models.ApartmentStatusAvailable})
	repo.bookErr = errors.New("deadlock")
	svc := &ApartmentService{ApartmentRepo: repo, Logger: zap.NewNop()}

	_, err := svc.BookApartment(context.Background(), 1, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "book apartment 1")
	assert.NotErrorIs(t, err, models.ErrAlreadyBooked)
}
