package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"estateBack/internal/models"
	"estateBack/internal/search"
)

type ApartmentRepository struct {
	DB *sql.DB
}

const apartmentSelect = `
        SELECT a.id, a.title, a.description, a.price, a.bedrooms, a.bathrooms, a.square_feet,
               a.address, a.city, a.town, a.is_furnished, a.floor_number, a.is_featured,
               a.listing_type, a.availability_date, a.features, a.pictures, a.owner_id,
               a.status, a.views, a.created_at, a.updated_at,
               u.id, u.name, u.email, u.phone
        FROM apartments a
        JOIN users u ON u.id = a.owner_id`

func (r *ApartmentRepository) CreateApartment(ctx context.Context, apt models.Apartment) (models.Apartment, error) {
	features, pictures, err := encodeLists(apt)
	if err != nil {
		return models.Apartment{}, err
	}

	query := `
        INSERT INTO apartments (title, description, price, bedrooms, bathrooms, square_feet,
            address, city, town, is_furnished, floor_number, is_featured, listing_type,
            availability_date, features, pictures, owner_id, status, views, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
    `
	apt.CreatedAt = time.Now().UTC()
	apt.UpdatedAt = &apt.CreatedAt
	result, err := r.DB.ExecContext(ctx, query,
		apt.Title, apt.Description, apt.Price, apt.Bedrooms, apt.Bathrooms, apt.SquareFeet,
		apt.Address, apt.City, apt.Town, apt.IsFurnished, apt.FloorNumber, apt.IsFeatured, apt.ListingType,
		apt.AvailabilityDate, features, pictures, apt.OwnerID, apt.Status, apt.CreatedAt, apt.UpdatedAt,
	)
	if err != nil {
		return models.Apartment{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Apartment{}, err
	}
	apt.ID = int(id)
	apt.Views = 0
	return apt, nil
}

func (r *ApartmentRepository) GetApartmentByID(ctx context.Context, id int) (models.Apartment, error) {
	rows, err := r.DB.QueryContext(ctx, apartmentSelect+` WHERE a.id = ?`, id)
	if err != nil {
		return models.Apartment{}, err
	}
	apartments, err := scanApartments(rows)
	if err != nil {
		return models.Apartment{}, err
	}
	if len(apartments) == 0 {
		return models.Apartment{}, models.ErrApartmentNotFound
	}
	return apartments[0], nil
}

// Search runs a compiled query against the listing table with the owner joined.
func (r *ApartmentRepository) Search(ctx context.Context, q search.Query) ([]models.Apartment, error) {
	return r.list(ctx, q, nil, nil)
}

func (r *ApartmentRepository) GetApartmentsByOwner(ctx context.Context, ownerID int) ([]models.Apartment, error) {
	return r.list(ctx, search.Query{Sort: search.DefaultSort}, []string{"a.owner_id = ?"}, []interface{}{ownerID})
}

func (r *ApartmentRepository) list(ctx context.Context, q search.Query, extra []string, extraParams []interface{}) ([]models.Apartment, error) {
	conditions, params, orderBy, err := buildApartmentFilter(q)
	if err != nil {
		return nil, err
	}
	conditions = append(extra, conditions...)
	params = append(extraParams, params...)

	query := apartmentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += orderBy

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	return scanApartments(rows)
}

func (r *ApartmentRepository) UpdateApartment(ctx context.Context, apt models.Apartment) (models.Apartment, error) {
	features, pictures, err := encodeLists(apt)
	if err != nil {
		return models.Apartment{}, err
	}

	query := `
        UPDATE apartments
        SET title = ?, description = ?, price = ?, bedrooms = ?, bathrooms = ?, square_feet = ?,
            address = ?, city = ?, town = ?, is_furnished = ?, floor_number = ?, is_featured = ?,
            listing_type = ?, availability_date = ?, features = ?, pictures = ?, status = ?, updated_at = ?
        WHERE id = ?
    `
	updatedAt := time.Now().UTC()
	apt.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query,
		apt.Title, apt.Description, apt.Price, apt.Bedrooms, apt.Bathrooms, apt.SquareFeet,
		apt.Address, apt.City, apt.Town, apt.IsFurnished, apt.FloorNumber, apt.IsFeatured,
		apt.ListingType, apt.AvailabilityDate, features, pictures, apt.Status, apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return models.Apartment{}, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Apartment{}, err
	}
	if rowsAffected == 0 {
		return models.Apartment{}, models.ErrApartmentNotFound
	}
	return apt, nil
}

func (r *ApartmentRepository) DeleteApartment(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM apartments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrApartmentNotFound
	}
	return nil
}

func (r *ApartmentRepository) IncrementViews(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE apartments SET views = views + 1 WHERE id = ?`, id)
	return err
}

// Book records that userID booked the listing. The unique key on
// (apartment_id, user_id) turns a repeat booking into ErrAlreadyBooked.
func (r *ApartmentRepository) Book(ctx context.Context, apartmentID, userID int) (models.Booking, error) {
	booking := models.Booking{ApartmentID: apartmentID, UserID: userID, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO apartment_bookings (apartment_id, user_id, created_at) VALUES (?, ?, ?)`,
		apartmentID, userID, booking.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Booking{}, models.ErrAlreadyBooked
		}
		return models.Booking{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Booking{}, err
	}
	booking.ID = int(id)
	return booking, nil
}

func (r *ApartmentRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM apartments WHERE id = ?`, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func encodeLists(apt models.Apartment) (features, pictures []byte, err error) {
	if apt.Features == nil {
		apt.Features = []string{}
	}
	if apt.Pictures == nil {
		apt.Pictures = []string{}
	}
	if features, err = json.Marshal(apt.Features); err != nil {
		return nil, nil, fmt.Errorf("encode features: %w", err)
	}
	if pictures, err = json.Marshal(apt.Pictures); err != nil {
		return nil, nil, fmt.Errorf("encode pictures: %w", err)
	}
	return features, pictures, nil
}

func scanApartments(rows *sql.Rows) ([]models.Apartment, error) {
	defer rows.Close()

	apartments := []models.Apartment{}
	for rows.Next() {
		var (
			apt              models.Apartment
			floor            sql.NullInt64
			availability     sql.NullTime
			features, images []byte
		)
		err := rows.Scan(
			&apt.ID, &apt.Title, &apt.Description, &apt.Price, &apt.Bedrooms, &apt.Bathrooms, &apt.SquareFeet,
			&apt.Address, &apt.City, &apt.Town, &apt.IsFurnished, &floor, &apt.IsFeatured,
			&apt.ListingType, &availability, &features, &images, &apt.OwnerID,
			&apt.Status, &apt.Views, &apt.CreatedAt, &apt.UpdatedAt,
			&apt.Owner.ID, &apt.Owner.Name, &apt.Owner.Email, &apt.Owner.Phone,
		)
		if err != nil {
			return nil, err
		}
		if floor.Valid {
			n := int(floor.Int64)
			apt.FloorNumber = &n
		}
		if availability.Valid {
			t := availability.Time
			apt.AvailabilityDate = &t
		}
		if err := decodeList(features, &apt.Features); err != nil {
			return nil, fmt.Errorf("apartment %d features: %w", apt.ID, err)
		}
		if err := decodeList(images, &apt.Pictures); err != nil {
			return nil, fmt.Errorf("apartment %d pictures: %w", apt.ID, err)
		}
		apartments = append(apartments, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apartments, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}
