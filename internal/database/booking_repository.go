package database

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// BookingRepository handles booking persistence and the capacity
// reservation transactions
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const (
	hotelBookingColumns  = `id, user_id, hotel_id, room_id, check_in_date, check_out_date, guests, guest_details, total_price, special_requests, status, payment_status, created_at, updated_at`
	flightBookingColumns = `id, user_id, flight_id, fare_class, passengers, passenger_details, total_price, status, payment_status, created_at, updated_at`
	trainBookingColumns  = `id, user_id, train_id, class_type, passengers, passenger_details, pnr_number, total_price, status, payment_status, created_at, updated_at`
)

// NightsBetween counts the stay nights in [checkIn, checkOut)
func NightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// ============================================================================
// RESERVATION TRANSACTIONS
// ============================================================================

// CreateHotelBooking reserves one room for every night of the stay and
// persists the booking in a single transaction. The night rows are
// locked, re-verified and decremented before the insert, so concurrent
// bookings racing for the last room serialize here. The price snapshot
// is summed from the locked rows, never from an earlier read.
func (r *BookingRepository) CreateHotelBooking(booking *models.HotelBooking) error {
	nights := NightsBetween(booking.CheckInDate, booking.CheckOutDate)
	if nights <= 0 {
		return fmt.Errorf("invalid stay window: %d nights", nights)
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var rates []struct {
		Price     float64 `db:"price"`
		Available int     `db:"available"`
	}
	err = tx.Select(&rates, `
		SELECT price, available
		FROM room_rates
		WHERE room_id = $1 AND date >= $2 AND date < $3 AND is_active = true
		ORDER BY date ASC
		FOR UPDATE`,
		booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return fmt.Errorf("failed to lock room rates: %w", err)
	}

	if len(rates) < nights {
		return ErrRateCalendarGap
	}

	var total float64
	for _, rate := range rates {
		if rate.Available < 1 {
			return ErrNightUnavailable
		}
		total += rate.Price
	}

	result, err := tx.Exec(`
		UPDATE room_rates
		SET available = available - 1, updated_at = NOW()
		WHERE room_id = $1 AND date >= $2 AND date < $3 AND is_active = true AND available >= 1`,
		booking.RoomID, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return fmt.Errorf("failed to reserve room nights: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read reservation row count: %w", err)
	}
	if int(affected) != len(rates) {
		return ErrNightUnavailable
	}

	booking.TotalPrice = total
	booking.Status = models.BookingStatusPending
	booking.PaymentStatus = models.PaymentStatusPending

	err = tx.QueryRowx(`
		INSERT INTO hotel_bookings (
			user_id, hotel_id, room_id, check_in_date, check_out_date,
			guests, guest_details, total_price, special_requests, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.HotelID, booking.RoomID, booking.CheckInDate, booking.CheckOutDate,
		booking.Guests, booking.GuestDetails, booking.TotalPrice, booking.SpecialRequests,
		booking.Status, booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create hotel booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Type = models.BookingTypeHotel
	return nil
}

// CreateFlightBooking reserves seats and persists the booking in a
// single transaction. The conditional decrement only succeeds while
// enough seats remain, and RETURNING hands back the authoritative unit
// price for the snapshot.
func (r *BookingRepository) CreateFlightBooking(booking *models.FlightBooking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var price float64
	err = tx.Get(&price, `
		UPDATE flight_fares
		SET seats_available = seats_available - $1, updated_at = NOW()
		WHERE flight_id = $2 AND fare_class = $3 AND is_active = true AND seats_available >= $1
		RETURNING price`,
		booking.Passengers, booking.FlightID, booking.FareClass)
	if err != nil {
		if err == sql.ErrNoRows {
			return r.classifySeatFailure(tx,
				`SELECT seats_available FROM flight_fares WHERE flight_id = $1 AND fare_class = $2 AND is_active = true`,
				booking.FlightID.String(), string(booking.FareClass))
		}
		return fmt.Errorf("failed to reserve flight seats: %w", err)
	}

	booking.TotalPrice = price * float64(booking.Passengers)
	booking.Status = models.BookingStatusPending
	booking.PaymentStatus = models.PaymentStatusPending

	err = tx.QueryRowx(`
		INSERT INTO flight_bookings (
			user_id, flight_id, fare_class, passengers, passenger_details,
			total_price, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.FlightID, booking.FareClass, booking.Passengers,
		booking.PassengerDetails, booking.TotalPrice, booking.Status, booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create flight booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.Type = models.BookingTypeFlight
	return nil
}

// CreateTrainBooking reserves seats, persists the booking, assigns a
// unique PNR and confirms the booking, all in one transaction.
func (r *BookingRepository) CreateTrainBooking(booking *models.TrainBooking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var price float64
	err = tx.Get(&price, `
		UPDATE train_classes
		SET seats_available = seats_available - $1, updated_at = NOW()
		WHERE train_id = $2 AND class_type = $3 AND is_active = true AND seats_available >= $1
		RETURNING price`,
		booking.Passengers, booking.TrainID, booking.ClassType)
	if err != nil {
		if err == sql.ErrNoRows {
			return r.classifySeatFailure(tx,
				`SELECT seats_available FROM train_classes WHERE train_id = $1 AND class_type = $2 AND is_active = true`,
				booking.TrainID.String(), string(booking.ClassType))
		}
		return fmt.Errorf("failed to reserve train seats: %w", err)
	}

	booking.TotalPrice = price * float64(booking.Passengers)
	booking.Status = models.BookingStatusPending
	booking.PaymentStatus = models.PaymentStatusPending

	err = tx.QueryRowx(`
		INSERT INTO train_bookings (
			user_id, train_id, class_type, passengers, passenger_details,
			total_price, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.TrainID, booking.ClassType, booking.Passengers,
		booking.PassengerDetails, booking.TotalPrice, booking.Status, booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create train booking: %w", err)
	}

	pnr, err := r.GeneratePNR(tx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE train_bookings
		SET pnr_number = $1, status = $2, updated_at = NOW()
		WHERE id = $3`,
		pnr, models.BookingStatusConfirmed, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to assign PNR: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	booking.PNRNumber = &pnr
	booking.Status = models.BookingStatusConfirmed
	booking.Type = models.BookingTypeTrain
	return nil
}

// classifySeatFailure distinguishes a missing/inactive unit from an
// insufficient-capacity conflict after a conditional decrement matched
// no rows
func (r *BookingRepository) classifySeatFailure(tx *sqlx.Tx, probeQuery, offeringID, unit string) error {
	var remaining int
	err := tx.Get(&remaining, probeQuery, offeringID, unit)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUnitNotFound
		}
		return fmt.Errorf("failed to probe unit capacity: %w", err)
	}
	return &CapacityError{Available: remaining, Unit: unit}
}

// pnrAlphabet is the uniform alphabet for PNR identifiers
const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomPNR draws 10 characters uniformly from pnrAlphabet. Random
// bytes at or above the largest multiple of the alphabet size are
// discarded so the modulo cannot skew the distribution.
func randomPNR() (string, error) {
	const limit = 256 - 256%len(pnrAlphabet)

	pnr := make([]byte, 10)
	buf := make([]byte, 16)
	filled := 0
	for filled < len(pnr) {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			pnr[filled] = pnrAlphabet[int(b)%len(pnrAlphabet)]
			filled++
			if filled == len(pnr) {
				break
			}
		}
	}
	return string(pnr), nil
}

// GeneratePNR generates a 10-character PNR and verifies it is unused,
// regenerating on collision for up to 10 attempts
func (r *BookingRepository) GeneratePNR(tx *sqlx.Tx) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		pnr, err := randomPNR()
		if err != nil {
			return "", err
		}

		var count int
		err = tx.Get(&count, `SELECT COUNT(*) FROM train_bookings WHERE pnr_number = $1`, pnr)
		if err != nil {
			return "", fmt.Errorf("failed to check PNR uniqueness: %w", err)
		}

		if count == 0 {
			return pnr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique PNR after 10 attempts")
}

// ============================================================================
// LOOKUPS
// ============================================================================

// FindHotelBookingByID retrieves a hotel booking by id
func (r *BookingRepository) FindHotelBookingByID(id string) (*models.HotelBooking, error) {
	booking := &models.HotelBooking{}
	query := fmt.Sprintf(`SELECT %s FROM hotel_bookings WHERE id = $1`, hotelBookingColumns)

	err := r.db.Get(booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hotel booking: %w", err)
	}

	booking.Type = models.BookingTypeHotel
	return booking, nil
}

// FindFlightBookingByID retrieves a flight booking by id
func (r *BookingRepository) FindFlightBookingByID(id string) (*models.FlightBooking, error) {
	booking := &models.FlightBooking{}
	query := fmt.Sprintf(`SELECT %s FROM flight_bookings WHERE id = $1`, flightBookingColumns)

	err := r.db.Get(booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight booking: %w", err)
	}

	booking.Type = models.BookingTypeFlight
	return booking, nil
}

// FindTrainBookingByID retrieves a train booking by id
func (r *BookingRepository) FindTrainBookingByID(id string) (*models.TrainBooking, error) {
	booking := &models.TrainBooking{}
	query := fmt.Sprintf(`SELECT %s FROM train_bookings WHERE id = $1`, trainBookingColumns)

	err := r.db.Get(booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get train booking: %w", err)
	}

	booking.Type = models.BookingTypeTrain
	return booking, nil
}

// FindBookingByID probes the three booking tables for an opaque id.
// Returns (nil, nil) when the id is absent everywhere.
func (r *BookingRepository) FindBookingByID(id string) (*models.AnyBooking, error) {
	hotel, err := r.FindHotelBookingByID(id)
	if err != nil {
		return nil, err
	}
	if hotel != nil {
		return &models.AnyBooking{Type: models.BookingTypeHotel, Hotel: hotel}, nil
	}

	flight, err := r.FindFlightBookingByID(id)
	if err != nil {
		return nil, err
	}
	if flight != nil {
		return &models.AnyBooking{Type: models.BookingTypeFlight, Flight: flight}, nil
	}

	train, err := r.FindTrainBookingByID(id)
	if err != nil {
		return nil, err
	}
	if train != nil {
		return &models.AnyBooking{Type: models.BookingTypeTrain, Train: train}, nil
	}

	return nil, nil
}

// ============================================================================
// USER LISTINGS
// ============================================================================

// ListHotelBookingsByUser retrieves a page of a user's hotel bookings,
// newest first, with the total count
func (r *BookingRepository) ListHotelBookingsByUser(userID string, p models.PaginationParams) ([]models.HotelBooking, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM hotel_bookings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count hotel bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM hotel_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, hotelBookingColumns)

	var bookings []models.HotelBooking
	if err := r.db.Select(&bookings, query, userID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list hotel bookings: %w", err)
	}

	for i := range bookings {
		bookings[i].Type = models.BookingTypeHotel
	}
	return bookings, total, nil
}

// ListFlightBookingsByUser retrieves a page of a user's flight
// bookings, newest first, with the total count
func (r *BookingRepository) ListFlightBookingsByUser(userID string, p models.PaginationParams) ([]models.FlightBooking, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM flight_bookings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count flight bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM flight_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, flightBookingColumns)

	var bookings []models.FlightBooking
	if err := r.db.Select(&bookings, query, userID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list flight bookings: %w", err)
	}

	for i := range bookings {
		bookings[i].Type = models.BookingTypeFlight
	}
	return bookings, total, nil
}

// ListTrainBookingsByUser retrieves a page of a user's train bookings,
// newest first, with the total count
func (r *BookingRepository) ListTrainBookingsByUser(userID string, p models.PaginationParams) ([]models.TrainBooking, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM train_bookings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count train bookings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM train_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, trainBookingColumns)

	var bookings []models.TrainBooking
	if err := r.db.Select(&bookings, query, userID, p.Limit, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list train bookings: %w", err)
	}

	for i := range bookings {
		bookings[i].Type = models.BookingTypeTrain
	}
	return bookings, total, nil
}

// ============================================================================
// STATS
// ============================================================================

// ActiveHotelBookingTotals returns the price snapshots of a user's
// most recent non-cancelled hotel bookings, capped at limit rows
func (r *BookingRepository) ActiveHotelBookingTotals(userID string, limit int) ([]float64, error) {
	var totals []float64
	err := r.db.Select(&totals, `
		SELECT total_price FROM hotel_bookings
		WHERE user_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, models.BookingStatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load hotel booking totals: %w", err)
	}
	return totals, nil
}

// ActiveFlightBookingTotals returns the price snapshots of a user's
// most recent non-cancelled flight bookings, capped at limit rows
func (r *BookingRepository) ActiveFlightBookingTotals(userID string, limit int) ([]float64, error) {
	var totals []float64
	err := r.db.Select(&totals, `
		SELECT total_price FROM flight_bookings
		WHERE user_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, models.BookingStatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load flight booking totals: %w", err)
	}
	return totals, nil
}

// ActiveTrainBookingTotals returns the price snapshots of a user's
// most recent non-cancelled train bookings, capped at limit rows
func (r *BookingRepository) ActiveTrainBookingTotals(userID string, limit int) ([]float64, error) {
	var totals []float64
	err := r.db.Select(&totals, `
		SELECT total_price FROM train_bookings
		WHERE user_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT $3`,
		userID, models.BookingStatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load train booking totals: %w", err)
	}
	return totals, nil
}

// ============================================================================
// CANCELLATION
// ============================================================================

// CancelBooking marks the booking cancelled and refunded, and releases
// the reserved capacity back to the inventory, in one transaction.
// Flights/trains get their passenger count back; hotels get one room
// back for every night of the stay. The status update is guarded so
// only one of two racing cancels releases capacity; the loser gets
// ErrAlreadyCancelled.
func (r *BookingRepository) CancelBooking(booking *models.AnyBooking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	switch booking.Type {
	case models.BookingTypeHotel:
		b := booking.Hotel
		result, err := tx.Exec(`
			UPDATE hotel_bookings
			SET status = $1, payment_status = $2, updated_at = NOW()
			WHERE id = $3 AND status != $1`,
			models.BookingStatusCancelled, models.PaymentStatusRefunded, b.ID)
		if err != nil {
			return fmt.Errorf("failed to cancel hotel booking: %w", err)
		}
		if err := cancelApplied(result); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE room_rates
			SET available = available + 1, updated_at = NOW()
			WHERE room_id = $1 AND date >= $2 AND date < $3 AND is_active = true`,
			b.RoomID, b.CheckInDate, b.CheckOutDate)
		if err != nil {
			return fmt.Errorf("failed to release room nights: %w", err)
		}

	case models.BookingTypeFlight:
		b := booking.Flight
		result, err := tx.Exec(`
			UPDATE flight_bookings
			SET status = $1, payment_status = $2, updated_at = NOW()
			WHERE id = $3 AND status != $1`,
			models.BookingStatusCancelled, models.PaymentStatusRefunded, b.ID)
		if err != nil {
			return fmt.Errorf("failed to cancel flight booking: %w", err)
		}
		if err := cancelApplied(result); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE flight_fares
			SET seats_available = seats_available + $1, updated_at = NOW()
			WHERE flight_id = $2 AND fare_class = $3`,
			b.Passengers, b.FlightID, b.FareClass)
		if err != nil {
			return fmt.Errorf("failed to release flight seats: %w", err)
		}

	case models.BookingTypeTrain:
		b := booking.Train
		result, err := tx.Exec(`
			UPDATE train_bookings
			SET status = $1, payment_status = $2, updated_at = NOW()
			WHERE id = $3 AND status != $1`,
			models.BookingStatusCancelled, models.PaymentStatusRefunded, b.ID)
		if err != nil {
			return fmt.Errorf("failed to cancel train booking: %w", err)
		}
		if err := cancelApplied(result); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE train_classes
			SET seats_available = seats_available + $1, updated_at = NOW()
			WHERE train_id = $2 AND class_type = $3`,
			b.Passengers, b.TrainID, b.ClassType)
		if err != nil {
			return fmt.Errorf("failed to release train seats: %w", err)
		}

	default:
		return fmt.Errorf("unknown booking type %q", booking.Type)
	}

	return tx.Commit()
}

// cancelApplied checks the guarded status update matched a row. Zero
// rows means an earlier cancel already took the booking to CANCELLED
// and its capacity was already released.
func cancelApplied(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read cancel row count: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}
