package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// HotelRepository handles hotel catalog database operations
type HotelRepository struct {
	db *sqlx.DB
}

// NewHotelRepository creates a new HotelRepository
func NewHotelRepository(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

const hotelColumns = `id, name, description, city, address, star_rating, amenities, images, is_active, created_at, updated_at`

// FindByID retrieves an active hotel with its active rooms and rates
func (r *HotelRepository) FindByID(id string) (*models.Hotel, error) {
	hotel := &models.Hotel{}
	query := fmt.Sprintf(`SELECT %s FROM hotels WHERE id = $1 AND is_active = true`, hotelColumns)

	err := r.db.Get(hotel, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}

	hotels := []models.Hotel{*hotel}
	if err := r.loadRooms(hotels, false); err != nil {
		return nil, err
	}

	return &hotels[0], nil
}

// GetRoom retrieves an active room belonging to the given hotel
func (r *HotelRepository) GetRoom(hotelID, roomID string) (*models.Room, error) {
	room := &models.Room{}
	query := `
		SELECT id, hotel_id, room_type, description, max_guests, is_active, created_at, updated_at
		FROM rooms
		WHERE id = $1 AND hotel_id = $2 AND is_active = true`

	err := r.db.Get(room, query, roomID, hotelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// RoomRatesForStay retrieves the active per-night rates covering
// [checkIn, checkOut), ordered by date. Sold-out nights are included so
// the caller can distinguish calendar gaps from sold-out dates.
func (r *HotelRepository) RoomRatesForStay(roomID string, checkIn, checkOut time.Time) ([]models.RoomRate, error) {
	query := `
		SELECT id, room_id, date, price, available, is_active, created_at, updated_at
		FROM room_rates
		WHERE room_id = $1 AND date >= $2 AND date < $3 AND is_active = true
		ORDER BY date ASC`

	var rates []models.RoomRate
	err := r.db.Select(&rates, query, roomID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("failed to get room rates: %w", err)
	}

	return rates, nil
}

// Search retrieves a page of active hotels matching the filters along
// with the total match count. When price constraints are present the
// room-rate table is prequeried for qualifying hotel ids; an empty
// prequery short-circuits to an empty page without running the primary
// query (also guards against an unconstrained IN () matching everything).
func (r *HotelRepository) Search(filters models.HotelSearchFilters, p models.PaginationParams) ([]models.Hotel, int, error) {
	conditions := []string{"is_active = true"}
	args := []interface{}{}

	if filters.City != "" {
		args = append(args, "%"+strings.TrimSpace(filters.City)+"%")
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if filters.StarRating != nil {
		args = append(args, *filters.StarRating)
		conditions = append(conditions, fmt.Sprintf("star_rating = $%d", len(args)))
	}
	if len(filters.Amenities) > 0 {
		args = append(args, pq.Array(filters.Amenities))
		conditions = append(conditions, fmt.Sprintf("amenities @> $%d", len(args)))
	}

	if filters.MinPrice != nil || filters.MaxPrice != nil {
		hotelIDs, err := r.hotelIDsWithinPrice(filters.MinPrice, filters.MaxPrice)
		if err != nil {
			return nil, 0, err
		}
		if len(hotelIDs) == 0 {
			return nil, 0, nil
		}
		args = append(args, pq.Array(hotelIDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM hotels WHERE %s`, where)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s FROM hotels
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, hotelColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset())

	var hotels []models.Hotel
	if err := r.db.Select(&hotels, pageQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search hotels: %w", err)
	}

	if err := r.loadRooms(hotels, true); err != nil {
		return nil, 0, err
	}

	return hotels, total, nil
}

// hotelIDsWithinPrice returns ids of hotels with at least one active
// room rate inside the price bounds
func (r *HotelRepository) hotelIDsWithinPrice(minPrice, maxPrice *float64) ([]string, error) {
	conditions := []string{"r.is_active = true", "rr.is_active = true"}
	args := []interface{}{}

	if minPrice != nil {
		args = append(args, *minPrice)
		conditions = append(conditions, fmt.Sprintf("rr.price >= $%d", len(args)))
	}
	if maxPrice != nil {
		args = append(args, *maxPrice)
		conditions = append(conditions, fmt.Sprintf("rr.price <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT r.hotel_id
		FROM rooms r
		JOIN room_rates rr ON rr.room_id = r.id
		WHERE %s`, strings.Join(conditions, " AND "))

	var ids []string
	if err := r.db.Select(&ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to prefilter hotels by price: %w", err)
	}

	return ids, nil
}

// loadRooms attaches active rooms and their rates to the given hotels.
// bookableOnly restricts rates to capacity-positive ones, which is what
// search annotation wants; detail lookups keep sold-out nights visible.
func (r *HotelRepository) loadRooms(hotels []models.Hotel, bookableOnly bool) error {
	if len(hotels) == 0 {
		return nil
	}

	hotelIDs := make([]string, len(hotels))
	for i := range hotels {
		hotelIDs[i] = hotels[i].ID.String()
	}

	var rooms []models.Room
	roomQuery := `
		SELECT id, hotel_id, room_type, description, max_guests, is_active, created_at, updated_at
		FROM rooms
		WHERE hotel_id = ANY($1) AND is_active = true
		ORDER BY room_type ASC`
	if err := r.db.Select(&rooms, roomQuery, pq.Array(hotelIDs)); err != nil {
		return fmt.Errorf("failed to load rooms: %w", err)
	}

	if len(rooms) > 0 {
		roomIDs := make([]string, len(rooms))
		for i := range rooms {
			roomIDs[i] = rooms[i].ID.String()
		}

		rateQuery := `
			SELECT id, room_id, date, price, available, is_active, created_at, updated_at
			FROM room_rates
			WHERE room_id = ANY($1) AND is_active = true
			ORDER BY price ASC, date ASC`
		if bookableOnly {
			rateQuery = `
			SELECT id, room_id, date, price, available, is_active, created_at, updated_at
			FROM room_rates
			WHERE room_id = ANY($1) AND is_active = true AND available > 0
			ORDER BY price ASC, date ASC`
		}

		var rates []models.RoomRate
		if err := r.db.Select(&rates, rateQuery, pq.Array(roomIDs)); err != nil {
			return fmt.Errorf("failed to load room rates: %w", err)
		}

		ratesByRoom := make(map[string][]models.RoomRate, len(rooms))
		for _, rate := range rates {
			key := rate.RoomID.String()
			ratesByRoom[key] = append(ratesByRoom[key], rate)
		}
		for i := range rooms {
			rooms[i].Rates = ratesByRoom[rooms[i].ID.String()]
		}
	}

	roomsByHotel := make(map[string][]models.Room, len(hotels))
	for _, room := range rooms {
		key := room.HotelID.String()
		roomsByHotel[key] = append(roomsByHotel[key], room)
	}
	for i := range hotels {
		hotels[i].Rooms = roomsByHotel[hotels[i].ID.String()]
	}

	return nil
}
