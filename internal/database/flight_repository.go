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

// FlightRepository handles flight catalog database operations
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, from_city, to_city, departure_time, arrival_time, stops, aircraft, is_active, created_at, updated_at`

// FindByID retrieves an active flight with its active fares
func (r *FlightRepository) FindByID(id string) (*models.Flight, error) {
	flight := &models.Flight{}
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE id = $1 AND is_active = true`, flightColumns)

	err := r.db.Get(flight, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	flights := []models.Flight{*flight}
	if err := r.loadFares(flights, false); err != nil {
		return nil, err
	}

	return &flights[0], nil
}

// GetFare retrieves the active fare snapshot for a flight and class.
// Sold-out fares are returned so the verifier can report the remaining
// capacity instead of a not-found.
func (r *FlightRepository) GetFare(flightID string, fareClass models.FareClass) (*models.FlightFare, error) {
	fare := &models.FlightFare{}
	query := `
		SELECT id, flight_id, fare_class, price, seats_available, is_active, created_at, updated_at
		FROM flight_fares
		WHERE flight_id = $1 AND fare_class = $2 AND is_active = true`

	err := r.db.Get(fare, query, flightID, fareClass)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight fare: %w", err)
	}

	return fare, nil
}

// Search retrieves a page of active flights departing on the requested
// date along with the total match count. Fare-level constraints run as
// a prequery against flight_fares; an empty prequery short-circuits to
// an empty page without running the primary query.
func (r *FlightRepository) Search(filters models.FlightSearchFilters, p models.PaginationParams) ([]models.Flight, int, error) {
	dayStart := time.Date(
		filters.DepartureDate.Year(), filters.DepartureDate.Month(), filters.DepartureDate.Day(),
		0, 0, 0, 0, filters.DepartureDate.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	args := []interface{}{
		"%" + strings.TrimSpace(filters.FromCity) + "%",
		"%" + strings.TrimSpace(filters.ToCity) + "%",
		dayStart,
		dayEnd,
	}
	conditions := []string{
		"is_active = true",
		"from_city ILIKE $1",
		"to_city ILIKE $2",
		"departure_time >= $3",
		"departure_time < $4",
	}

	if filters.MaxStops != nil {
		args = append(args, *filters.MaxStops)
		conditions = append(conditions, fmt.Sprintf("stops <= $%d", len(args)))
	}
	if filters.Airline != nil && *filters.Airline != "" {
		args = append(args, "%"+strings.TrimSpace(*filters.Airline)+"%")
		conditions = append(conditions, fmt.Sprintf("airline ILIKE $%d", len(args)))
	}

	if filters.FareClass != nil || filters.MaxPrice != nil {
		flightIDs, err := r.flightIDsWithMatchingFares(filters.FareClass, filters.MaxPrice)
		if err != nil {
			return nil, 0, err
		}
		if len(flightIDs) == 0 {
			return nil, 0, nil
		}
		args = append(args, pq.Array(flightIDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM flights WHERE %s`, where)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count flights: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s FROM flights
		WHERE %s
		ORDER BY departure_time ASC
		LIMIT $%d OFFSET $%d`, flightColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset())

	var flights []models.Flight
	if err := r.db.Select(&flights, pageQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search flights: %w", err)
	}

	if err := r.loadFares(flights, true); err != nil {
		return nil, 0, err
	}

	return flights, total, nil
}

// flightIDsWithMatchingFares returns ids of flights with at least one
// active fare matching the class/price constraints
func (r *FlightRepository) flightIDsWithMatchingFares(fareClass *models.FareClass, maxPrice *float64) ([]string, error) {
	conditions := []string{"is_active = true"}
	args := []interface{}{}

	if fareClass != nil {
		args = append(args, *fareClass)
		conditions = append(conditions, fmt.Sprintf("fare_class = $%d", len(args)))
	}
	if maxPrice != nil {
		args = append(args, *maxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT flight_id
		FROM flight_fares
		WHERE %s`, strings.Join(conditions, " AND "))

	var ids []string
	if err := r.db.Select(&ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to prefilter flights by fare: %w", err)
	}

	return ids, nil
}

// loadFares attaches active fares to the given flights, cheapest first.
// bookableOnly drops sold-out fares, which is what search wants.
func (r *FlightRepository) loadFares(flights []models.Flight, bookableOnly bool) error {
	if len(flights) == 0 {
		return nil
	}

	flightIDs := make([]string, len(flights))
	for i := range flights {
		flightIDs[i] = flights[i].ID.String()
	}

	query := `
		SELECT id, flight_id, fare_class, price, seats_available, is_active, created_at, updated_at
		FROM flight_fares
		WHERE flight_id = ANY($1) AND is_active = true
		ORDER BY price ASC`
	if bookableOnly {
		query = `
		SELECT id, flight_id, fare_class, price, seats_available, is_active, created_at, updated_at
		FROM flight_fares
		WHERE flight_id = ANY($1) AND is_active = true AND seats_available > 0
		ORDER BY price ASC`
	}

	var fares []models.FlightFare
	if err := r.db.Select(&fares, query, pq.Array(flightIDs)); err != nil {
		return fmt.Errorf("failed to load flight fares: %w", err)
	}

	faresByFlight := make(map[string][]models.FlightFare, len(flights))
	for _, fare := range fares {
		key := fare.FlightID.String()
		faresByFlight[key] = append(faresByFlight[key], fare)
	}
	for i := range flights {
		flights[i].Fares = faresByFlight[flights[i].ID.String()]
	}

	return nil
}
