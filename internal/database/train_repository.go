package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// TrainRepository handles train catalog database operations
type TrainRepository struct {
	db *sqlx.DB
}

// NewTrainRepository creates a new TrainRepository
func NewTrainRepository(db *sqlx.DB) *TrainRepository {
	return &TrainRepository{db: db}
}

const trainColumns = `id, train_number, train_name, from_city, to_city, departure_time, arrival_time, days_of_week, is_active, created_at, updated_at`

// FindByID retrieves an active train with its active classes
func (r *TrainRepository) FindByID(id string) (*models.Train, error) {
	train := &models.Train{}
	query := fmt.Sprintf(`SELECT %s FROM trains WHERE id = $1 AND is_active = true`, trainColumns)

	err := r.db.Get(train, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}

	trains := []models.Train{*train}
	if err := r.loadClasses(trains, false); err != nil {
		return nil, err
	}

	return &trains[0], nil
}

// GetClass retrieves the active class snapshot for a train and class
// type. Sold-out classes are returned so the verifier can report the
// remaining capacity.
func (r *TrainRepository) GetClass(trainID string, classType models.TrainClassType) (*models.TrainClass, error) {
	class := &models.TrainClass{}
	query := `
		SELECT id, train_id, class_type, price, seats_available, is_active, created_at, updated_at
		FROM train_classes
		WHERE train_id = $1 AND class_type = $2 AND is_active = true`

	err := r.db.Get(class, query, trainID, classType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get train class: %w", err)
	}

	return class, nil
}

// Search retrieves a page of active trains running on the requested
// date's weekday along with the total match count. A class-type filter
// runs as a prequery against train_classes; an empty prequery
// short-circuits to an empty page.
func (r *TrainRepository) Search(filters models.TrainSearchFilters, p models.PaginationParams) ([]models.Train, int, error) {
	dayOfWeek := int(filters.DepartureDate.Weekday())

	args := []interface{}{
		"%" + strings.TrimSpace(filters.FromCity) + "%",
		"%" + strings.TrimSpace(filters.ToCity) + "%",
		dayOfWeek,
	}
	conditions := []string{
		"is_active = true",
		"from_city ILIKE $1",
		"to_city ILIKE $2",
		"$3 = ANY(days_of_week)",
	}

	if filters.ClassType != nil {
		trainIDs, err := r.trainIDsWithOpenClass(*filters.ClassType)
		if err != nil {
			return nil, 0, err
		}
		if len(trainIDs) == 0 {
			return nil, 0, nil
		}
		args = append(args, pq.Array(trainIDs))
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM trains WHERE %s`, where)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count trains: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s FROM trains
		WHERE %s
		ORDER BY departure_time ASC
		LIMIT $%d OFFSET $%d`, trainColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset())

	var trains []models.Train
	if err := r.db.Select(&trains, pageQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search trains: %w", err)
	}

	if err := r.loadClasses(trains, true); err != nil {
		return nil, 0, err
	}

	return trains, total, nil
}

// trainIDsWithOpenClass returns ids of trains with seats left in the
// given class
func (r *TrainRepository) trainIDsWithOpenClass(classType models.TrainClassType) ([]string, error) {
	query := `
		SELECT DISTINCT train_id
		FROM train_classes
		WHERE class_type = $1 AND is_active = true AND seats_available > 0`

	var ids []string
	if err := r.db.Select(&ids, query, classType); err != nil {
		return nil, fmt.Errorf("failed to prefilter trains by class: %w", err)
	}

	return ids, nil
}

// loadClasses attaches active classes to the given trains, cheapest
// first. bookableOnly drops sold-out classes.
func (r *TrainRepository) loadClasses(trains []models.Train, bookableOnly bool) error {
	if len(trains) == 0 {
		return nil
	}

	trainIDs := make([]string, len(trains))
	for i := range trains {
		trainIDs[i] = trains[i].ID.String()
	}

	query := `
		SELECT id, train_id, class_type, price, seats_available, is_active, created_at, updated_at
		FROM train_classes
		WHERE train_id = ANY($1) AND is_active = true
		ORDER BY price ASC`
	if bookableOnly {
		query = `
		SELECT id, train_id, class_type, price, seats_available, is_active, created_at, updated_at
		FROM train_classes
		WHERE train_id = ANY($1) AND is_active = true AND seats_available > 0
		ORDER BY price ASC`
	}

	var classes []models.TrainClass
	if err := r.db.Select(&classes, query, pq.Array(trainIDs)); err != nil {
		return fmt.Errorf("failed to load train classes: %w", err)
	}

	classesByTrain := make(map[string][]models.TrainClass, len(trains))
	for _, class := range classes {
		key := class.TrainID.String()
		classesByTrain[key] = append(classesByTrain[key], class)
	}
	for i := range trains {
		trains[i].Classes = classesByTrain[trains[i].ID.String()]
	}

	return nil
}
