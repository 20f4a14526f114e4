// README: Vehicle catalog store backed by PostgreSQL.
package fare

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadCatalog reads pricing overrides from the vehicle_classes table. An
// empty table yields the built-in defaults, so a fresh deployment prices
// correctly without seed data.
func (s *Store) LoadCatalog(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT class, name, base_fare, per_km_rate, per_hour_rate, seat_capacity
		FROM vehicle_classes
		ORDER BY base_fare`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []VehicleClass
	for rows.Next() {
		var v VehicleClass
		if err := rows.Scan(&v.Class, &v.Name, &v.BaseFare, &v.PerKmRate, &v.PerHourRate, &v.SeatCapacity); err != nil {
			return nil, err
		}
		classes = append(classes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(classes) == 0 {
		return DefaultCatalog(), nil
	}
	return NewCatalog(classes), nil
}
