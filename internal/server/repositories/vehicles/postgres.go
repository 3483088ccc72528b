// Package vehicles persists the parent vehicle entity.
package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/dbx"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts v and fills in the server-generated id and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, v *models.Vehicle) (*models.Vehicle, error) {
	query :=
		`INSERT INTO vehicles (make, model, year, price, mileage, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		v.Make, v.Model, v.Year, v.Price, v.Mileage, v.Description).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

// Update overwrites the editable fields of an existing vehicle. The cover
// image is left alone; it is owned by the gallery reconciliation.
func (r *PostgresRepository) Update(ctx context.Context, v *models.Vehicle) error {
	query :=
		`UPDATE vehicles
		 SET make = $2, model = $3, year = $4, price = $5, mileage = $6, description = $7, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		v.ID, v.Make, v.Model, v.Year, v.Price, v.Mileage, v.Description)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query :=
		`SELECT id, make, model, year, price, mileage, description, cover_image_url, created_at, updated_at
		 FROM vehicles
		 WHERE id = $1
		 `

	v := &models.Vehicle{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Price, &v.Mileage, &v.Description,
		&v.CoverImageURL, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *PostgresRepository) UpdateCoverImage(ctx context.Context, id string, url string) error {
	query := `UPDATE vehicles SET cover_image_url = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
