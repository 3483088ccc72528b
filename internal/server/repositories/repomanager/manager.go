package repomanager

import (
	"context"
	"database/sql"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/dbx"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/repositories/images"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/repositories/vehicles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Vehicles(db dbx.DBTX) vehicles.Repository
	Images(db dbx.DBTX) images.Repository
}
