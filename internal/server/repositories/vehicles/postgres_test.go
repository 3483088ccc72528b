package vehicles

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+vehicles\s*\(make,\s*model,\s*year,\s*price,\s*mileage,\s*description\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

func sampleVehicle() *models.Vehicle {
	return &models.Vehicle{Make: "Toyota", Model: "Hilux", Year: 2021, Price: 32000, Mileage: 41000, Description: "4x4"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(insertQ).
		WithArgs("Toyota", "Hilux", 2021, int64(32000), 41000, "4x4").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("v-1", now, now))

	got, err := repo.Create(context.Background(), sampleVehicle())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	want := sampleVehicle()
	want.ID, want.CreatedAt, want.UpdatedAt = "v-1", now, now
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("vehicle mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), sampleVehicle())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const updateQ = `(?s)^UPDATE\s+vehicles\s+SET\s+make\s*=\s*\$2,.*description\s*=\s*\$7,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s*$`

func TestUpdate(t *testing.T) {
	tests := []struct {
		name     string
		result   driverResult
		wantErr  string
		notFound bool
	}{
		{name: "ok", result: driverResult{rows: 1}},
		{name: "missing", result: driverResult{rows: 0}, notFound: true},
		{name: "too many", result: driverResult{rows: 2}, wantErr: "unexpected rows affected: 2"},
		{name: "rows affected error", result: driverResult{err: errors.New("rows-err")}, wantErr: "rows affected error: rows-err"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			v := sampleVehicle()
			v.ID = "v-1"
			mock.ExpectExec(updateQ).
				WithArgs("v-1", "Toyota", "Hilux", 2021, int64(32000), 41000, "4x4").
				WillReturnResult(tt.result.sqlResult())

			err := repo.Update(context.Background(), v)
			switch {
			case tt.notFound:
				if !errors.Is(err, common.ErrorNotFound) {
					t.Fatalf("want ErrorNotFound, got %v", err)
				}
			case tt.wantErr != "":
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("want %q, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestUpdate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateQ).WillReturnError(errors.New("db down"))

	err := repo.Update(context.Background(), &models.Vehicle{ID: "v-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

const selectQ = `(?s)^SELECT\s+id,\s*make,\s*model,.*cover_image_url,\s*created_at,\s*updated_at\s+FROM\s+vehicles\s+WHERE\s+id\s*=\s*\$1\s*$`

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(selectQ).
		WithArgs("v-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "make", "model", "year", "price", "mileage", "description", "cover_image_url", "created_at", "updated_at"}).
			AddRow("v-1", "Toyota", "Hilux", 2021, int64(32000), 41000, "4x4", "http://cdn/x.jpg", now, now))

	got, err := repo.GetByID(context.Background(), "v-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "v-1" || got.CoverImageURL != "http://cdn/x.jpg" || got.Year != 2021 {
		t.Fatalf("unexpected vehicle: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("v-1").WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), "v-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdateCoverImage(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE vehicles SET cover_image_url = \$2, updated_at = now\(\) WHERE id = \$1`
	mock.ExpectExec(q).WithArgs("v-1", "http://cdn/a.jpg").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("gone", "http://cdn/a.jpg").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("v-2", "u").WillReturnError(errors.New("db down"))

	if err := repo.UpdateCoverImage(context.Background(), "v-1", "http://cdn/a.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdateCoverImage(context.Background(), "gone", "http://cdn/a.jpg"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if err := repo.UpdateCoverImage(context.Background(), "v-2", "u"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

type driverResult struct {
	rows int64
	err  error
}

func (d driverResult) sqlResult() driver.Result {
	if d.err != nil {
		return sqlmock.NewErrorResult(d.err)
	}
	return sqlmock.NewResult(0, d.rows)
}
