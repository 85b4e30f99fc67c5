package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/services/trips/repository"
)

var tripColumnList = []string{
	"id", "client_id", "driver_id", "origin", "destination", "pickup_date",
	"cargo_details", "reference", "container_number", "expiration_date", "return_place",
	"semi", "notes", "status", "driver_acknowledged", "amount", "version",
	"created_at", "updated_at", "deleted_at",
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	return db, mock
}

func tripRow(id, clientID uuid.UUID, status models.TripStatus, version int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(tripColumnList).AddRow(
		id, clientID, nil, "Rosario", "Buenos Aires", nil,
		"", "", nil, nil, nil,
		"T-100", "", status, false, nil, version,
		now, now, nil,
	)
}

func TestCreateTrip_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	trip := &models.Trip{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		Origin:      "Rosario",
		Destination: "Buenos Aires",
		Semi:        "T-100",
		Status:      models.TripStatusPending,
		Version:     1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trips")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateTrip(context.Background(), trip)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(tripColumnList))

	_, err := repo.GetTripByID(context.Background(), id)
	assert.ErrorIs(t, err, errs.ErrTripNotFound)
}

func TestGetTripByID_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	clientID := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs(id).
		WillReturnRows(tripRow(id, clientID, models.TripStatusPending, 1))

	trip, err := repo.GetTripByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, trip.ID)
	assert.Equal(t, clientID, trip.ClientID)
	assert.Equal(t, models.TripStatusPending, trip.Status)
}

func TestUpdateTripAtomic_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	clientID := uuid.New()
	status := models.TripStatusConfirmed

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET").
		WillReturnRows(tripRow(id, clientID, status, 2))
	mock.ExpectCommit()

	updated, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{Status: &status}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, status, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTripAtomic_WritesHistoryInSameTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	clientID := uuid.New()
	origin := "Cordoba"

	history := &models.TripHistory{
		ID:       uuid.New(),
		TripID:   id,
		EditorID: clientID,
		Details:  "updated origin",
		ChangedFields: []models.FieldChange{
			{Field: "origin", OldValue: "Rosario", NewValue: "Cordoba"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET").
		WillReturnRows(tripRow(id, clientID, models.TripStatusPending, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trip_histories")).
		WithArgs(history.ID, history.TripID, history.EditorID, history.Details, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	_, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{Origin: &origin}, history)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTripAtomic_HistoryFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	origin := "Cordoba"
	history := &models.TripHistory{ID: uuid.New(), TripID: id, EditorID: uuid.New(), Details: "updated origin"}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET").
		WillReturnRows(tripRow(id, uuid.New(), models.TripStatusPending, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO trip_histories")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{Origin: &origin}, history)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTripAtomic_VersionConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	status := models.TripStatusConfirmed

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET").
		WillReturnRows(sqlmock.NewRows(tripColumnList))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{Status: &status}, nil)
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTripAtomic_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	status := models.TripStatusConfirmed

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET").
		WillReturnRows(sqlmock.NewRows(tripColumnList))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{Status: &status}, nil)
	assert.ErrorIs(t, err, errs.ErrTripNotFound)
}

func TestUpdateTripAtomic_ClearContainerNullsFieldGroup(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	clientID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE trips SET (.+)container_number = NULL, expiration_date = NULL, return_place = NULL").
		WillReturnRows(tripRow(id, clientID, models.TripStatusPending, 2))
	mock.ExpectCommit()

	updated, err := repo.UpdateTripAtomic(context.Background(), id, 1, models.TripPatch{ClearContainer: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.ContainerNumber)
	assert.Nil(t, updated.ExpirationDate)
	assert.Nil(t, updated.ReturnPlace)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTripByID_ScansAmount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows(tripColumnList).AddRow(
		id, uuid.New(), nil, "Rosario", "Buenos Aires", nil,
		"", "", nil, nil, nil,
		"T-100", "", models.TripStatusInvoiced, false, []byte("1234.56"), 3,
		now, now, nil,
	)
	mock.ExpectQuery("SELECT (.+) FROM trips").
		WithArgs(id).
		WillReturnRows(rows)

	trip, err := repo.GetTripByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, trip.Amount)
	assert.True(t, trip.Amount.Equal(decimal.RequireFromString("1234.56")))
}

func TestSoftDeleteTrip_VersionConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trips SET deleted_at")).
		WithArgs(id, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.SoftDeleteTrip(context.Background(), id, 1)
	assert.ErrorIs(t, err, errs.ErrConcurrentModification)
}

func TestGetTripHistory_DecodesChangedFields(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	tripID := uuid.New()
	entryID := uuid.New()
	editorID := uuid.New()
	raw := `[{"field":"origin","old_value":"Rosario","new_value":"Cordoba"}]`

	mock.ExpectQuery("SELECT (.+) FROM trip_histories").
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "editor_id", "details", "changed_fields", "created_at"}).
			AddRow(entryID, tripID, editorID, "updated origin", []byte(raw), time.Now()))

	entries, err := repo.GetTripHistory(context.Background(), tripID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].ChangedFields, 1)
	assert.Equal(t, "origin", entries[0].ChangedFields[0].Field)
	assert.Equal(t, "Cordoba", entries[0].ChangedFields[0].NewValue)
}

func TestListTrips_SortWhitelist(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := repository.NewTripRepository(&models.Config{}, db)

	clientID := uuid.New()

	// An unknown sort column falls back to created_at DESC.
	mock.ExpectQuery("SELECT (.+) FROM trips WHERE deleted_at IS NULL AND client_id = (.+) ORDER BY created_at DESC").
		WithArgs(clientID).
		WillReturnRows(sqlmock.NewRows(tripColumnList))

	_, err := repo.ListTrips(context.Background(), models.TripListFilter{
		ClientID: &clientID,
		SortBy:   "amount; DROP TABLE trips",
		SortDir:  "up",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
