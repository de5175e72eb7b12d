package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventfolio/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		EventID:   "ev-1",
		Email:     "user@example.com",
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WithArgs("ev-1", "user@example.com", ts, ts).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-uuid-1"))
			},
			wantID: "bk-uuid-1",
		},
		{
			name: "foreign key violation maps to event not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrEventNotFound,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewBookingRepository(db)
			b := *booking
			err = repo.Create(ctx, &b)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, b.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "created_at", "updated_at"}).
				AddRow("bk-1", "ev-1", "user@example.com", ts, ts))

		repo := NewBookingRepository(db)
		booking, err := repo.GetByID(ctx, "bk-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", booking.EventID)
		require.Equal(t, "user@example.com", booking.Email)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewBookingRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "created_at", "updated_at"}).
			AddRow("bk-2", "ev-1", "second@example.com", ts.Add(time.Hour), ts.Add(time.Hour)).
			AddRow("bk-1", "ev-1", "first@example.com", ts, ts))

	repo := NewBookingRepository(db)
	bookings, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, "second@example.com", bookings[0].Email)
	require.Equal(t, "first@example.com", bookings[1].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
