package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStore_Get(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT value FROM preferences WHERE key = ?`)

	tests := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantValue string
		wantFound bool
		wantErr   bool
	}{
		{
			name: "existing key",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("k").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))
			},
			wantValue: "v",
			wantFound: true,
		},
		{
			name: "missing key",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("k").
					WillReturnRows(sqlmock.NewRows([]string{"value"}))
			},
		},
		{
			name: "driver failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("k").WillReturnError(errors.New("disk I/O error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			value, found, err := s.Get(context.Background(), "k")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantFound, found)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_SetAndDelete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO preferences(key, value, updated_at)`)).
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM preferences WHERE key = ?`)).
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Set(context.Background(), "k", "v"))
	require.NoError(t, s.Delete(context.Background(), "k"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO preferences`)).
		WillReturnError(errors.New("database is locked"))

	err := s.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestOpen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "local.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	_, found, err := s.Get(ctx, "caloriespot_daily_goal")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "caloriespot_daily_goal", `{"goal":2500}`))
	require.NoError(t, s.Set(ctx, "caloriespot_daily_goal", `{"goal":3000}`))

	value, found, err := s.Get(ctx, "caloriespot_daily_goal")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"goal":3000}`, value)

	require.NoError(t, s.Delete(ctx, "caloriespot_daily_goal"))
	_, found, err = s.Get(ctx, "caloriespot_daily_goal")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "caloriespot_lead_submitted", "true"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	value, found, err := s.Get(ctx, "caloriespot_lead_submitted")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", value)
}
