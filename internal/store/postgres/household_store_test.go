package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/hearthledger/budget-backend/errors"
	"github.com/hearthledger/budget-backend/types"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var householdCols = []string{
	"id", "name", "credit_card_overspend_threshold", "auto_create_overspend_project",
	"overspend_week_count", "created_at", "updated_at",
}

var memberCols = []string{"user_id", "name", "email", "role", "income_percentage"}

func TestHouseholdStore_GetHousehold(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("with overrides", func(t *testing.T) {
		mock := createMockPool(t)
		s := NewHouseholdStore(mock)

		weeks := 6
		mock.ExpectQuery("SELECT (.+) FROM households").
			WithArgs("hh-1").
			WillReturnRows(pgxmock.NewRows(householdCols).
				AddRow("hh-1", "Garcia", "750.00", "1500", &weeks, now, now))
		mock.ExpectQuery("SELECT (.+) FROM household_members").
			WithArgs("hh-1").
			WillReturnRows(pgxmock.NewRows(memberCols).
				AddRow("u-owner", "Ana", "ana@example.com", "owner", nil).
				AddRow("u-maria", "Maria", "", "member", "30"))

		h, err := s.GetHousehold(ctx, "hh-1")
		require.NoError(t, err)

		require.NotNil(t, h.Settings.CreditCardOverspendThreshold)
		assert.True(t, h.Settings.CreditCardOverspendThreshold.Equal(decimal.NewFromInt(750)))
		require.NotNil(t, h.Settings.AutoCreateOverspendProject)
		assert.True(t, h.Settings.AutoCreateOverspendProject.Equal(decimal.NewFromInt(1500)))
		require.NotNil(t, h.Settings.OverspendWeekCount)
		assert.Equal(t, 6, *h.Settings.OverspendWeekCount)

		require.Len(t, h.Members, 2)
		assert.Equal(t, types.HouseholdRoleOwner, h.Members[0].Role)
		assert.Nil(t, h.Members[0].IncomePercentage)
		require.NotNil(t, h.Members[1].IncomePercentage)
		assert.True(t, h.Members[1].IncomePercentage.Equal(decimal.NewFromInt(30)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without overrides", func(t *testing.T) {
		mock := createMockPool(t)
		s := NewHouseholdStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM households").
			WithArgs("hh-2").
			WillReturnRows(pgxmock.NewRows(householdCols).
				AddRow("hh-2", "Avis", nil, nil, nil, now, now))
		mock.ExpectQuery("SELECT (.+) FROM household_members").
			WithArgs("hh-2").
			WillReturnRows(pgxmock.NewRows(memberCols))

		h, err := s.GetHousehold(ctx, "hh-2")
		require.NoError(t, err)
		assert.Nil(t, h.Settings.CreditCardOverspendThreshold)
		assert.Nil(t, h.Settings.AutoCreateOverspendProject)
		assert.Nil(t, h.Settings.OverspendWeekCount)
		assert.Empty(t, h.Members)
	})

	t.Run("not found", func(t *testing.T) {
		mock := createMockPool(t)
		s := NewHouseholdStore(mock)

		mock.ExpectQuery("SELECT (.+) FROM households").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		_, err := s.GetHousehold(ctx, "missing")
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.NotFoundError))
	})
}

func TestHouseholdStore_GetMemberRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(mock pgxmock.PgxPoolIface)
		wantRole types.HouseholdRole
		wantErr  bool
		notFound bool
		dbError  bool
	}{
		{
			name: "manager",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT role FROM household_members").
					WithArgs("hh-1", "u-1").
					WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("manager"))
			},
			wantRole: types.HouseholdRoleManager,
		},
		{
			name: "not a member",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT role FROM household_members").
					WithArgs("hh-1", "u-1").
					WillReturnError(pgx.ErrNoRows)
			},
			wantRole: types.HouseholdRoleNone,
			wantErr:  true,
			notFound: true,
		},
		{
			name: "connection failure",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT role FROM household_members").
					WithArgs("hh-1", "u-1").
					WillReturnError(errors.New("connection reset"))
			},
			wantRole: types.HouseholdRoleNone,
			wantErr:  true,
			dbError:  true,
		},
		{
			name: "unknown role in database",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT role FROM household_members").
					WithArgs("hh-1", "u-1").
					WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow("treasurer"))
			},
			wantRole: types.HouseholdRoleNone,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := createMockPool(t)
			tt.setup(mock)

			role, err := NewHouseholdStore(mock).GetMemberRole(ctx, "hh-1", "u-1")
			assert.Equal(t, tt.wantRole, role)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.notFound, apperrors.IsType(err, apperrors.NotFoundError))
				assert.Equal(t, tt.dbError, apperrors.IsType(err, apperrors.DatabaseError))
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
