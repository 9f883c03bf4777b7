package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"study-buddy/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB returns a sqlx handle over sqlmock. driverName picks the dialect:
// "sqlmock" behaves like postgres with unbound "?" placeholders.
func setupTestDB(t *testing.T, driverName string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, driverName), mock
}

func TestGamificationRepository_GetMetrics(t *testing.T) {
	ctx := context.Background()
	query := `SELECT user_id, points, current_streak, first_login_completed\s+FROM gamification WHERE user_id = \?`

	t.Run("found", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		repo := NewGamificationRepository(db)

		mock.ExpectQuery(query).WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "points", "current_streak", "first_login_completed"}).
				AddRow("u1", 250, 4, false))

		m, err := repo.GetMetrics(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, &domain.UserMetrics{UserID: "u1", Points: 250, CurrentStreak: 4}, m)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is nil without error", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		repo := NewGamificationRepository(db)

		mock.ExpectQuery(query).WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "points", "current_streak", "first_login_completed"}))

		m, err := repo.GetMetrics(ctx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("db error", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		repo := NewGamificationRepository(db)

		mock.ExpectQuery(query).WithArgs("u1").WillReturnError(errors.New("connection reset"))

		m, err := repo.GetMetrics(ctx, "u1")
		assert.Error(t, err)
		assert.Nil(t, m)
	})
}

func TestGamificationRepository_TopUserIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("limit clause", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		repo := NewGamificationRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id FROM gamification ORDER BY points DESC, user_id ASC LIMIT 10`)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("a").AddRow("b"))

		ids, err := repo.TopUserIDs(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("oracle fetch first", func(t *testing.T) {
		db, mock := setupTestDB(t, "oracle")
		repo := NewGamificationRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY points DESC, user_id ASC FETCH FIRST 10 ROWS ONLY`)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("a"))

		ids, err := repo.TopUserIDs(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids)
	})

	t.Run("non-positive limit skips the query", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		repo := NewGamificationRepository(db)

		ids, err := repo.TopUserIDs(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGamificationRepository_MarkFirstLoginCompleted(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewGamificationRepository(db)

	mock.ExpectExec(`UPDATE gamification SET first_login_completed = TRUE, updated_at = \? WHERE user_id = \?`).
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFirstLoginCompleted(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGamificationRepository_ListUserIDs(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewGamificationRepository(db)

	mock.ExpectQuery(`SELECT user_id FROM gamification ORDER BY user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))

	ids, err := repo.ListUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestBadgeRepository_ListDefinitions(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewBadgeRepository(db)

	mock.ExpectQuery(`SELECT id, name, description, icon, rarity, requirement_type, requirement_value\s+FROM badges`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "icon", "rarity", "requirement_type", "requirement_value"}).
			AddRow("century", "Century", "Earned 100 points", "Star", "common", "points", 100).
			AddRow("mystery", "Mystery", nil, nil, "epic", "phase_of_moon", 3))

	defs, err := repo.ListDefinitions(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, domain.BadgeDefinition{
		ID: "century", Name: "Century", Description: "Earned 100 points", Icon: "Star",
		Rarity: domain.RarityCommon, RequirementType: domain.RequirementPoints, RequirementValue: 100,
	}, defs[0])
	assert.Equal(t, "", defs[1].Description)
	assert.Equal(t, "", defs[1].Icon)
	assert.Equal(t, domain.RequirementType("phase_of_moon"), defs[1].RequirementType)
}

func TestBadgeRepository_EarnedBadgeIDs(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewBadgeRepository(db)

	mock.ExpectQuery(`SELECT badge_id FROM user_badges WHERE user_id = \?`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"badge_id"}).AddRow("century"))

	ids, err := repo.EarnedBadgeIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"century"}, ids)
}

func TestBadgeRepository_GrantBadge(t *testing.T) {
	ctx := context.Background()
	upsert := `INSERT INTO user_badges \(user_id, badge_id, earned_at\) VALUES \(\?, \?, \?\) ON CONFLICT \(user_id, badge_id\) DO NOTHING`

	tests := []struct {
		name        string
		result      sqlmockResult
		wantGranted bool
		wantErr     bool
	}{
		{"new row", sqlmockResult{rows: 1}, true, false},
		{"conflict ignored", sqlmockResult{rows: 0}, false, false},
		{"unique violation", sqlmockResult{err: &pq.Error{Code: "23505"}}, false, false},
		{"other failure", sqlmockResult{err: errors.New("disk full")}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t, "sqlmock")
			repo := NewBadgeRepository(db)

			exp := mock.ExpectExec(upsert).WithArgs("u1", "century", sqlmock.AnyArg())
			if tt.result.err != nil {
				exp.WillReturnError(tt.result.err)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.result.rows))
			}

			granted, err := repo.GrantBadge(ctx, "u1", "century")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantGranted, granted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

type sqlmockResult struct {
	rows int64
	err  error
}

func TestBadgeRepository_GrantBadge_Oracle(t *testing.T) {
	ctx := context.Background()
	insert := `INSERT INTO user_badges \(user_id, badge_id, earned_at\) VALUES \(:arg1, :arg2, :arg3\)$`

	db, mock := setupTestDB(t, "oracle")
	repo := NewBadgeRepository(db)

	mock.ExpectExec(insert).WithArgs("u1", "century", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WithArgs("u1", "century", sqlmock.AnyArg()).WillReturnError(&network.OracleError{ErrCode: 1})

	granted, err := repo.GrantBadge(ctx, "u1", "century")
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = repo.GrantBadge(ctx, "u1", "century")
	require.NoError(t, err)
	assert.False(t, granted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`INSERT INTO notifications \(id, user_id, message, type, data, is_read, created_at\)\s+VALUES \(\?, \?, \?, \?, \?, FALSE, \?\)`).
		WithArgs(sqlmock.AnyArg(), "u1", "hello", domain.NotificationGeneral, "{}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n := &domain.Notification{UserID: "u1", Message: "hello"}
	require.NoError(t, repo.Create(context.Background(), n))

	assert.Len(t, n.ID, 26)
	assert.Equal(t, domain.NotificationGeneral, n.Type)
	assert.WithinDuration(t, time.Now(), n.CreatedAt, 5*time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CreateWithData(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs("fixed-id", "u1", "due", domain.NotificationAssignmentReminder, `{"assignmentId":"a1"}`, sqlmock.AnyArg()).
		WillReturnError(errors.New("insert failed"))

	err := repo.Create(context.Background(), &domain.Notification{
		ID:      "fixed-id",
		UserID:  "u1",
		Message: "due",
		Type:    domain.NotificationAssignmentReminder,
		Data:    map[string]any{"assignmentId": "a1"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_History(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewChatRepository(db)

	mock.ExpectQuery(`SELECT sender, message FROM ai_chats WHERE chat_id = \? ORDER BY created_at ASC`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"sender", "message"}).
			AddRow("user", "What is osmosis?").
			AddRow("ai", "Diffusion of water across a membrane."))

	turns, err := repo.History(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []domain.ChatTurn{
		{Sender: "user", Message: "What is osmosis?"},
		{Sender: "ai", Message: "Diffusion of water across a membrane."},
	}, turns)
}

func TestAssignmentRepository_ListIncomplete(t *testing.T) {
	db, mock := setupTestDB(t, "sqlmock")
	repo := NewAssignmentRepository(db)

	due := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM assignments WHERE is_completed = FALSE ORDER BY due_date`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "due_date", "is_completed"}).
			AddRow("a1", "u1", "Essay", due, false))

	list, err := repo.ListIncomplete(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Assignment{ID: "a1", UserID: "u1", Title: "Essay", DueDate: due}, list[0])
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("commit routes repository calls through the tx", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		tm := NewTransactionManagerAdapter(db)
		repo := NewGamificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE gamification`).WithArgs(sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
			_, isTx := GetExecutor(txCtx, db).(*sqlx.Tx)
			assert.True(t, isTx)
			return repo.MarkFirstLoginCompleted(txCtx, "u1")
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error rolls back", func(t *testing.T) {
		db, mock := setupTestDB(t, "sqlmock")
		tm := NewTransactionManagerAdapter(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := tm.WithTransaction(ctx, func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("executor without tx is the db", func(t *testing.T) {
		db, _ := setupTestDB(t, "sqlmock")
		assert.Same(t, db, GetExecutor(ctx, db))
	})
}
