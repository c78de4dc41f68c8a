package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneymate_backend/internal/feature/gamification/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Badge{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestBadgeMySQL_CreateAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeMySQL(db)
	ctx := context.Background()

	badge := &entity.Badge{
		UserID:   1,
		Name:     "Streak Master",
		Icon:     "🔥",
		EarnedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, badge))

	exists, err := repo.Exists(ctx, 1, "Streak Master")
	require.NoError(t, err, "failed to check badge")
	assert.True(t, exists, "badge should exist")

	// Other users and other names do not match.
	exists, err = repo.Exists(ctx, 2, "Streak Master")
	require.NoError(t, err)
	assert.False(t, exists, "badge belongs to another user")

	exists, err = repo.Exists(ctx, 1, "Expense Novice")
	require.NoError(t, err)
	assert.False(t, exists, "unearned badge should not exist")
}

func TestBadgeMySQL_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeMySQL(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &entity.Badge{
		UserID: 1, Name: "Level 2 Achieved", Icon: "⚡", EarnedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &entity.Badge{
		UserID: 1, Name: "Expense Novice", Icon: "💸", EarnedAt: now.Add(-time.Hour),
	}))

	badges, err := repo.ListByUser(ctx, 1)

	require.NoError(t, err, "failed to list badges")
	require.Len(t, badges, 2, "badge count does not match")
	// Oldest badge first
	assert.Equal(t, "Expense Novice", badges[0].Name)
	assert.Equal(t, "Level 2 Achieved", badges[1].Name)
}

func TestBadgeMySQL_CountByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeMySQL(db)
	ctx := context.Background()

	count, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count, "new user should have no badges")

	require.NoError(t, repo.Create(ctx, &entity.Badge{
		UserID: 1, Name: "Savings Hero", Icon: "💎", EarnedAt: time.Now(),
	}))
	require.NoError(t, repo.Create(ctx, &entity.Badge{
		UserID: 2, Name: "Savings Hero", Icon: "💎", EarnedAt: time.Now(),
	}))

	count, err = repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "count does not match")
}
