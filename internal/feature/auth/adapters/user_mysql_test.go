package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneymate_backend/internal/feature/auth/domain/entity"
	"moneymate_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.User{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewUserMySQL(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserMySQL(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserMySQL_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user := &entity.User{
			Name:     "Asha",
			Email:    "test@example.com",
			Password: "hashed_password",
		}

		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user1 := &entity.User{
			Email:    "duplicate@example.com",
			Password: "password1",
		}
		err := repo.Create(context.Background(), user1)
		require.NoError(t, err, "failed to create first user")

		// Create second user with the same email
		user2 := &entity.User{
			Email:    "duplicate@example.com",
			Password: "password2",
		}
		err = repo.Create(context.Background(), user2)

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists, "should return duplicate error")
	})
}

func TestUserMySQL_FindByEmail(t *testing.T) {
	t.Run("find user by email successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		expected := &entity.User{
			Email:    "find@example.com",
			Password: "hashed_password",
		}
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		found, err := repo.FindByEmail(context.Background(), "find@example.com")

		assert.NoError(t, err, "failed to find user")
		assert.NotNil(t, found, "user is nil")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.Email, found.Email, "email does not match")
		assert.Equal(t, expected.Password, found.Password, "password does not match")
	})

	t.Run("user not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		found, err := repo.FindByEmail(context.Background(), "missing@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return not-found error")
		assert.Nil(t, found, "user should be nil")
	})
}

func TestUserMySQL_FindByID(t *testing.T) {
	t.Run("find user by ID successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		expected := &entity.User{
			Email:    "byid@example.com",
			Password: "hashed_password",
			XP:       350,
			Level:    1,
		}
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		found, err := repo.FindByID(context.Background(), expected.ID)

		assert.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.Email, found.Email, "email does not match")
		assert.Equal(t, 350, found.XP, "XP does not match")
	})

	t.Run("user not found", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		found, err := repo.FindByID(context.Background(), 999)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return not-found error")
		assert.Nil(t, found, "user should be nil")
	})
}

func TestUserMySQL_FindByGoogleID(t *testing.T) {
	t.Run("find linked account", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		expected := &entity.User{
			Email:    "linked@example.com",
			Password: "placeholder",
			GoogleID: "sub-12345",
		}
		err := repo.Create(context.Background(), expected)
		require.NoError(t, err, "failed to create test data")

		found, err := repo.FindByGoogleID(context.Background(), "sub-12345")

		assert.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
	})

	t.Run("empty google ID never matches", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		// A password-only account has an empty GoogleID and must not
		// be returned for an empty lookup.
		err := repo.Create(context.Background(), &entity.User{
			Email:    "plain@example.com",
			Password: "hashed_password",
		})
		require.NoError(t, err, "failed to create test data")

		found, err := repo.FindByGoogleID(context.Background(), "")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return not-found error")
		assert.Nil(t, found, "user should be nil")
	})
}

func TestUserMySQL_Save(t *testing.T) {
	t.Run("persists updated fields", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user := &entity.User{
			Email:          "save@example.com",
			Password:       "hashed_password",
			XP:             0,
			Level:          1,
			CurrentBalance: 1000,
		}
		err := repo.Create(context.Background(), user)
		require.NoError(t, err, "failed to create test data")

		now := time.Now()
		user.XP = 1025
		user.Level = 2
		user.Streak = 3
		user.LastCheckIn = &now
		user.CurrentBalance = 4200.50
		user.Preferences.Theme = "light"

		err = repo.Save(context.Background(), user)
		require.NoError(t, err, "failed to save user")

		found, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err, "failed to reload user")
		assert.Equal(t, 1025, found.XP, "XP does not match")
		assert.Equal(t, 2, found.Level, "Level does not match")
		assert.Equal(t, 3, found.Streak, "Streak does not match")
		assert.NotNil(t, found.LastCheckIn, "LastCheckIn should be set")
		assert.InDelta(t, 4200.50, found.CurrentBalance, 0.001, "balance does not match")
		assert.Equal(t, "light", found.Preferences.Theme, "theme does not match")
	})

	// Writes on the user row are not coordinated: two callers that load the
	// same row and save independently do not merge, the later save wins and
	// the earlier one is silently lost.
	t.Run("concurrent saves are last-write-wins", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserMySQL(db)

		user := &entity.User{
			Email:          "race@example.com",
			Password:       "hashed_password",
			XP:             100,
			Level:          1,
			CurrentBalance: 1000,
		}
		err := repo.Create(context.Background(), user)
		require.NoError(t, err, "failed to create test data")

		// 同じ行を二度読み込み、別々の変更を加える
		first, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)

		first.CurrentBalance = 6000 // 収入の記録を想定
		second.XP = 125             // XP付与を想定

		require.NoError(t, repo.Save(context.Background(), first))
		require.NoError(t, repo.Save(context.Background(), second))

		found, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, 125, found.XP, "second save should win")
		assert.InDelta(t, 1000, found.CurrentBalance, 0.001,
			"first save's balance update is overwritten, not merged")
	})
}
