package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDueTestDB creates an in-memory SQLite database with the dues schema
func setupDueTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.DueModel{}))
	return db
}

func newStoredDue(t *testing.T, repo *GormDueRepository, department string, category dues.Category) *dues.Due {
	t.Helper()
	due, err := dues.NewDue(dues.NewDueParams{
		PersonID:   "23071A0501",
		PersonType: dues.PersonTypeStudent,
		PersonName: "Asha Rao",
		Department: department,
		DueType:    dues.DueTypeLibraryFine,
		Category:   category,
		Amount:     decimal.NewFromInt(250),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), due))
	return due
}

func TestGormDueRepository_SaveAndFindByID(t *testing.T) {
	db := setupDueTestDB(t)
	repo := NewGormDueRepository(db)
	ctx := context.Background()

	due := newStoredDue(t, repo, "LIBRARY", dues.CategoryPayable)

	found, err := repo.FindByID(ctx, due.ID)
	require.NoError(t, err)

	assert.Equal(t, due.ID, found.ID)
	assert.Equal(t, "23071A0501", found.PersonID)
	assert.Equal(t, dues.PersonTypeStudent, found.PersonType)
	assert.Equal(t, "LIBRARY", found.Department)
	assert.Equal(t, dues.DueStatusPending, found.Status)
	assert.Equal(t, dues.PaymentStatusDue, found.PaymentStatus)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 1, found.Version)
}

func TestGormDueRepository_FindByID_NotFound(t *testing.T) {
	db := setupDueTestDB(t)
	repo := NewGormDueRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormDueRepository_SaveWithLock(t *testing.T) {
	t.Run("persists a lifecycle transition", func(t *testing.T) {
		db := setupDueTestDB(t)
		repo := NewGormDueRepository(db)
		ctx := context.Background()

		due := newStoredDue(t, repo, "LIBRARY", dues.CategoryNonPayable)

		require.NoError(t, due.Clear(time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, due))

		found, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)
		assert.Equal(t, dues.DueStatusCleared, found.Status)
		assert.NotNil(t, found.ClearDate)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		db := setupDueTestDB(t)
		repo := NewGormDueRepository(db)
		ctx := context.Background()

		due := newStoredDue(t, repo, "LIBRARY", dues.CategoryNonPayable)

		// Two actors load the same snapshot
		first, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)

		require.NoError(t, first.Clear(time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Clear(time.Now()))
		err = repo.SaveWithLock(ctx, second)

		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.ErrCodeConcurrencyConflict))
	})
}

func TestGormDueRepository_FindAll(t *testing.T) {
	db := setupDueTestDB(t)
	repo := NewGormDueRepository(db)
	ctx := context.Background()

	libraryDue := newStoredDue(t, repo, "LIBRARY", dues.CategoryPayable)
	newStoredDue(t, repo, "CSE", dues.CategoryNonPayable)
	hostelDue := newStoredDue(t, repo, "HOSTEL", dues.CategoryPayable)

	require.NoError(t, hostelDue.MarkPayment(dues.PaymentStatusDone))
	require.NoError(t, hostelDue.Clear(time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, hostelDue))

	t.Run("no filter returns everything", func(t *testing.T) {
		all, err := repo.FindAll(ctx, dues.DueFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("filters by department", func(t *testing.T) {
		department := "LIBRARY"
		found, err := repo.FindAll(ctx, dues.DueFilter{
			Filter:     shared.DefaultFilter(),
			Department: &department,
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, libraryDue.ID, found[0].ID)
	})

	t.Run("filters by visibility scope", func(t *testing.T) {
		found, err := repo.FindAll(ctx, dues.DueFilter{
			Filter:      shared.DefaultFilter(),
			Departments: []string{"LIBRARY", "CSE"},
		})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := dues.DueStatusCleared
		found, err := repo.FindAll(ctx, dues.DueFilter{
			Filter: shared.DefaultFilter(),
			Status: &status,
		})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, hostelDue.ID, found[0].ID)
	})

	t.Run("count matches filter", func(t *testing.T) {
		status := dues.DueStatusPending
		count, err := repo.Count(ctx, dues.DueFilter{
			Filter: shared.DefaultFilter(),
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("pagination limits results", func(t *testing.T) {
		filter := dues.DueFilter{Filter: shared.DefaultFilter()}
		filter.PageSize = 2
		page1, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		filter.Page = 2
		page2, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})
}

func TestGormDueRepository_RoundTripPermissionMetadata(t *testing.T) {
	db := setupDueTestDB(t)
	repo := NewGormDueRepository(db)
	ctx := context.Background()

	due, err := dues.NewDue(dues.NewDueParams{
		PersonID:   "EMP001",
		PersonType: dues.PersonTypeFaculty,
		PersonName: "K. Iyer",
		Department: "SCHOLARSHIP",
		DueType:    dues.DueTypeScholarship,
		Category:   dues.CategoryPayable,
		Amount:     decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, due))

	require.NoError(t, due.ClearByPermission("https://docs.example.edu/waiver.pdf", "accounts.head", time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, due))

	found, err := repo.FindByID(ctx, due.ID)
	require.NoError(t, err)

	assert.Equal(t, dues.DueStatusClearedByPermission, found.Status)
	assert.True(t, found.ClearedByPermission)
	assert.Equal(t, "https://docs.example.edu/waiver.pdf", found.ClearanceDocumentURL)
	assert.Equal(t, "accounts.head", found.PermissionGrantedBy)
	assert.NotNil(t, found.PermissionGrantedDate)
	assert.True(t, found.ScholarshipDocumentationRequired)
	// Permission-based clearance never touches the payment axis
	assert.Equal(t, dues.PaymentStatusDue, found.PaymentStatus)
}
