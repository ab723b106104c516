package dues

import (
	"context"
	"testing"

	duedomain "github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/infrastructure/persistence"
	"github.com/campusclear/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newVersionedService wires the service to the real GORM repository over an
// in-memory SQLite database. Unlike the in-memory fake, this store enforces
// the version predicate on every locked write.
func newVersionedService(t *testing.T) (*Service, *persistence.GormDueRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DueModel{}))

	repo := persistence.NewGormDueRepository(db)
	directory := &fakeDirectory{persons: map[string]*duedomain.Person{
		"Student/23071A0501": {ID: "23071A0501", Type: duedomain.PersonTypeStudent, Name: "Asha Rao", Department: "CSE"},
	}}
	return NewService(repo, directory, fakeCatalog{}), repo
}

func TestService_MarkPayment_VersionedStore(t *testing.T) {
	t.Run("repeating done is a quiet no-op", func(t *testing.T) {
		svc, repo := newVersionedService(t)
		ctx := context.Background()

		due, err := svc.Create(ctx, deptOperator("LIBRARY"), CreateDueInput{
			PersonID:   "23071A0501",
			PersonType: "Student",
			Department: "library",
			DueType:    "library-fine",
			Category:   "payable",
			Amount:     decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		marked, err := svc.MarkPayment(ctx, superAdmin(), due.ID, "done")
		require.NoError(t, err)
		assert.Equal(t, duedomain.PaymentStatusDone, marked.PaymentStatus)

		again, err := svc.MarkPayment(ctx, superAdmin(), due.ID, "done")
		require.NoError(t, err)
		assert.Equal(t, duedomain.PaymentStatusDone, again.PaymentStatus)

		stored, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)
		assert.Equal(t, marked.Version, stored.Version)
	})

	t.Run("repeated settlement after permission clearance stays settled", func(t *testing.T) {
		svc, repo := newVersionedService(t)
		ctx := context.Background()

		due, err := svc.Create(ctx, superAdmin(), CreateDueInput{
			PersonID:   "23071A0501",
			PersonType: "Student",
			Department: "scholarship",
			DueType:    "scholarship",
			Category:   "payable",
			Amount:     decimal.NewFromInt(5000),
		})
		require.NoError(t, err)

		_, err = svc.GrantPermission(ctx, superAdmin(), due.ID, "https://docs.example.edu/waiver.pdf")
		require.NoError(t, err)

		_, err = svc.MarkPayment(ctx, superAdmin(), due.ID, "done")
		require.NoError(t, err)
		_, err = svc.MarkPayment(ctx, superAdmin(), due.ID, "done")
		require.NoError(t, err)

		stored, err := repo.FindByID(ctx, due.ID)
		require.NoError(t, err)
		assert.Equal(t, duedomain.PaymentStatusDone, stored.PaymentStatus)
		assert.True(t, stored.ScholarshipSpecialPermission)
	})
}
