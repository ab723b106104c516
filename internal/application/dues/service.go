// Package dues contains the application service orchestrating the due
// lifecycle: authorization, person lookup, state transitions and optimistic
// concurrency handling.
package dues

import (
	"context"
	"strings"
	"time"

	duedomain "github.com/campusclear/backend/internal/domain/dues"
	"github.com/campusclear/backend/internal/domain/identity"
	"github.com/campusclear/backend/internal/domain/shared"
	"github.com/campusclear/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ClearanceMode selects which of the two mutually exclusive clearance paths to take
type ClearanceMode string

const (
	ClearanceRegular    ClearanceMode = "regular"
	ClearancePermission ClearanceMode = "permission"
)

// MetricsRecorder receives business metric events from the service. A nil-safe
// no-op is used when telemetry is disabled.
type MetricsRecorder interface {
	RecordDueCreated(ctx context.Context, department string, dueType string, amount decimal.Decimal)
	RecordPaymentMarked(ctx context.Context, department string, amount decimal.Decimal)
	RecordDueCleared(ctx context.Context, department string, path string, amount decimal.Decimal)
}

// Service orchestrates due lifecycle operations. All state guards live in the
// aggregate; the service owns guard ordering (role, then department scope,
// then domain state) and the write path.
type Service struct {
	dueRepo    duedomain.DueRepository
	directory  duedomain.PersonDirectory
	catalog    duedomain.DepartmentCatalog
	logger     *zap.Logger
	metrics    MetricsRecorder
	timeSource func() time.Time
}

// Option is a functional option for configuring the service
type Option func(*Service)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets a business metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTimeSource overrides the clock, used by tests
func WithTimeSource(now func() time.Time) Option {
	return func(s *Service) {
		s.timeSource = now
	}
}

// NewService creates a new due lifecycle service
func NewService(
	dueRepo duedomain.DueRepository,
	directory duedomain.PersonDirectory,
	catalog duedomain.DepartmentCatalog,
	opts ...Option,
) *Service {
	s := &Service{
		dueRepo:    dueRepo,
		directory:  directory,
		catalog:    catalog,
		logger:     zap.NewNop(),
		timeSource: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDueInput carries the caller-supplied fields for due creation
type CreateDueInput struct {
	PersonID    string
	PersonType  string
	Department  string
	Description string
	DueType     string
	Category    string
	Amount      decimal.Decimal
	DueDate     *time.Time
}

// Create records a new due.
//
// HR-scoped callers always create faculty dues regardless of the requested
// person type. Scholarship-scoped callers get a scholarship due type when none
// was supplied; everyone else must name one.
func (s *Service) Create(ctx context.Context, actor identity.ActorContext, input CreateDueInput) (*duedomain.Due, error) {
	ctx, span := telemetry.StartSpan(ctx, "due.create")
	defer span.End()

	department, err := s.catalog.Normalize(ctx, input.Department)
	if err != nil {
		return nil, err
	}

	if !identity.CanCreateDue(actor, department) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not permitted to create dues for department "+department)
	}

	personType := duedomain.PersonType(strings.TrimSpace(input.PersonType))
	if identity.ForcesFacultyPersonType(actor) {
		personType = duedomain.PersonTypeFaculty
	}
	if !personType.IsValid() {
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Person type must be Student or Faculty")
	}

	dueType := duedomain.DueType(strings.TrimSpace(input.DueType))
	if dueType == "" && identity.DefaultsScholarshipDueType(actor) {
		dueType = duedomain.DueTypeScholarship
	}

	person, err := s.directory.FindPerson(ctx, personType, strings.TrimSpace(input.PersonID))
	if err != nil {
		return nil, err
	}

	due, err := duedomain.NewDue(duedomain.NewDueParams{
		PersonID:    person.ID,
		PersonType:  personType,
		PersonName:  person.Name,
		Department:  department,
		Description: input.Description,
		DueType:     dueType,
		Category:    duedomain.Category(strings.TrimSpace(input.Category)),
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		CreatedBy:   actor.Username,
	})
	if err != nil {
		return nil, err
	}

	if err := s.dueRepo.Save(ctx, due); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to save due", zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDueCreated(ctx, due.Department, string(due.DueType), due.Amount)
	}

	s.logger.Info("Due created",
		zap.String("due_id", due.ID.String()),
		zap.String("department", due.Department),
		zap.String("due_type", string(due.DueType)),
		zap.String("created_by", actor.Username),
	)

	return due, nil
}

// MarkPayment records a payment status change on a due
func (s *Service) MarkPayment(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID, target string) (*duedomain.Due, error) {
	ctx, span := telemetry.StartSpan(ctx, "due.mark_payment")
	defer span.End()

	if !identity.CanMarkPayment(actor) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Only accounts may record payments")
	}

	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	versionBefore := due.Version
	if err := due.MarkPayment(duedomain.PaymentStatus(target)); err != nil {
		return nil, err
	}

	// A repeated mark leaves the aggregate untouched; writing through the
	// optimistic lock would raise a false conflict for a request that
	// changed nothing.
	if due.Version == versionBefore {
		return due, nil
	}

	if err := s.saveWithConflictCheck(ctx, due); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentMarked(ctx, due.Department, due.Amount)
	}

	s.logger.Info("Payment marked",
		zap.String("due_id", due.ID.String()),
		zap.String("payment_status", string(due.PaymentStatus)),
		zap.String("marked_by", actor.Username),
	)

	return due, nil
}

// Clear resolves a due through the requested clearance path
func (s *Service) Clear(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID, mode ClearanceMode, documentURL string) (*duedomain.Due, error) {
	ctx, span := telemetry.StartSpan(ctx, "due.clear",
		telemetry.WithAttribute("clearance.mode", string(mode)))
	defer span.End()

	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	now := s.timeSource()

	switch mode {
	case ClearanceRegular:
		if !identity.CanClearRegular(actor, due.Department) {
			return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not permitted to clear dues for department "+due.Department)
		}
		if err := due.Clear(now); err != nil {
			return nil, err
		}
	case ClearancePermission:
		if !identity.CanClearByPermission(actor, due.Department) {
			return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Permission-based clearance is restricted to accounts for eligible departments")
		}
		if err := due.ClearByPermission(documentURL, actor.Username, now); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError(shared.ErrCodeValidation, "Unknown clearance type")
	}

	if err := s.saveWithConflictCheck(ctx, due); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDueCleared(ctx, due.Department, string(mode), due.Amount)
	}

	s.logger.Info("Due cleared",
		zap.String("due_id", due.ID.String()),
		zap.String("status", string(due.Status)),
		zap.String("cleared_by", actor.Username),
	)

	return due, nil
}

// GrantPermission is the accounts-facing alias of permission-based clearance
func (s *Service) GrantPermission(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID, documentURL string) (*duedomain.Due, error) {
	return s.Clear(ctx, actor, dueID, ClearancePermission, documentURL)
}

// GetByID returns a single due, subject to department visibility
func (s *Service) GetByID(ctx context.Context, actor identity.ActorContext, dueID uuid.UUID) (*duedomain.Due, error) {
	due, err := s.dueRepo.FindByID(ctx, dueID)
	if err != nil {
		return nil, err
	}

	if !identity.CanViewDepartment(actor, due.Department) {
		return nil, shared.NewDomainError(shared.ErrCodeForbidden, "Not permitted to view dues for department "+due.Department)
	}

	return due, nil
}

// ListQuery carries optional list filters
type ListQuery struct {
	Department string
	Status     string
	Page       int
	PageSize   int
}

// List returns dues visible to the actor, optionally filtered
func (s *Service) List(ctx context.Context, actor identity.ActorContext, query ListQuery) (shared.Paginated[duedomain.Due], error) {
	var empty shared.Paginated[duedomain.Due]

	filter := duedomain.DueFilter{Filter: shared.DefaultFilter()}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	if query.Status != "" {
		status := duedomain.DueStatus(query.Status)
		if !status.IsValid() {
			return empty, shared.NewDomainError(shared.ErrCodeValidation, "Unknown status filter")
		}
		filter.Status = &status
	}

	if query.Department != "" {
		department := duedomain.NormalizeDepartment(query.Department)
		if !identity.CanViewDepartment(actor, department) {
			return empty, shared.NewDomainError(shared.ErrCodeForbidden, "Not permitted to view dues for department "+department)
		}
		filter.Department = &department
	} else {
		departments, all := identity.VisibleDepartments(actor)
		if !all {
			if len(departments) == 0 {
				return empty, shared.NewDomainError(shared.ErrCodeForbidden, "No department visibility")
			}
			filter.Departments = departments
		}
	}

	items, err := s.dueRepo.FindAll(ctx, filter)
	if err != nil {
		return empty, err
	}
	total, err := s.dueRepo.Count(ctx, filter)
	if err != nil {
		return empty, err
	}

	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// saveWithConflictCheck writes through the optimistic lock. When the version
// moved on it re-reads once to tell a lost race to a clearance (terminal now,
// surfaced as ALREADY_RESOLVED) apart from a generic concurrent update.
func (s *Service) saveWithConflictCheck(ctx context.Context, due *duedomain.Due) error {
	err := s.dueRepo.SaveWithLock(ctx, due)
	if err == nil {
		return nil
	}
	if !shared.HasCode(err, shared.ErrCodeConcurrencyConflict) {
		return err
	}

	current, readErr := s.dueRepo.FindByID(ctx, due.ID)
	if readErr == nil && current.Status.IsTerminal() {
		return shared.NewDomainError(shared.ErrCodeAlreadyResolved, "Due is already resolved")
	}
	return err
}
