package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	FindCategoryByCode(ctx context.Context, code string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)

	// InsertEntry stores entry unless one already exists for its (source type, source id).
	// It fills entry's generated fields and reports whether a new row was written; on a
	// conflict the existing row is loaded into entry instead.
	InsertEntry(ctx context.Context, entry *Entry) (bool, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

// Publisher receives posted entries. It must not block.
type Publisher interface {
	PublishPosted(entry *Entry)
}

type ListFilter struct {
	SourceType   *SourceType
	CategoryType *CategoryType
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
}

type Service struct {
	repo      Repository
	publisher Publisher
	loc       *time.Location
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher announces every newly created entry on p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLocation sets the zone used to derive entry dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		loc:  time.UTC,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Post records the accounting entry for a confirmed payment. Posting the same
// (source type, source id) twice returns the original entry with Created == false.
// Every failure is a *PostingError.
func (s *Service) Post(ctx context.Context, rec PaymentRecord) (*Posting, error) {
	posting, err := s.post(ctx, rec)
	if err != nil {
		slog.Error("failed to post ledger entry",
			"source_type", rec.SourceType,
			"source_id", rec.SourceID,
			"error", err,
		)

		return nil, err
	}

	if !posting.Created {
		slog.Info("ledger entry already posted",
			"source_type", rec.SourceType,
			"source_id", rec.SourceID,
			"entry_id", posting.Entry.ID,
		)

		return posting, nil
	}

	if s.publisher != nil {
		s.publisher.PublishPosted(posting.Entry)
	}

	return posting, nil
}

func (s *Service) post(ctx context.Context, rec PaymentRecord) (*Posting, error) {
	fail := func(stage Stage, err error) error {
		return &PostingError{Stage: stage, SourceType: rec.SourceType, SourceID: rec.SourceID, Err: err}
	}

	code, err := CategoryCode(rec.SourceType)
	if err != nil {
		return nil, fail(StageResolve, err)
	}

	cat, err := s.repo.FindCategoryByCode(ctx, code)
	if err != nil {
		return nil, fail(StageLookup, err)
	}

	occurred := rec.OccurredAt
	if occurred.IsZero() {
		occurred = s.now()
	}

	entry, err := BuildEntry(rec, *cat, occurred.In(s.loc))
	if err != nil {
		return nil, fail(StageBuild, err)
	}

	created, err := s.repo.InsertEntry(ctx, entry)
	if err != nil {
		return nil, fail(StageInsert, err)
	}

	return &Posting{Entry: entry, Created: created}, nil
}

// PostBatch posts every record independently. errs[i] is nil when recs[i] was posted.
func (s *Service) PostBatch(ctx context.Context, recs []PaymentRecord) ([]*Posting, []error) {
	postings := make([]*Posting, len(recs))
	errs := make([]error, len(recs))

	for i, rec := range recs {
		postings[i], errs[i] = s.Post(ctx, rec)
	}

	return postings, errs
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

func (s *Service) Categories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// IsRetryable reports whether a posting failure may succeed if attempted again.
// Resolution and validation failures are permanent, and so are rows the
// database rejects as bad data or a constraint violation.
func IsRetryable(err error) bool {
	var perr *PostingError
	if !errors.As(err, &perr) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(perr.Err, &pgErr) {
		class := pgErr.Code[:min(2, len(pgErr.Code))]
		if class == pgClassDataException || class == pgClassIntegrityViolation {
			return false
		}
	}

	return perr.Stage == StageInsert || (perr.Stage == StageLookup && !errors.Is(perr.Err, ErrCategoryNotFound))
}

const (
	pgClassDataException      = "22"
	pgClassIntegrityViolation = "23"
)
