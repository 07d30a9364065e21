package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("ledger entry not found")
	ErrUnmappedSource   = errors.New("source type has no account category")
	ErrCategoryNotFound = errors.New("account category not found")
	ErrInvalidPayment   = errors.New("invalid payment record")
)

// Stage names the step of the posting pipeline that failed.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageLookup  Stage = "lookup"
	StageBuild   Stage = "build"
	StageInsert  Stage = "insert"
)

// PostingError is returned by Service.Post for every failure.
type PostingError struct {
	Stage      Stage
	SourceType SourceType
	SourceID   string
	Err        error
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("posting %s/%s failed at %s: %v", e.SourceType, e.SourceID, e.Stage, e.Err)
}

func (e *PostingError) Unwrap() error {
	return e.Err
}
