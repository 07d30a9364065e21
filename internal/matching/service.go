package matching

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMapping = errors.New("invalid mapping")

// Mapping links a fragment of a bank description to the supplier it pays.
type Mapping struct {
	RawPattern   string
	SupplierName string
}

type Repository interface {
	FindSupplier(ctx context.Context, rawDescription string) (string, error)
	CreateMapping(ctx context.Context, m Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the supplier for rawDescription, or an empty string when no
// pattern matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return "", nil
	}

	name, err := s.repo.FindSupplier(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("suggesting supplier: %w", err)
	}

	return name, nil
}

func (s *Service) Learn(ctx context.Context, rawPattern, supplierName string) error {
	m := Mapping{
		RawPattern:   strings.TrimSpace(rawPattern),
		SupplierName: strings.TrimSpace(supplierName),
	}

	if m.RawPattern == "" || m.SupplierName == "" {
		return fmt.Errorf("%w: pattern and supplier name are required", ErrInvalidMapping)
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return fmt.Errorf("learning mapping: %w", err)
	}

	return nil
}
