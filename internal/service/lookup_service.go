package service

import (
	"context"
	"errors"

	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
)

// LookupService manages departments or hobbies.
type LookupService interface {
	Kind() model.LookupKind
	List(ctx context.Context, page Page) ([]model.Lookup, int, error)
	Get(ctx context.Context, id int) (*model.Lookup, error)
	Create(ctx context.Context, name string) (*model.Lookup, error)
	Rename(ctx context.Context, id int, name string) (*model.Lookup, error)
	Delete(ctx context.Context, id int) error
}

type lookupService struct {
	repo repository.LookupRepository
}

func NewLookupService(repo repository.LookupRepository) LookupService {
	return &lookupService{repo: repo}
}

func (s *lookupService) Kind() model.LookupKind { return s.repo.Kind() }

func (s *lookupService) List(ctx context.Context, page Page) ([]model.Lookup, int, error) {
	return s.repo.List(ctx, page.Size, page.Offset())
}

func (s *lookupService) Get(ctx context.Context, id int) (*model.Lookup, error) {
	l, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return l, err
}

func (s *lookupService) Create(ctx context.Context, name string) (*model.Lookup, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.Create(ctx, name)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateName
	}
	return l, err
}

func (s *lookupService) Rename(ctx context.Context, id int, name string) (*model.Lookup, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.Rename(ctx, id, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrDuplicateName
	}
	return l, err
}

// Delete refuses while students still reference the row.
func (s *lookupService) Delete(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrReferenced):
		return ErrDependencyExists
	}
	return err
}

func cleanName(name string) (string, error) {
	name = model.NormalizeName(name)
	if !model.ValidLookupName(name) {
		return "", invalidField("name", "must be 2-100 characters")
	}
	return name, nil
}
