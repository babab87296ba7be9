package service

import (
	"context"
	"math"
	"testing"

	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLookupCreateNormalizesName(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindDepartment}
	repo.On("Create", mock.Anything, "Computer Science").Return(&model.Lookup{ID: 1, Name: "Computer Science"}, nil)

	l, err := NewLookupService(repo).Create(context.Background(), "  Computer   Science ")
	require.NoError(t, err)
	assert.Equal(t, 1, l.ID)
	repo.AssertExpectations(t)
}

func TestLookupCreateRejectsShortName(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindHobby}

	_, err := NewLookupService(repo).Create(context.Background(), " x ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLookupCreateDuplicate(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindHobby}
	repo.On("Create", mock.Anything, "Chess").Return(nil, repository.ErrDuplicate)

	_, err := NewLookupService(repo).Create(context.Background(), "Chess")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLookupRenameErrors(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindDepartment}
	repo.On("Rename", mock.Anything, 9, "BCA").Return(nil, repository.ErrNotFound)
	repo.On("Rename", mock.Anything, 2, "BBA").Return(nil, repository.ErrDuplicate)
	svc := NewLookupService(repo)

	_, err := svc.Rename(context.Background(), 9, "BCA")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Rename(context.Background(), 2, "BBA")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLookupDelete(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindDepartment}
	repo.On("Delete", mock.Anything, 1).Return(repository.ErrReferenced)
	repo.On("Delete", mock.Anything, 2).Return(repository.ErrNotFound)
	repo.On("Delete", mock.Anything, 3).Return(nil)
	svc := NewLookupService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrDependencyExists)
	assert.ErrorIs(t, svc.Delete(context.Background(), 2), ErrNotFound)
	assert.NoError(t, svc.Delete(context.Background(), 3))
}

func TestLookupListUsesPageOffset(t *testing.T) {
	repo := &mockLookupRepo{kind: model.KindHobby}
	repo.On("List", mock.Anything, 10, 20).Return([]model.Lookup{{ID: 21, Name: "Chess"}}, 21, nil)

	items, total, err := NewLookupService(repo).List(context.Background(), NewPage(3, 10))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 21, total)
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 2, Size: MaxPageSize}, NewPage(2, 1000))
	assert.Equal(t, 40, NewPage(3, 20).Offset())

	huge := NewPage(math.MaxInt, MaxPageSize)
	assert.Equal(t, MaxPageNumber, huge.Number)
	assert.GreaterOrEqual(t, huge.Offset(), 0)
	assert.LessOrEqual(t, huge.Offset(), math.MaxInt32)
}
