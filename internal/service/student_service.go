package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/survey-analytics/internal/database"
	"github.com/stemsi/survey-analytics/internal/model"
	"github.com/stemsi/survey-analytics/internal/repository"
)

// StudentService manages students and their metrics as one unit.
type StudentService interface {
	List(ctx context.Context, page Page) ([]model.Student, int, error)
	Get(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, w *model.StudentWrite) (*model.Student, error)
	Replace(ctx context.Context, id int, w *model.StudentWrite) (*model.Student, error)
	Patch(ctx context.Context, id int, w *model.StudentWrite) (*model.Student, error)
	Delete(ctx context.Context, id int) error
}

type studentService struct {
	tx          database.TxRunner
	students    repository.StudentRepository
	departments repository.LookupRepository
	hobbies     repository.LookupRepository
	log         zerolog.Logger
}

func NewStudentService(
	tx database.TxRunner,
	students repository.StudentRepository,
	departments repository.LookupRepository,
	hobbies repository.LookupRepository,
	log zerolog.Logger,
) StudentService {
	return &studentService{
		tx:          tx,
		students:    students,
		departments: departments,
		hobbies:     hobbies,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, page Page) ([]model.Student, int, error) {
	return s.students.List(ctx, page.Size, page.Offset())
}

func (s *studentService) Get(ctx context.Context, id int) (*model.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return st, err
}

// Create inserts the student and its metrics in one transaction.
func (s *studentService) Create(ctx context.Context, w *model.StudentWrite) (*model.Student, error) {
	if err := invalid(w.Missing()); err != nil {
		return nil, err
	}

	var out *model.Student
	err := s.tx.WithTx(ctx, func(ctx context.Context, q database.DBTX) error {
		students := s.students.WithTx(q)

		st := &model.Student{}
		if err := s.apply(ctx, q, st, w); err != nil {
			return err
		}
		if err := students.Create(ctx, st); err != nil {
			return mapWriteErr(err)
		}

		var err error
		out, err = students.GetByID(ctx, st.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("student_id", out.ID).Msg("Student created")
	return out, nil
}

// Replace is a full update: every field must be present.
func (s *studentService) Replace(ctx context.Context, id int, w *model.StudentWrite) (*model.Student, error) {
	if err := invalid(w.Missing()); err != nil {
		return nil, err
	}
	return s.update(ctx, id, w)
}

// Patch applies any subset of fields, including partial metrics.
func (s *studentService) Patch(ctx context.Context, id int, w *model.StudentWrite) (*model.Student, error) {
	return s.update(ctx, id, w)
}

func (s *studentService) update(ctx context.Context, id int, w *model.StudentWrite) (*model.Student, error) {
	var out *model.Student
	err := s.tx.WithTx(ctx, func(ctx context.Context, q database.DBTX) error {
		students := s.students.WithTx(q)

		st, err := students.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		// A student without a metrics row needs a complete metrics payload.
		if st.Metrics == nil && w.Metrics != nil {
			missing := map[string]string{}
			for k, v := range w.Metrics.Missing() {
				missing["metrics."+k] = v
			}
			if err := invalid(missing); err != nil {
				return err
			}
		}

		if err := s.apply(ctx, q, st, w); err != nil {
			return err
		}
		if err := students.Update(ctx, st); err != nil {
			return mapWriteErr(err)
		}

		out, err = students.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// apply resolves references, copies the payload onto st and validates the result.
func (s *studentService) apply(ctx context.Context, q database.DBTX, st *model.Student, w *model.StudentWrite) error {
	if w.Department != nil {
		d, err := resolveRef(ctx, s.departments.WithTx(q), "department", w.Department)
		if err != nil {
			return err
		}
		st.Department = *d
	}
	if w.Hobby != nil {
		h, err := resolveRef(ctx, s.hobbies.WithTx(q), "hobby", w.Hobby)
		if err != nil {
			return err
		}
		st.Hobby = *h
	}
	w.ApplyTo(st)
	return invalid(st.Validate())
}

// resolveRef looks a reference up by id or gets-or-creates it by name.
func resolveRef(ctx context.Context, repo repository.LookupRepository, field string, ref *model.LookupRef) (*model.Lookup, error) {
	if ref.ByID {
		l, err := repo.GetByID(ctx, ref.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField(field, fmt.Sprintf("%s with id %d does not exist", field, ref.ID))
		}
		return l, err
	}

	name := model.NormalizeName(ref.Name)
	if !model.ValidLookupName(name) {
		return nil, invalidField(field, "must be 2-100 characters")
	}
	return repo.GetOrCreate(ctx, name)
}

func mapWriteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidRef):
		var ref *repository.InvalidRefError
		if errors.As(err, &ref) {
			return invalidField(ref.Field, fmt.Sprintf("referenced %s no longer exists", ref.Field))
		}
		return invalidField("references", "referenced department or hobby no longer exists")
	}
	return err
}

// Delete removes the student; its metrics row cascades.
func (s *studentService) Delete(ctx context.Context, id int) error {
	err := s.students.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
