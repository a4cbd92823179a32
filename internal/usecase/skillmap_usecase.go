package usecase

import (
	"context"
	"errors"
	"time"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/repository"
)

// SkillMapService owns the skill-grade assignments. Unlike the other join
// tables a repeated (subskill, user) write updates the grade in place and a
// write of mapping.NoGrade removes the assignment.
type SkillMapService struct {
	maps        repository.SkillMapStore
	subskills   repository.Store[catalog.Subskill]
	grades      repository.Store[catalog.Grade]
	users       repository.Store[catalog.User]
	invalidator Invalidator
	now         func() time.Time
}

func NewSkillMapService(s repository.Stores, inv Invalidator) *SkillMapService {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &SkillMapService{
		maps:        s.SkillMaps,
		subskills:   s.Subskills,
		grades:      s.Grades,
		users:       s.Users,
		invalidator: inv,
		now:         time.Now,
	}
}

func (s *SkillMapService) List(ctx context.Context) ([]mapping.SkillMap, error) {
	return s.maps.List(ctx)
}

func (s *SkillMapService) ListByUser(ctx context.Context, userID int64) ([]mapping.SkillMap, error) {
	return s.maps.ListByUser(ctx, userID)
}

func (s *SkillMapService) Get(ctx context.Context, id int64) (mapping.SkillMap, error) {
	return s.maps.GetByID(ctx, id)
}

func (s *SkillMapService) Delete(ctx context.Context, id int64) error {
	if err := s.maps.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

// Upsert applies a full record. A record with an id is updated in place (or
// removed when its grade is NoGrade); a record without one goes through
// Assign. removed reports that no record is left for the pair.
func (s *SkillMapService) Upsert(ctx context.Context, actor string, sm mapping.SkillMap) (saved mapping.SkillMap, removed bool, err error) {
	if sm.ID < 0 {
		return mapping.SkillMap{}, false, apperrors.NewValidation("id")
	}
	if err := sm.Validate(); err != nil {
		return mapping.SkillMap{}, false, err
	}
	if sm.ID == 0 {
		return s.assign(ctx, actor, sm.SubskillID, sm.UserID, sm.GradeID)
	}

	prev, err := s.maps.GetByID(ctx, sm.ID)
	if err != nil {
		return mapping.SkillMap{}, false, err
	}
	if sm.GradeID == mapping.NoGrade {
		if err := s.Delete(ctx, sm.ID); err != nil {
			return mapping.SkillMap{}, false, err
		}
		return mapping.SkillMap{}, true, nil
	}
	if err := s.checkRefs(ctx, sm.SubskillID, sm.UserID, sm.GradeID); err != nil {
		return mapping.SkillMap{}, false, err
	}
	sm.Touch(&prev, actor, s.now())
	updated, err := s.maps.Update(ctx, sm)
	if err != nil {
		return mapping.SkillMap{}, false, s.mapConflict(err)
	}
	s.invalidator.Invalidate(ctx)
	return updated, false, nil
}

// AssignGrade is the grading.Writer entry point used by batch saves.
func (s *SkillMapService) AssignGrade(ctx context.Context, subskillID, userID, gradeID int64) error {
	_, _, err := s.assign(ctx, ActorFrom(ctx), subskillID, userID, gradeID)
	return err
}

func (s *SkillMapService) assign(ctx context.Context, actor string, subskillID, userID, gradeID int64) (mapping.SkillMap, bool, error) {
	if err := (mapping.SkillMap{SubskillID: subskillID, UserID: userID, GradeID: gradeID}).Validate(); err != nil {
		return mapping.SkillMap{}, false, err
	}
	existing, found, err := s.maps.FindActivePair(ctx, subskillID, userID)
	if err != nil {
		return mapping.SkillMap{}, false, err
	}

	if gradeID == mapping.NoGrade {
		if !found {
			return mapping.SkillMap{}, true, nil
		}
		if err := s.Delete(ctx, existing.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return mapping.SkillMap{}, false, err
		}
		return mapping.SkillMap{}, true, nil
	}

	if err := s.checkRefs(ctx, subskillID, userID, gradeID); err != nil {
		return mapping.SkillMap{}, false, err
	}

	if found {
		if existing.GradeID == gradeID {
			return existing, false, nil
		}
		next := existing
		next.GradeID = gradeID
		next.Touch(&existing, actor, s.now())
		updated, err := s.maps.Update(ctx, next)
		if err != nil {
			return mapping.SkillMap{}, false, s.mapConflict(err)
		}
		s.invalidator.Invalidate(ctx)
		return updated, false, nil
	}

	sm := mapping.SkillMap{SubskillID: subskillID, UserID: userID, GradeID: gradeID, Active: true}
	sm.Touch(nil, actor, s.now())
	created, err := s.maps.Create(ctx, sm)
	if err != nil {
		return mapping.SkillMap{}, false, s.mapConflict(err)
	}
	s.invalidator.Invalidate(ctx)
	return created, false, nil
}

// checkRefs turns unknown ids into a validation error naming the fields.
func (s *SkillMapService) checkRefs(ctx context.Context, subskillID, userID, gradeID int64) error {
	v := &apperrors.ValidationError{}
	if err := exists(ctx, s.subskills, subskillID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		v.Add("subskillId")
	}
	if err := exists(ctx, s.users, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		v.Add("userId")
	}
	if err := exists(ctx, s.grades, gradeID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		v.Add("gradeId")
	}
	return v.OrNil()
}

func (s *SkillMapService) mapConflict(err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		return apperrors.ErrDuplicateMapping
	}
	return err
}

func exists[T any](ctx context.Context, store repository.Store[T], id int64) error {
	_, err := store.GetByID(ctx, id)
	return err
}
