package usecase

import (
	"context"
	"errors"
	"time"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/repository"
)

type PairRecord[T any] interface {
	Record[T]
	IsActive() bool
	Pair() (int64, int64)
}

// Mappings is the upsert flow of a join table that allows one active row per
// pair. A second active row for the same pair is refused with a
// *apperrors.DuplicateError carrying the row that already exists.
type Mappings[T any, P PairRecord[T]] struct {
	store       repository.PairStore[T]
	invalidator Invalidator
	now         func() time.Time
}

func NewMappings[T any, P PairRecord[T]](store repository.PairStore[T], inv Invalidator) *Mappings[T, P] {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &Mappings[T, P]{store: store, invalidator: inv, now: time.Now}
}

func (m *Mappings[T, P]) List(ctx context.Context) ([]T, error) {
	return m.store.List(ctx)
}

func (m *Mappings[T, P]) Get(ctx context.Context, id int64) (T, error) {
	return m.store.GetByID(ctx, id)
}

func (m *Mappings[T, P]) Upsert(ctx context.Context, actor string, v T) (T, error) {
	var zero T
	p := P(&v)
	if p.Key() < 0 {
		return zero, apperrors.NewValidation("id")
	}
	if err := p.Validate(); err != nil {
		return zero, err
	}

	if p.IsActive() {
		left, right := p.Pair()
		existing, found, err := m.store.FindActivePair(ctx, left, right)
		if err != nil {
			return zero, err
		}
		if found && P(&existing).Key() != p.Key() {
			return existing, &apperrors.DuplicateError{Existing: existing}
		}
	}

	saved, err := m.write(ctx, actor, v)
	if errors.Is(err, apperrors.ErrConflict) {
		// lost a race with a concurrent writer of the same pair
		left, right := p.Pair()
		if existing, found, ferr := m.store.FindActivePair(ctx, left, right); ferr == nil && found {
			return existing, &apperrors.DuplicateError{Existing: existing}
		}
		return zero, apperrors.ErrDuplicateMapping
	}
	if err != nil {
		return zero, err
	}
	m.invalidator.Invalidate(ctx)
	return saved, nil
}

func (m *Mappings[T, P]) write(ctx context.Context, actor string, v T) (T, error) {
	p := P(&v)
	now := m.now()
	if p.Key() == 0 {
		p.Touch(nil, actor, now)
		return m.store.Create(ctx, v)
	}
	prev, err := m.store.GetByID(ctx, p.Key())
	if err != nil {
		var zero T
		return zero, err
	}
	p.Touch(&prev, actor, now)
	return m.store.Update(ctx, v)
}

func (m *Mappings[T, P]) Delete(ctx context.Context, id int64) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.invalidator.Invalidate(ctx)
	return nil
}

type (
	TechnologySkillMappings   = Mappings[mapping.TechnologySkill, *mapping.TechnologySkill]
	TechnologyProfileMappings = Mappings[mapping.TechnologyProfile, *mapping.TechnologyProfile]
	ProfileUserMappings       = Mappings[mapping.ProfileUser, *mapping.ProfileUser]
)
