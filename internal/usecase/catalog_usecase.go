package usecase

import (
	"context"
	"time"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/repository"
)

// Record is the pointer side of a stored entity.
type Record[T any] interface {
	*T
	Key() int64
	SetKey(id int64)
	Validate() error
	Touch(prev *T, actor string, at time.Time)
}

// Invalidator is told about every successful write so derived views can be
// dropped.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) {}

// Catalog is the upsert/delete flow shared by the entity tables: id 0
// creates, any other id updates in place.
type Catalog[T any, P Record[T]] struct {
	store       repository.Store[T]
	invalidator Invalidator
	now         func() time.Time
}

func NewCatalog[T any, P Record[T]](store repository.Store[T], inv Invalidator) *Catalog[T, P] {
	if inv == nil {
		inv = nopInvalidator{}
	}
	return &Catalog[T, P]{store: store, invalidator: inv, now: time.Now}
}

func (c *Catalog[T, P]) List(ctx context.Context) ([]T, error) {
	return c.store.List(ctx)
}

func (c *Catalog[T, P]) Get(ctx context.Context, id int64) (T, error) {
	return c.store.GetByID(ctx, id)
}

func (c *Catalog[T, P]) Upsert(ctx context.Context, actor string, v T) (T, error) {
	var zero T
	p := P(&v)
	if p.Key() < 0 {
		return zero, apperrors.NewValidation("id")
	}
	if err := p.Validate(); err != nil {
		return zero, err
	}

	now := c.now()
	if p.Key() == 0 {
		p.Touch(nil, actor, now)
		created, err := c.store.Create(ctx, v)
		if err != nil {
			return zero, err
		}
		c.invalidator.Invalidate(ctx)
		return created, nil
	}

	prev, err := c.store.GetByID(ctx, p.Key())
	if err != nil {
		return zero, err
	}
	p.Touch(&prev, actor, now)
	updated, err := c.store.Update(ctx, v)
	if err != nil {
		return zero, err
	}
	c.invalidator.Invalidate(ctx)
	return updated, nil
}

func (c *Catalog[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidator.Invalidate(ctx)
	return nil
}

type (
	GradeCatalog      = Catalog[catalog.Grade, *catalog.Grade]
	ProfileCatalog    = Catalog[catalog.Profile, *catalog.Profile]
	TechnologyCatalog = Catalog[catalog.Technology, *catalog.Technology]
	SkillCatalog      = Catalog[catalog.Skill, *catalog.Skill]
)

// SubskillCatalog adds the per-skill listing.
type SubskillCatalog struct {
	*Catalog[catalog.Subskill, *catalog.Subskill]
	subskills repository.SubskillStore
}

func NewSubskillCatalog(store repository.SubskillStore, inv Invalidator) *SubskillCatalog {
	return &SubskillCatalog{
		Catalog:   NewCatalog[catalog.Subskill, *catalog.Subskill](store, inv),
		subskills: store,
	}
}

func (c *SubskillCatalog) ListBySkill(ctx context.Context, skillID int64) ([]catalog.Subskill, error) {
	return c.subskills.ListBySkill(ctx, skillID)
}
