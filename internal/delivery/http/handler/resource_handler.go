package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/delivery/http/middleware"
	"skill-matrix/internal/pkg/response"
)

// ResourceService is the CRUD surface shared by catalogs, users and the pair
// mappings.
type ResourceService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Upsert(ctx context.Context, actor string, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// ListFilter serves GET with the given query parameter set.
type ListFilter[T any] struct {
	Param string
	List  func(ctx context.Context, id int64) ([]T, error)
}

// ResourceHandler exposes one resource as GET list, GET by id, POST upsert and
// DELETE. Writes require the manager role. With an owner set, employees only
// read the records they own.
type ResourceHandler[T any] struct {
	svc      ResourceService[T]
	defaults func() T
	filters  []ListFilter[T]
	owner    func(T) int64
}

// NewResourceHandler builds a handler. defaults returns the record a POST body
// is decoded onto, so fields the client omits keep their default.
func NewResourceHandler[T any](svc ResourceService[T], defaults func() T, filters ...ListFilter[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, defaults: defaults, filters: filters}
}

// OwnedBy restricts employee reads to records where owner returns their id.
func (h *ResourceHandler[T]) OwnedBy(owner func(T) int64) *ResourceHandler[T] {
	h.owner = owner
	return h
}

func (h *ResourceHandler[T]) readable(c fiber.Ctx, items []T) []T {
	if h.owner == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, v := range items {
		if middleware.CanRead(c, h.owner(v)) {
			out = append(out, v)
		}
	}
	return out
}

func (h *ResourceHandler[T]) RegisterRoutes(r fiber.Router, writeGuard fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/", writeGuard, h.Upsert)
	r.Delete("/:id", writeGuard, h.Delete)
}

func (h *ResourceHandler[T]) List(c fiber.Ctx) error {
	for _, f := range h.filters {
		id, ok, err := queryID(c, f.Param)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		items, err := f.List(c.Context(), id)
		if err != nil {
			return err
		}
		return response.OK(c, h.readable(c, items))
	}

	items, err := h.svc.List(c.Context())
	if err != nil {
		return err
	}
	return response.OK(c, h.readable(c, items))
}

func (h *ResourceHandler[T]) Get(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	item, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if h.owner != nil && !middleware.CanRead(c, h.owner(item)) {
		return middleware.Forbidden()
	}
	return response.OK(c, item)
}

func (h *ResourceHandler[T]) Upsert(c fiber.Ctx) error {
	var req T
	if h.defaults != nil {
		req = h.defaults()
	}
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	saved, err := h.svc.Upsert(c.Context(), middleware.Actor(c), req)
	if err != nil {
		return err
	}
	return response.OK(c, saved)
}

func (h *ResourceHandler[T]) Delete(c fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "deleted", nil)
}
