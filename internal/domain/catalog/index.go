package catalog

type keyed interface {
	Key() int64
}

// Index is a read-only id lookup. A missing id is reported through the ok
// flag, never a panic.
type Index[T keyed] struct {
	byID map[int64]T
}

func NewIndex[T keyed](items []T) Index[T] {
	m := make(map[int64]T, len(items))
	for _, it := range items {
		m[it.Key()] = it
	}
	return Index[T]{byID: m}
}

func (i Index[T]) Get(id int64) (T, bool) {
	v, ok := i.byID[id]
	return v, ok
}

// Active returns the record only when it exists and is active.
func Active[T interface {
	keyed
	IsActive() bool
}](i Index[T], id int64) (T, bool) {
	v, ok := i.byID[id]
	if !ok || !v.IsActive() {
		var zero T
		return zero, false
	}
	return v, true
}

func (i Index[T]) Len() int {
	return len(i.byID)
}
