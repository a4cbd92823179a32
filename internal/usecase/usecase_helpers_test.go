package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/repository"
	"skill-matrix/internal/repository/memory"
)

type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.data[key] = b
	f.mu.Unlock()
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			delete(f.data, k)
		}
	}
	return nil
}

func mustCreate[T any](t *testing.T, s repository.Store[T], v T) T {
	t.Helper()
	out, err := s.Create(context.Background(), v)
	require.NoError(t, err)
	return out
}

// gradedTeam seeds grades {1 Junior L1, 2 Senior L3}, profile 1, technology
// 1, skill 1 with sub-skills 1 and 2, and user 1. Nothing is mapped yet.
func gradedTeam(t *testing.T) repository.Stores {
	t.Helper()
	s := memory.NewStores()
	mustCreate(t, s.Grades, catalog.Grade{Title: "Junior", Level: "L1", Active: true})
	mustCreate(t, s.Grades, catalog.Grade{Title: "Senior", Level: "L3", Active: true})
	mustCreate(t, s.Profiles, catalog.Profile{Title: "Backend Developer", Active: true})
	mustCreate(t, s.Technologies, catalog.Technology{Title: "Go", Category: catalog.CategoryBackend, Active: true})
	mustCreate(t, s.Skills, catalog.Skill{Title: "Concurrency", Active: true})
	mustCreate[catalog.Subskill](t, s.Subskills, catalog.Subskill{SkillID: 1, Title: "Channels", Active: true})
	mustCreate[catalog.Subskill](t, s.Subskills, catalog.Subskill{SkillID: 1, Title: "Mutexes", Active: true})
	mustCreate[catalog.User](t, s.Users, catalog.User{Name: "Ana", Email: "ana@example.com", Role: catalog.RoleEmployee, Active: true})
	return s
}
