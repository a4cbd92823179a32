package grading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

type fakeWriter struct {
	mu      sync.Mutex
	calls   []Change
	failFor map[int64]error
}

func (w *fakeWriter) AssignGrade(_ context.Context, subskillID, _ int64, gradeID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, Change{SubskillID: subskillID, GradeID: gradeID})
	if err, ok := w.failFor[subskillID]; ok {
		return err
	}
	return nil
}

func loaded(t *testing.T) Session {
	t.Helper()
	return New().Select(5, resolution.Scope{UserID: 5}, []mapping.SkillMap{
		{ID: 1, SubskillID: 10, UserID: 5, GradeID: 2, Active: true},
		{ID: 2, SubskillID: 12, UserID: 9, GradeID: 4, Active: true},
	})
}

func TestSession_StateTransitions(t *testing.T) {
	s := New()
	assert.Equal(t, Idle, s.State())

	_, err := s.SetGrade(7, 3)
	assert.ErrorIs(t, err, ErrNoEmployee)

	s = loaded(t)
	assert.Equal(t, Loaded, s.State())
	assert.False(t, s.HasChanges())

	s, err = s.SetGrade(7, 3)
	require.NoError(t, err)
	assert.Equal(t, Editing, s.State())

	s, err = s.Save(context.Background(), &fakeWriter{})
	require.NoError(t, err)
	assert.Equal(t, Loaded, s.State())
	assert.False(t, s.HasChanges())
}

func TestSession_EffectiveGradePrecedence(t *testing.T) {
	s := loaded(t)

	g, ok := s.EffectiveGrade(10)
	require.True(t, ok)
	assert.Equal(t, int64(2), g)

	_, ok = s.EffectiveGrade(12)
	assert.False(t, ok, "another user's grade must not leak into the session")

	staged, err := s.SetGrade(10, 4)
	require.NoError(t, err)
	g, _ = staged.EffectiveGrade(10)
	assert.Equal(t, int64(4), g)

	g, _ = s.EffectiveGrade(10)
	assert.Equal(t, int64(2), g, "original session value must be unchanged")

	cleared, err := s.SetGrade(10, mapping.NoGrade)
	require.NoError(t, err)
	_, ok = cleared.EffectiveGrade(10)
	assert.False(t, ok)
}

func TestSession_SelectDiscardsStagedEdits(t *testing.T) {
	s, err := loaded(t).SetGrade(11, 1)
	require.NoError(t, err)

	s = s.Select(6, resolution.Scope{UserID: 6}, nil)
	assert.Equal(t, Loaded, s.State())
	assert.False(t, s.HasChanges())
	assert.Equal(t, int64(6), s.UserID())
}

func TestSession_TransportFailureKeepsStagedEdits(t *testing.T) {
	s, err := loaded(t).SetGrade(7, 3)
	require.NoError(t, err)

	w := &fakeWriter{failFor: map[int64]error{7: errors.New("connection refused")}}
	s, err = s.Save(context.Background(), w)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Equal(t, Editing, s.State())
	assert.ErrorIs(t, s.Err(), apperrors.ErrTransport)

	g, ok := s.EffectiveGrade(7)
	require.True(t, ok)
	assert.Equal(t, int64(3), g)

	s, err = s.Save(context.Background(), &fakeWriter{})
	require.NoError(t, err)
	assert.Equal(t, Loaded, s.State())
	g, _ = s.EffectiveGrade(7)
	assert.Equal(t, int64(3), g)
}

func TestSession_PartialFailureClearsSuccesses(t *testing.T) {
	s := loaded(t)
	var err error
	s, err = s.SetGrade(11, 1)
	require.NoError(t, err)
	s, err = s.SetGrade(99, 2)
	require.NoError(t, err)
	s, err = s.SetGrade(10, mapping.NoGrade)
	require.NoError(t, err)

	w := &fakeWriter{failFor: map[int64]error{99: fmt.Errorf("subskill 99: %w", apperrors.ErrNotFound)}}
	s, err = s.Save(context.Background(), w)

	var batch *apperrors.BatchError
	require.ErrorAs(t, err, &batch)
	assert.ErrorIs(t, err, apperrors.ErrPartialBatch)
	require.Len(t, batch.Failed, 1)
	assert.Equal(t, int64(99), batch.Failed[0].SubskillID)
	assert.Equal(t, 2, batch.Succeeded)

	assert.Equal(t, Editing, s.State())
	assert.Equal(t, []Change{{SubskillID: 99, GradeID: 2}}, s.Staged())

	g, ok := s.EffectiveGrade(11)
	require.True(t, ok)
	assert.Equal(t, int64(1), g)
	_, ok = s.EffectiveGrade(10)
	assert.False(t, ok)
	assert.Len(t, w.calls, 3)
}

func TestSession_AssignmentsOverlayStagedValues(t *testing.T) {
	s, err := loaded(t).SetGrade(11, 1)
	require.NoError(t, err)

	got := s.Assignments()
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].SubskillID)
	assert.Equal(t, int64(2), got[0].GradeID)
	assert.Equal(t, int64(11), got[1].SubskillID)
	assert.Equal(t, int64(1), got[1].GradeID)
	assert.Equal(t, int64(5), got[1].UserID)
}

func TestSession_RejectsNegativeGrade(t *testing.T) {
	_, err := loaded(t).SetGrade(7, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
