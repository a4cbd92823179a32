// Package grading holds the in-progress grade edits for one employee and
// commits them as a batch.
package grading

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

const maxConcurrentWrites = 8

var ErrNoEmployee = errors.New("no employee selected")

type State int

const (
	Idle State = iota
	Loaded
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// Writer applies one skill-grade upsert for (subskillID, userID). A gradeID of
// mapping.NoGrade removes the assignment.
type Writer interface {
	AssignGrade(ctx context.Context, subskillID, userID, gradeID int64) error
}

type Change struct {
	SubskillID int64 `json:"subskillId"`
	GradeID    int64 `json:"gradeId"`
}

// Session is a value: every transition returns a new Session and leaves the
// receiver untouched.
type Session struct {
	state     State
	userID    int64
	scope     resolution.Scope
	persisted map[int64]mapping.SkillMap
	staged    map[int64]int64
	err       error
}

func New() Session {
	return Session{state: Idle}
}

// Select switches to userID and drops any staged edits without asking.
func (s Session) Select(userID int64, scope resolution.Scope, persisted []mapping.SkillMap) Session {
	next := Session{
		state:     Loaded,
		userID:    userID,
		scope:     scope,
		persisted: make(map[int64]mapping.SkillMap, len(persisted)),
		staged:    map[int64]int64{},
	}
	for _, sm := range persisted {
		if !sm.Active || sm.UserID != userID {
			continue
		}
		next.persisted[sm.SubskillID] = sm
	}
	return next
}

// SetGrade stages gradeID for subskillID. Storage is not touched until Save.
func (s Session) SetGrade(subskillID, gradeID int64) (Session, error) {
	if s.state == Idle {
		return s, ErrNoEmployee
	}
	v := &apperrors.ValidationError{}
	if subskillID <= 0 {
		v.Add("subskillId")
	}
	if gradeID < 0 {
		v.Add("gradeId")
	}
	if err := v.OrNil(); err != nil {
		return s, err
	}

	next := s.clone()
	next.staged[subskillID] = gradeID
	if next.state != Saving {
		next.state = Editing
	}
	return next, nil
}

// EffectiveGrade resolves staged, then persisted. ok is false when the
// sub-skill is ungraded.
func (s Session) EffectiveGrade(subskillID int64) (int64, bool) {
	if g, ok := s.staged[subskillID]; ok {
		if g == mapping.NoGrade {
			return mapping.NoGrade, false
		}
		return g, true
	}
	if sm, ok := s.persisted[subskillID]; ok && sm.GradeID != mapping.NoGrade {
		return sm.GradeID, true
	}
	return mapping.NoGrade, false
}

// Assignments is the effective assignment set (persisted overlaid with staged
// edits) used for preview statistics.
func (s Session) Assignments() []mapping.SkillMap {
	ids := make(map[int64]struct{}, len(s.persisted)+len(s.staged))
	for id := range s.persisted {
		ids[id] = struct{}{}
	}
	for id := range s.staged {
		ids[id] = struct{}{}
	}

	out := make([]mapping.SkillMap, 0, len(ids))
	for id := range ids {
		g, ok := s.EffectiveGrade(id)
		if !ok {
			continue
		}
		sm, had := s.persisted[id]
		if !had {
			sm = mapping.SkillMap{SubskillID: id, UserID: s.userID, Active: true}
		}
		sm.GradeID = g
		out = append(out, sm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubskillID < out[j].SubskillID })
	return out
}

func (s Session) Staged() []Change {
	out := make([]Change, 0, len(s.staged))
	for sub, g := range s.staged {
		out = append(out, Change{SubskillID: sub, GradeID: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubskillID < out[j].SubskillID })
	return out
}

func (s Session) HasChanges() bool { return len(s.staged) > 0 }
func (s Session) State() State { return s.state }
func (s Session) UserID() int64 { return s.userID }
func (s Session) Scope() resolution.Scope { return s.scope }

// Err is the failure of the last Save, if it left edits behind.
func (s Session) Err() error { return s.err }

// Save writes every staged change through w concurrently.
//
// Item failures (validation, unknown ids) are reported in a *BatchError while
// the successful writes are cleared from staging. Any other failure is treated
// as transport: one aggregate error is returned and all staged edits stay in
// place for a retry.
func (s Session) Save(ctx context.Context, w Writer) (Session, error) {
	if s.state == Idle {
		return s, ErrNoEmployee
	}
	changes := s.Staged()
	if len(changes) == 0 {
		next := s.clone()
		next.state = Loaded
		next.err = nil
		return next, nil
	}

	inflight := s.clone()
	inflight.state = Saving

	results := make([]error, len(changes))
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentWrites)
	for i, ch := range changes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = w.AssignGrade(ctx, ch.SubskillID, inflight.userID, ch.GradeID)
			return nil
		})
	}
	_ = g.Wait()

	var transport []error
	for _, err := range results {
		if err != nil && !apperrors.IsItemFailure(err) {
			transport = append(transport, err)
		}
	}
	if len(transport) > 0 {
		next := s.clone()
		next.state = Editing
		next.err = fmt.Errorf("%w: %w", apperrors.ErrTransport, errors.Join(transport...))
		return next, next.err
	}

	next := inflight.clone()
	batch := &apperrors.BatchError{}
	for i, ch := range changes {
		if err := results[i]; err != nil {
			batch.Failed = append(batch.Failed, apperrors.ItemError{
				SubskillID: ch.SubskillID,
				GradeID:    ch.GradeID,
				Message:    err.Error(),
				Err:        err,
			})
			continue
		}
		batch.Succeeded++
		delete(next.staged, ch.SubskillID)
		if ch.GradeID == mapping.NoGrade {
			delete(next.persisted, ch.SubskillID)
			continue
		}
		sm, ok := next.persisted[ch.SubskillID]
		if !ok {
			sm = mapping.SkillMap{SubskillID: ch.SubskillID, UserID: next.userID, Active: true}
		}
		sm.GradeID = ch.GradeID
		next.persisted[ch.SubskillID] = sm
	}

	if len(batch.Failed) > 0 {
		next.state = Editing
		next.err = batch
		return next, batch
	}
	next.state = Loaded
	next.err = nil
	return next, nil
}

func (s Session) clone() Session {
	next := s
	next.persisted = make(map[int64]mapping.SkillMap, len(s.persisted))
	for k, v := range s.persisted {
		next.persisted[k] = v
	}
	next.staged = make(map[int64]int64, len(s.staged))
	for k, v := range s.staged {
		next.staged[k] = v
	}
	return next
}
