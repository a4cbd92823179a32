package usecase

import (
	"context"
	"errors"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/analytics"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/grading"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
	"skill-matrix/internal/repository"
)

type GradedSubskill struct {
	SubskillID int64  `json:"subskillId"`
	Subskill   string `json:"subskill"`
	SkillID    int64  `json:"skillId"`
	GradeID    int64  `json:"gradeId"`
	Grade      string `json:"grade"`
}

// Competency is one employee's full view: what they can be graded on, what
// they hold and how it adds up.
type Competency struct {
	User   catalog.User             `json:"user"`
	Scope  resolution.Scope         `json:"scope"`
	Stats  analytics.UserStats      `json:"stats"`
	Radar  []analytics.SkillAverage `json:"radar"`
	Grades []GradedSubskill         `json:"grades"`
}

type SaveResult struct {
	Saved  int                   `json:"saved"`
	Failed []apperrors.ItemError `json:"failed"`
	Stats  analytics.UserStats   `json:"stats"`
}

type CompetencyService struct {
	stores repository.Stores
	writer grading.Writer
}

func NewCompetencyService(stores repository.Stores, writer grading.Writer) *CompetencyService {
	return &CompetencyService{stores: stores, writer: writer}
}

func (s *CompetencyService) load(ctx context.Context, userID int64) (dataset.Dataset, catalog.User, error) {
	u, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return dataset.Dataset{}, catalog.User{}, err
	}
	d, err := repository.LoadDataset(ctx, s.stores)
	if err != nil {
		return dataset.Dataset{}, catalog.User{}, err
	}
	return d, u, nil
}

func (s *CompetencyService) Scope(ctx context.Context, userID int64) (resolution.Scope, error) {
	d, _, err := s.load(ctx, userID)
	if err != nil {
		return resolution.Scope{}, err
	}
	return resolution.Resolve(d, userID), nil
}

func (s *CompetencyService) Stats(ctx context.Context, userID int64) (analytics.UserStats, error) {
	d, _, err := s.load(ctx, userID)
	if err != nil {
		return analytics.UserStats{}, err
	}
	return analytics.StatsFor(d.SkillMaps, resolution.Resolve(d, userID)), nil
}

func (s *CompetencyService) Competency(ctx context.Context, userID int64) (Competency, error) {
	d, u, err := s.load(ctx, userID)
	if err != nil {
		return Competency{}, err
	}
	scope := resolution.Resolve(d, userID)
	return Competency{
		User:   u.Sanitized(),
		Scope:  scope,
		Stats:  analytics.StatsFor(d.SkillMaps, scope),
		Radar:  analytics.SkillAverages(d, userID),
		Grades: gradedSubskills(d, d.AssignmentsFor(userID)),
	}, nil
}

// Preview computes the stats the employee would have if changes were saved.
// Nothing is written.
func (s *CompetencyService) Preview(ctx context.Context, userID int64, changes []grading.Change) (analytics.UserStats, error) {
	d, _, err := s.load(ctx, userID)
	if err != nil {
		return analytics.UserStats{}, err
	}
	session, rejected, err := stage(d, userID, changes)
	if err != nil {
		return analytics.UserStats{}, err
	}
	if len(rejected) > 0 {
		return analytics.UserStats{}, rejected[0].Err
	}
	return analytics.StatsFor(session.Assignments(), session.Scope()), nil
}

// SaveGrades stages changes in a grading session and commits them through the
// writer. Malformed changes and per-item write failures come back in the
// result together with a *apperrors.BatchError; the other changes are still
// written. Any other failure is returned as is.
func (s *CompetencyService) SaveGrades(ctx context.Context, actor string, userID int64, changes []grading.Change) (SaveResult, error) {
	if len(changes) == 0 {
		return SaveResult{}, apperrors.NewValidation("changes")
	}
	d, _, err := s.load(ctx, userID)
	if err != nil {
		return SaveResult{}, err
	}
	session, rejected, err := stage(d, userID, changes)
	if err != nil {
		return SaveResult{}, err
	}

	staged := len(session.Staged())
	_, saveErr := session.Save(WithActor(ctx, actor), s.writer)
	var batch *apperrors.BatchError
	if saveErr != nil && !errors.As(saveErr, &batch) {
		return SaveResult{}, saveErr
	}

	res := SaveResult{Saved: staged, Failed: rejected}
	if batch != nil {
		res.Saved = batch.Succeeded
		res.Failed = append(res.Failed, batch.Failed...)
	}
	if len(res.Failed) > 0 {
		batch = &apperrors.BatchError{Failed: res.Failed, Succeeded: res.Saved}
	}

	maps, err := s.stores.SkillMaps.ListByUser(ctx, userID)
	if err != nil {
		return res, err
	}
	res.Stats = analytics.StatsFor(maps, session.Scope())
	if batch != nil {
		return res, batch
	}
	return res, nil
}

// stage loads userID into a session and applies changes. Changes the session
// refuses as invalid are returned as item failures; the rest stay staged.
func stage(d dataset.Dataset, userID int64, changes []grading.Change) (grading.Session, []apperrors.ItemError, error) {
	session := grading.New().Select(userID, resolution.Resolve(d, userID), d.AssignmentsFor(userID))
	var rejected []apperrors.ItemError
	for _, ch := range changes {
		next, err := session.SetGrade(ch.SubskillID, ch.GradeID)
		if apperrors.IsItemFailure(err) {
			rejected = append(rejected, apperrors.ItemError{
				SubskillID: ch.SubskillID,
				GradeID:    ch.GradeID,
				Message:    err.Error(),
				Err:        err,
			})
			continue
		}
		if err != nil {
			return grading.Session{}, nil, err
		}
		session = next
	}
	return session, rejected, nil
}

func gradedSubskills(d dataset.Dataset, maps []mapping.SkillMap) []GradedSubskill {
	subs := catalog.NewIndex(d.Subskills)
	grades := catalog.NewIndex(d.Grades)

	out := make([]GradedSubskill, 0, len(maps))
	for _, sm := range maps {
		g := GradedSubskill{SubskillID: sm.SubskillID, GradeID: sm.GradeID, Grade: catalog.GradeLabel(grades, sm.GradeID)}
		if sub, ok := subs.Get(sm.SubskillID); ok {
			g.Subskill = sub.Title
			g.SkillID = sub.SkillID
		}
		out = append(out, g)
	}
	return out
}
