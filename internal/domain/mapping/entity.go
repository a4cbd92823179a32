package mapping

import (
	"time"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
)

// NoGrade is the gradeid sentinel for "ungraded". Writing it removes the
// assignment instead of storing a zero grade.
const NoGrade int64 = 0

type TechnologySkill struct {
	ID           int64 `json:"id"`
	TechnologyID int64 `json:"technologyId"`
	SkillID      int64 `json:"skillId"`
	Active       bool  `json:"isactive"`
	catalog.Audit
}

func (m TechnologySkill) Key() int64 { return m.ID }
func (m *TechnologySkill) SetKey(id int64) { m.ID = id }
func (m TechnologySkill) IsActive() bool { return m.Active }
func (m TechnologySkill) Pair() (int64, int64) { return m.TechnologyID, m.SkillID }

func (m TechnologySkill) Validate() error {
	return requirePair("technologyId", m.TechnologyID, "skillId", m.SkillID)
}

func (m *TechnologySkill) Touch(prev *TechnologySkill, actor string, at time.Time) {
	if prev == nil {
		m.Stamp(nil, actor, at)
		return
	}
	m.Stamp(&prev.Audit, actor, at)
}

type TechnologyProfile struct {
	ID           int64 `json:"id"`
	TechnologyID int64 `json:"technologyId"`
	ProfileID    int64 `json:"profileId"`
	Active       bool  `json:"isactive"`
	catalog.Audit
}

func (m TechnologyProfile) Key() int64 { return m.ID }
func (m *TechnologyProfile) SetKey(id int64) { m.ID = id }
func (m TechnologyProfile) IsActive() bool { return m.Active }
func (m TechnologyProfile) Pair() (int64, int64) { return m.TechnologyID, m.ProfileID }

func (m TechnologyProfile) Validate() error {
	return requirePair("technologyId", m.TechnologyID, "profileId", m.ProfileID)
}

func (m *TechnologyProfile) Touch(prev *TechnologyProfile, actor string, at time.Time) {
	if prev == nil {
		m.Stamp(nil, actor, at)
		return
	}
	m.Stamp(&prev.Audit, actor, at)
}

type ProfileUser struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProfileID int64 `json:"profileId"`
	Active    bool  `json:"isactive"`
	catalog.Audit
}

func (m ProfileUser) Key() int64 { return m.ID }
func (m *ProfileUser) SetKey(id int64) { m.ID = id }
func (m ProfileUser) IsActive() bool { return m.Active }
func (m ProfileUser) Pair() (int64, int64) { return m.UserID, m.ProfileID }

func (m ProfileUser) Validate() error {
	return requirePair("userId", m.UserID, "profileId", m.ProfileID)
}

func (m *ProfileUser) Touch(prev *ProfileUser, actor string, at time.Time) {
	if prev == nil {
		m.Stamp(nil, actor, at)
		return
	}
	m.Stamp(&prev.Audit, actor, at)
}

// SkillMap is the graded fact: UserID was assessed at GradeID for SubskillID.
type SkillMap struct {
	ID         int64 `json:"id"`
	SubskillID int64 `json:"subskillId"`
	UserID     int64 `json:"userId"`
	GradeID    int64 `json:"gradeid"`
	Active     bool  `json:"isactive"`
	catalog.Audit
}

func (m SkillMap) Key() int64 { return m.ID }
func (m *SkillMap) SetKey(id int64) { m.ID = id }
func (m SkillMap) IsActive() bool { return m.Active }
func (m SkillMap) Pair() (int64, int64) { return m.SubskillID, m.UserID }

func (m SkillMap) Validate() error {
	v := &apperrors.ValidationError{}
	if m.SubskillID <= 0 {
		v.Add("subskillId")
	}
	if m.UserID <= 0 {
		v.Add("userId")
	}
	if m.GradeID < 0 {
		v.Add("gradeid")
	}
	return v.OrNil()
}

func (m *SkillMap) Touch(prev *SkillMap, actor string, at time.Time) {
	if prev == nil {
		m.Stamp(nil, actor, at)
		return
	}
	m.Stamp(&prev.Audit, actor, at)
}

func requirePair(leftName string, left int64, rightName string, right int64) error {
	v := &apperrors.ValidationError{}
	if left <= 0 {
		v.Add(leftName)
	}
	if right <= 0 {
		v.Add(rightName)
	}
	return v.OrNil()
}
