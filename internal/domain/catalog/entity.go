package catalog

import (
	"strings"
	"time"

	"skill-matrix/internal/apperrors"
)

// Audit carries the created/updated stamps shared by every record. Business
// logic never reads them.
type Audit struct {
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Stamp sets the created stamps when prev is nil and otherwise keeps prev's
// created stamps and sets the updated ones.
func (a *Audit) Stamp(prev *Audit, actor string, at time.Time) {
	at = at.UTC()
	if prev == nil {
		a.CreatedBy = actor
		a.CreatedAt = &at
		a.UpdatedBy = ""
		a.UpdatedAt = nil
		return
	}
	a.CreatedBy = prev.CreatedBy
	a.CreatedAt = prev.CreatedAt
	a.UpdatedBy = actor
	a.UpdatedAt = &at
}

type Category string

const (
	CategoryFrontend Category = "Frontend"
	CategoryBackend  Category = "Backend"
	CategoryDatabase Category = "Database"
	CategoryCloud    Category = "Cloud"
	CategoryDevOps   Category = "DevOps"
	CategoryMobile   Category = "Mobile"
	CategoryOther    Category = "Other"
)

var Categories = []Category{
	CategoryFrontend,
	CategoryBackend,
	CategoryDatabase,
	CategoryCloud,
	CategoryDevOps,
	CategoryMobile,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleManager || r == RoleEmployee
}

type Grade struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Level  string `json:"gradelevel"`
	Active bool   `json:"isactive"`
	Audit
}

func (g Grade) Key() int64 { return g.ID }
func (g *Grade) SetKey(id int64) { g.ID = id }
func (g Grade) IsActive() bool { return g.Active }

func (g Grade) Validate() error {
	v := &apperrors.ValidationError{}
	if blank(g.Title) {
		v.Add("title")
	}
	if blank(g.Level) {
		v.Add("gradelevel")
	}
	return v.OrNil()
}

func (g *Grade) Touch(prev *Grade, actor string, at time.Time) {
	if prev == nil {
		g.Stamp(nil, actor, at)
		return
	}
	g.Stamp(&prev.Audit, actor, at)
}

type Profile struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"isactive"`
	Audit
}

func (p Profile) Key() int64 { return p.ID }
func (p *Profile) SetKey(id int64) { p.ID = id }
func (p Profile) IsActive() bool { return p.Active }

func (p Profile) Validate() error {
	if blank(p.Title) {
		return apperrors.NewValidation("title")
	}
	return nil
}

func (p *Profile) Touch(prev *Profile, actor string, at time.Time) {
	if prev == nil {
		p.Stamp(nil, actor, at)
		return
	}
	p.Stamp(&prev.Audit, actor, at)
}

type Technology struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"type"`
	Active   bool     `json:"isactive"`
	Audit
}

func (t Technology) Key() int64 { return t.ID }
func (t *Technology) SetKey(id int64) { t.ID = id }
func (t Technology) IsActive() bool { return t.Active }

func (t Technology) Validate() error {
	v := &apperrors.ValidationError{}
	if blank(t.Title) {
		v.Add("title")
	}
	if !t.Category.Valid() {
		v.Add("type")
	}
	return v.OrNil()
}

func (t *Technology) Touch(prev *Technology, actor string, at time.Time) {
	if prev == nil {
		t.Stamp(nil, actor, at)
		return
	}
	t.Stamp(&prev.Audit, actor, at)
}

type Skill struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"isactive"`
	Audit
}

func (s Skill) Key() int64 { return s.ID }
func (s *Skill) SetKey(id int64) { s.ID = id }
func (s Skill) IsActive() bool { return s.Active }

func (s Skill) Validate() error {
	if blank(s.Title) {
		return apperrors.NewValidation("title")
	}
	return nil
}

func (s *Skill) Touch(prev *Skill, actor string, at time.Time) {
	if prev == nil {
		s.Stamp(nil, actor, at)
		return
	}
	s.Stamp(&prev.Audit, actor, at)
}

type Subskill struct {
	ID      int64  `json:"id"`
	SkillID int64  `json:"skillId"`
	Title   string `json:"title"`
	Active  bool   `json:"isactive"`
	Audit
}

func (s Subskill) Key() int64 { return s.ID }
func (s *Subskill) SetKey(id int64) { s.ID = id }
func (s Subskill) IsActive() bool { return s.Active }

func (s Subskill) Validate() error {
	v := &apperrors.ValidationError{}
	if blank(s.Title) {
		v.Add("title")
	}
	if s.SkillID <= 0 {
		v.Add("skillId")
	}
	return v.OrNil()
}

func (s *Subskill) Touch(prev *Subskill, actor string, at time.Time) {
	if prev == nil {
		s.Stamp(nil, actor, at)
		return
	}
	s.Stamp(&prev.Audit, actor, at)
}

// User is an employee. ProfileID mirrors the Profile-User mapping for display
// only; resolution always reads the mapping.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department,omitempty"`
	ProfileID    *int64 `json:"profileId,omitempty"`
	Role         Role   `json:"role"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"isactive"`
	Audit
}

func (u User) Key() int64 { return u.ID }
func (u *User) SetKey(id int64) { u.ID = id }
func (u User) IsActive() bool { return u.Active }

func (u User) Validate() error {
	v := &apperrors.ValidationError{}
	if blank(u.Name) {
		v.Add("name")
	}
	if blank(u.Email) || !strings.Contains(u.Email, "@") {
		v.Add("email")
	}
	if u.Role != "" && !u.Role.Valid() {
		v.Add("role")
	}
	return v.OrNil()
}

// Touch also keeps the stored password hash when the update does not carry a
// new one.
func (u *User) Touch(prev *User, actor string, at time.Time) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	if prev == nil {
		u.Stamp(nil, actor, at)
		return
	}
	if u.PasswordHash == "" {
		u.PasswordHash = prev.PasswordHash
	}
	u.Stamp(&prev.Audit, actor, at)
}

// Sanitized drops credentials before a user leaves the service.
func (u User) Sanitized() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
