package dto

import "skill-matrix/internal/domain/grading"

// SaveGradesRequest is the body of POST /users/:id/grades. A gradeId of 0
// removes the assignment.
type SaveGradesRequest struct {
	Changes []grading.Change `json:"changes"`
}

// SkillMapResponse wraps a SkillMap upsert. Removed is set when the write
// cleared the grade and nothing is left for the pair.
type SkillMapResponse[T any] struct {
	Record  *T   `json:"record"`
	Removed bool `json:"removed"`
}
