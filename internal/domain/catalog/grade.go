package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

const UnknownGrade = "Unknown grade"

// LevelOrdinal returns the numeric suffix of a grade level ("L3" -> 3). Levels
// without a numeric suffix sort after every numbered level.
func LevelOrdinal(level string) int {
	level = strings.TrimSpace(level)
	end := len(level)
	start := end
	for start > 0 && level[start-1] >= '0' && level[start-1] <= '9' {
		start--
	}
	if start == end {
		return math.MaxInt32
	}
	n, err := strconv.Atoi(level[start:end])
	if err != nil {
		return math.MaxInt32
	}
	return n
}

// SortGrades orders grades by level ordinal, then level text, then id.
func SortGrades(grades []Grade) {
	sort.SliceStable(grades, func(i, j int) bool {
		oi, oj := LevelOrdinal(grades[i].Level), LevelOrdinal(grades[j].Level)
		if oi != oj {
			return oi < oj
		}
		if grades[i].Level != grades[j].Level {
			return grades[i].Level < grades[j].Level
		}
		return grades[i].ID < grades[j].ID
	})
}

// Label renders a grade as "L3 - Senior".
func (g Grade) Label() string {
	lvl := strings.TrimSpace(g.Level)
	title := strings.TrimSpace(g.Title)
	switch {
	case lvl == "":
		return title
	case title == "":
		return lvl
	default:
		return lvl + " - " + title
	}
}

// GradeLabel resolves id against idx and falls back to UnknownGrade for
// dangling references.
func GradeLabel(idx Index[Grade], id int64) string {
	g, ok := idx.Get(id)
	if !ok {
		return UnknownGrade
	}
	return g.Label()
}
