package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/analytics"
)

func TestColumn_Cell(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "Ana", Column{Kind: Plain}.Cell("Ana"))
	assert.Equal(t, "", Column{Kind: Plain}.Cell(nil))
	assert.Equal(t, "BACKEND", Column{Kind: Badge}.Cell(" backend "))
	assert.Equal(t, "2024-03-09", Column{Kind: Date}.Cell(at))
	assert.Equal(t, "2024-03-09", Column{Kind: Date}.Cell(&at))
	assert.Equal(t, "", Column{Kind: Date}.Cell((*time.Time)(nil)))
	assert.Equal(t, "66.7%", Column{Kind: Formatted, Format: FormatPercent}.Cell(66.7))
	assert.Equal(t, "Go; SQL", Column{Kind: Formatted, Format: FormatList}.Cell([]string{"Go", "SQL"}))
	assert.Equal(t, "#2", Column{Kind: Formatted, Format: FormatRank}.Cell(2))
	assert.Equal(t, "1.5", Column{Kind: Plain}.Cell(analytics.MeanOf(3, 2)))
	assert.Equal(t, "0", Column{Kind: Plain}.Cell(analytics.Average{}))
}

func TestWriteCSV_Leaderboard(t *testing.T) {
	entries := []analytics.LeaderboardEntry{
		{Rank: 1, Name: "Ana", Department: "R&D", Profile: "Backend", TotalSkills: 2, AverageGrade: analytics.MeanOf(5, 2), TopSkills: []string{"Go", "SQL"}},
		{Rank: 2, Name: "Ben, Jr.", TotalSkills: 0, TopSkills: []string{}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, LeaderboardColumns(), LeaderboardRows(entries)))

	want := "Rank,Employee,Department,Profile,Skills Graded,Average Grade,Top Skills\n" +
		"#1,Ana,R&D,BACKEND,2,2.5,Go; SQL\n" +
		"#2,\"Ben, Jr.\",,,0,0,\n"
	assert.Equal(t, want, buf.String())
}
