package report

import (
	"encoding/csv"
	"io"

	"skill-matrix/internal/domain/analytics"
)

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, cols []Column, rows []Row) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			line[i] = c.Cell(r[c.Key])
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func LeaderboardColumns() []Column {
	return []Column{
		{Key: "rank", Header: "Rank", Kind: Formatted, Format: FormatRank},
		{Key: "name", Header: "Employee", Kind: Plain},
		{Key: "department", Header: "Department", Kind: Plain},
		{Key: "profile", Header: "Profile", Kind: Badge},
		{Key: "skills", Header: "Skills Graded", Kind: Plain},
		{Key: "average", Header: "Average Grade", Kind: Plain},
		{Key: "top", Header: "Top Skills", Kind: Formatted, Format: FormatList},
	}
}

func LeaderboardRows(entries []analytics.LeaderboardEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			"rank":       e.Rank,
			"name":       e.Name,
			"department": e.Department,
			"profile":    e.Profile,
			"skills":     e.TotalSkills,
			"average":    e.AverageGrade,
			"top":        e.TopSkills,
		})
	}
	return rows
}
