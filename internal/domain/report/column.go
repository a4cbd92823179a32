// Package report renders tabular views from column descriptors. A column says
// how its cell is shown; it never carries a render callback.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	Plain Kind = iota
	Badge
	Date
	Formatted
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Badge:
		return "badge"
	case Date:
		return "date"
	case Formatted:
		return "formatter"
	default:
		return "unknown"
	}
}

// Formatter names a fixed cell formatter for Formatted columns.
type Formatter string

const (
	FormatPercent Formatter = "percent"
	FormatList    Formatter = "list"
	FormatRank    Formatter = "rank"
)

const dateLayout = "2006-01-02"

type Column struct {
	Key    string    `json:"key"`
	Header string    `json:"header"`
	Kind   Kind      `json:"kind"`
	Format Formatter `json:"format,omitempty"`
}

// Row maps column keys to raw cell values.
type Row map[string]any

// Cell renders v according to the column. Missing values render empty.
func (c Column) Cell(v any) string {
	if v == nil {
		return ""
	}
	switch c.Kind {
	case Badge:
		return strings.ToUpper(strings.TrimSpace(plain(v)))
	case Date:
		return date(v)
	case Formatted:
		return c.format(v)
	default:
		return plain(v)
	}
}

func (c Column) format(v any) string {
	switch c.Format {
	case FormatPercent:
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', 1, 64) + "%"
		case int:
			return strconv.Itoa(n) + "%"
		}
	case FormatList:
		if list, ok := v.([]string); ok {
			return strings.Join(list, "; ")
		}
	case FormatRank:
		if n, ok := v.(int); ok {
			return "#" + strconv.Itoa(n)
		}
	}
	return plain(v)
}

func plain(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func date(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(dateLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.UTC().Format(dateLayout)
	default:
		return plain(v)
	}
}
