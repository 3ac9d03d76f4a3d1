package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ColumnStats classifies the columns of a table the same way the
// metadata view presents them.
type ColumnStats struct {
	NumericCols []string
	TextCols    []string
	DateCols    []string
}

// NumericSummary holds the describe-style statistics of one numeric column.
type NumericSummary struct {
	Count int
	Mean  decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
	Sum   decimal.Decimal
}

// classifySampleSize is how many non-empty cells are inspected per column.
const classifySampleSize = 50

// classifyThreshold is the fraction of sampled cells that must parse for
// a column to be typed numeric or date.
const classifyThreshold = 0.8

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// Classify types each column as numeric, date or text by sampling cell
// values.
func Classify(t *Table) ColumnStats {
	var stats ColumnStats
	for i, col := range t.Columns {
		switch classifyColumn(t, i) {
		case "numeric":
			stats.NumericCols = append(stats.NumericCols, col)
		case "date":
			stats.DateCols = append(stats.DateCols, col)
		default:
			stats.TextCols = append(stats.TextCols, col)
		}
	}
	return stats
}

func classifyColumn(t *Table, idx int) string {
	sampled, numeric, date := 0, 0, 0
	for _, row := range t.Rows {
		val := strings.TrimSpace(row[idx])
		if val == "" {
			continue
		}
		sampled++
		if _, err := ParseDecimal(val); err == nil {
			numeric++
		} else if _, err := ParseDate(val); err == nil {
			date++
		}
		if sampled >= classifySampleSize {
			break
		}
	}
	if sampled == 0 {
		return "text"
	}
	if float64(numeric)/float64(sampled) >= classifyThreshold {
		return "numeric"
	}
	if float64(date)/float64(sampled) >= classifyThreshold {
		return "date"
	}
	return "text"
}

// ParseDecimal parses a monetary or numeric cell. Both the Brazilian
// form ("1.234,56", optionally prefixed with R$) and the plain dot form
// ("1234.56") are accepted.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("valor vazio")
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// 1.234,56 -> 1234.56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// ParseDate parses a date cell trying the layouts seen in NF-e exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("data não reconhecida: %q", s)
}

// Describe computes count/mean/min/max over a numeric column. Cells that
// do not parse are ignored.
func Describe(t *Table, column string) (NumericSummary, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return NumericSummary{}, fmt.Errorf("coluna '%s' não encontrada", column)
	}

	var summary NumericSummary
	for _, row := range t.Rows {
		val, err := ParseDecimal(row[idx])
		if err != nil {
			continue
		}
		if summary.Count == 0 {
			summary.Min = val
			summary.Max = val
		} else {
			if val.LessThan(summary.Min) {
				summary.Min = val
			}
			if val.GreaterThan(summary.Max) {
				summary.Max = val
			}
		}
		summary.Sum = summary.Sum.Add(val)
		summary.Count++
	}
	if summary.Count == 0 {
		return summary, fmt.Errorf("coluna '%s' não contém valores numéricos", column)
	}
	summary.Mean = summary.Sum.Div(decimal.NewFromInt(int64(summary.Count))).Round(2)
	return summary, nil
}

// ColumnIndex returns the position of a column by case-insensitive name,
// or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}

// ResolveColumn finds the first column matching any of the given
// aliases. Portal exports name the same field differently across years,
// so lookups go through alias lists.
func (t *Table) ResolveColumn(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		if idx := t.ColumnIndex(alias); idx >= 0 {
			return idx, true
		}
	}
	return -1, false
}
