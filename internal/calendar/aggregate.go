package calendar

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Rule is a per-column annual aggregation.
type Rule string

// Aggregation rules.
const (
	Sum   Rule = "sum"
	Mean  Rule = "mean"
	Last  Rule = "last"
	First Rule = "first"
)

// Rules maps column names to their aggregation rule. Columns without a rule
// are dropped from the annual table.
type Rules map[string]Rule

// Aggregation errors.
var (
	ErrUnsorted          = errors.New("rows are not sorted by date")
	ErrUnknownColumn     = errors.New("aggregation rule names an unknown column")
	ErrRuleNotApplicable = errors.New("aggregation rule not applicable to text column")
	ErrUnknownRule       = errors.New("unknown aggregation rule")
)

// AnnualTable is a Table with one row per year bucket. Dates hold the
// bucket start (1 July or 1 January).
type AnnualTable struct {
	*Table

	YearType YearType
	Years    []int
	Labels   []string
}

// AggregateByYear groups the rows of a date-sorted table into year-start
// aligned buckets and applies rules column by column. Only non-empty buckets
// are emitted, in chronological order.
func AggregateByYear(t *Table, yt YearType, rules Rules) (*AnnualTable, error) {
	for i := 1; i < len(t.Dates); i++ {
		if t.Dates[i].Before(t.Dates[i-1]) {
			return nil, fmt.Errorf("%w: row %d (%s) precedes row %d (%s)",
				ErrUnsorted, i, t.Dates[i].Format(time.DateOnly), i-1, t.Dates[i-1].Format(time.DateOnly))
		}
	}
	for col, rule := range rules {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		switch rule {
		case Sum, Mean:
			if _, ok := t.Text[col]; ok {
				return nil, fmt.Errorf("%w: %s %s", ErrRuleNotApplicable, rule, col)
			}
		case Last, First:
		default:
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownRule, rule, col)
		}
	}

	var (
		years   []int
		buckets [][2]int
	)
	for i, d := range t.Dates {
		y := yt.Year(d)
		if n := len(years); n > 0 && years[n-1] == y {
			buckets[n-1][1] = i + 1
			continue
		}
		years = append(years, y)
		buckets = append(buckets, [2]int{i, i + 1})
	}

	starts := make([]time.Time, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		starts[i], _ = yt.Range(y)
		labels[i] = yt.Label(y)
	}

	out := &AnnualTable{
		Table:    NewTable(starts),
		YearType: yt,
		Years:    years,
		Labels:   labels,
	}

	for _, col := range t.order {
		rule, ok := rules[col]
		if !ok {
			continue
		}
		if vals, isNum := t.Numeric[col]; isNum {
			agg := make([]float64, len(buckets))
			for i, b := range buckets {
				agg[i] = reduceNumeric(vals[b[0]:b[1]], rule)
			}
			if err := out.AddNumeric(col, agg); err != nil {
				return nil, err
			}
			continue
		}
		vals := t.Text[col]
		agg := make([]string, len(buckets))
		for i, b := range buckets {
			if rule == First {
				agg[i] = vals[b[0]]
			} else {
				agg[i] = vals[b[1]-1]
			}
		}
		if err := out.AddText(col, agg); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func reduceNumeric(vals []float64, rule Rule) float64 {
	switch rule {
	case Sum:
		return floats.Sum(vals)
	case Mean:
		return floats.Sum(vals) / float64(len(vals))
	case First:
		return vals[0]
	default:
		return vals[len(vals)-1]
	}
}
