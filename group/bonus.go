package group

import (
	"github.com/shopspring/decimal"

	"github.com/lvillar/reportes/normalize"
)

// BonusRow is one normalized line of a bonus upload.
type BonusRow struct {
	Line       int // 1-based data line in the upload, for diagnostics
	Grupo      string
	Guia       string
	Bono       string
	Monto      decimal.Decimal
	MontoBlank bool // the MONTO cell was empty
	Asistentes float64
}

// Detail is the bonus/amount pair a BonusRow contributes to its group.
type Detail struct {
	Bono  string
	Monto decimal.Decimal
	Blank bool
}

// Totals are the aggregates of a set of bonus rows.
type Totals struct {
	Sum   decimal.Decimal // sum of MONTO
	Count float64         // sum of ASISTENTES
}

// Bonus is the group of rows sharing a (GRUPO, GUIA) key.
type Bonus struct {
	Grupo      string
	Guia       string
	Rows       []BonusRow
	Attendance float64
	Total      decimal.Decimal
}

// Details returns the group's bonus/amount pairs in row order.
func (b Bonus) Details() []Detail {
	details := make([]Detail, len(b.Rows))
	for i, r := range b.Rows {
		details[i] = Detail{Bono: r.Bono, Monto: r.Monto, Blank: r.MontoBlank}
	}
	return details
}

type bonusKey struct {
	grupo, guia string
}

// Bonuses groups rows by (GRUPO, GUIA) in first-seen order. GRUPO is compared
// trimmed and upper-cased and GUIA trimmed, so grouping ignores case and
// surrounding whitespace on those fields.
func Bonuses(rows []BonusRow) []Bonus {
	groups := FirstSeen(rows, func(r BonusRow) bonusKey {
		return bonusKey{grupo: normalize.Key(r.Grupo), guia: normalize.Name(r.Guia)}
	})

	out := make([]Bonus, 0, len(groups))
	for _, g := range groups {
		totals := Aggregate(g.Items)
		out = append(out, Bonus{
			Grupo:      g.Key.grupo,
			Guia:       g.Key.guia,
			Rows:       g.Items,
			Attendance: totals.Count,
			Total:      totals.Sum,
		})
	}
	return out
}

// Aggregate sums MONTO and ASISTENTES across rows.
func Aggregate(rows []BonusRow) Totals {
	t := Totals{Sum: decimal.Zero}
	for _, r := range rows {
		t.Sum = t.Sum.Add(r.Monto)
		t.Count += r.Asistentes
	}
	return t
}
