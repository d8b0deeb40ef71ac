package group

import (
	"fmt"
	"iter"
	"slices"
)

// AnniversaryRow is one accepted line of an anniversary upload.
type AnniversaryRow struct {
	Line   int
	Years  int
	Nombre string
}

// Anniversary is the set of people celebrating the same number of years.
type Anniversary struct {
	Years int
	names []string
}

// NewAnniversary builds an Anniversary from names in display order.
func NewAnniversary(years int, names ...string) Anniversary {
	return Anniversary{Years: years, names: names}
}

// Names yields the group's names in upload order.
func (a Anniversary) Names() iter.Seq[string] {
	return slices.Values(a.names)
}

// Len returns the number of names in the group.
func (a Anniversary) Len() int { return len(a.names) }

// Label is the group heading: "1 AÑO" or "N AÑOS".
func (a Anniversary) Label() string {
	if a.Years == 1 {
		return "1 AÑO"
	}
	return fmt.Sprintf("%d AÑOS", a.Years)
}

// Anniversaries groups rows by years in ascending order.
func Anniversaries(rows []AnniversaryRow) []Anniversary {
	groups := Sorted(rows, func(r AnniversaryRow) int { return r.Years })

	out := make([]Anniversary, 0, len(groups))
	for _, g := range groups {
		names := make([]string, len(g.Items))
		for i, r := range g.Items {
			names[i] = r.Nombre
		}
		out = append(out, NewAnniversary(g.Key, names...))
	}
	return out
}
