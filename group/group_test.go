package group

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstSeenKeepsEncounterOrder(t *testing.T) {
	groups := FirstSeen([]string{"b1", "a1", "b2", "c1", "a2"}, func(s string) byte { return s[0] })

	require.Len(t, groups, 3)
	assert.Equal(t, byte('b'), groups[0].Key)
	assert.Equal(t, []string{"b1", "b2"}, groups[0].Items)
	assert.Equal(t, byte('a'), groups[1].Key)
	assert.Equal(t, byte('c'), groups[2].Key)
}

func TestSortedOrdersKeys(t *testing.T) {
	groups := Sorted([]int{30, 4, 12, 4, 30}, func(n int) int { return n })

	keys := make([]int, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []int{4, 12, 30}, keys)
	assert.Len(t, groups[0].Items, 2)
}

func TestBonusesNormalizeKeys(t *testing.T) {
	rows := []BonusRow{
		{Grupo: " alfa ", Guia: "Ana ", Bono: "B1", Monto: decimal.NewFromInt(100), Asistentes: 3},
		{Grupo: "BETA", Guia: "Luis", Bono: "B2", Monto: decimal.NewFromInt(50), Asistentes: 1},
		{Grupo: "Alfa", Guia: " Ana", Bono: "B3", Monto: decimal.RequireFromString("20.5"), Asistentes: 2},
		{Grupo: "alfa", Guia: "ana", Bono: "B4", Monto: decimal.NewFromInt(1), Asistentes: 1},
	}

	got := Bonuses(rows)
	require.Len(t, got, 3)

	assert.Equal(t, "ALFA", got[0].Grupo)
	assert.Equal(t, "Ana", got[0].Guia)
	assert.Len(t, got[0].Rows, 2)
	assert.True(t, decimal.RequireFromString("120.5").Equal(got[0].Total))
	assert.Equal(t, 5.0, got[0].Attendance)

	assert.Equal(t, "BETA", got[1].Grupo)
	// GUIA is only trimmed, so "ana" stays a separate guide
	assert.Equal(t, "ana", got[2].Guia)

	details := got[0].Details()
	assert.Equal(t, "B1", details[0].Bono)
	assert.Equal(t, "B3", details[1].Bono)
}

func TestAggregate(t *testing.T) {
	totals := Aggregate([]BonusRow{
		{Monto: decimal.RequireFromString("0.1"), Asistentes: 1},
		{Monto: decimal.RequireFromString("0.2"), Asistentes: 1.5},
	})
	assert.True(t, decimal.RequireFromString("0.3").Equal(totals.Sum))
	assert.Equal(t, 2.5, totals.Count)

	assert.True(t, Aggregate(nil).Sum.IsZero())
}

func TestAnniversaries(t *testing.T) {
	rows := []AnniversaryRow{
		{Years: 3, Nombre: "Carla"},
		{Years: 1, Nombre: "Ana"},
		{Years: 1, Nombre: "Beto"},
	}

	got := Anniversaries(rows)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Years)
	assert.Equal(t, 2, got[0].Len())
	assert.Equal(t, []string{"Ana", "Beto"}, slices.Collect(got[0].Names()))
	assert.Equal(t, "1 AÑO", got[0].Label())

	assert.Equal(t, 3, got[1].Years)
	assert.Equal(t, "3 AÑOS", got[1].Label())
}
