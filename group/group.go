// Package group partitions report rows by key and computes per-group
// aggregates.
package group

import (
	"cmp"
	"slices"
)

// Group is a key plus the items that share it, in encounter order.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// FirstSeen groups items by key. Groups are returned in the order their key
// was first encountered and items keep their input order.
func FirstSeen[K comparable, T any](items []T, key func(T) K) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Sorted groups items by key, returning groups in ascending key order. Items
// inside a group keep their input order.
func Sorted[K cmp.Ordered, T any](items []T, key func(T) K) []Group[K, T] {
	groups := FirstSeen(items, key)
	slices.SortStableFunc(groups, func(a, b Group[K, T]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}
