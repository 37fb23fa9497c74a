package reporting

import "sort"

func sortStable[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

/* Assigns 1-based dense ranks over items already sorted by the ranking key: equal keys
share a rank and the next distinct key takes the next consecutive rank. */
func denseRank[T any](items []T, key func(T) int, assign func(item *T, rank int)) {
	rank := 0
	previous := 0
	for i := range items {
		if rank == 0 || key(items[i]) != previous {
			rank++
			previous = key(items[i])
		}
		assign(&items[i], rank)
	}
}
