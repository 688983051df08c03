package cart

import "sort"

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
}
