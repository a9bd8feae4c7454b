package cart

import "github.com/angelmondragon/cartkeeper/pkg/types"

// MergeItems reconciles a client item list into the server list. Lines present
// on both sides keep the larger quantity; server lines keep their order and
// client-only lines follow in input order. A sync can therefore never lower a
// quantity; decreases go through update.
func MergeItems(server, client types.LineItems) types.LineItems {
	merged := server.Clone()
	index := make(map[string]int, len(merged)+len(client))
	for i, item := range merged {
		index[item.ProductID] = i
	}

	for _, item := range client {
		if i, ok := index[item.ProductID]; ok {
			if item.Quantity > merged[i].Quantity {
				merged[i].Quantity = item.Quantity
			}
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
