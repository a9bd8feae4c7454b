package cart

import "github.com/angelmondragon/cartkeeper/pkg/types"

type mutationResponse struct {
	Success bool            `json:"success"`
	Items   types.LineItems `json:"items"`
}

func newMutationResponse(items types.LineItems) mutationResponse {
	if items == nil {
		items = types.LineItems{}
	}
	return mutationResponse{Success: true, Items: items}
}
