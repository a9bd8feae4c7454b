package cart

import (
	cartsvc "github.com/angelmondragon/cartkeeper/internal/cart"
)

// Request bodies keep raw JSON values so every shape reaches the validators.

type addRequest struct {
	ProductID any `json:"productId"`
	Name      any `json:"name"`
	Price     any `json:"price"`
	Quantity  any `json:"quantity"`
	Image     any `json:"image"`
}

func (p addRequest) toInput() cartsvc.AddInput {
	return cartsvc.AddInput{
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Image:     p.Image,
	}
}

type updateRequest struct {
	ProductID any `json:"productId"`
	Quantity  any `json:"quantity"`
}

func (p updateRequest) toInput() cartsvc.UpdateInput {
	return cartsvc.UpdateInput{ProductID: p.ProductID, Quantity: p.Quantity}
}

type syncRequest struct {
	Items any `json:"items"`
}
