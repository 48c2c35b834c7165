package domain

import (
	"context"
	"errors"
)

type CreateProductRequest struct {
	Name            string `json:"name"`
	GroupBuyEnabled bool   `json:"group_buy_enabled"`
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	// IsGroupBuyEnabled reports whether the product may back a campaign.
	IsGroupBuyEnabled(ctx context.Context, id string) (bool, error)
}

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidName     = errors.New("invalid_name")
)
