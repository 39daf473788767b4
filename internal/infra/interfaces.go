package infra

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

type CatalogClientInterface interface {
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
}

type AuthClientInterface interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

var _ CatalogClientInterface = (*StoreClient)(nil)
var _ AuthClientInterface = (*StoreClient)(nil)
var _ cart.RemoteStore = (*StoreClient)(nil)
