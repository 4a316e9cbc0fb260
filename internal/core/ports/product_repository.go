package ports

import (
	"context"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

// ProductRepository persists inventory items.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}
