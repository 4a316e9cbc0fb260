package service

import (
	"context"
	"errors"
	"testing"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

type stubProductRepo struct {
	created *domain.Product
	updates int
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	c := *p
	c.ID = "prod-1"
	r.created = &c
	return &c, nil
}

func (r *stubProductRepo) FindByID(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) List(context.Context) ([]*domain.Product, error) { return nil, nil }

func (r *stubProductRepo) Update(context.Context, *domain.Product) error {
	r.updates++
	return nil
}

func (r *stubProductRepo) Delete(context.Context, string) error { return nil }

func (r *stubProductRepo) CountLowStock(context.Context, int) (int64, error) { return 0, nil }

func TestProductService_Create(t *testing.T) {
	repo := &stubProductRepo{}
	svc := NewProductService(repo, discardLogger)

	p, err := svc.Create(context.Background(), domain.Product{ID: "client-chosen", Name: " Pipeta ", Price: 1500, Stock: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != "prod-1" || repo.created.Name != "Pipeta" {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestProductService_Validation(t *testing.T) {
	repo := &stubProductRepo{}
	svc := NewProductService(repo, discardLogger)

	if _, err := svc.Create(context.Background(), domain.Product{Name: "  "}); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Update(context.Background(), domain.Product{ID: "x", Name: "Collar", Stock: -1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.updates != 0 || repo.created != nil {
		t.Fatalf("invalid products must not be written")
	}
}
