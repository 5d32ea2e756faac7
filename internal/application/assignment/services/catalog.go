// Package services holds helpers shared by the mapping and reminder use cases.
package services

import (
	"context"
	"fmt"

	"github.com/orris-inc/subtrack/internal/domain/assignment"
	"github.com/orris-inc/subtrack/internal/domain/customer"
	"github.com/orris-inc/subtrack/internal/domain/product"
)

// Catalog batch-loads the customers and products referenced by mappings.
type Catalog struct {
	customerRepo customer.Repository
	productRepo  product.Repository
}

func NewCatalog(customerRepo customer.Repository, productRepo product.Repository) *Catalog {
	return &Catalog{customerRepo: customerRepo, productRepo: productRepo}
}

// Refs holds the loaded rows keyed by internal ID.
type Refs struct {
	Customers map[uint]*customer.Customer
	Products  map[uint]*product.Product
}

func (r Refs) Customer(a *assignment.Assignment) *customer.Customer { return r.Customers[a.CustomerID()] }

func (r Refs) Product(a *assignment.Assignment) *product.Product { return r.Products[a.ProductID()] }

func (c *Catalog) Load(ctx context.Context, list []*assignment.Assignment) (Refs, error) {
	customerIDs := make([]uint, 0, len(list))
	productIDs := make([]uint, 0, len(list))
	seenC := make(map[uint]bool, len(list))
	seenP := make(map[uint]bool, len(list))
	for _, a := range list {
		if !seenC[a.CustomerID()] {
			seenC[a.CustomerID()] = true
			customerIDs = append(customerIDs, a.CustomerID())
		}
		if !seenP[a.ProductID()] {
			seenP[a.ProductID()] = true
			productIDs = append(productIDs, a.ProductID())
		}
	}

	refs := Refs{
		Customers: make(map[uint]*customer.Customer, len(customerIDs)),
		Products:  make(map[uint]*product.Product, len(productIDs)),
	}
	if len(list) == 0 {
		return refs, nil
	}

	customers, err := c.customerRepo.GetByIDs(ctx, customerIDs)
	if err != nil {
		return Refs{}, fmt.Errorf("failed to load customers: %w", err)
	}
	for _, cu := range customers {
		refs.Customers[cu.ID()] = cu
	}

	products, err := c.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return Refs{}, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range products {
		refs.Products[p.ID()] = p
	}
	return refs, nil
}

// LoadOne is Load for a single mapping.
func (c *Catalog) LoadOne(ctx context.Context, a *assignment.Assignment) (*customer.Customer, *product.Product, error) {
	refs, err := c.Load(ctx, []*assignment.Assignment{a})
	if err != nil {
		return nil, nil, err
	}
	return refs.Customer(a), refs.Product(a), nil
}
