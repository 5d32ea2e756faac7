package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/orris-inc/subtrack/internal/domain/product"
)

// CachedProductRepository fronts a product repository with a small expiring
// LRU. Listings and sweeps resolve the same handful of products for every
// assignment, so single lookups are cached and concurrent misses coalesced.
// Writes go through and evict. Callers always receive their own copy.
type CachedProductRepository struct {
	product.Repository
	cache *expirable.LRU[uint, *product.Product]
	group singleflight.Group
}

func NewCachedProductRepository(inner product.Repository, size int, ttl time.Duration) *CachedProductRepository {
	if size <= 0 {
		size = 512
	}
	return &CachedProductRepository{
		Repository: inner,
		cache:      expirable.NewLRU[uint, *product.Product](size, nil, ttl),
	}
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	if p, ok := r.cache.Get(id); ok {
		return p.Clone(), nil
	}

	v, err, _ := r.group.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		p, err := r.Repository.GetByID(ctx, id)
		if err != nil || p == nil {
			return p, err
		}
		r.cache.Add(id, p.Clone())
		return p, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	p := v.(*product.Product)
	if p == nil {
		return nil, nil
	}
	return p.Clone(), nil
}

// GetByIDs serves what it can from cache and loads the rest in one query.
func (r *CachedProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]*product.Product, error) {
	out := make([]*product.Product, 0, len(ids))
	var missing []uint
	for _, id := range ids {
		if p, ok := r.cache.Get(id); ok {
			out = append(out, p.Clone())
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := r.Repository.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded {
		r.cache.Add(p.ID(), p.Clone())
	}
	return append(out, loaded...), nil
}

func (r *CachedProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.cache.Remove(p.ID())
	return r.Repository.Update(ctx, p)
}

func (r *CachedProductRepository) Delete(ctx context.Context, id uint) error {
	r.cache.Remove(id)
	return r.Repository.Delete(ctx, id)
}
