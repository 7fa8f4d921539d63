// Package store holds the per-resource caches over the upstream client. Each
// region caches its list reads for a short window and is invalidated, along
// with its dependents, by the mutations defined on it. The backend stays the
// single source of truth; nothing here merges concurrent edits.
package store

import (
	"context"
	"time"

	"guevara/cache"
	"guevara/upstream"
)

// Cache region names.
const (
	RegionOrders     = "orders"
	RegionProducts   = "products"
	RegionCategories = "categories"
	RegionCompanies  = "companies"
	RegionStatus     = "status"
)

// Dependencies is the region invalidation graph. Product mutations move
// category product counts, category mutations can cascade into products and
// reshape the company listing, and order mutations move the status summary.
func Dependencies() map[string][]string {
	return map[string][]string{
		RegionProducts:   {RegionCategories},
		RegionCategories: {RegionProducts, RegionCompanies},
		RegionOrders:     {RegionStatus},
	}
}

// Store bundles the resource stores behind one cache and one client.
type Store struct {
	client *upstream.Client
	cache  *cache.Cache
}

// New creates a store caching reads for ttl.
func New(client *upstream.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		cache:  cache.New(ttl, Dependencies()),
	}
}

// get adapts the untyped cache to a typed fetch. On a failed refetch the
// stale typed value, when present, comes back with the error.
func get[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error)) (T, error) {
	value, err := s.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})

	var typed T
	if value != nil {
		typed, _ = value.(T)
	}
	return typed, err
}
