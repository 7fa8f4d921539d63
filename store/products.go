package store

import (
	"context"
	"mime/multipart"

	"guevara/models"
)

// productList is the upstream envelope for GET /product.
type productList struct {
	Data struct {
		Products []models.Product `json:"products"`
	} `json:"data"`
}

// Products fetches the catalog, cached, optionally filtered to one category.
// Filtering happens on the fetched list so every filter shares one cache key.
func (s *Store) Products(ctx context.Context, token, categoryID string) ([]models.Product, error) {
	products, err := get(ctx, s, RegionProducts, func(ctx context.Context) ([]models.Product, error) {
		var list productList
		if err := s.client.GetJSON(ctx, token, "/product", &list); err != nil {
			return nil, err
		}
		return list.Data.Products, nil
	})
	if products == nil {
		return nil, err
	}
	if categoryID == "" {
		return products, err
	}

	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if product.Category.ID == categoryID {
			filtered = append(filtered, product)
		}
	}
	return filtered, err
}

// CreateProduct forwards the product form (fields plus image upload) and
// invalidates the catalog; the category region goes with it because product
// counts are server-computed.
func (s *Store) CreateProduct(ctx context.Context, token string, form *multipart.Form) error {
	if err := s.client.PostForm(ctx, token, "/product", form); err != nil {
		return err
	}
	s.cache.Invalidate(RegionProducts)
	return nil
}

// UpdateProduct forwards an edit of one product.
func (s *Store) UpdateProduct(ctx context.Context, token, id string, form *multipart.Form) error {
	if err := s.client.PatchForm(ctx, token, "/product/"+id, form); err != nil {
		return err
	}
	s.cache.Invalidate(RegionProducts)
	return nil
}

// DeleteProduct removes one product.
func (s *Store) DeleteProduct(ctx context.Context, token, id string) error {
	if err := s.client.Delete(ctx, token, "/product/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(RegionProducts)
	return nil
}
