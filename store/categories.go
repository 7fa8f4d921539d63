package store

import (
	"context"
	"mime/multipart"

	"guevara/models"
)

// categoryList is the upstream envelope for GET /category.
type categoryList struct {
	Data struct {
		Categories []models.Category `json:"categories"`
	} `json:"data"`
}

// companyList is the upstream envelope for GET /category/companies.
type companyList struct {
	Data []models.CategoryCompany `json:"data"`
}

// Categories fetches the category list, cached.
func (s *Store) Categories(ctx context.Context, token string) ([]models.Category, error) {
	return get(ctx, s, RegionCategories, func(ctx context.Context) ([]models.Category, error) {
		var list categoryList
		if err := s.client.GetJSON(ctx, token, "/category", &list); err != nil {
			return nil, err
		}
		return list.Data.Categories, nil
	})
}

// Companies fetches the company names grouped by category, used by the
// product form's company picker.
func (s *Store) Companies(ctx context.Context, token string) ([]models.CategoryCompany, error) {
	return get(ctx, s, RegionCompanies, func(ctx context.Context) ([]models.CategoryCompany, error) {
		var list companyList
		if err := s.client.GetJSON(ctx, token, "/category/companies", &list); err != nil {
			return nil, err
		}
		return list.Data, nil
	})
}

// CreateCategory forwards the category form (name plus logo upload).
func (s *Store) CreateCategory(ctx context.Context, token string, form *multipart.Form) error {
	if err := s.client.PostForm(ctx, token, "/category", form); err != nil {
		return err
	}
	s.cache.Invalidate(RegionCategories)
	return nil
}

// UpdateCategory forwards an edit of one category; the photo is optional on
// edit, which the handler has already enforced.
func (s *Store) UpdateCategory(ctx context.Context, token, id string, form *multipart.Form) error {
	if err := s.client.PatchForm(ctx, token, "/category/"+id, form); err != nil {
		return err
	}
	s.cache.Invalidate(RegionCategories)
	return nil
}

// DeleteCategory removes one category. Whether the deletion cascades into
// products is the backend's call; the invalidation graph refetches both
// either way.
func (s *Store) DeleteCategory(ctx context.Context, token, id string) error {
	if err := s.client.Delete(ctx, token, "/category/"+id); err != nil {
		return err
	}
	s.cache.Invalidate(RegionCategories)
	return nil
}
