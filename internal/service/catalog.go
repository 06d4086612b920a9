package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/media"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/mykafka"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
)

const featuredLimit = 8

// SearchIndex is the external full text index. The catalog falls back to SQL
// keyword matching when it is nil or fails.
type SearchIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  SearchIndex
	Images media.Store
	Events mykafka.Publisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) (int64, []models.Product, error) {
	switch f.Sort {
	case "", repo.SortPriceLow, repo.SortPriceHigh, repo.SortRating, repo.SortNewest:
	default:
		return 0, nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, f.Sort)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return 0, nil, fmt.Errorf("%w: minPrice is greater than maxPrice", ErrValidation)
	}
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	featured := true
	_, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Featured: &featured, Sort: repo.SortNewest, Limit: featuredLimit})
	return items, err
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	_, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Category: category, Sort: repo.SortNewest})
	return items, err
}

// Search ranks with the external index when available and otherwise with the
// SQL keyword score.
func (s *CatalogService) Search(ctx context.Context, keyword string, offset, limit int) (int64, []models.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, nil, fmt.Errorf("%w: please provide a search keyword", ErrValidation)
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, keyword, offset, limit)
		if err == nil {
			items, err := s.Repo.GetActiveProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to sql", "error", err)
	}

	return s.Repo.ListProducts(ctx, repo.ProductFilter{Keyword: keyword, Offset: offset, Limit: limit})
}

func sizesFrom(in []transport.SizeDTO) ([]models.ProductSize, int, error) {
	out := make([]models.ProductSize, 0, len(in))
	seen := make(map[string]bool, len(in))
	total := 0
	for _, sz := range in {
		name := strings.TrimSpace(sz.Size)
		if name == "" {
			return nil, 0, fmt.Errorf("%w: size name is required", ErrValidation)
		}
		if sz.Stock < 0 {
			return nil, 0, fmt.Errorf("%w: stock for size %s cannot be negative", ErrValidation, name)
		}
		if seen[name] {
			return nil, 0, fmt.Errorf("%w: duplicate size %s", ErrValidation, name)
		}
		seen[name] = true
		out = append(out, models.ProductSize{Size: name, Stock: sz.Stock})
		total += sz.Stock
	}
	return out, total, nil
}

func colorsFrom(in []transport.ColorDTO) ([]models.ProductColor, error) {
	out := make([]models.ProductColor, 0, len(in))
	for _, c := range in {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: color name is required", ErrValidation)
		}
		out = append(out, models.ProductColor{Name: name, Hex: c.Hex})
	}
	return out, nil
}

func imagesFrom(in []transport.ImageDTO) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(in))
	for i, img := range in {
		if img.URL == "" {
			continue
		}
		out = append(out, models.ProductImage{URL: img.URL, PublicID: img.PublicID, Position: i})
	}
	return out
}

// applyProduct merges req into p. It reports which child collections were
// supplied.
func applyProduct(p *models.Product, req transport.ProductRequest, creating bool) (repo.ProductChildren, error) {
	var replace repo.ProductChildren

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Subcategory != nil {
		p.Subcategory = strings.TrimSpace(*req.Subcategory)
	}
	if req.Brand != nil {
		p.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if p.Name == "" || p.Category == "" {
		return replace, fmt.Errorf("%w: name and category are required", ErrValidation)
	}

	if creating || req.Price != nil || req.OriginalPrice != nil || req.Discount != nil {
		orig, disc := req.OriginalPrice, req.Discount
		if !creating && req.Price == nil {
			// keep the stored side of the pair that was not sent
			if orig == nil {
				orig = &p.OriginalPrice
			}
			if disc == nil {
				disc = &p.Discount
			}
		}
		if !creating && req.Price != nil && orig == nil && disc != nil {
			orig = &p.OriginalPrice
		}
		price, original, discount, err := pricing.Reconcile(req.Price, orig, disc)
		if err != nil {
			return replace, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		p.Price, p.OriginalPrice, p.Discount = price, original, discount
	}

	if req.Stock != nil {
		if *req.Stock < 0 {
			return replace, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		p.Stock = *req.Stock
	}
	if req.Sizes != nil {
		sizes, total, err := sizesFrom(*req.Sizes)
		if err != nil {
			return replace, err
		}
		p.Sizes = sizes
		if len(sizes) > 0 {
			p.Stock = total
		}
		replace.Sizes = true
	}
	if req.Colors != nil {
		colors, err := colorsFrom(*req.Colors)
		if err != nil {
			return replace, err
		}
		p.Colors = colors
		replace.Colors = true
	}
	if req.Images != nil {
		p.Images = imagesFrom(*req.Images)
		replace.Images = true
	}
	return replace, nil
}

func (s *CatalogService) upload(ctx context.Context, files []transport.ImageFile) ([]models.ProductImage, error) {
	out := make([]models.ProductImage, 0, len(files))
	if len(files) == 0 {
		return out, nil
	}
	store := s.Images
	if store == nil {
		store = media.Disabled{}
	}
	for _, f := range files {
		img, err := store.Upload(ctx, f.Name, f.ContentType, f.Body)
		if err != nil {
			s.deleteImages(ctx, out)
			if errors.Is(err, media.ErrNotConfigured) {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		out = append(out, models.ProductImage{URL: img.URL, PublicID: img.PublicID})
	}
	return out, nil
}

func (s *CatalogService) deleteImages(ctx context.Context, images []models.ProductImage) {
	if s.Images == nil {
		return
	}
	l := logging.FromContext(ctx)
	for _, img := range images {
		if err := s.Images.Delete(ctx, img.PublicID); err != nil {
			l.Warn("image_delete_failed", "public_id", img.PublicID, "error", err)
		}
	}
}

func (s *CatalogService) syncIndex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest, files []transport.ImageFile) (*models.Product, error) {
	p := models.Product{IsActive: true}
	if _, err := applyProduct(&p, req, true); err != nil {
		return nil, err
	}

	uploaded, err := s.upload(ctx, files)
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, uploaded...)
	for i := range p.Images {
		p.Images[i].Position = i
	}

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		s.deleteImages(ctx, uploaded)
		return nil, err
	}

	s.syncIndex(ctx, &p)
	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, p.ID.String(), map[string]any{
		"type":       "product_created",
		"product_id": p.ID.String(),
		"price":      p.Price,
	})
	return &p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.ProductRequest, files []transport.ImageFile) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	previous := append([]models.ProductImage(nil), p.Images...)
	p.Reviews = nil

	replace, err := applyProduct(p, req, false)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.upload(ctx, files)
	if err != nil {
		return nil, err
	}
	if len(uploaded) > 0 {
		p.Images = append(p.Images, uploaded...)
		replace.Images = true
	}

	if err := s.Repo.UpdateProduct(ctx, p, replace); err != nil {
		s.deleteImages(ctx, uploaded)
		return nil, notFound(err, "product")
	}

	if replace.Images {
		kept := make(map[string]bool, len(p.Images))
		for _, img := range p.Images {
			kept[img.PublicID] = true
		}
		var dropped []models.ProductImage
		for _, img := range previous {
			if !kept[img.PublicID] {
				dropped = append(dropped, img)
			}
		}
		s.deleteImages(ctx, dropped)
	}

	updated, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.syncIndex(ctx, updated)
	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, id.String(), map[string]any{
		"type":       "product_updated",
		"product_id": id.String(),
		"price":      updated.Price,
		"is_active":  updated.IsActive,
	})
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return notFound(err, "product")
	}

	s.deleteImages(ctx, p.Images)
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "product_id", id, "error", err)
		}
	}
	mykafka.Emit(ctx, s.Events, mykafka.TopicProducts, id.String(), map[string]any{
		"type":       "product_deleted",
		"product_id": id.String(),
	})
	return nil
}

func (s *CatalogService) AddReview(ctx context.Context, productID, userID uuid.UUID, userName string, req transport.ReviewRequest) (*models.Product, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	p, err := s.Repo.AddReview(ctx, &models.Review{
		ProductID: productID,
		UserID:    userID,
		Name:      userName,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	})
	if errors.Is(err, repo.ErrAlreadyReviewed) {
		return nil, fmt.Errorf("%w: product already reviewed", ErrValidation)
	}
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

// Reindex pushes every product into the search index.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	items, err := s.Repo.ListAllProducts(ctx)
	if err != nil {
		return 0, err
	}
	for i := range items {
		if err := s.Index.IndexProduct(ctx, &items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
