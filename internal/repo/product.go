package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// maxKeywordTerms bounds the number of LIKE clauses a keyword expands into.
const maxKeywordTerms = 8

type ProductFilter struct {
	Category    string
	Subcategory string
	Brand       string
	Size        string
	Color       string
	MinPrice    *float64
	MaxPrice    *float64
	Rating      *float64
	Keyword     string
	Featured    *bool
	Sort        string
	Offset      int
	Limit       int
}

// ProductChildren selects which has-many collections an update replaces.
type ProductChildren struct {
	Sizes  bool
	Colors bool
	Images bool
}

func preloadProduct(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") })
}

func KeywordTerms(keyword string) []string {
	fields := strings.Fields(strings.ToLower(keyword))
	if len(fields) > maxKeywordTerms {
		fields = fields[:maxKeywordTerms]
	}
	return fields
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// keywordScore weighs a name hit above brand and category hits, which weigh
// above a description hit.
func keywordScore(terms []string) clause.Expr {
	parts := make([]string, 0, len(terms))
	vars := make([]any, 0, len(terms)*4)
	for _, t := range terms {
		p := likePattern(t)
		parts = append(parts,
			`(CASE WHEN LOWER(name) LIKE ? ESCAPE '\' THEN 3 ELSE 0 END + `+
				`CASE WHEN LOWER(brand) LIKE ? ESCAPE '\' THEN 2 ELSE 0 END + `+
				`CASE WHEN LOWER(category) LIKE ? ESCAPE '\' THEN 2 ELSE 0 END + `+
				`CASE WHEN LOWER(description) LIKE ? ESCAPE '\' THEN 1 ELSE 0 END)`)
		vars = append(vars, p, p, p, p)
	}
	return clause.Expr{SQL: strings.Join(parts, " + ") + " DESC", Vars: vars}
}

func keywordWhere(db *gorm.DB, terms []string) *gorm.DB {
	cond := make([]string, 0, len(terms))
	vars := make([]any, 0, len(terms)*4)
	for _, t := range terms {
		p := likePattern(t)
		cond = append(cond, `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`)
		vars = append(vars, p, p, p, p)
	}
	return db.Where(strings.Join(cond, " OR "), vars...)
}

func (r *GormRepo) filtered(ctx context.Context, f ProductFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Subcategory != "" {
		q = q.Where("subcategory = ?", f.Subcategory)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Size != "" {
		q = q.Where("id IN (?)", r.DB.Model(&models.ProductSize{}).Select("product_id").Where("size = ?", f.Size))
	}
	if f.Color != "" {
		q = q.Where("id IN (?)", r.DB.Model(&models.ProductColor{}).Select("product_id").Where("LOWER(name) = ?", strings.ToLower(f.Color)))
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Rating != nil {
		q = q.Where("ratings >= ?", *f.Rating)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if terms := KeywordTerms(f.Keyword); len(terms) > 0 {
		q = keywordWhere(q, terms)
	}
	return q
}

func applySort(q *gorm.DB, f ProductFilter) *gorm.DB {
	switch f.Sort {
	case SortPriceLow:
		return q.Order("price ASC").Order("created_at DESC")
	case SortPriceHigh:
		return q.Order("price DESC").Order("created_at DESC")
	case SortRating:
		return q.Order("ratings DESC").Order("created_at DESC")
	case SortNewest:
		return q.Order("created_at DESC")
	}
	if terms := KeywordTerms(f.Keyword); len(terms) > 0 {
		return q.Order(keywordScore(terms)).Order("created_at DESC")
	}
	return q.Order("created_at DESC")
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, f.Limit)
	q := applySort(preloadProduct(r.filtered(ctx, f)), f).Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := preloadProduct(r.DB.WithContext(ctx)).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetActiveProductsByIDs keeps the order of ids and skips missing or inactive products.
func (r *GormRepo) GetActiveProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var found []models.Product
	if err := preloadProduct(r.DB.WithContext(ctx)).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProduct saves the scalar columns of prod and replaces the selected
// child collections.
func (r *GormRepo) UpdateProduct(ctx context.Context, prod *models.Product, replace ProductChildren) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(prod).Select("*").Omit(clause.Associations, "created_at").Updates(prod)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if replace.Sizes {
			if err := tx.Where("product_id = ?", prod.ID).Delete(&models.ProductSize{}).Error; err != nil {
				return err
			}
			for i := range prod.Sizes {
				prod.Sizes[i].ID = 0
				prod.Sizes[i].ProductID = prod.ID
			}
			if len(prod.Sizes) > 0 {
				if err := tx.Create(&prod.Sizes).Error; err != nil {
					return err
				}
			}
		}
		if replace.Colors {
			if err := tx.Where("product_id = ?", prod.ID).Delete(&models.ProductColor{}).Error; err != nil {
				return err
			}
			for i := range prod.Colors {
				prod.Colors[i].ID = 0
				prod.Colors[i].ProductID = prod.ID
			}
			if len(prod.Colors) > 0 {
				if err := tx.Create(&prod.Colors).Error; err != nil {
					return err
				}
			}
		}
		if replace.Images {
			if err := tx.Where("product_id = ?", prod.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			for i := range prod.Images {
				prod.Images[i].ID = 0
				prod.Images[i].ProductID = prod.ID
				prod.Images[i].Position = i
			}
			if len(prod.Images) > 0 {
				if err := tx.Create(&prod.Images).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DeleteProduct removes the product and returns it as it was, so stored
// images can be cleaned up afterwards.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Images").Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}
		for _, child := range []any{&models.ProductSize{}, &models.ProductColor{}, &models.ProductImage{}, &models.Review{}, &models.CartItem{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// AddReview stores one review per user and recomputes the product aggregate.
func (r *GormRepo) AddReview(ctx context.Context, review *models.Review) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.Select("id").Where("id = ?", review.ProductID).First(&prod).Error; err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyReviewed
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var agg struct {
			Avg   float64
			Count int
		}
		if err := tx.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("product_id = ?", review.ProductID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).Where("id = ?", review.ProductID).
			Updates(map[string]any{"ratings": agg.Avg, "num_of_reviews": agg.Count}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, review.ProductID)
}

// DecrementStock lowers the aggregate stock and, when size is set, the stock
// of that size. A counter holding less than qty is left unchanged.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uuid.UUID, size string, qty int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&models.Product{}).Where("id = ? AND stock >= ?", productID, qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error; err != nil {
			return err
		}
		if size == "" {
			return nil
		}
		return tx.Model(&models.ProductSize{}).
			Where("product_id = ? AND size = ? AND stock >= ?", productID, size, qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error
	})
}

func (r *GormRepo) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
