package seed

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
)

func p[T any](v T) *T { return &v }

// Catalog is the demo assortment loaded by the seed command.
var Catalog = []transport.ProductRequest{
	{
		Name:          p("Classic Cotton Tee"),
		Description:   p("Soft crew neck tee in combed cotton."),
		OriginalPrice: p(499.0),
		Discount:      p(10.0),
		Category:      p("men"),
		Subcategory:   p("t-shirts"),
		Brand:         p("Basics"),
		Sizes:         &[]transport.SizeDTO{{Size: "S", Stock: 10}, {Size: "M", Stock: 15}, {Size: "L", Stock: 10}},
		Colors:        &[]transport.ColorDTO{{Name: "White", Hex: "#ffffff"}, {Name: "Black", Hex: "#000000"}},
		IsFeatured:    p(true),
	},
	{
		Name:          p("Slim Fit Chinos"),
		Description:   p("Stretch twill chinos with a tapered leg."),
		OriginalPrice: p(1299.0),
		Discount:      p(0.0),
		Category:      p("men"),
		Subcategory:   p("trousers"),
		Brand:         p("Urban"),
		Sizes:         &[]transport.SizeDTO{{Size: "30", Stock: 5}, {Size: "32", Stock: 8}, {Size: "34", Stock: 6}},
		Colors:        &[]transport.ColorDTO{{Name: "Khaki", Hex: "#c3b091"}},
	},
	{
		Name:          p("Floral Summer Dress"),
		Description:   p("Lightweight midi dress with a floral print."),
		OriginalPrice: p(1599.0),
		Discount:      p(25.0),
		Category:      p("women"),
		Subcategory:   p("dresses"),
		Brand:         p("Bloom"),
		Sizes:         &[]transport.SizeDTO{{Size: "S", Stock: 4}, {Size: "M", Stock: 6}},
		Colors:        &[]transport.ColorDTO{{Name: "Blue", Hex: "#3b5bdb"}},
		IsFeatured:    p(true),
	},
	{
		Name:          p("Denim Jacket"),
		Description:   p("Washed denim trucker jacket."),
		OriginalPrice: p(2499.0),
		Discount:      p(15.0),
		Category:      p("women"),
		Subcategory:   p("jackets"),
		Brand:         p("Urban"),
		Stock:         p(12),
	},
	{
		Name:          p("Kids Hoodie"),
		Description:   p("Fleece lined zip hoodie."),
		OriginalPrice: p(899.0),
		Discount:      p(0.0),
		Category:      p("kids"),
		Brand:         p("Basics"),
		Sizes:         &[]transport.SizeDTO{{Size: "6Y", Stock: 7}, {Size: "8Y", Stock: 7}},
		IsFeatured:    p(true),
	},
}

// Run creates the default settings and, on an empty catalog, the demo
// products. It returns the number of products created.
func Run(ctx context.Context, r *repo.GormRepo, settings *service.SettingsService, catalog *service.CatalogService) (int, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	if _, err := settings.Get(ctx); err != nil {
		return 0, fmt.Errorf("seed settings: %w", err)
	}

	total, _, err := r.ListProducts(ctx, repo.ProductFilter{Limit: 1})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		l.Info("seed_skipped", "reason", "catalog not empty", "products", total)
		return 0, nil
	}

	for i, req := range Catalog {
		if _, err := catalog.CreateProduct(ctx, req, nil); err != nil {
			return i, fmt.Errorf("seed product %q: %w", *req.Name, err)
		}
	}
	l.Info("seed_done", "products", len(Catalog))
	return len(Catalog), nil
}
