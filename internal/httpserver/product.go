package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	authmw "github.com/Skotchmaster/clothing_shop/internal/middleware/auth"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/Skotchmaster/clothing_shop/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserLookup interface {
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type CatalogHTTP struct {
	Svc   *service.CatalogService
	Users UserLookup
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_product", "id is not a uuid", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": product})
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit, page := util.Calculate(page, size)

	f := repo.ProductFilter{
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Brand:       c.QueryParam("brand"),
		Size:        c.QueryParam("size"),
		Color:       c.QueryParam("color"),
		MinPrice:    util.ParseFloat(c.QueryParam("minPrice")),
		MaxPrice:    util.ParseFloat(c.QueryParam("maxPrice")),
		Rating:      util.ParseFloat(c.QueryParam("rating")),
		Keyword:     c.QueryParam("keyword"),
		Featured:    util.ParseBool(c.QueryParam("featured")),
		Sort:        c.QueryParam("sort"),
		Offset:      offset,
		Limit:       limit,
	}

	total, items, err := h.Svc.ListProducts(ctx, f)
	if err != nil {
		return fail(l, "get_products", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(items),
		"total":       total,
		"resPerPage":  limit,
		"currentPage": page,
		"totalPages":  util.TotalPages(total, limit),
		"data":        items,
	})
}

func (h *CatalogHTTP) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.featured")

	items, err := h.Svc.Featured(ctx)
	if err != nil {
		return fail(l, "featured_products", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": len(items), "data": items})
}

func (h *CatalogHTTP) ByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.by_category")

	items, err := h.Svc.ByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(l, "category_products", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": len(items), "data": items})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit, page := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("keyword"), offset, limit)
	if err != nil {
		return fail(l, "search_products", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(items),
		"total":       total,
		"resPerPage":  limit,
		"currentPage": page,
		"totalPages":  util.TotalPages(total, limit),
		"data":        items,
	})
}

// readProduct accepts either a JSON body or a multipart form with the JSON in
// the "data" field and files under "images".
func readProduct(c echo.Context) (transport.ProductRequest, []transport.ImageFile, func(), error) {
	var req transport.ProductRequest
	noop := func() {}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := c.Bind(&req); err != nil {
			return req, nil, noop, err
		}
		return req, nil, noop, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, noop, err
	}
	if data := form.Value["data"]; len(data) > 0 && data[0] != "" {
		if err := json.Unmarshal([]byte(data[0]), &req); err != nil {
			return req, nil, noop, err
		}
	}

	var files []transport.ImageFile
	var closers []io.Closer
	cleanup := func() {
		for _, cl := range closers {
			cl.Close()
		}
	}
	for _, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return req, nil, noop, err
		}
		closers = append(closers, f)
		files = append(files, transport.ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Body:        f,
		})
	}
	return req, files, cleanup, nil
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	req, files, cleanup, err := readProduct(c)
	if err != nil {
		return badRequest(l, "create_product", "invalid body", err)
	}
	defer cleanup()

	product, err := h.Svc.CreateProduct(ctx, req, files)
	if err != nil {
		return fail(l, "create_product", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": product})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_product", "id is not a uuid", err)
	}
	req, files, cleanup, err := readProduct(c)
	if err != nil {
		return badRequest(l, "update_product", "invalid body", err)
	}
	defer cleanup()

	product, err := h.Svc.UpdateProduct(ctx, id, req, files)
	if err != nil {
		return fail(l, "update_product", err)
	}

	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": product})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_product", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Product deleted successfully"})
}

func (h *CatalogHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.add_review")

	userID, err := authmw.UserID(c)
	if err != nil {
		l.Warn("add_review_error", "status", 401, "reason", "unauthorized", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "add_review", "id is not a uuid", err)
	}
	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_review", "invalid body", err)
	}

	user, err := h.Users.Me(ctx, userID)
	if err != nil {
		return fail(l, "add_review", err)
	}
	product, err := h.Svc.AddReview(ctx, id, userID, user.Name, req)
	if err != nil {
		return fail(l, "add_review", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": product})
}

func (h *CatalogHTTP) Reindex(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.reindex")

	n, err := h.Svc.Reindex(ctx)
	if err != nil {
		return fail(l, "reindex_products", err)
	}
	l.Info("reindex_products_success", "indexed", n)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "indexed": n})
}
