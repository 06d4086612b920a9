package repo

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: testutil.NewDB(t)}
}

func seedProduct(t *testing.T, r *GormRepo, p models.Product) models.Product {
	t.Helper()
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

func TestListProducts_Filters(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	base := time.Now().Add(-time.Hour)

	seedProduct(t, r, models.Product{Name: "Linen Shirt", Category: "men", Price: 450, IsActive: true, CreatedAt: base})
	seedProduct(t, r, models.Product{Name: "Denim Jacket", Category: "men", Price: 1200, IsActive: true, CreatedAt: base.Add(time.Minute)})
	seedProduct(t, r, models.Product{Name: "Chinos", Category: "men", Price: 300, IsActive: true, CreatedAt: base.Add(2 * time.Minute),
		Sizes:  []models.ProductSize{{Size: "M", Stock: 3}},
		Colors: []models.ProductColor{{Name: "Navy", Hex: "#000080"}}})
	seedProduct(t, r, models.Product{Name: "Hidden Tee", Category: "men", Price: 100, IsActive: false, CreatedAt: base.Add(3 * time.Minute)})
	seedProduct(t, r, models.Product{Name: "Summer Dress", Category: "women", Price: 200, IsActive: true, CreatedAt: base.Add(4 * time.Minute)})

	zero, max := 0.0, 500.0
	total, items, err := r.ListProducts(ctx, ProductFilter{Category: "men", MinPrice: &zero, MaxPrice: &max, Sort: SortPriceHigh, Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Linen Shirt", items[0].Name)
	assert.Equal(t, "Chinos", items[1].Name)
	for _, p := range items {
		assert.True(t, p.IsActive)
		assert.LessOrEqual(t, p.Price, 500.0)
	}

	_, items, err = r.ListProducts(ctx, ProductFilter{Category: "men", Limit: 12})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Chinos", items[0].Name, "newest first by default")

	_, items, err = r.ListProducts(ctx, ProductFilter{Size: "M", Limit: 12})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chinos", items[0].Name)
	require.Len(t, items[0].Sizes, 1)

	_, items, err = r.ListProducts(ctx, ProductFilter{Color: "navy", Limit: 12})
	require.NoError(t, err)
	require.Len(t, items, 1)

	total, items, err = r.ListProducts(ctx, ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 2)
}

func TestListProducts_KeywordScore(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	seedProduct(t, r, models.Product{Name: "Plain Tee", Description: "goes with a denim jacket", Category: "men", Price: 10, IsActive: true})
	seedProduct(t, r, models.Product{Name: "Denim Jacket", Description: "classic", Category: "men", Price: 20, IsActive: true})
	seedProduct(t, r, models.Product{Name: "Socks", Description: "wool", Category: "men", Price: 5, IsActive: true})

	total, items, err := r.ListProducts(ctx, ProductFilter{Keyword: "Denim", Limit: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Denim Jacket", items[0].Name)

	total, _, err = r.ListProducts(ctx, ProductFilter{Keyword: "100%", Limit: 12})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateProduct_ReplacesChildren(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, models.Product{Name: "Hoodie", Category: "men", Price: 50, IsActive: true,
		Sizes: []models.ProductSize{{Size: "S", Stock: 1}, {Size: "M", Stock: 2}}})

	p.Name = "Zip Hoodie"
	p.IsActive = false
	p.Sizes = []models.ProductSize{{Size: "L", Stock: 5}}
	require.NoError(t, r.UpdateProduct(ctx, &p, ProductChildren{Sizes: true}))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zip Hoodie", got.Name)
	assert.False(t, got.IsActive)
	require.Len(t, got.Sizes, 1)
	assert.Equal(t, "L", got.Sizes[0].Size)

	missing := models.Product{ID: uuid.New(), Name: "x"}
	err = r.UpdateProduct(ctx, &missing, ProductChildren{})
	assert.True(t, IsNotFound(err))
}

func TestDecrementStock_SkipsInsufficientStock(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, models.Product{Name: "Cap", Category: "men", Price: 5, Stock: 3, IsActive: true,
		Sizes: []models.ProductSize{{Size: "M", Stock: 1}, {Size: "L", Stock: 2}}})

	require.NoError(t, r.DecrementStock(ctx, p.ID, "L", 2))
	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
	assert.Equal(t, 1, got.Sizes[0].Stock)
	assert.Equal(t, 0, got.Sizes[1].Stock)

	require.NoError(t, r.DecrementStock(ctx, p.ID, "M", 2))
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock, "aggregate below quantity is untouched")
	assert.Equal(t, 1, got.Sizes[0].Stock, "size below quantity is untouched")

	require.NoError(t, r.DecrementStock(ctx, p.ID, "", 5))
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	require.NoError(t, r.DecrementStock(ctx, p.ID, "M", 1))
	got, err = r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, 0, got.Sizes[0].Stock)

	assert.True(t, IsNotFound(r.DecrementStock(ctx, uuid.New(), "", 1)))
}

func TestAddReview(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, models.Product{Name: "Scarf", Category: "women", Price: 15, IsActive: true})
	u1, u2 := uuid.New(), uuid.New()

	_, err := r.AddReview(ctx, &models.Review{ProductID: p.ID, UserID: u1, Name: "a", Rating: 5})
	require.NoError(t, err)
	got, err := r.AddReview(ctx, &models.Review{ProductID: p.ID, UserID: u2, Name: "b", Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Ratings)
	assert.Equal(t, 2, got.NumOfReviews)
	assert.Len(t, got.Reviews, 2)

	_, err = r.AddReview(ctx, &models.Review{ProductID: p.ID, UserID: u1, Name: "a", Rating: 1})
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	_, err = r.AddReview(ctx, &models.Review{ProductID: uuid.New(), UserID: u1, Rating: 1})
	assert.True(t, IsNotFound(err))
}

func TestCart_AddIncrementsMatchingLine(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, models.Product{Name: "Tee", Category: "men", Price: 50, IsActive: true})
	user := uuid.New()

	require.NoError(t, r.AddToCart(ctx, user, &models.CartItem{ProductID: p.ID, Quantity: 1, Size: "M", Color: "Red", Price: 50}))
	require.NoError(t, r.AddToCart(ctx, user, &models.CartItem{ProductID: p.ID, Quantity: 2, Size: "M", Color: "Red", Price: 50}))
	require.NoError(t, r.AddToCart(ctx, user, &models.CartItem{ProductID: p.ID, Quantity: 1, Size: "L", Color: "Red", Price: 50}))

	cart, err := r.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Tee", cart.Items[0].Product.Name)

	other := uuid.New()
	assert.True(t, IsNotFound(r.UpdateCartItem(ctx, other, cart.Items[0].ID, 5)))
	assert.True(t, IsNotFound(r.RemoveCartItem(ctx, other, cart.Items[0].ID)))

	require.NoError(t, r.UpdateCartItem(ctx, user, cart.Items[0].ID, 7))
	require.NoError(t, r.RemoveCartItem(ctx, user, cart.Items[1].ID))
	cart, err = r.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	require.NoError(t, r.ClearCart(ctx, user))
	cart, err = r.GetCart(ctx, user)
	require.NoError(t, err, "cart row survives a clear")
	assert.Empty(t, cart.Items)
}

func TestOrder_StatusAndPayment(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	user := uuid.New()
	o := models.Order{
		UserID:      user,
		OrderStatus: models.OrderStatusProcessing,
		OrderItems:  []models.OrderItem{{ProductID: uuid.New(), Name: "Tee", Price: 10, Quantity: 1}},
		ItemsPrice:  10, TotalPrice: 10,
	}
	require.NoError(t, r.CreateOrder(ctx, &o))

	now := time.Now().UTC()
	require.NoError(t, r.UpdateOrderStatus(ctx, o.ID, models.OrderStatusProcessing, models.OrderStatusShipped, now))
	require.ErrorIs(t, r.UpdateOrderStatus(ctx, o.ID, models.OrderStatusProcessing, models.OrderStatusCancelled, now), ErrStatusChanged)

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.OrderStatus)
	require.NotNil(t, got.ShippedAt)
	assert.Len(t, got.OrderItems, 1)

	require.NoError(t, r.SetProviderOrderID(ctx, o.ID, user, "order_abc"))
	assert.True(t, IsNotFound(r.SetProviderOrderID(ctx, o.ID, uuid.New(), "order_abc")))

	ok, err := r.MarkPaid(ctx, uuid.New(), "order_abc", "pay_0", now)
	require.NoError(t, err)
	assert.False(t, ok, "another user's order stays unpaid")
	ok, err = r.MarkPaid(ctx, user, "order_abc", "pay_1", now)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.MarkPaid(ctx, user, "order_missing", "pay_2", now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err = r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentInfo.Status)
	assert.Equal(t, "pay_1", got.PaymentInfo.ID)

	mine, err := r.ListOrdersByUser(ctx, user)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, r.DeleteOrder(ctx, o.ID))
	assert.True(t, IsNotFound(r.DeleteOrder(ctx, o.ID)))
}

func TestSettings_Versioning(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	s, err := r.EnsureSettings(ctx, models.Settings{StoreName: "Shop", TaxRate: 18, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Version)

	again, err := r.EnsureSettings(ctx, models.Settings{StoreName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "Shop", again.StoreName)

	s.MaintenanceMode = true
	updated, err := r.UpdateSettings(ctx, s, 1)
	require.NoError(t, err)
	assert.True(t, updated.MaintenanceMode)
	assert.Equal(t, int64(2), updated.Version)

	_, err = r.UpdateSettings(ctx, s, 1)
	require.ErrorIs(t, err, ErrStaleVersion)
}

func TestRefreshTokenRotation(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	u := models.User{Name: "Ann", Email: "Ann@Example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, r.CreateUserIfNotExists(ctx, &u))
	require.ErrorIs(t, r.CreateUserIfNotExists(ctx, &models.User{Name: "A", Email: "ann@example.com", PasswordHash: "y", Role: models.RoleUser}), ErrUserAlreadyExist)

	byEmail, err := r.GetUserByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	exp := time.Now().Add(time.Hour).Unix()
	require.NoError(t, r.SaveRefreshToken(ctx, &models.RefreshToken{Token: "h1", UserID: u.ID, JTI: "j1", ExpiresAt: exp}))
	require.NoError(t, r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h2", UserID: u.ID, JTI: "j2", ExpiresAt: exp}))
	require.ErrorIs(t, r.RotateRefreshToken(ctx, "j1", &models.RefreshToken{Token: "h3", UserID: u.ID, JTI: "j3", ExpiresAt: exp}), ErrTokenRevoked)

	require.NoError(t, r.RevokeRefreshToken(ctx, "h2"))
	require.ErrorIs(t, r.RotateRefreshToken(ctx, "j2", &models.RefreshToken{Token: "h4", UserID: u.ID, JTI: "j4", ExpiresAt: exp}), ErrTokenRevoked)
}

func TestTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	user := uuid.New()
	p := seedProduct(t, r, models.Product{Name: "Belt", Category: "men", Price: 20, IsActive: true})

	err := r.Transaction(ctx, func(tx *GormRepo) error {
		require.NoError(t, tx.AddToCart(ctx, user, &models.CartItem{ProductID: p.ID, Quantity: 1, Price: 20}))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = r.GetCart(ctx, user)
	assert.True(t, IsNotFound(err))
}
