package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/example/marketplace/pkg/auth"
	"github.com/example/marketplace/pkg/config"
	"github.com/example/marketplace/pkg/models"
	"github.com/example/marketplace/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

//
// ----- in-memory stubs implementing the repository interfaces -----
//

type stubUsers struct {
	users map[string]*models.User // keyed by hex id
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: make(map[string]*models.User)}
}

func (s *stubUsers) Create(ctx context.Context, user *models.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID.Hex()] = user
	return nil
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) List(ctx context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubUsers) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *stubUsers) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

type stubProducts struct {
	products map[string]*models.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{products: make(map[string]*models.Product)}
}

func (s *stubProducts) List(ctx context.Context, q repository.ProductQuery) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		if !p.IsAvailable {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProducts) ListByVendor(ctx context.Context, vendorID string) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		if p.VendorID == vendorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProducts) ListAll(ctx context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) Create(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID.Hex()] = product
	return nil
}

func (s *stubProducts) Update(ctx context.Context, id string, patch models.ProductUpdate) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.IsAvailable != nil {
		p.IsAvailable = *patch.IsAvailable
	}
	if patch.DiscountPercentage != nil {
		p.DiscountPercentage = *patch.DiscountPercentage
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (s *stubProducts) Delete(ctx context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProducts) DecrementStock(ctx context.Context, id string, quantity int) error {
	p, ok := s.products[id]
	if !ok || p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (s *stubProducts) IncrementStock(ctx context.Context, id string, quantity int) error {
	if p, ok := s.products[id]; ok {
		p.Stock += quantity
	}
	return nil
}

func (s *stubProducts) Count(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

func (s *stubProducts) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	for _, p := range s.products {
		if p.IsAvailable {
			n++
		}
	}
	return n, nil
}

type stubCarts struct {
	carts map[string]*models.Cart // keyed by user id
}

func newStubCarts() *stubCarts {
	return &stubCarts{carts: make(map[string]*models.Cart)}
}

func (s *stubCarts) FindByUser(ctx context.Context, userID string) (*models.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cart
	cp.Items = append([]models.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (s *stubCarts) Create(ctx context.Context, cart *models.Cart) error {
	if _, ok := s.carts[cart.UserID]; ok {
		return repository.ErrDuplicate
	}
	cart.ID = primitive.NewObjectID()
	cart.UpdatedAt = time.Now().UTC()
	cp := *cart
	s.carts[cart.UserID] = &cp
	return nil
}

func (s *stubCarts) SaveItems(ctx context.Context, userID string, items []models.CartItem, total float64) error {
	cart, ok := s.carts[userID]
	if !ok {
		return nil
	}
	cart.Items = append([]models.CartItem(nil), items...)
	cart.Total = total
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubCarts) Clear(ctx context.Context, userID string) error {
	return s.SaveItems(ctx, userID, []models.CartItem{}, 0)
}

type stubOrders struct {
	orders []*models.Order
}

func newStubOrders() *stubOrders {
	return &stubOrders{}
}

func (s *stubOrders) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	cp := *order
	s.orders = append(s.orders, &cp)
	return nil
}

func (s *stubOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	for _, o := range s.orders {
		if o.ID.Hex() == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubOrders) filter(keep func(*models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *stubOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (s *stubOrders) ListByVendor(ctx context.Context, vendorID string) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool { return o.VendorID == vendorID }), nil
}

func (s *stubOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.filter(func(*models.Order) bool { return true }), nil
}

func (s *stubOrders) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return s.filter(func(o *models.Order) bool { return o.Status == status }), nil
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id, status string) error {
	for _, o := range s.orders {
		if o.ID.Hex() == id {
			o.Status = status
			o.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubOrders) Count(ctx context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *stubOrders) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

type stubVendorProfiles struct {
	profiles map[string]*models.VendorProfile // keyed by hex id
}

func newStubVendorProfiles() *stubVendorProfiles {
	return &stubVendorProfiles{profiles: make(map[string]*models.VendorProfile)}
}

func (s *stubVendorProfiles) Create(ctx context.Context, profile *models.VendorProfile) error {
	for _, p := range s.profiles {
		if p.UserID == profile.UserID {
			return repository.ErrDuplicate
		}
	}
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now().UTC()
	cp := *profile
	s.profiles[profile.ID.Hex()] = &cp
	return nil
}

func (s *stubVendorProfiles) FindByUser(ctx context.Context, userID string) (*models.VendorProfile, error) {
	for _, p := range s.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubVendorProfiles) FindByID(ctx context.Context, id string) (*models.VendorProfile, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrInvalidID
	}
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubVendorProfiles) ListApproved(ctx context.Context) ([]models.VendorProfile, error) {
	out := []models.VendorProfile{}
	for _, p := range s.profiles {
		if p.IsApproved {
			out = append(out, *p)
		}
	}
	return out, nil
}

//
// ----- test harness -----
//

type testEnv struct {
	server   *Server
	users    *stubUsers
	products *stubProducts
	carts    *stubCarts
	orders   *stubOrders
	vendors  *stubVendorProfiles
	tokens   *auth.TokenIssuer
}

const testSecret = "test-secret"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "marketplace-test", Host: "127.0.0.1", Port: 0},
		Auth:   config.AuthConfig{Secret: testSecret, TokenTTL: time.Hour},
	}
	env := &testEnv{
		users:    newStubUsers(),
		products: newStubProducts(),
		carts:    newStubCarts(),
		orders:   newStubOrders(),
		vendors:  newStubVendorProfiles(),
		tokens:   auth.NewTokenIssuer(testSecret, time.Hour),
	}
	env.server = New(cfg, zap.NewNop(), Deps{
		Users:    env.users,
		Products: env.products,
		Carts:    env.carts,
		Orders:   env.orders,
		Vendors:  env.vendors,
	})
	env.server.SetupRoutes()
	return env
}

// seedUser adds a user directly to storage and returns a valid token.
func (e *testEnv) seedUser(t *testing.T, email, role string) (*models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test " + role,
		Phone:        "5551234567",
		Role:         role,
		IsActive:     true,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := e.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func (e *testEnv) seedProduct(t *testing.T, vendorID, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		VendorID:    vendorID,
		Name:        name,
		Category:    "vegetables",
		Price:       price,
		Unit:        "kg",
		Stock:       stock,
		IsAvailable: true,
	}
	if err := e.products.Create(context.Background(), product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Router().ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
