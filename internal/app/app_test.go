package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"swag-shop/internal/core/config"
	"swag-shop/internal/domain"
	"swag-shop/internal/repo"
)

func init() { gin.SetMode(gin.TestMode) }

type outbox struct {
	mu   sync.Mutex
	sent []domain.Message
}

func (o *outbox) Send(_ context.Context, m domain.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

func (o *outbox) last() domain.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent[len(o.sent)-1]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "swag-shop"
	cfg.JWT.AccessTokenTTLMin = 5
	cfg.Password.Cost = 4
	cfg.Password.TempTTLHours = 24
	cfg.Order.RequireConfirmation = true
	return cfg
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	engine http.Handler
}

func (c client) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func (c client) login(username, password string) string {
	c.t.Helper()
	w, env := c.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	out := decode[struct {
		Token string         `json:"token"`
		User  domain.Profile `json:"user"`
	}](c.t, env.Data)
	require.NotEmpty(c.t, out.Token)
	return out.Token
}

func newShop(t *testing.T) (*App, client, *outbox) {
	t.Helper()
	seed := &domain.Snapshot{Swags: []domain.Swag{{ID: 1, Name: "Mug", Quantity: 5, Category: "kitchen", Image: "https://img/mug.png"}}}
	mail := &outbox{}
	shop := Wire(testConfig(), zap.NewNop(), repo.NewMemoryStore(seed), mail)
	return shop, client{t: t, engine: shop.Engine()}, mail
}

func signUp(c client, username, email string) domain.Profile {
	c.t.Helper()
	w, env := c.do(http.MethodPost, "/sign-up", "", map[string]string{
		"username": username, "email": email, "password": "pw-" + username,
		"firstName": strings.ToUpper(username[:1]) + username[1:], "lastName": "Tester",
	})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	return decode[domain.Profile](c.t, env.Data)
}

func TestShop_SignUpLoginAndOrder(t *testing.T) {
	shop, c, mail := newShop(t)

	ana := signUp(c, "ana", "ana@example.com")
	assert.Equal(t, 1, ana.ID)
	assert.Equal(t, domain.RoleUser, ana.Role)

	w, env := c.do(http.MethodPost, "/sign-up", "", map[string]string{"username": "other", "email": "ana@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 401, env.Code)

	w, _ = c.do(http.MethodPost, "/login", "", map[string]string{"username": "ana", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = c.do(http.MethodPost, "/login", "", map[string]string{"username": "ghost", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := c.login("ana", "pw-ana")

	w, env = c.do(http.MethodPost, "/commit-order", token, map[string]any{
		"userId":          1,
		"swagOrders":      map[string]any{"1": map[string]int{"quantity": 2}},
		"deliveryAddress": "1 Main St",
		"date":            "2026-10-20",
		"phoneNumber":     "555-0100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	orderID := w.Header().Get("X-Order-ID")
	assert.NotEmpty(t, orderID)
	catalog := decode[[]domain.Swag](t, env.Data)
	require.Len(t, catalog, 1)
	assert.Equal(t, 3, catalog[0].Quantity)

	confirmation := mail.last()
	assert.Equal(t, "ana@example.com", confirmation.To)
	assert.Contains(t, confirmation.Body, orderID)
	assert.Contains(t, confirmation.Body, "1 Main St")

	w, env = c.do(http.MethodPost, "/my-order", token, map[string]int{"userId": 1})
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]domain.OrderRecord](t, env.Data)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].OrderID)
	assert.Equal(t, []domain.OrderLine{{SwagID: 1, Quantity: 2}}, orders[0].Items)

	// the original array body shape is accepted too
	w, env = c.do(http.MethodPost, "/commit-order", token, map[string]any{
		"userId":     1,
		"swagOrders": []map[string]int{{"id": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[[]domain.Swag](t, env.Data)[0].Quantity)

	orders, err := shop.Accounts.Orders(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestShop_UserRoutesRequireOwnToken(t *testing.T) {
	_, c, _ := newShop(t)
	signUp(c, "ana", "ana@example.com")
	signUp(c, "bo", "bo@example.com")
	anaToken := c.login("ana", "pw-ana")

	w, _ := c.do(http.MethodPost, "/my-order", "", map[string]int{"userId": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = c.do(http.MethodPost, "/my-order", "not-a-jwt", map[string]int{"userId": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = c.do(http.MethodPost, "/my-order", anaToken, map[string]int{"userId": 2})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = c.do(http.MethodPost, "/commit-order", anaToken, map[string]any{
		"userId": 2, "swagOrders": map[string]any{"1": map[string]int{"quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = c.do(http.MethodPost, "/change-password", anaToken, map[string]any{
		"userId": 1, "currentPassword": "nope", "newPassword": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = c.do(http.MethodPost, "/change-password", anaToken, map[string]any{
		"userId": 1, "currentPassword": "pw-ana", "newPassword": "changed",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	c.login("ana", "changed")
}

func TestShop_AdminCatalog(t *testing.T) {
	shop, c, _ := newShop(t)
	signUp(c, "ana", "ana@example.com")
	signUp(c, "boss", "boss@example.com")
	_, err := shop.Accounts.SetRole(context.Background(), "boss", domain.RoleAdmin)
	require.NoError(t, err)
	userToken := c.login("ana", "pw-ana")
	adminToken := c.login("boss", "pw-boss")

	capBody := map[string]any{"name": "Cap", "quantity": 3, "category": "apparel", "image": "https://img/cap.png"}

	w, _ := c.do(http.MethodPost, "/swags", "", capBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = c.do(http.MethodPost, "/swags", userToken, capBody)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := c.do(http.MethodPost, "/swags", adminToken, capBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[domain.Swag](t, env.Data)
	assert.Equal(t, 2, created.ID)

	w, _ = c.do(http.MethodPost, "/swags", adminToken, map[string]any{"name": "No qty", "category": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// id comes from the path, not the body
	w, env = c.do(http.MethodPost, "/swags/2", adminToken, map[string]any{
		"id": 99, "name": "Cap v2", "quantity": 4, "category": "apparel", "image": "https://img/cap2.png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	want := domain.Swag{ID: 2, Name: "Cap v2", Quantity: 4, Category: "apparel", Image: "https://img/cap2.png"}
	assert.Equal(t, want, decode[domain.Swag](t, env.Data))

	w, env = c.do(http.MethodGet, "/swags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[[]domain.Swag](t, env.Data)
	require.Len(t, catalog, 2)
	assert.Equal(t, want, catalog[1])

	w, _ = c.do(http.MethodPost, "/swags/abc", adminToken, capBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = c.do(http.MethodDelete, "/swags/2", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = c.do(http.MethodDelete, "/swags/2", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = c.do(http.MethodDelete, "/swags/42", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = c.do(http.MethodGet, "/swags", "", nil)
	assert.Len(t, decode[[]domain.Swag](t, env.Data), 1)

	w, env = c.do(http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]domain.Profile](t, env.Data)
	assert.Len(t, users, 2)
	assert.NotContains(t, string(env.Data), "password")

	// admins may act on behalf of any user
	w, _ = c.do(http.MethodPost, "/my-order", adminToken, map[string]int{"userId": 1})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestShop_DemotedAdminLosesAccessImmediately(t *testing.T) {
	shop, c, _ := newShop(t)
	ana := signUp(c, "ana", "ana@example.com")
	signUp(c, "boss", "boss@example.com")
	ctx := context.Background()
	_, err := shop.Accounts.SetRole(ctx, "boss", domain.RoleAdmin)
	require.NoError(t, err)
	adminToken := c.login("boss", "pw-boss")

	w, _ := c.do(http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = shop.Accounts.SetRole(ctx, "boss", domain.RoleUser)
	require.NoError(t, err)

	w, _ = c.do(http.MethodGet, "/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = c.do(http.MethodPost, "/my-order", adminToken, map[string]int{"userId": ana.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

var tempPattern = regexp.MustCompile(`temporary password is: (\S+)`)

func TestShop_PasswordReset(t *testing.T) {
	_, c, mail := newShop(t)
	signUp(c, "ana", "ana@example.com")

	w, _ := c.do(http.MethodPost, "/forget-password", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodPost, "/forget-password", "", map[string]string{"email": "ana@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	m := tempPattern.FindStringSubmatch(mail.last().Body)
	require.Len(t, m, 2)
	temp := m[1]
	assert.Len(t, temp, 12)

	w, _ = c.do(http.MethodPost, "/reset-password", "", map[string]string{
		"username": "ana", "temporaryPassword": temp + "x", "newPassword": "fresh",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = c.do(http.MethodPost, "/reset-password", "", map[string]string{
		"username": "ghost", "temporaryPassword": temp, "newPassword": "fresh",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = c.do(http.MethodPost, "/reset-password", "", map[string]string{
		"username": "ana", "temporaryPassword": temp, "newPassword": "fresh",
	})
	require.Equal(t, http.StatusOK, w.Code)
	c.login("ana", "fresh")
}

func TestShop_HealthAndMetrics(t *testing.T) {
	_, c, _ := newShop(t)

	w, _ := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = c.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w, _ = c.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
