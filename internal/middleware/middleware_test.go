package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"speego-be/internal/user"
	"speego-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestAuth(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok, "context should not contain a user ID")
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/products", nil)
		w := httptest.NewRecorder()

		AuthMiddleware(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidTokenFallsThroughAnonymous", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()

		AuthMiddleware(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		tokenString, err := user.GenerateJWT(1, string(user.RoleUser), "rider@example.com")
		require.NoError(t, err)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, "rider@example.com", utils.GetUserEmailFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/api/cart", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		AuthMiddleware(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Authenticated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/cart", nil)
		ctx := utils.SetUserContext(req.Context(), 1, "rider@example.com", string(user.RoleUser))
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Customer", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/orders", nil)
		ctx := utils.SetUserContext(req.Context(), 1, "rider@example.com", string(user.RoleUser))
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/orders", nil)
		ctx := utils.SetUserContext(req.Context(), 2, "staff@example.com", string(user.RoleAdmin))
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCors(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := CORS(next)

	t.Run("OptionsRequest", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/products", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Checkout-Key")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NormalRequest", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/products", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		tier   string
		limit  rate.Limit
	}{
		{"Login", "POST", "/api/auth/login", "strict", limitStrict},
		{"Checkout", "POST", "/api/checkout", "strict", limitStrict},
		{"ContactForm", "POST", "/api/contact", "strict", limitStrict},
		{"CatalogBrowse", "GET", "/api/products", "browse", limitBrowse},
		{"CartRead", "GET", "/api/cart", "browse", limitBrowse},
		{"CartMutation", "POST", "/api/cart/items", "general", limitGeneral},
		{"AdminList", "GET", "/api/admin/orders", "general", limitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			limit, _, tier := resolveRateTier(req)

			assert.Equal(t, tt.tier, tier)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitMiddleware(next)

	t.Run("BlocksAfterBurst", func(t *testing.T) {
		var last int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = "203.0.113.9:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			last = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("SeparateBucketsPerIdentity", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.10:1234"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
