package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
)

func authTestRouter(m *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	identity := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetUserID(c),
			"username": GetUsername(c),
			"role":     GetRole(c),
		})
	}
	r.GET("/protected", JWTAuth(m), identity)
	r.GET("/upgrade", JWTAuthUpgrade(m), identity)
	return r
}

func TestJWTAuth_BearerHeader(t *testing.T) {
	m := jwt.NewManager("secret", 60, 10080)
	r := authTestRouter(m)

	token, _ := m.GenerateAccessToken(7, "alice", "USER")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthUpgrade_QueryParam(t *testing.T) {
	m := jwt.NewManager("secret", 60, 10080)
	r := authTestRouter(m)

	token, _ := m.GenerateAccessToken(7, "alice", "USER")
	req := httptest.NewRequest("GET", "/upgrade?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuth_QueryParamRejected(t *testing.T) {
	m := jwt.NewManager("secret", 60, 10080)
	r := authTestRouter(m)

	token, _ := m.GenerateAccessToken(7, "alice", "USER")
	req := httptest.NewRequest("GET", "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_MissingToken(t *testing.T) {
	m := jwt.NewManager("secret", 60, 10080)
	r := authTestRouter(m)

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	m := jwt.NewManager("secret", 60, 10080)
	r := authTestRouter(m)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	expired := jwt.NewManager("secret", -1, 10080)
	r := authTestRouter(expired)

	token, _ := expired.GenerateAccessToken(7, "alice", "USER")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
