package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testSecret = "test-jwt-secret-must-be-32-chars-long!"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

// fetcherFunc adapts a function to auth.UserFetcher.
type fetcherFunc func(ctx context.Context, id string) *auth.SessionUser

func (f fetcherFunc) FetchUser(ctx context.Context, id string) *auth.SessionUser { return f(ctx, id) }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	tm := newTestTokenManager(t)
	id := primitive.NewObjectID().Hex()

	token, exp, err := tm.Issue(id, "donor")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(exp) <= 0 || time.Until(exp) > time.Hour+time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != id || claims.Role != "donor" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, _ := auth.NewTokenManager("another-secret-that-is-32-chars-long", time.Hour, zap.NewNop())

	token, _, _ := other.Issue(primitive.NewObjectID().Hex(), "admin")
	if _, err := tm.Parse(token); err != auth.ErrInvalidToken {
		t.Errorf("Parse err = %v, want ErrInvalidToken", err)
	}
}

func TestParse_Expired(t *testing.T) {
	tm, _ := auth.NewTokenManager(testSecret, time.Millisecond, zap.NewNop())
	token, _, _ := tm.Issue(primitive.NewObjectID().Hex(), "donor")

	time.Sleep(1100 * time.Millisecond)
	if _, err := tm.Parse(token); err != auth.ErrInvalidToken {
		t.Errorf("Parse err = %v, want ErrInvalidToken", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	tm := newTestTokenManager(t)
	if _, err := tm.Parse("not.a.token"); err != auth.ErrInvalidToken {
		t.Errorf("Parse err = %v, want ErrInvalidToken", err)
	}
}

func TestLoadTokenUser_ResolvesCurrentRole(t *testing.T) {
	tm := newTestTokenManager(t)
	id := primitive.NewObjectID().Hex()
	// Token says donor, database now says admin: the database wins.
	tm.SetUserFetcher(fetcherFunc(func(_ context.Context, uid string) *auth.SessionUser {
		if uid != id {
			return nil
		}
		return &auth.SessionUser{ID: uid, Name: "Asha", Email: "asha@example.com", Role: "admin"}
	}))
	token, _, _ := tm.Issue(id, "donor")

	var got *auth.SessionUser
	h := tm.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Role != "admin" || got.Name != "Asha" {
		t.Errorf("CurrentUser = %+v, want admin Asha", got)
	}
}

func TestLoadTokenUser_DeletedUserIsAnonymous(t *testing.T) {
	tm := newTestTokenManager(t)
	tm.SetUserFetcher(fetcherFunc(func(context.Context, string) *auth.SessionUser { return nil }))
	token, _, _ := tm.Issue(primitive.NewObjectID().Hex(), "admin")

	h := tm.LoadTokenUser(tm.RequireSignedIn(okHandler()))
	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestLoadTokenUser_BadHeaderIsAnonymous(t *testing.T) {
	tm := newTestTokenManager(t)

	for _, hdr := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		var signedIn bool
		h := tm.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, signedIn = auth.CurrentUser(r)
		}))
		req := httptest.NewRequest("GET", "/", nil)
		if hdr != "" {
			req.Header.Set("Authorization", hdr)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		if signedIn {
			t.Errorf("header %q produced a signed-in user", hdr)
		}
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	tm := newTestTokenManager(t)
	rec := httptest.NewRecorder()
	tm.RequireSignedIn(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/offers", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	tm := newTestTokenManager(t)
	req := auth.WithTestUser(httptest.NewRequest("GET", "/api/offers", nil),
		&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "donor"})
	rec := httptest.NewRecorder()
	tm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tm := newTestTokenManager(t)

	tests := []struct {
		name string
		user *auth.SessionUser
		want int
	}{
		{"no user", nil, http.StatusUnauthorized},
		{"wrong role", &auth.SessionUser{ID: "x", Role: "volunteer"}, http.StatusForbidden},
		{"admin", &auth.SessionUser{ID: "x", Role: "admin"}, http.StatusOK},
		{"case insensitive", &auth.SessionUser{ID: "x", Role: "ADMIN"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/reports/donations", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			tm.RequireRole("Admin")(okHandler()).ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	if u, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok || u != nil {
		t.Errorf("expected no user, got %+v", u)
	}
}

func TestPasswords(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the password")
	}
	if !auth.CheckPassword(hash, "s3cret-pass") {
		t.Error("expected password to match")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if auth.CheckPassword("", "s3cret-pass") {
		t.Error("empty hash must never match")
	}
	if _, err := auth.HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if _, err := auth.HashPassword(strings.Repeat("é", 37)); !errors.Is(err, auth.ErrPasswordTooLong) {
		t.Errorf("74-byte password error = %v, want ErrPasswordTooLong", err)
	}
	if _, err := auth.HashPassword(strings.Repeat("é", 36)); err != nil {
		t.Errorf("72-byte password rejected: %v", err)
	}
}
