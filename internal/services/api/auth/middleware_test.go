package auth

import (
	"crypto/ed25519"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumeapp/lume/internal/platform/requestctx"
	"github.com/lumeapp/lume/internal/services/api/domain/directory"
	"github.com/lumeapp/lume/internal/services/api/identity"
	"github.com/lumeapp/lume/internal/services/api/storage"
	"github.com/lumeapp/lume/internal/services/api/storage/sqlite"
)

const (
	testIssuer   = "https://auth.lume.test"
	testAudience = "lume-api"
)

type authFixture struct {
	config    identity.Config
	priv      ed25519.PrivateKey
	directory *directory.Service
	store     *sqlite.Store
	now       time.Time
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return authFixture{
		config: identity.Config{
			Issuer:   testIssuer,
			Audience: testAudience,
			Key:      pub,
			Now:      func() time.Time { return now },
		},
		priv:      priv,
		directory: directory.NewService(store, func() time.Time { return now }, nil),
		store:     store,
		now:       now,
	}
}

func (f authFixture) signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testAudience},
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(f.now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(f.now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(f.priv)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestMiddlewareAttachesCallerWithDirectoryRecord(t *testing.T) {
	fixture := newAuthFixture(t)
	user := storage.User{
		ID:        "user-1",
		Subject:   "ext|abc",
		Username:  "alice",
		Fullname:  "Alice Li",
		Email:     "alice@example.com",
		CreatedAt: fixture.now,
		UpdatedAt: fixture.now,
	}
	if err := fixture.store.PutUser(t.Context(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var got requestctx.Caller
	handler := Middleware(fixture.config, fixture.directory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	request.Header.Set("Authorization", "Bearer "+fixture.signToken(t, "ext|abc"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if got.UserID != "user-1" || got.Subject != "ext|abc" {
		t.Fatalf("caller = %+v", got)
	}
}

func TestMiddlewarePassesSubjectBeforeFirstSignIn(t *testing.T) {
	fixture := newAuthFixture(t)

	var subject string
	var hadCaller bool
	handler := Middleware(fixture.config, fixture.directory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = requestctx.SubjectFromContext(r.Context())
		_, hadCaller = requestctx.CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodPost, "/v1/users", nil)
	request.Header.Set("Authorization", "Bearer "+fixture.signToken(t, "ext|new"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if subject != "ext|new" {
		t.Fatalf("subject = %q, want ext|new", subject)
	}
	if hadCaller {
		t.Fatal("caller must not resolve before a directory record exists")
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	fixture := newAuthFixture(t)
	handler := Middleware(fixture.config, fixture.directory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	request := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestMiddlewareRejectsForgedToken(t *testing.T) {
	fixture := newAuthFixture(t)
	_, otherPriv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	forged := authFixture{config: fixture.config, priv: otherPriv, now: fixture.now}

	handler := Middleware(fixture.config, fixture.directory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))

	request := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	request.Header.Set("Authorization", "Bearer "+forged.signToken(t, "ext|abc"))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
