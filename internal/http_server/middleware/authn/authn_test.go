package authn

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contact_keeper/internal/lib/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func gated(t *testing.T) (http.Handler, *int64) {
	t.Helper()

	var gotID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, secret)(next), &gotID
}

func TestMissingToken(t *testing.T) {
	t.Parallel()

	h, _ := gated(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"Access denied! No token!"}`, rec.Body.String())
}

func TestInvalidToken(t *testing.T) {
	t.Parallel()

	h, _ := gated(t)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set(HeaderName, "not.a.jwt")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"Invalid token!"}`, rec.Body.String())
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()

	h, _ := gated(t)

	token, err := jwt.NewToken(7, secret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set(HeaderName, token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"Invalid token!"}`, rec.Body.String())
}

func TestTamperedToken(t *testing.T) {
	t.Parallel()

	h, _ := gated(t)

	token, err := jwt.NewToken(7, "other-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set(HeaderName, token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidTokenAttachesIdentity(t *testing.T) {
	t.Parallel()

	h, gotID := gated(t)

	token, err := jwt.NewToken(7, secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	req.Header.Set(HeaderName, token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), *gotID)
}
