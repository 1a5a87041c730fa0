package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/ratelimit"
	"portfolio/internal/repository"
	"portfolio/internal/services"
	"portfolio/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptyUserRepo: ни одного пользователя.
type emptyUserRepo struct{}

func (emptyUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (emptyUserRepo) GetByID(context.Context, int64) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (emptyUserRepo) IssueResetToken(context.Context, int64, string, time.Time, time.Time) (bool, error) {
	return false, nil
}

func (emptyUserRepo) ConsumeResetToken(context.Context, string, string, string, time.Time) error {
	return repository.ErrNotFound
}

func (emptyUserRepo) UpsertAdmin(context.Context, string, string, string) (*models.User, error) {
	return nil, errors.New("not supported")
}

type noopResetMailer struct{}

func (noopResetMailer) SendPasswordReset(context.Context, string, string) error { return nil }

func newPasswordHandler(t *testing.T) *PasswordHandler {
	t.Helper()
	store := ratelimit.NewMemoryStore(0)
	t.Cleanup(store.Stop)
	return NewPasswordHandler(services.NewPasswordService(emptyUserRepo{}, noopResetMailer{}, store, "http://site", false))
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestForgot_GenericResponseThenRateLimited(t *testing.T) {
	h := newPasswordHandler(t)

	for i := 0; i < services.ResetEmailPolicy.Limit; i++ {
		rr := postJSON(h.Forgot, `{"email":"Someone@Example.com"}`)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"message":"`+services.ResetRequestMessage+`"}`, rr.Body.String())
	}

	rr := postJSON(h.Forgot, `{"email":"someone@example.com"}`)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	var body models.RateLimitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	resetAt, err := time.Parse(time.RFC3339, body.ResetTime)
	require.NoError(t, err)
	assert.True(t, resetAt.After(time.Now()))
}

func TestForgot_EmptyEmail(t *testing.T) {
	h := newPasswordHandler(t)

	rr := postJSON(h.Forgot, `{"email":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(h.Forgot, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReset_Errors(t *testing.T) {
	h := newPasswordHandler(t)

	rr := postJSON(h.Reset, `{"token":"abc","email":"a@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired reset token"}`, rr.Body.String())

	rr = postJSON(h.Reset, `{"token":"abc","email":"a@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "at least 8 characters")

	rr = postJSON(h.Reset, `{"email":"a@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "required")
}

type stubSender struct{ err error }

func (s stubSender) Send(services.Mail) error { return s.err }

type stubQueue struct{ n int }

func (q *stubQueue) Enqueue(services.Mail) bool { q.n++; return true }

func TestContact(t *testing.T) {
	const msg = `{"name":"Guest","email":"guest@example.com","subject":"Hi","message":"Hello"}`

	q := &stubQueue{}
	ok := NewContactHandler(services.NewContactService(stubSender{}, q, "owner@example.com", "Owner"))
	rr := postJSON(ok.Submit, msg)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"autoReplySent":true`)
	assert.Equal(t, 1, q.n)

	failing := NewContactHandler(services.NewContactService(stubSender{err: errors.New("smtp down")}, &stubQueue{}, "owner@example.com", "Owner"))
	rr = postJSON(failing.Submit, msg)
	assert.Equal(t, http.StatusMultiStatus, rr.Code)
	assert.Contains(t, rr.Body.String(), `"autoReplySent":false`)

	rr = postJSON(ok.Submit, `{"name":"Guest","email":"not-an-email","subject":"Hi","message":"Hello"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email (email)")
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	local, err := storage.NewLocal(dir)
	require.NoError(t, err)
	h := NewUploadHandler(services.NewUploadService(local))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "my cert.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.WriteField("type", "certificate"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data models.UploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.URL, "/certificates/"))
	assert.True(t, strings.HasSuffix(resp.Data.Filename, "-my_cert.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, "certificates", resp.Data.Filename))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestUpload_NoFile(t *testing.T) {
	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	h := NewUploadHandler(services.NewUploadService(local))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("type", "image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIDParam(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/x/{id}", func(w http.ResponseWriter, r *http.Request) {
		if id, ok := idParam(w, r); ok {
			_, _ = w.Write([]byte{byte('0' + id)})
		}
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x/7", nil))
	assert.Equal(t, "7", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***e@example.com", maskEmail("john.doe@example.com"))
	assert.Equal(t, "a***@example.com", maskEmail("ab@example.com"))
	assert.Equal(t, "***", maskEmail("nope"))
}

func TestLogsHandler(t *testing.T) {
	dir := t.TempDir()
	lines := strings.Join([]string{
		`{"level":"INFO","time":"2026-03-01T10:15:00.000+0000","message":"HTTP-запрос"}`,
		`{"level":"ERROR","time":"2026-03-01T11:00:00.000+0000","message":"Ошибка синхронизации"}`,
		`not json`,
		`{"level":"INFO","time":"2026-03-02T09:00:00.000+0000","message":"next day"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte(lines), 0o600))

	h := NewLogsHandler(dir)

	get := func(fn http.HandlerFunc, query string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		fn(rr, httptest.NewRequest(http.MethodGet, "/?"+query, nil))
		return rr
	}

	var resp struct {
		Data struct {
			Items      []map[string]any `json:"items"`
			NextCursor int              `json:"nextCursor"`
		} `json:"data"`
	}
	rr := get(h.Logs, "day=2026-03-01")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 2)
	assert.Equal(t, 2, resp.Data.NextCursor)

	rr = get(h.Logs, "day=2026-03-01&level=error")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "Ошибка синхронизации", resp.Data.Items[0]["message"])

	rr = get(h.Logs, "day=2026-03-01&hour=10")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)

	rr = get(h.Logs, "day=2026-03-01&limit=1&cursor=1")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "ERROR", resp.Data.Items[0]["level"])

	assert.Equal(t, http.StatusBadRequest, get(h.Logs, "day=yesterday").Code)
	assert.Equal(t, http.StatusNotFound, get(NewLogsHandler(filepath.Join(dir, "missing")).Logs, "day=2026-03-01").Code)

	rr = get(h.Stats, "day=2026-03-01")
	var stats struct {
		Data struct {
			Stats map[string]map[string]int `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Data.Stats["10"]["INFO"])
	assert.Equal(t, 1, stats.Data.Stats["11"]["ERROR"])
}
