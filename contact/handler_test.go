package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contact-gateway/contact/application"
	"contact-gateway/contact/domain"
	"contact-gateway/middleware/ratelimit"
	rldomain "contact-gateway/middleware/ratelimit/domain"
	"contact-gateway/middleware/ratelimit/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	calls int
	err   error
	panic bool
	last  domain.Submission
}

func (n *stubNotifier) Notify(_ context.Context, _ domain.Receipt, sub domain.Submission) error {
	if n.panic {
		panic("notifier exploded")
	}
	n.calls++
	n.last = sub
	return n.err
}

func newTestMux(t *testing.T, n domain.Notifier, maxRequests int) *http.ServeMux {
	t.Helper()
	v, err := application.NewValidator()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(v, application.Service{Notifier: n, Logger: logger}, logger)

	mux := http.NewServeMux()
	h.Routes(mux, ratelimit.Middleware(ratelimit.Options{
		Store:         infra.NewMemoryWindowStore(),
		Config:        rldomain.Config{Window: time.Minute, MaxRequests: maxRequests},
		RejectHandler: RejectTooManyRequests,
		ErrorHandler:  InternalError,
		Logger:        logger,
	}))
	return mux
}

func post(mux http.Handler, ip, body string) (*httptest.ResponseRecorder, Response) {
	r := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if ip != "" {
		r.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

const goodBody = `{"name":"Jo","email":"jo@x.com","subject":"Hi","message":"This is a long enough message."}`

func TestSubmit_AcceptsValidForm(t *testing.T) {
	n := &stubNotifier{}
	mux := newTestMux(t, n, 5)

	w, resp := post(mux, "1.2.3.4", goodBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"message": msgThanks}, resp.Data)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 1, n.calls)
}

func TestSubmit_ValidationListsAllProblems(t *testing.T) {
	n := &stubNotifier{}
	mux := newTestMux(t, n, 5)

	w, resp := post(mux, "1.2.3.4", `{"name":"A","email":"bad","subject":"S","message":"short"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed: Please enter a valid email address, Message must be at least 10 characters", resp.Error)
	assert.Contains(t, strings.ToLower(resp.Error), "email")
	assert.Contains(t, strings.ToLower(resp.Error), "message")
	assert.Equal(t, 0, n.calls)
}

func TestSubmit_MalformedJSON(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 5)

	for _, body := range []string{`{"name":`, ``, `{} {}`, `not json`} {
		w, resp := post(mux, "1.2.3.4", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Equal(t, msgInvalidJSON, resp.Error, "body %q", body)
	}
}

func TestSubmit_NonObjectJSON(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 5)

	w, resp := post(mux, "1.2.3.4", `["a"]`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed: Request body must be a JSON object", resp.Error)
}

func TestSubmit_BodyTooLarge(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 5)
	big := `{"name":"Jo","message":"` + strings.Repeat("x", MaxBodyBytes) + `"}`

	w, resp := post(mux, "1.2.3.4", big)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidJSON, resp.Error)
}

func TestSubmit_SanitizesBeforeDelivery(t *testing.T) {
	n := &stubNotifier{}
	mux := newTestMux(t, n, 5)

	w, _ := post(mux, "1.2.3.4", `{"name":"<b>Jo</b>","email":" JO@X.COM ","subject":"<Hi>","message":"<script>long enough</script>"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Submission{Name: "bJo/b", Email: "jo@x.com", Subject: "Hi", Message: "scriptlong enough/script"}, n.last)
}

func TestSubmit_RateLimitedAfterFiveRequests(t *testing.T) {
	n := &stubNotifier{}
	mux := newTestMux(t, n, 5)

	for i := 0; i < 5; i++ {
		w, _ := post(mux, "1.2.3.4", goodBody)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w, resp := post(mux, "1.2.3.4", goodBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, msgTooMany, resp.Error)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 5, n.calls)

	// outro cliente continua com orçamento próprio
	w, _ = post(mux, "5.6.7.8", goodBody)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmit_InvalidRequestsStillCountTowardsLimit(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 1)

	w, _ := post(mux, "1.2.3.4", `nope`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = post(mux, "1.2.3.4", goodBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmit_ClientsWithoutProxyHeadersShareBucket(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 1)

	w, _ := post(mux, "", goodBody)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = post(mux, "", goodBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmit_DeliveryFailureIsGeneric500(t *testing.T) {
	n := &stubNotifier{err: errors.New("smtp: 550 mailbox unavailable")}
	mux := newTestMux(t, n, 5)

	w, resp := post(mux, "1.2.3.4", goodBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgUnexpected, resp.Error)
	assert.NotContains(t, w.Body.String(), "smtp")
	assert.Equal(t, 1, n.calls)
}

func TestSubmit_PanicIsRecovered(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{panic: true}, 5)

	w, resp := post(mux, "1.2.3.4", goodBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgUnexpected, resp.Error)
}

func TestSubmit_StoreFailureIsGeneric500(t *testing.T) {
	v, err := application.NewValidator()
	require.NoError(t, err)
	h := NewHandler(v, application.Service{Notifier: &stubNotifier{}}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	h.Routes(mux, ratelimit.Middleware(ratelimit.Options{
		Store:        brokenStore{},
		Config:       rldomain.Config{Window: time.Minute, MaxRequests: 5},
		ErrorHandler: InternalError,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))

	w, resp := post(mux, "1.2.3.4", goodBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgUnexpected, resp.Error)
}

type brokenStore struct{}

func (brokenStore) Hit(context.Context, rldomain.Key, time.Time, time.Time, int) (int, bool, error) {
	return 0, false, errors.New("connection refused")
}

func TestHealth_AlwaysOperational(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 1)

	// health não consome nem respeita o limite do POST
	post(mux, "1.2.3.4", goodBody)
	post(mux, "1.2.3.4", goodBody)

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
		r.Header.Set("X-Forwarded-For", "1.2.3.4")
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"status":"Contact API is operational"}}`, w.Body.String())
	}
}

func TestRoutes_OtherMethodsNotAllowed(t *testing.T) {
	mux := newTestMux(t, &stubNotifier{}, 5)

	r := httptest.NewRequest(http.MethodDelete, "/api/contact", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
