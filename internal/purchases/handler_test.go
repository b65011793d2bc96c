package purchases

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/authz"
)

func newWebhookRouter(repo Repository, secret string) chi.Router {
	svc := NewService(repo, nil, testLogger())
	handler := NewHandler(testLogger(), svc, authz.NewMiddleware(nil), secret)
	r := chi.NewRouter()
	r.Route("/api", handler.MountWebhook)
	return r
}

func postWebhook(router chi.Router, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	router := newWebhookRouter(newMockRepo(), "topsecret")

	res := postWebhook(router, "wrong", `{}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = postWebhook(router, "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestWebhookRejectsWhenSecretUnconfigured(t *testing.T) {
	router := newWebhookRouter(newMockRepo(), "")

	res := postWebhook(router, "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, res.Code, "unconfigured secret must fail closed")
}

func TestWebhookValidatesPayload(t *testing.T) {
	router := newWebhookRouter(newMockRepo(), "topsecret")

	cases := []string{
		`{not json`,
		`{"transactionId":"not-a-uuid","status":"settled"}`,
		`{"transactionId":"8c2f1f6e-46b3-4c9b-b9f1-0d1a2b3c4d5e","status":"refunded"}`,
		`{"status":"settled"}`,
	}
	for _, body := range cases {
		res := postWebhook(router, "topsecret", body)
		assert.Equal(t, http.StatusBadRequest, res.Code, "body %s", body)
	}
}

func TestWebhookSettlesTransaction(t *testing.T) {
	repo := newMockRepo()
	repo.content[2] = &purchasableContent{ID: 2, Title: "Kalkulus Lanjut", Status: "PUBLISHED"}
	repo.emails[7] = "murid@test.local"
	repo.transactions["8c2f1f6e-46b3-4c9b-b9f1-0d1a2b3c4d5e"] = &Transaction{
		ID:        "8c2f1f6e-46b3-4c9b-b9f1-0d1a2b3c4d5e",
		UserID:    7,
		ContentID: 2,
		Status:    StatusPending,
	}
	router := newWebhookRouter(repo, "topsecret")

	body := `{"transactionId":"8c2f1f6e-46b3-4c9b-b9f1-0d1a2b3c4d5e","status":"settled","providerRef":"pay_abc"}`
	res := postWebhook(router, "topsecret", body)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.True(t, repo.owned[[2]int64{7, 2}])

	// Provider retry must succeed without double effects.
	res = postWebhook(router, "topsecret", body)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 1, repo.counts[2])
}

func TestWebhookUnknownTransaction(t *testing.T) {
	router := newWebhookRouter(newMockRepo(), "topsecret")

	body := `{"transactionId":"8c2f1f6e-46b3-4c9b-b9f1-0d1a2b3c4d5e","status":"settled"}`
	res := postWebhook(router, "topsecret", body)
	assert.Equal(t, http.StatusNotFound, res.Code)
}
