package tiendanube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"appnube-sync-layer/internal/domain"
	"appnube-sync-layer/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("client-id", "client-secret", "appnube (test@example.com)", zerolog.Nop(),
		WithBaseURL(srv.URL), WithAuthURL(srv.URL+"/token"))
}

func TestFetchProductsSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotPath, gotQuery string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authentication")
		gotAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]Product{{ID: 1}})
	})

	products, err := client.FetchProducts(context.Background(), 777, "tok-1", 2)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "bearer tok-1", gotAuth)
	assert.Equal(t, "appnube (test@example.com)", gotAgent)
	assert.Equal(t, "/777/products", gotPath)
	assert.Equal(t, "page=2&per_page=50", gotQuery)
}

func TestFetchProducts404MeansEndOfPages(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"description":"Last page"}`, http.StatusNotFound)
	})

	products, err := client.FetchProducts(context.Background(), 777, "tok", 3)

	require.NoError(t, err)
	assert.Nil(t, products)
}

func TestFetchProductsMapsUpstreamErrors(t *testing.T) {
	for _, tc := range []struct {
		status int
		check  func(*domain.UpstreamError) bool
	}{
		{http.StatusUnauthorized, (*domain.UpstreamError).IsAuthorization},
		{http.StatusForbidden, (*domain.UpstreamError).IsAuthorization},
		{http.StatusTooManyRequests, (*domain.UpstreamError).IsRateLimited},
	} {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "denied", tc.status)
		})

		_, err := client.FetchProducts(context.Background(), 777, "tok", 1)
		require.Error(t, err)

		ue, ok := domain.AsUpstreamError(err)
		require.True(t, ok)
		assert.Equal(t, tc.status, ue.Status)
		assert.True(t, tc.check(ue))
	}
}

func TestFetchProductSingle404IsAnError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.FetchProduct(context.Background(), 777, "tok", 42)
	require.Error(t, err)

	ue, ok := domain.AsUpstreamError(err)
	require.True(t, ok)
	assert.True(t, ue.IsNotFound())
}

func TestExchangeCode(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-id", body["client_id"])
		assert.Equal(t, "authorization_code", body["grant_type"])
		assert.Equal(t, "the-code", body["code"])

		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "granted", UserID: 777})
	})

	token, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)

	assert.Equal(t, "granted", token.AccessToken)
	assert.Equal(t, int64(777), token.UserID)
}

func TestExchangeCodeRejectsEmptyToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TokenResponse{})
	})

	_, err := client.ExchangeCode(context.Background(), "the-code")
	assert.Error(t, err)
}

func TestClientCountsUpstreamRequests(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Product{})
	}))
	t.Cleanup(srv.Close)

	client := NewClient("client-id", "client-secret", "agent", zerolog.Nop(),
		WithBaseURL(srv.URL), WithMetrics(m))

	_, err := client.FetchProducts(context.Background(), 777, "tok", 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("success")))
}

func TestCreateWebhook(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/777/webhooks", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "products/update", body["event"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Webhook{ID: 5, Topic: body["event"], URL: body["url"]})
	})

	wh, err := client.CreateWebhook(context.Background(), 777, "tok", "products/update", "https://mirror.example/hook")
	require.NoError(t, err)

	assert.Equal(t, int64(5), wh.ID)
	assert.Equal(t, "products/update", wh.Topic)
}
