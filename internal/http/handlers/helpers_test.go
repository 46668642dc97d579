package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"sendit/internal/http/middleware"
)

type errorEnvelope struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

type dataEnvelope[T any] struct {
	Status int `json:"status"`
	Data   []T `json:"data"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) dataEnvelope[T] {
	t.Helper()
	var env dataEnvelope[T]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

// newRequest builds a request as the router would hand it over: url params set and,
// when uid > 0, the principal stored by the token middleware.
func newRequest(method, target, body string, uid int64, params map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	ctx := req.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if uid > 0 {
		ctx = middleware.WithPrincipal(ctx, uid)
	}
	return req.WithContext(ctx)
}
