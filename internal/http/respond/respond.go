// Package respond writes the JSON envelope shared by handlers and middleware:
// {"status": code, "data": [...]} on success and {"status": code, "error": msg} on failure.
package respond

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5/middleware"

	"sendit/internal/logx"
)

type dataEnvelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

type errorEnvelope struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// ReqID returns the chi request id or "-".
func ReqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

// JSON writes v as the response body.
func JSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Warn("json encode error",
			logx.String("req_id", ReqID(r.Context())),
			logx.Err(err),
		)
	}
}

// Data writes a success envelope. A non-slice payload is wrapped into a one-element array.
func Data(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(logger, w, r, status, dataEnvelope{Status: status, Data: asList(data)})
}

// Error writes an error envelope.
func Error(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	if logger != nil {
		logger.Debug("http error",
			logx.String("req_id", ReqID(r.Context())),
			logx.Int("status", status),
			logx.String("msg", msg),
		)
	}
	JSON(logger, w, r, status, errorEnvelope{Status: status, Error: msg})
}

func asList(v any) any {
	if v == nil {
		return []any{}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			return []any{}
		}
		return v
	}
	return []any{v}
}
