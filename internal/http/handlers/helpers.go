package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sendit/internal/apperr"
	"sendit/internal/domain"
	"sendit/internal/http/middleware"
	"sendit/internal/http/respond"
	"sendit/internal/logx"
)

const (
	bodyLimit = 1 << 20
)

func writeData(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, data any) {
	respond.Data(logger, w, r, status, data)
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	respond.Error(logger, w, r, status, msg)
}

// decodeJSON reads a single JSON object into dst and validates it.
func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func idFromURL(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// pageFromQuery reads orderBy, desc, limit and offset.
func pageFromQuery(r *http.Request) (domain.Page, string) {
	q := r.URL.Query()
	var page domain.Page

	if s := q.Get("orderBy"); s != "" {
		page.OrderBy = domain.ParcelOrder(s)
		if !page.OrderBy.Valid() {
			return domain.Page{}, "invalid orderBy"
		}
	}
	if s := q.Get("desc"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return domain.Page{}, "invalid desc"
		}
		page.Desc = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return domain.Page{}, "invalid limit"
		}
		page.Limit = &v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return domain.Page{}, "invalid offset"
		}
		page.Offset = &v
	}
	return page, ""
}

// principal returns the caller set by the token middleware.
func principal(logger logx.Logger, w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		writeError(logger, w, r, http.StatusForbidden, "token not valid")
		return 0, false
	}
	return id, true
}

// detail strips the sentinel prefix from a wrapped apperr, falling back to def.
func detail(err, sentinel error, def string) string {
	prefix := sentinel.Error() + ": "
	if msg := err.Error(); strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return def
}

// fail maps service errors onto the HTTP error envelope. Unknown errors are logged and hidden.
func fail(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, apperr.Invalid):
		writeError(logger, w, r, http.StatusBadRequest, detail(err, apperr.Invalid, "invalid input"))
	case errors.Is(err, apperr.InvalidTransition):
		writeError(logger, w, r, http.StatusBadRequest, detail(err, apperr.InvalidTransition, "invalid transition"))
	case errors.Is(err, apperr.Unauthenticated):
		writeError(logger, w, r, http.StatusForbidden, detail(err, apperr.Unauthenticated, "wrong credentials"))
	case errors.Is(err, apperr.Conflict):
		writeError(logger, w, r, http.StatusForbidden, "user exists")
	case errors.Is(err, apperr.Forbidden):
		writeError(logger, w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, apperr.Unauthorized):
		writeError(logger, w, r, http.StatusUnauthorized, "admin access required")
	case errors.Is(err, apperr.NotFound):
		writeError(logger, w, r, http.StatusNotFound, detail(err, apperr.NotFound, notFound))
	default:
		logger.Error("request failed",
			logx.String("req_id", respond.ReqID(r.Context())),
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
		writeError(logger, w, r, http.StatusInternalServerError, "server error")
	}
}
