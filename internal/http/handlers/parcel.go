package handlers

import (
	"net/http"

	"sendit/internal/domain"
	"sendit/internal/logx"
	"sendit/internal/service/parcel"
)

const parcelNotFound = "parcel not found"

// ParcelHandler serves the parcel endpoints. Every route expects an authenticated principal.
type ParcelHandler struct {
	parcels parcelUsecase
	logger  logx.Logger
}

// NewParcelHandler creates a ParcelHandler.
func NewParcelHandler(parcels parcelUsecase, logger logx.Logger) *ParcelHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ParcelHandler{parcels: parcels, logger: logger}
}

// Create handles POST /parcels.
func (h *ParcelHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	var req createParcelRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	id, err := h.parcels.Create(r.Context(), uid, req.toModel())
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusCreated, messageDTO{ID: id, Message: parcel.MsgCreated})
}

// List handles GET /parcels (admin only).
func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	page, msg := pageFromQuery(r)
	if msg != "" {
		writeError(h.logger, w, r, http.StatusBadRequest, msg)
		return
	}

	list, err := h.parcels.List(r.Context(), uid, page)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, parcelsToResponse(list))
}

// Get handles GET /parcels/{parcelId}.
func (h *ParcelHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "parcelId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.parcels.Get(r.Context(), uid, id)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, parcelToResponse(*p))
}

// ListForUser handles GET /users/{userId}/parcels.
func (h *ParcelHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	userID, err := idFromURL(r, "userId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	page, msg := pageFromQuery(r)
	if msg != "" {
		writeError(h.logger, w, r, http.StatusBadRequest, msg)
		return
	}

	list, err := h.parcels.ListForUser(r.Context(), uid, userID, page)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, parcelsToResponse(list))
}

// Cancel handles PATCH /parcels/{parcelId}/cancel.
func (h *ParcelHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "parcelId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.parcels.Cancel(r.Context(), uid, id)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, messageDTO{ID: res.ID, Message: res.Message})
}

// ChangeDestination handles PATCH /parcels/{parcelId}/destination.
func (h *ParcelHandler) ChangeDestination(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "parcelId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req destinationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	res, err := h.parcels.ChangeDestination(r.Context(), uid, id, req.To)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, destinationDTO{ID: res.ID, To: res.To, Message: res.Message})
}

// ChangeStatus handles PATCH /parcels/{parcelId}/status (admin only).
func (h *ParcelHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "parcelId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req statusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	res, err := h.parcels.ChangeStatus(r.Context(), uid, id, domain.ParcelStatus(req.Status))
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, statusDTO{ID: res.ID, Status: res.Status, Message: res.Message})
}

// ChangeLocation handles PATCH /parcels/{parcelId}/currentlocation (admin only).
func (h *ParcelHandler) ChangeLocation(w http.ResponseWriter, r *http.Request) {
	uid, ok := principal(h.logger, w, r)
	if !ok {
		return
	}
	id, err := idFromURL(r, "parcelId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req locationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	res, err := h.parcels.ChangeLocation(r.Context(), uid, id, req.CurrentLocation)
	if err != nil {
		fail(h.logger, w, r, err, parcelNotFound)
		return
	}
	writeData(h.logger, w, r, http.StatusOK, locationDTO{ID: res.ID, CurrentLocation: res.CurrentLocation, Message: res.Message})
}
