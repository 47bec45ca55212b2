package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cr8s/cr8sapi/internal/respond"
)

// ListLimit caps the number of rows returned by a list endpoint.
const ListLimit = 100

const maxBodyBytes = 1 << 20

// payload is a request body that can check its own required fields.
type payload interface {
	Validate() error
}

// resourceStore is the repository shape shared by every CRUD resource:
// T is the stored row, N the create payload and U the update payload.
type resourceStore[T any, N payload, U payload] interface {
	Find(ctx context.Context, id int64) (*T, error)
	FindMultiple(ctx context.Context, limit int) ([]T, error)
	Create(ctx context.Context, in N) (*T, error)
	Update(ctx context.Context, id int64, in U) (*T, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type resourceHandlers[T any, N payload, U payload] struct {
	store resourceStore[T, N, U]
}

// List handles GET /{resource}
func (h *resourceHandlers[T, N, U]) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.FindMultiple(r.Context(), ListLimit)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	if rows == nil {
		rows = []T{}
	}
	respond.JSON(w, http.StatusOK, rows)
}

// Get handles GET /{resource}/{id}
func (h *resourceHandlers[T, N, U]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	row, err := h.store.Find(r.Context(), id)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, row)
}

// Create handles POST /{resource}
func (h *resourceHandlers[T, N, U]) Create(w http.ResponseWriter, r *http.Request) {
	var in N
	if !decodePayload(w, r, &in) {
		return
	}

	row, err := h.store.Create(r.Context(), in)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, row)
}

// Update handles PUT /{resource}/{id}
func (h *resourceHandlers[T, N, U]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var in U
	if !decodePayload(w, r, &in) {
		return
	}

	row, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, row)
}

// Delete handles DELETE /{resource}/{id}
func (h *resourceHandlers[T, N, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		respond.FromError(w, r, err)
		return
	}
	if deleted == 0 {
		respond.Error(w, http.StatusNotFound, "Not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "Bad request")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// decodePayload reads and validates the request body, answering 400 on
// either failure.
func decodePayload[P payload](w http.ResponseWriter, r *http.Request, dst *P) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "Bad request")
		return false
	}
	if err := (*dst).Validate(); err != nil {
		respond.Error(w, http.StatusBadRequest, "Bad request")
		return false
	}
	return true
}
