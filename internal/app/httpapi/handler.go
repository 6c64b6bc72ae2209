// Package httpapi exposes the REST adapter: catalog queries and skin CRUD
// over query-string parameters, translated into query engine calls.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	domain "github.com/cswatch/catalog/internal/app/domain/catalog"
	catalogsvc "github.com/cswatch/catalog/internal/app/services/catalog"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/pkg/logger"
)

type handler struct {
	catalog *catalogsvc.Service
	log     *logger.Logger
}

// Register mounts the REST routes on the router.
func Register(r *mux.Router, catalog *catalogsvc.Service, log *logger.Logger) {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{catalog: catalog, log: log}

	r.HandleFunc("/agents", h.listAgents).Methods(http.MethodGet)
	r.HandleFunc("/skins", h.listSkins).Methods(http.MethodGet)
	r.HandleFunc("/skins", h.createSkin).Methods(http.MethodPost)
	r.HandleFunc("/skins/lookup", h.lookupSkin).Methods(http.MethodPost)
	r.HandleFunc("/skins/{id}", h.getSkin).Methods(http.MethodGet)
	r.HandleFunc("/skins/{id}", h.updateSkin).Methods(http.MethodPut)
	r.HandleFunc("/skins/{id}", h.deleteSkin).Methods(http.MethodDelete)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
}

// listEnvelope is the REST collection response: count is the number of
// returned (post-pagination) items.
type listEnvelope struct {
	Count int           `json:"count"`
	Data  []domain.Item `json:"data"`
}

func (h *handler) listAgents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := catalogsvc.Params{
		Name:   q.Get("name"),
		Rarity: q.Get("rarity"),
		Team:   q.Get("team"),
		Limit:  intParam(q.Get("limit")),
	}

	result, err := h.catalog.Query(r.Context(), domain.Agents, params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Count: result.Count, Data: result.Items})
}

func (h *handler) listSkins(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := catalogsvc.Params{
		Name:     q.Get("name"),
		Rarity:   q.Get("rarity"),
		Category: q.Get("category"),
		MinPrice: floatParam(q.Get("minPrice")),
		MaxPrice: floatParam(q.Get("maxPrice")),
		Offset:   intParam(q.Get("offset")),
		Limit:    intParam(q.Get("limit")),
	}

	result, err := h.catalog.Query(r.Context(), domain.Skins, params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Count: result.Count, Data: result.Items})
}

func (h *handler) getSkin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := h.catalog.Get(r.Context(), domain.Skins, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) lookupSkin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(payload.ID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("skin ID is required"))
		return
	}

	item, err := h.catalog.Get(r.Context(), domain.Skins, payload.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) createSkin(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := decodeJSON(r.Body, &item); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := h.catalog.Create(r.Context(), domain.Skins, item)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateSkin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch domain.Patch
	if err := decodeJSON(r.Body, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := h.catalog.Update(r.Context(), domain.Skins, id, patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) deleteSkin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	deleted, err := h.catalog.Delete(r.Context(), domain.Skins, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("Skin %s deleted successfully", id),
		"deletedSkin": deleted,
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps service errors onto wire statuses and a structured
// body.
func (h *handler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Error(),
			"code":  "validation_error",
			"field": verr.Field,
		})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": err.Error(),
			"code":  "not_found",
		})
	case errors.Is(err, storage.ErrUnavailable):
		h.log.WithError(err).Warn("backing store unavailable")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "backing collection unavailable",
			"code":  "store_unavailable",
		})
	default:
		h.log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
			"code":  "internal_error",
		})
	}
}

func intParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func floatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
