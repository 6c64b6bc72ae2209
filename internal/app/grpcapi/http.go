package grpcapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domain "github.com/cswatch/catalog/internal/app/domain/market"
	"github.com/cswatch/catalog/internal/app/services/market"
	"github.com/cswatch/catalog/pkg/logger"
)

// HTTPHandler serves the /grpc discovery route: GET describes the running
// service, POST tunnels the unary GetPriceHistory call for clients without a
// gRPC stack.
type HTTPHandler struct {
	feed *market.Feed
	addr string
	log  *logger.Logger
}

// NewHTTPHandler constructs the discovery handler. addr is the gRPC listen
// address reported to clients.
func NewHTTPHandler(feed *market.Feed, addr string, log *logger.Logger) *HTTPHandler {
	if log == nil {
		log = logger.NewDefault("grpcapi-http")
	}
	return &HTTPHandler{feed: feed, addr: addr, log: log}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.describe(w)
	case http.MethodPost:
		h.invoke(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) describe(w http.ResponseWriter) {
	type skinRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	type endpoint struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	records := h.feed.Items()
	available := make([]skinRef, 0, len(records))
	for _, rec := range records {
		available = append(available, skinRef{ID: rec.ID, Name: rec.Name})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "gRPC server running",
		"address":        h.addr,
		"availableSkins": available,
		"endpoints": []endpoint{
			{Name: "SubscribeToPriceUpdates", Description: "Subscribe to real-time price updates"},
			{Name: "GetPriceHistory", Description: "Fetch bounded price history for a skin"},
		},
	})
}

func (h *HTTPHandler) invoke(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Method string `json:"method"`
		Params struct {
			SkinID    string `json:"skin_id"`
			TimeRange string `json:"time_range"`
		} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	defer r.Body.Close()

	if payload.Method != "GetPriceHistory" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "method not supported over HTTP"})
		return
	}

	name, points, err := h.feed.History(payload.Params.SkinID, domain.ParseRange(payload.Params.TimeRange))
	if err != nil {
		if errors.Is(err, market.ErrUnknownItem) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "skin not found"})
			return
		}
		h.log.WithError(err).Error("history lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	type pricePoint struct {
		Price     float64 `json:"price"`
		Timestamp string  `json:"timestamp"`
	}
	out := make([]pricePoint, 0, len(points))
	for _, p := range points {
		out = append(out, pricePoint{Price: roundPrice(p.Price), Timestamp: p.Timestamp.UTC().Format(time.RFC3339)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"skin_id":      payload.Params.SkinID,
		"skin_name":    name,
		"price_points": out,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
