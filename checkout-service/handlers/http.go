package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/telemetry"
)

// StartCheckoutRequest represents a choreographed checkout request
type StartCheckoutRequest struct {
	ClientID string            `json:"client_id"`
	Lines    []models.CartLine `json:"lines"`
}

// StartCheckoutResponse acknowledges an accepted checkout. The saga runs
// asynchronously; FollowURL points at the replay endpoint for its progress.
type StartCheckoutResponse struct {
	CheckoutID string `json:"checkout_id"`
	FollowURL  string `json:"follow_url"`
}

// CheckoutHandlers contains choreographed checkout HTTP handlers
type CheckoutHandlers struct {
	log events.Log
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(log events.Log) *CheckoutHandlers {
	return &CheckoutHandlers{log: log}
}

// StartCheckout accepts a checkout and publishes CheckoutInitiated; the
// workers drive the saga from there. Responds 202 since nothing has been
// decided yet.
func (h *CheckoutHandlers) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req StartCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	clientID, err := models.NewID(req.ClientID)
	if err != nil {
		http.Error(w, "Invalid client ID", http.StatusBadRequest)
		return
	}
	if err := models.ValidateCart(req.Lines); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	checkoutID := models.GenerateUUID()
	initiated, err := events.New(checkoutID, events.CheckoutInitiated, events.CheckoutInitiatedPayload{
		ClientID:  clientID,
		CartLines: req.Lines,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := h.log.Publish(r.Context(), events.Stream, initiated); err != nil {
		http.Error(w, "failed to accept checkout", http.StatusServiceUnavailable)
		return
	}
	telemetry.SagaStarted.WithLabelValues(telemetry.ModeChoreographed).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(StartCheckoutResponse{
		CheckoutID: checkoutID.String(),
		FollowURL:  "/replay/checkout/" + checkoutID.String(),
	})
}

// RegisterRoutes registers choreographed checkout routes
func (h *CheckoutHandlers) RegisterRoutes(r chi.Router) {
	r.Post("/checkout/choreo", h.StartCheckout)
}
