package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novamart/checkout-system/orchestrator-service/application"
)

// CheckoutHandlers contains orchestrated checkout HTTP handlers
type CheckoutHandlers struct {
	runCheckout *application.RunCheckoutSaga
	getCheckout *application.GetCheckoutSaga
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(
	runCheckout *application.RunCheckoutSaga,
	getCheckout *application.GetCheckoutSaga,
) *CheckoutHandlers {
	return &CheckoutHandlers{
		runCheckout: runCheckout,
		getCheckout: getCheckout,
	}
}

// RunCheckout handles orchestrated checkout requests. The saga runs to a
// terminal state before the response is written: 201 when the order was
// created, 200 with success=false when the saga was cancelled.
func (h *CheckoutHandlers) RunCheckout(w http.ResponseWriter, r *http.Request) {
	var cmd application.RunCheckoutCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.runCheckout.Execute(r.Context(), &cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Success {
		w.WriteHeader(http.StatusCreated)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(response)
}

// GetCheckout handles saga status consultation requests
func (h *CheckoutHandlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sagaID := chi.URLParam(r, "id")
	if sagaID == "" {
		http.Error(w, "Saga ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.getCheckout.Execute(r.Context(), sagaID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if response == nil {
		http.Error(w, "checkout saga not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers checkout saga routes
func (h *CheckoutHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/saga/checkout", func(r chi.Router) {
		r.Post("/", h.RunCheckout)
		r.Get("/{id}", h.GetCheckout)
	})
}
