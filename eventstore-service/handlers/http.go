package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/novamart/checkout-system/eventstore-service/application"
)

// EventStoreHandlers contains event store read API handlers
type EventStoreHandlers struct {
	listEvents        *application.ListEvents
	replayCheckout    *application.ReplayCheckout
	getOrdersByClient *application.GetOrdersByClient
}

// NewEventStoreHandlers creates new event store handlers
func NewEventStoreHandlers(
	listEvents *application.ListEvents,
	replayCheckout *application.ReplayCheckout,
	getOrdersByClient *application.GetOrdersByClient,
) *EventStoreHandlers {
	return &EventStoreHandlers{
		listEvents:        listEvents,
		replayCheckout:    replayCheckout,
		getOrdersByClient: getOrdersByClient,
	}
}

// ListEvents handles paged stream reads
func (h *EventStoreHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	stream := chi.URLParam(r, "stream")
	if stream == "" {
		http.Error(w, "Stream is required", http.StatusBadRequest)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	response, err := h.listEvents.Execute(r.Context(), &application.ListEventsQuery{
		Stream: stream,
		From:   r.URL.Query().Get("from"),
		Limit:  limit,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ReplayCheckout handles checkout replay requests
func (h *EventStoreHandlers) ReplayCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID := chi.URLParam(r, "id")
	if checkoutID == "" {
		http.Error(w, "Checkout ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.replayCheckout.Execute(r.Context(), checkoutID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if response == nil {
		http.Error(w, "no events for checkout", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetOrdersByClient handles read model consultation requests
func (h *EventStoreHandlers) GetOrdersByClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")
	if clientID == "" {
		http.Error(w, "Client ID is required", http.StatusBadRequest)
		return
	}

	response, err := h.getOrdersByClient.Execute(r.Context(), clientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RegisterRoutes registers event store read routes
func (h *EventStoreHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/events/{stream}", h.ListEvents)
	r.Get("/replay/checkout/{id}", h.ReplayCheckout)
	r.Get("/cqrs/orders-by-client/{id}", h.GetOrdersByClient)
}
