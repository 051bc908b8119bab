package application

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/novamart/checkout-system/orchestrator-service/domain"
	"github.com/novamart/checkout-system/shared/collaborators"
	"github.com/novamart/checkout-system/shared/models"
	"github.com/novamart/checkout-system/shared/saga"
	"github.com/novamart/checkout-system/shared/telemetry"
)

// RunCheckoutCommand represents the command to run an orchestrated checkout
type RunCheckoutCommand struct {
	ClientID string            `json:"client_id"`
	Lines    []models.CartLine `json:"lines"`
}

// RunCheckoutResponse represents the outcome of an orchestrated checkout
type RunCheckoutResponse struct {
	Success bool   `json:"success"`
	SagaID  string `json:"saga_id"`
	OrderID string `json:"order_id,omitempty"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// step is one forward action of the orchestrated saga. Compensate undoes the
// step's applied side effects: it runs for every completed step and for the
// failed step itself, which may have applied part of its effects before
// failing.
type step struct {
	name       string
	run        func(ctx context.Context, s *domain.CheckoutSaga) error
	compensate func(ctx context.Context, s *domain.CheckoutSaga) error
}

// stepFailure carries the state-machine outcome of a failed step
type stepFailure struct {
	status saga.Status
	reason string
}

func (f *stepFailure) Error() string {
	return f.reason
}

// RunCheckoutSaga use case: the central coordinator of the orchestrated
// checkout. It owns the full flow, calls the collaborators synchronously and
// compensates applied effects in reverse order when a step fails.
type RunCheckoutSaga struct {
	sagas   domain.CheckoutSagaRepository
	stock   collaborators.StockService
	orders  collaborators.OrderService
	catalog collaborators.CatalogService
}

// NewRunCheckoutSaga creates a new RunCheckoutSaga use case
func NewRunCheckoutSaga(
	sagas domain.CheckoutSagaRepository,
	stock collaborators.StockService,
	orders collaborators.OrderService,
	catalog collaborators.CatalogService,
) *RunCheckoutSaga {
	return &RunCheckoutSaga{
		sagas:   sagas,
		stock:   stock,
		orders:  orders,
		catalog: catalog,
	}
}

// Execute runs the checkout saga to a terminal state and reports the outcome.
// Collaborator errors never surface to the caller as transport errors: they
// land the saga in CANCELLED and come back as a business outcome.
func (uc *RunCheckoutSaga) Execute(ctx context.Context, cmd *RunCheckoutCommand) (*RunCheckoutResponse, error) {
	clientID, err := models.NewID(cmd.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client ID")
	}

	checkout, err := domain.StartCheckoutSaga(clientID, cmd.Lines)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start checkout saga")
	}
	if err := uc.sagas.Save(ctx, checkout); err != nil {
		return nil, errors.Wrap(err, "failed to persist checkout saga")
	}
	telemetry.SagaStarted.WithLabelValues(telemetry.ModeOrchestrated).Inc()

	steps := uc.steps()
	applied := make([]step, 0, len(steps))

	for _, st := range steps {
		if err := st.run(ctx, checkout); err != nil {
			failure := asStepFailure(st.name, err)
			// The failed step compensates too: a mid-cart reservation
			// failure has lines recorded that must be released.
			return uc.fail(ctx, checkout, append(applied, st), failure)
		}
		applied = append(applied, st)
		if err := uc.sagas.Save(ctx, checkout); err != nil {
			return nil, errors.Wrapf(err, "failed to persist saga after step %s", st.name)
		}
	}

	if err := checkout.TransitionTo(saga.StatusCompleted, nil); err != nil {
		return nil, err
	}
	if err := uc.sagas.Save(ctx, checkout); err != nil {
		return nil, errors.Wrap(err, "failed to persist completed saga")
	}
	telemetry.SagaCompleted.WithLabelValues(telemetry.ModeOrchestrated).Inc()

	return &RunCheckoutResponse{
		Success: true,
		SagaID:  checkout.ID.String(),
		OrderID: checkout.OrderID.String(),
		Status:  checkout.Status.String(),
	}, nil
}

func (uc *RunCheckoutSaga) steps() []step {
	return []step{
		{name: "check-stock", run: uc.checkStock},
		{name: "reserve-stock", run: uc.reserveStock, compensate: uc.releaseStock},
		{name: "create-order", run: uc.createOrder},
	}
}

// checkStock verifies availability of every cart line before touching stock
func (uc *RunCheckoutSaga) checkStock(ctx context.Context, s *domain.CheckoutSaga) error {
	if err := s.TransitionTo(saga.StatusStockChecking, nil); err != nil {
		return err
	}

	for _, line := range s.Lines {
		available, err := uc.stock.Check(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return &stepFailure{
				status: saga.StatusStockInsufficient,
				reason: errors.Wrapf(err, "stock check failed for product %s", line.ProductID).Error(),
			}
		}
		if !available {
			return &stepFailure{
				status: saga.StatusStockInsufficient,
				reason: "insufficient stock for product " + line.ProductID,
			}
		}
	}

	return s.TransitionTo(saga.StatusStockChecked, nil)
}

// reserveStock enriches the cart from the catalog, then reserves line by
// line, recording each applied reservation so compensation releases only
// what was actually taken
func (uc *RunCheckoutSaga) reserveStock(ctx context.Context, s *domain.CheckoutSaga) error {
	if err := s.TransitionTo(saga.StatusStockReserving, nil); err != nil {
		return err
	}

	enriched := make([]models.CartLine, 0, len(s.Lines))
	for _, line := range s.Lines {
		product, err := uc.catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			return &stepFailure{
				status: saga.StatusReservationFailed,
				reason: errors.Wrapf(err, "product lookup failed for %s", line.ProductID).Error(),
			}
		}
		line.ProductName = product.Name
		line.UnitPrice = product.Price
		enriched = append(enriched, line)
	}
	s.EnrichLines(enriched)

	for _, line := range s.Lines {
		if err := uc.stock.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			return &stepFailure{
				status: saga.StatusReservationFailed,
				reason: errors.Wrapf(err, "reservation failed for product %s", line.ProductID).Error(),
			}
		}
		s.RecordReservation(line)
	}

	return s.TransitionTo(saga.StatusStockReserved, s.Reserved)
}

// releaseStock undoes applied reservations in reverse order
func (uc *RunCheckoutSaga) releaseStock(ctx context.Context, s *domain.CheckoutSaga) error {
	var failed error
	for i := len(s.Reserved) - 1; i >= 0; i-- {
		line := s.Reserved[i]
		if err := uc.stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			telemetry.CompensationLeaks.Inc()
			slog.ErrorContext(ctx, "stock release failed, reserved units leaked",
				"checkout_id", s.ID.String(),
				"product_id", line.ProductID,
				"quantity", line.Quantity,
				"error", err.Error(),
			)
			failed = err
		}
	}
	if failed == nil {
		s.ClearReservations()
	}
	return failed
}

// createOrder registers the sale with the order collaborator
func (uc *RunCheckoutSaga) createOrder(ctx context.Context, s *domain.CheckoutSaga) error {
	if err := s.TransitionTo(saga.StatusOrderCreating, nil); err != nil {
		return err
	}

	orderID, err := uc.orders.Create(ctx, s.ClientID, s.Lines)
	if err != nil {
		return &stepFailure{
			status: saga.StatusOrderCreationFailed,
			reason: errors.Wrap(err, "order creation failed").Error(),
		}
	}

	s.AssignOrder(orderID)
	return s.TransitionTo(saga.StatusOrderCreated, map[string]string{"order_id": orderID.String()})
}

// fail lands the saga in CANCELLED: records the failure state, compensates
// applied effects in reverse order where the failed state requires it, and
// reports the outcome as a business response
func (uc *RunCheckoutSaga) fail(ctx context.Context, checkout *domain.CheckoutSaga, applied []step, failure *stepFailure) (*RunCheckoutResponse, error) {
	detail := map[string]string{"reason": failure.reason}
	if err := checkout.TransitionTo(failure.status, detail); err != nil {
		return nil, err
	}
	telemetry.SagaFailed.WithLabelValues(telemetry.ModeOrchestrated, failure.status.String()).Inc()

	if failure.status != saga.StatusStockInsufficient {
		if err := checkout.TransitionTo(saga.StatusCompensating, nil); err != nil {
			return nil, err
		}
		if err := uc.sagas.Save(ctx, checkout); err != nil {
			return nil, errors.Wrap(err, "failed to persist compensating saga")
		}

		for i := len(applied) - 1; i >= 0; i-- {
			st := applied[i]
			if st.compensate == nil {
				continue
			}
			if err := st.compensate(ctx, checkout); err != nil {
				slog.ErrorContext(ctx, "compensation step failed",
					"checkout_id", checkout.ID.String(),
					"step", st.name,
					"error", err.Error(),
				)
			}
		}
	}

	if err := checkout.TransitionTo(saga.StatusCancelled, detail); err != nil {
		return nil, err
	}
	if err := uc.sagas.Save(ctx, checkout); err != nil {
		return nil, errors.Wrap(err, "failed to persist cancelled saga")
	}

	return &RunCheckoutResponse{
		Success: false,
		SagaID:  checkout.ID.String(),
		Status:  checkout.Status.String(),
		Reason:  failure.reason,
	}, nil
}

// asStepFailure maps unexpected step errors onto reservation failure so the
// saga always lands in a terminal state
func asStepFailure(stepName string, err error) *stepFailure {
	var failure *stepFailure
	if errors.As(err, &failure) {
		return failure
	}
	return &stepFailure{
		status: saga.StatusReservationFailed,
		reason: errors.Wrapf(err, "step %s failed", stepName).Error(),
	}
}
