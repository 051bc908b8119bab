package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/novamart/checkout-system/shared/events"
	"github.com/novamart/checkout-system/shared/models"
)

// Role binds one worker to its consumer group
type Role struct {
	Name    string
	Group   string
	Handler events.Handler
}

// Supervisor runs a set of worker roles against the event stream, one
// subscription per role. Production runs one role per process; local runs
// can select several into one.
type Supervisor struct {
	log   events.Log
	roles []Role
}

// NewSupervisor creates a supervisor over the given roles
func NewSupervisor(log events.Log, roles ...Role) *Supervisor {
	return &Supervisor{log: log, roles: roles}
}

// Run subscribes every role and blocks until the context is cancelled or a
// subscription fails
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.roles) == 0 {
		return errors.New("no worker roles selected")
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, role := range s.roles {
		role := role
		if err := s.log.EnsureGroup(ctx, events.Stream, role.Group); err != nil {
			return errors.Wrapf(err, "failed to ensure consumer group %s", role.Group)
		}

		consumer := consumerName(role.Name)
		slog.Info("starting worker",
			"role", role.Name,
			"group", role.Group,
			"consumer", consumer,
		)
		group.Go(func() error {
			return s.log.Subscribe(ctx, events.Stream, role.Group, consumer, role.Handler)
		})
	}
	return group.Wait()
}

// consumerName derives a stable-enough consumer identity for the group
func consumerName(role string) string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%s-%s", role, hostname, models.GenerateUUID().String()[:8])
}
