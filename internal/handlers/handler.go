package handlers

import (
	"log/slog"

	"seisaku-manager/internal/database"
	"seisaku-manager/internal/eventbus"
	"seisaku-manager/internal/tracker"
)

// Handler serves the JSON API. Reads go to the collection snapshot, writes
// go through the service; the collection catches up via the event bus.
type Handler struct {
	svc    *tracker.Service
	coll   *tracker.Collection
	users  *database.UserStore
	audit  *database.AuditTrail
	bus    *eventbus.Bus
	logger *slog.Logger
}

type Deps struct {
	Service    *tracker.Service
	Collection *tracker.Collection
	Users      *database.UserStore
	Audit      *database.AuditTrail
	Bus        *eventbus.Bus
	Logger     *slog.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    d.Service,
		coll:   d.Collection,
		users:  d.Users,
		audit:  d.Audit,
		bus:    d.Bus,
		logger: logger,
	}
}
