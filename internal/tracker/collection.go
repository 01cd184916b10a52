package tracker

import (
	"context"
	"log/slog"
	"sync"

	"seisaku-manager/internal/eventbus"
	"seisaku-manager/internal/models"
)

// Lister is the read side of Store.
type Lister interface {
	List(ctx context.Context) ([]models.Project, error)
}

// Subscriber delivers change notifications from the store.
type Subscriber interface {
	Subscribe(bufSize int) (string, <-chan eventbus.Event)
	Unsubscribe(id string)
}

// Collection keeps the latest snapshot of all projects, colors assigned.
// It is refreshed from the store whenever a change notification arrives;
// a failed refresh keeps the previous snapshot.
type Collection struct {
	lister Lister
	logger *slog.Logger

	mu       sync.RWMutex
	projects []models.Project
	version  uint64
}

func NewCollection(lister Lister, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{
		lister: lister,
		logger: logger,
	}
}

// Refresh reloads the snapshot from the store.
func (c *Collection) Refresh(ctx context.Context) error {
	projects, err := c.lister.List(ctx)
	if err != nil {
		return &PersistenceError{Op: "list projects", Err: err}
	}
	AssignColors(projects)

	c.mu.Lock()
	c.projects = projects
	c.version++
	c.mu.Unlock()
	return nil
}

// Run loads the initial snapshot and then follows sub until ctx is done
// or the subscription is closed.
func (c *Collection) Run(ctx context.Context, sub Subscriber) error {
	id, events := sub.Subscribe(64)
	defer sub.Unsubscribe(id)

	if err := c.Refresh(ctx); err != nil {
		c.logger.ErrorContext(ctx, "initial project load failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			// coalesce a burst of notifications into one reload
			n := 1 + drain(events)
			if err := c.Refresh(ctx); err != nil {
				c.logger.ErrorContext(ctx, "project reload failed",
					slog.String("trigger", string(ev.Type)),
					slog.String("project_id", ev.ProjectID),
					slog.Any("error", err))
				continue
			}
			c.logger.DebugContext(ctx, "project snapshot reloaded", slog.Int("events", n))
		}
	}
}

func drain(events <-chan eventbus.Event) int {
	n := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

// Version increases with every successful refresh.
func (c *Collection) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot returns a copy of every project, tombstones included.
func (c *Collection) Snapshot() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Project, len(c.projects))
	for i, p := range c.projects {
		p.Tasks = p.CloneTasks()
		out[i] = p
	}
	return out
}

func (c *Collection) Active() []models.Project {
	return Active(c.Snapshot())
}

// Find returns a non-deleted project from the snapshot.
func (c *Collection) Find(id string) (models.Project, bool) {
	for _, p := range c.Active() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// TasksDueOn returns the filtered, display-ordered tasks due on date.
func (c *Collection) TasksDueOn(date string, f TaskFilter) []TaskItem {
	items := FilterTaskItems(TasksDueOn(c.Snapshot(), date), f)
	SortTaskItems(items)
	return items
}

func (c *Collection) DeadlinesOn(date string) []models.Project {
	return DeadlinesOn(c.Snapshot(), date)
}

func (c *Collection) Legend(f TaskFilter) []models.Project {
	return LegendProjects(c.Snapshot(), f)
}

// Color returns the color currently assigned to id, or "" if the project is
// unknown to the snapshot or deleted.
func (c *Collection) Color(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.projects {
		if c.projects[i].ID == id {
			return c.projects[i].Color
		}
	}
	return ""
}
