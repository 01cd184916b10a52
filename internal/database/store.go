package database

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"seisaku-manager/internal/eventbus"
	"seisaku-manager/internal/models"
	"seisaku-manager/internal/tracker"
)

// ProjectStore keeps projects in one table, tasks embedded as JSON.
// Every successful write is announced on the bus.
type ProjectStore struct {
	db  *gorm.DB
	bus *eventbus.Bus
}

var _ tracker.Store = (*ProjectStore)(nil)

func NewProjectStore(db *gorm.DB, bus *eventbus.Bus) *ProjectStore {
	return &ProjectStore{db: db, bus: bus}
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	if p.Tasks == nil {
		p.Tasks = datatypes.JSONSlice[models.Task]{}
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	s.publish(eventbus.ProjectCreated, p.ID)
	return nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if isNotFound(err) {
		return nil, fmt.Errorf("project %s: %w", id, tracker.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return &p, nil
}

func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update writes all changed columns in a single statement.
func (s *ProjectStore) Update(ctx context.Context, id string, c tracker.Changes) error {
	cols := columns(c)
	if len(cols) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project %s: %w", id, tracker.ErrNotFound)
	}
	s.publish(eventbus.ProjectUpdated, id)
	return nil
}

func (s *ProjectStore) publish(t eventbus.EventType, id string) {
	if s.bus != nil {
		s.bus.PublishNew(t, id)
	}
}

func columns(c tracker.Changes) map[string]any {
	cols := map[string]any{}
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Deadline != nil {
		cols["deadline"] = *c.Deadline
	}
	if c.SalesRep != nil {
		cols["sales_rep"] = *c.SalesRep
	}
	if c.Designer != nil {
		cols["designer"] = *c.Designer
	}
	if c.Link != nil {
		cols["link"] = *c.Link
	}
	if c.Notes != nil {
		cols["notes"] = *c.Notes
	}
	if c.Status != nil {
		cols["status"] = string(*c.Status)
	}
	if c.Tasks != nil {
		tasks := make([]models.Task, len(*c.Tasks))
		copy(tasks, *c.Tasks)
		cols["tasks"] = datatypes.JSONSlice[models.Task](tasks)
	}
	return cols
}
