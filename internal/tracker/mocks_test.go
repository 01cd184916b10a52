package tracker

import (
	"context"
	"fmt"
	"sync"

	"seisaku-manager/internal/models"
)

// memStore is an in-memory Store. Setting failWith makes every call fail.
type memStore struct {
	mu       sync.Mutex
	projects map[string]models.Project
	updates  []Changes
	failWith error
}

func newMemStore(projects ...models.Project) *memStore {
	s := &memStore{projects: make(map[string]models.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *memStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	p.Tasks = p.CloneTasks()
	return &p, nil
}

func (s *memStore) List(_ context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		p.Tasks = p.CloneTasks()
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, id string, c Changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	p, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	s.projects[id] = c.Apply(p)
	s.updates = append(s.updates, c)
	return nil
}

func (s *memStore) get(id string) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[id]
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func statusPtr(s models.ProjectStatus) *models.ProjectStatus { return &s }

// sampleProject is P1 from the reference scenario: deadline 2025-03-10 and
// an open delivery task due the same day.
func sampleProject() models.Project {
	return models.Project{
		ID:       "P1",
		Name:     "看板製作",
		Deadline: "2025-03-10",
		SalesRep: "山田 太郎",
		Designer: "佐藤 花子",
		Status:   models.StatusInProgress,
		Tasks: []models.Task{
			{ID: "T0", Name: "デザイン作成", Department: models.DeptDesigner, DueDate: "2025-03-01"},
			{ID: "T2", Name: "エッチング", Department: models.DeptEtching, DueDate: "2025-03-05"},
			models.NewDeliveryTask("T1", "2025-03-10"),
		},
	}
}
