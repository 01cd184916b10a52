package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"seisaku-manager/internal/models"
)

// Store persists projects. Implementations return an error matching
// ErrNotFound for unknown ids and must apply Update atomically.
type Store interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id string, c Changes) error
}

const (
	MsgProjectAdded     = "プロジェクトが追加されました"
	MsgProjectUpdated   = "プロジェクトが更新されました"
	MsgProjectDeleted   = "プロジェクトが削除されました"
	MsgProjectCompleted = "物件が完了しました"
	MsgProjectReopened  = "物件を進行中に戻しました"
	MsgTaskCompleted    = "タスク完了"
	MsgTaskReopened     = "タスクを未完了に戻しました"
	MsgTaskUpdated      = "タスクが更新されました"
)

// Outcome describes a successful mutation for the user-facing notification.
type Outcome struct {
	Project         models.Project `json:"project"`
	StatusChanged   bool           `json:"statusChanged"`
	DeadlineChanged bool           `json:"deadlineChanged"`
	Message         string         `json:"message"`
}

type Service struct {
	store  Store
	logger *slog.Logger
	newID  func() string
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithIDGenerator replaces uuid-based ids; used by tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Service) {
		s.newID = f
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProject stores a new in-progress project. A delivery task due on
// the deadline is appended when the draft carries none.
func (s *Service) CreateProject(ctx context.Context, d ProjectDraft) (Outcome, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Deadline = strings.TrimSpace(d.Deadline)
	d.SalesRep = strings.TrimSpace(d.SalesRep)
	d.Designer = strings.TrimSpace(d.Designer)
	d.Link = strings.TrimSpace(d.Link)
	if err := ValidateProjectInput(d); err != nil {
		return Outcome{}, err
	}

	tasks := s.withIDs(d.Tasks)
	switch countDelivery(tasks) {
	case 0:
		tasks = append(tasks, models.NewDeliveryTask(s.newID(), d.Deadline))
	case 1:
		tasks[models.DeliveryIndex(tasks)].DueDate = d.Deadline
	default:
		return Outcome{}, &ValidationError{Fields: map[string]string{"tasks": "納品タスクは1つだけ指定できます"}}
	}

	p := models.Project{
		ID:       s.newID(),
		Name:     d.Name,
		Deadline: d.Deadline,
		SalesRep: d.SalesRep,
		Designer: d.Designer,
		Link:     d.Link,
		Notes:    d.Notes,
		Status:   models.StatusInProgress,
		Tasks:    tasks,
	}
	if err := s.store.Create(ctx, &p); err != nil {
		return Outcome{}, s.persistenceError(ctx, "create project", err)
	}
	return Outcome{Project: p, Message: MsgProjectAdded}, nil
}

// UpdateTask applies patch to one task and writes the reconciled project.
// An empty patch writes nothing.
func (s *Service) UpdateTask(ctx context.Context, projectID, taskID string, patch TaskPatch) (Outcome, error) {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return Outcome{}, err
	}
	if patch.Empty() {
		if p.TaskIndex(taskID) < 0 {
			return Outcome{}, &NotFoundError{Kind: "task", ID: taskID}
		}
		return Outcome{Project: *p, Message: MsgTaskUpdated}, nil
	}
	c, err := ApplyTaskUpdate(p, taskID, patch)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.store.Update(ctx, p.ID, c); err != nil {
		return Outcome{}, s.updateError(ctx, p.ID, err)
	}

	out := s.outcome(p, c)
	switch {
	case out.StatusChanged:
		out.Message = statusMessage(out.Project.Status)
	case patch.Completed != nil && *patch.Completed:
		out.Message = MsgTaskCompleted
	case patch.Completed != nil:
		out.Message = MsgTaskReopened
	default:
		out.Message = MsgTaskUpdated
	}
	return out, nil
}

// UpdateProject applies patch to project-level fields.
func (s *Service) UpdateProject(ctx context.Context, projectID string, patch ProjectPatch) (Outcome, error) {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return Outcome{}, err
	}
	if patch.Tasks != nil {
		tasks := s.withIDs(*patch.Tasks)
		patch.Tasks = &tasks
	}
	c, err := ApplyProjectUpdate(p, patch)
	if err != nil {
		return Outcome{}, err
	}
	if !c.Empty() {
		if err := s.store.Update(ctx, p.ID, c); err != nil {
			return Outcome{}, s.updateError(ctx, p.ID, err)
		}
	}

	out := s.outcome(p, c)
	out.Message = MsgProjectUpdated
	if out.StatusChanged {
		out.Message = statusMessage(out.Project.Status)
	}
	return out, nil
}

// DeleteProject tombstones a project. Nothing is physically removed.
func (s *Service) DeleteProject(ctx context.Context, projectID string) (Outcome, error) {
	p, err := s.load(ctx, projectID)
	if err != nil {
		return Outcome{}, err
	}
	deleted := models.StatusDeleted
	c := Changes{Status: &deleted}
	if err := s.store.Update(ctx, p.ID, c); err != nil {
		return Outcome{}, s.updateError(ctx, p.ID, err)
	}
	out := s.outcome(p, c)
	out.Message = MsgProjectDeleted
	return out, nil
}

// Project returns a live (non-deleted) project.
func (s *Service) Project(ctx context.Context, id string) (*models.Project, error) {
	return s.load(ctx, id)
}

// Projects returns every stored project, tombstones included.
func (s *Service) Projects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, s.persistenceError(ctx, "list projects", err)
	}
	return projects, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{Kind: "project", ID: id}
		}
		return nil, s.persistenceError(ctx, "load project", err)
	}
	if p.IsDeleted() {
		return nil, &NotFoundError{Kind: "project", ID: id}
	}
	return p, nil
}

func (s *Service) outcome(before *models.Project, c Changes) Outcome {
	after := c.Apply(*before)
	return Outcome{
		Project:         after,
		StatusChanged:   after.Status != before.Status,
		DeadlineChanged: after.Deadline != before.Deadline,
	}
}

func (s *Service) withIDs(in []models.Task) []models.Task {
	out := make([]models.Task, len(in))
	copy(out, in)
	for i := range out {
		if strings.TrimSpace(out[i].ID) == "" {
			out[i].ID = s.newID()
		}
	}
	return out
}

func (s *Service) updateError(ctx context.Context, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Kind: "project", ID: id}
	}
	return s.persistenceError(ctx, "update project", err)
}

func (s *Service) persistenceError(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "store call failed", slog.String("op", op), slog.Any("error", err))
	return &PersistenceError{Op: op, Err: err}
}

func statusMessage(status models.ProjectStatus) string {
	if status == models.StatusCompleted {
		return MsgProjectCompleted
	}
	return MsgProjectReopened
}
