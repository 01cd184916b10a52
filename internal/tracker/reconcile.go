package tracker

import (
	"strings"

	"seisaku-manager/internal/models"
)

// TaskPatch is a partial task update; nil fields keep their value.
type TaskPatch struct {
	Name       *string            `json:"name"`
	Department *models.Department `json:"department"`
	DueDate    *string            `json:"dueDate"`
	Notes      *string            `json:"notes"`
	Completed  *bool              `json:"completed"`
}

func (tp TaskPatch) Empty() bool {
	return tp.Name == nil && tp.Department == nil && tp.DueDate == nil && tp.Notes == nil && tp.Completed == nil
}

func (tp TaskPatch) merge(t models.Task) models.Task {
	if tp.Name != nil {
		t.Name = *tp.Name
	}
	if tp.Department != nil {
		t.Department = *tp.Department
	}
	if tp.DueDate != nil {
		t.DueDate = *tp.DueDate
	}
	if tp.Notes != nil {
		t.Notes = *tp.Notes
	}
	if tp.Completed != nil {
		t.Completed = *tp.Completed
	}
	return t
}

// ProjectPatch is a partial project update. Tasks, when set, replaces the
// whole task list.
type ProjectPatch struct {
	Name     *string
	Deadline *string
	SalesRep *string
	Designer *string
	Link     *string
	Notes    *string
	Status   *models.ProjectStatus
	Tasks    *[]models.Task
}

func (pp ProjectPatch) Empty() bool {
	return pp.Name == nil && pp.Deadline == nil && pp.SalesRep == nil && pp.Designer == nil &&
		pp.Link == nil && pp.Notes == nil && pp.Status == nil && pp.Tasks == nil
}

// Changes is the set of columns one update writes. The store must apply it
// as a single statement.
type Changes struct {
	Name     *string
	Deadline *string
	SalesRep *string
	Designer *string
	Link     *string
	Notes    *string
	Status   *models.ProjectStatus
	Tasks    *[]models.Task
}

func (c Changes) Empty() bool {
	return c.Name == nil && c.Deadline == nil && c.SalesRep == nil && c.Designer == nil &&
		c.Link == nil && c.Notes == nil && c.Status == nil && c.Tasks == nil
}

// Apply returns p with the changes applied. p is not modified.
func (c Changes) Apply(p models.Project) models.Project {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Deadline != nil {
		p.Deadline = *c.Deadline
	}
	if c.SalesRep != nil {
		p.SalesRep = *c.SalesRep
	}
	if c.Designer != nil {
		p.Designer = *c.Designer
	}
	if c.Link != nil {
		p.Link = *c.Link
	}
	if c.Notes != nil {
		p.Notes = *c.Notes
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
	if c.Tasks != nil {
		tasks := make([]models.Task, len(*c.Tasks))
		copy(tasks, *c.Tasks)
		p.Tasks = tasks
	} else {
		p.Tasks = p.CloneTasks()
	}
	return p
}

// ApplyTaskUpdate merges patch into one task of p and recomputes the
// project status from the delivery task. A dueDate change on the delivery
// task moves the project deadline with it.
func ApplyTaskUpdate(p *models.Project, taskID string, patch TaskPatch) (Changes, error) {
	if p.IsDeleted() {
		return Changes{}, &NotFoundError{Kind: "project", ID: p.ID}
	}
	i := p.TaskIndex(taskID)
	if i < 0 {
		return Changes{}, &NotFoundError{Kind: "task", ID: taskID}
	}

	tasks := p.CloneTasks()
	merged := patch.merge(tasks[i])
	if err := ValidateTaskInput(merged); err != nil {
		return Changes{}, err
	}
	tasks[i] = merged

	c := Changes{Tasks: &tasks}
	if merged.IsDeliveryTask && patch.DueDate != nil {
		deadline := merged.DueDate
		c.Deadline = &deadline
	}
	if status, ok := reconcileStatus(p.Status, tasks); ok {
		c.Status = &status
	}
	return c, nil
}

// reconcileStatus derives the project status from the delivery task.
// ok is false when the status stays as it is.
func reconcileStatus(current models.ProjectStatus, tasks []models.Task) (models.ProjectStatus, bool) {
	for _, t := range tasks {
		if !t.IsDeliveryTask {
			continue
		}
		switch {
		case t.Completed && current != models.StatusCompleted:
			return models.StatusCompleted, true
		case !t.Completed && current == models.StatusCompleted:
			return models.StatusInProgress, true
		}
		return current, false
	}
	return current, false
}

// ApplyProjectUpdate validates patch against p and returns the columns to
// write. A deadline change rewrites the delivery task's due date unless the
// patch replaces the task list itself.
func ApplyProjectUpdate(p *models.Project, patch ProjectPatch) (Changes, error) {
	if p.IsDeleted() {
		return Changes{}, &NotFoundError{Kind: "project", ID: p.ID}
	}

	c := Changes{
		Name:     trimmed(patch.Name),
		Deadline: trimmed(patch.Deadline),
		SalesRep: trimmed(patch.SalesRep),
		Designer: trimmed(patch.Designer),
		Link:     trimmed(patch.Link),
		Notes:    patch.Notes,
		Status:   patch.Status,
	}

	if c.Deadline != nil {
		if di := p.DeliveryTask(); di >= 0 {
			tasks := p.CloneTasks()
			tasks[di].DueDate = *c.Deadline
			c.Tasks = &tasks
		}
	}
	if patch.Tasks != nil {
		tasks := make([]models.Task, len(*patch.Tasks))
		copy(tasks, *patch.Tasks)
		c.Tasks = &tasks
	}

	verr := &ValidationError{}
	if c.Status != nil && *c.Status != models.StatusInProgress && *c.Status != models.StatusCompleted {
		verr.add("status", "ステータスが正しくありません")
	}
	merged := c.Apply(*p)
	draft := draftOf(&merged)
	if patch.Tasks != nil {
		draft.Tasks = merged.Tasks
		if countDelivery(merged.Tasks) > 1 {
			verr.add("tasks", "納品タスクは1つだけ指定できます")
		}
	}
	if err := ValidateProjectInput(draft); err != nil {
		verr.merge("", err.(*ValidationError))
	}
	if err := verr.orNil(); err != nil {
		return Changes{}, err
	}
	return c, nil
}

func countDelivery(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsDeliveryTask {
			n++
		}
	}
	return n
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
