package tracker

import (
	"sort"

	"seisaku-manager/internal/models"
)

// TaskItem pairs a task with the project that owns it.
type TaskItem struct {
	Project models.Project `json:"project"`
	Task    models.Task    `json:"task"`
}

// TaskFilter narrows calendar items. Zero values match everything.
type TaskFilter struct {
	Department models.Department
	ProjectID  string
}

func (f TaskFilter) matches(p *models.Project, t *models.Task) bool {
	if f.Department != "" && t.Department != f.Department {
		return false
	}
	if f.ProjectID != "" && p.ID != f.ProjectID {
		return false
	}
	return true
}

// TasksDueOn returns the tasks of in-progress projects due on date.
// The result is unordered; see SortTaskItems.
func TasksDueOn(projects []models.Project, date string) []TaskItem {
	var out []TaskItem
	for i := range projects {
		p := &projects[i]
		if p.Status != models.StatusInProgress {
			continue
		}
		for _, t := range p.Tasks {
			if t.DueDate == date {
				out = append(out, TaskItem{Project: *p, Task: t})
			}
		}
	}
	return out
}

// DeadlinesOn returns non-deleted projects of any status due on date.
func DeadlinesOn(projects []models.Project, date string) []models.Project {
	var out []models.Project
	for _, p := range projects {
		if !p.IsDeleted() && p.Deadline == date {
			out = append(out, p)
		}
	}
	return out
}

func FilterTaskItems(items []TaskItem, f TaskFilter) []TaskItem {
	out := make([]TaskItem, 0, len(items))
	for i := range items {
		if f.matches(&items[i].Project, &items[i].Task) {
			out = append(out, items[i])
		}
	}
	return out
}

// SortTaskItems orders items by due date, then project name, in place.
func SortTaskItems(items []TaskItem) {
	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Task.DueDate != items[b].Task.DueDate {
			return items[a].Task.DueDate < items[b].Task.DueDate
		}
		return items[a].Project.Name < items[b].Project.Name
	})
}

// Active drops tombstoned projects.
func Active(projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !p.IsDeleted() {
			out = append(out, p)
		}
	}
	return out
}

func ByStatus(projects []models.Project, status models.ProjectStatus) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// SortedTasks returns p's tasks in display order (due date ascending).
func SortedTasks(p *models.Project) []models.Task {
	tasks := p.CloneTasks()
	sort.SliceStable(tasks, func(a, b int) bool {
		return tasks[a].DueDate < tasks[b].DueDate
	})
	return tasks
}

// LegendProjects lists in-progress projects with at least one task matching
// f, sorted by name.
func LegendProjects(projects []models.Project, f TaskFilter) []models.Project {
	var out []models.Project
	for i := range projects {
		p := &projects[i]
		if p.Status != models.StatusInProgress {
			continue
		}
		for j := range p.Tasks {
			if f.matches(p, &p.Tasks[j]) {
				out = append(out, *p)
				break
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Name < out[b].Name
	})
	return out
}
