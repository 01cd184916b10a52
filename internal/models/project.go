package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProjectStatus string
type Department string

const (
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusDeleted    ProjectStatus = "deleted"
)

// DateLayout is the yyyy-MM-dd form used for every deadline and due date.
const DateLayout = "2006-01-02"

const (
	DeptSales        Department = "営業"
	DeptDesigner     Department = "デザイナー"
	DeptPlateMaking  Department = "版下課"
	DeptComputer     Department = "コンピューター課"
	DeptCutSetting   Department = "カット設定課"
	DeptEtching      Department = "エッチング課"
	DeptSpraying     Department = "吹付課"
	DeptForni        Department = "フォルニ課"
	DeptStainedGlass Department = "ステンドグラス課"
	DeptDelivery     Department = "配送課"
)

// DeliveryTaskName is the label given to generated delivery tasks.
// Identification goes through Task.IsDeliveryTask, never the name.
const DeliveryTaskName = "納品"

var departments = []Department{
	DeptSales,
	DeptDesigner,
	DeptPlateMaking,
	DeptComputer,
	DeptCutSetting,
	DeptEtching,
	DeptSpraying,
	DeptForni,
	DeptStainedGlass,
	DeptDelivery,
}

// Departments returns the full department enumeration in display order.
func Departments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// SelectableDepartments omits the delivery department, which only the
// generated delivery task may use.
func SelectableDepartments() []Department {
	out := make([]Department, 0, len(departments)-1)
	for _, d := range departments {
		if d != DeptDelivery {
			out = append(out, d)
		}
	}
	return out
}

func (d Department) Valid() bool {
	for _, known := range departments {
		if d == known {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Department     Department `json:"department"`
	DueDate        string     `json:"dueDate"`
	Notes          string     `json:"notes"`
	Completed      bool       `json:"completed"`
	IsDeliveryTask bool       `json:"isDeliveryTask"`
}

// NewDeliveryTask builds the terminal task for a project due on deadline.
func NewDeliveryTask(id, deadline string) Task {
	return Task{
		ID:             id,
		Name:           DeliveryTaskName,
		Department:     DeptDelivery,
		DueDate:        deadline,
		IsDeliveryTask: true,
	}
}

// Project is stored as one row; tasks live in a JSON(B) column so that a
// project and its tasks are always written together.
type Project struct {
	ID       string        `gorm:"primaryKey;size:64" json:"id"`
	Name     string        `gorm:"size:255;not null" json:"name"`
	Deadline string        `gorm:"size:10;not null;index" json:"deadline"`
	SalesRep string        `gorm:"size:255;not null" json:"salesRep"`
	Designer string        `gorm:"size:255;not null" json:"designer"`
	Link     string        `gorm:"size:2048;not null;default:''" json:"link"`
	Notes    string        `gorm:"type:text;not null;default:''" json:"notes"`
	Status   ProjectStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Tasks datatypes.JSONSlice[Task] `json:"tasks"`

	// display only, recomputed on every read of the collection
	Color string `gorm:"-" json:"color,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DeliveryIndex returns the index of the first delivery task in tasks, or -1.
func DeliveryIndex(tasks []Task) int {
	for i := range tasks {
		if tasks[i].IsDeliveryTask {
			return i
		}
	}
	return -1
}

// DeliveryTask returns the index of the delivery task, or -1.
func (p *Project) DeliveryTask() int {
	return DeliveryIndex(p.Tasks)
}

// TaskIndex returns the index of the task with id, or -1.
func (p *Project) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Project) IsDeleted() bool {
	return p.Status == StatusDeleted
}

// CloneTasks copies the task list so callers can modify it freely.
func (p *Project) CloneTasks() []Task {
	if p.Tasks == nil {
		return []Task{}
	}
	out := make([]Task, len(p.Tasks))
	copy(out, p.Tasks)
	return out
}
