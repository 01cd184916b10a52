package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisaku-manager/internal/models"
)

func TestApplyTaskUpdate_CompleteDeliveryCompletesProject(t *testing.T) {
	p := sampleProject()

	c, err := ApplyTaskUpdate(&p, "T1", TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, c.Status)
	assert.Equal(t, models.StatusCompleted, *c.Status)
	assert.Nil(t, c.Deadline)

	after := c.Apply(p)
	assert.True(t, after.Tasks[2].Completed)
	assert.Equal(t, models.StatusCompleted, after.Status)
	// input untouched
	assert.False(t, p.Tasks[2].Completed)
	assert.Equal(t, models.StatusInProgress, p.Status)
}

func TestApplyTaskUpdate_UncheckDeliveryReopensProject(t *testing.T) {
	p := sampleProject()
	c, err := ApplyTaskUpdate(&p, "T1", TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	p = c.Apply(p)

	c, err = ApplyTaskUpdate(&p, "T1", TaskPatch{Completed: boolPtr(false)})
	require.NoError(t, err)
	require.NotNil(t, c.Status)
	assert.Equal(t, models.StatusInProgress, *c.Status)
}

func TestApplyTaskUpdate_CompletionIsIdempotent(t *testing.T) {
	p := sampleProject()
	c, err := ApplyTaskUpdate(&p, "T1", TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	once := c.Apply(p)

	c, err = ApplyTaskUpdate(&once, "T1", TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Nil(t, c.Status, "status must not be rewritten")
	twice := c.Apply(once)

	assert.Equal(t, once.Status, twice.Status)
	assert.Equal(t, once.Tasks, twice.Tasks)
}

func TestApplyTaskUpdate_RegularTaskLeavesStatus(t *testing.T) {
	p := sampleProject()
	c, err := ApplyTaskUpdate(&p, "T0", TaskPatch{Completed: boolPtr(true), DueDate: strPtr("2025-03-02")})
	require.NoError(t, err)
	assert.Nil(t, c.Status)
	assert.Nil(t, c.Deadline, "only the delivery task moves the deadline")

	after := c.Apply(p)
	assert.Equal(t, "2025-03-02", after.Tasks[0].DueDate)
	assert.Equal(t, "2025-03-10", after.Deadline)
}

func TestApplyTaskUpdate_DeliveryDueDateMovesDeadline(t *testing.T) {
	p := sampleProject()
	c, err := ApplyTaskUpdate(&p, "T1", TaskPatch{DueDate: strPtr("2025-03-15")})
	require.NoError(t, err)
	require.NotNil(t, c.Deadline)
	assert.Equal(t, "2025-03-15", *c.Deadline)

	after := c.Apply(p)
	assert.Equal(t, after.Deadline, after.Tasks[after.DeliveryTask()].DueDate)
}

func TestApplyTaskUpdate_MergeKeepsUnspecifiedFields(t *testing.T) {
	p := sampleProject()
	p.Tasks[1].Notes = "両面"
	c, err := ApplyTaskUpdate(&p, "T2", TaskPatch{Name: strPtr("エッチング加工")})
	require.NoError(t, err)

	got := c.Apply(p).Tasks[1]
	assert.Equal(t, "エッチング加工", got.Name)
	assert.Equal(t, "両面", got.Notes)
	assert.Equal(t, models.DeptEtching, got.Department)
	assert.Equal(t, "2025-03-05", got.DueDate)
}

func TestApplyTaskUpdate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Project)
		taskID  string
		patch   TaskPatch
		wantErr error
	}{
		{
			name:    "unknown task",
			taskID:  "missing",
			patch:   TaskPatch{Completed: boolPtr(true)},
			wantErr: ErrNotFound,
		},
		{
			name:    "deleted project",
			mutate:  func(p *models.Project) { p.Status = models.StatusDeleted },
			taskID:  "T1",
			patch:   TaskPatch{Completed: boolPtr(true)},
			wantErr: ErrNotFound,
		},
		{
			name:    "blank name",
			taskID:  "T0",
			patch:   TaskPatch{Name: strPtr("  ")},
			wantErr: ErrValidation,
		},
		{
			name:    "bad date",
			taskID:  "T0",
			patch:   TaskPatch{DueDate: strPtr("2025/03/01")},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown department",
			taskID:  "T0",
			patch:   TaskPatch{Department: func() *models.Department { d := models.Department("総務"); return &d }()},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProject()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			c, err := ApplyTaskUpdate(&p, tt.taskID, tt.patch)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, c.Empty())
		})
	}
}

func TestApplyProjectUpdate_DeadlineSyncsDeliveryTask(t *testing.T) {
	p := sampleProject()
	c, err := ApplyProjectUpdate(&p, ProjectPatch{Deadline: strPtr("2025-03-20")})
	require.NoError(t, err)
	require.NotNil(t, c.Tasks)

	after := c.Apply(p)
	assert.Equal(t, "2025-03-20", after.Deadline)
	assert.Equal(t, "2025-03-20", after.Tasks[after.DeliveryTask()].DueDate)
	assert.Equal(t, "2025-03-01", after.Tasks[0].DueDate)
}

func TestApplyProjectUpdate_ExplicitTasksWin(t *testing.T) {
	p := sampleProject()
	replacement := []models.Task{
		{ID: "N1", Name: "カット", Department: models.DeptCutSetting, DueDate: "2025-03-04"},
		models.NewDeliveryTask("T1", "2025-03-18"),
	}
	c, err := ApplyProjectUpdate(&p, ProjectPatch{
		Deadline: strPtr("2025-03-20"),
		Tasks:    &replacement,
	})
	require.NoError(t, err)

	after := c.Apply(p)
	assert.Len(t, after.Tasks, 2)
	assert.Equal(t, "2025-03-18", after.Tasks[1].DueDate, "replacement list is written verbatim")
	assert.Equal(t, "2025-03-20", after.Deadline)
}

func TestApplyProjectUpdate_NoDeliveryTask(t *testing.T) {
	p := sampleProject()
	p.Tasks = nil
	c, err := ApplyProjectUpdate(&p, ProjectPatch{Deadline: strPtr("2025-04-01")})
	require.NoError(t, err)
	assert.Nil(t, c.Tasks)
	assert.Equal(t, "2025-04-01", *c.Deadline)
}

func TestApplyProjectUpdate_DeadlineKeepsCompletedStatus(t *testing.T) {
	p := sampleProject()
	p.Status = models.StatusCompleted
	p.Tasks[2].Completed = true

	c, err := ApplyProjectUpdate(&p, ProjectPatch{Deadline: strPtr("2025-03-20")})
	require.NoError(t, err)
	assert.Nil(t, c.Status)
	assert.Equal(t, models.StatusCompleted, c.Apply(p).Status)
}

func TestApplyProjectUpdate_ClearsOptionalText(t *testing.T) {
	p := sampleProject()
	p.Link = "https://example.com/job/1"
	p.Notes = "急ぎ"

	c, err := ApplyProjectUpdate(&p, ProjectPatch{Link: strPtr(""), Notes: strPtr("")})
	require.NoError(t, err)
	after := c.Apply(p)
	assert.Equal(t, "", after.Link)
	assert.Equal(t, "", after.Notes)
}

func TestApplyProjectUpdate_Errors(t *testing.T) {
	dup := []models.Task{
		models.NewDeliveryTask("A", "2025-03-10"),
		models.NewDeliveryTask("B", "2025-03-10"),
	}
	badTask := []models.Task{{ID: "X", Name: "", Department: models.DeptSales, DueDate: "2025-03-10"}}

	tests := []struct {
		name    string
		patch   ProjectPatch
		field   string
		wantErr error
	}{
		{name: "blank name", patch: ProjectPatch{Name: strPtr(" ")}, field: "name", wantErr: ErrValidation},
		{name: "bad deadline", patch: ProjectPatch{Deadline: strPtr("3/20")}, field: "deadline", wantErr: ErrValidation},
		{name: "bad link", patch: ProjectPatch{Link: strPtr("not a url")}, field: "link", wantErr: ErrValidation},
		{name: "delete via patch", patch: ProjectPatch{Status: statusPtr(models.StatusDeleted)}, field: "status", wantErr: ErrValidation},
		{name: "two delivery tasks", patch: ProjectPatch{Tasks: &dup}, field: "tasks", wantErr: ErrValidation},
		{name: "invalid task", patch: ProjectPatch{Tasks: &badTask}, field: "tasks[0].name", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProject()
			_, err := ApplyProjectUpdate(&p, tt.patch)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestApplyProjectUpdate_DeletedProject(t *testing.T) {
	p := sampleProject()
	p.Status = models.StatusDeleted
	_, err := ApplyProjectUpdate(&p, ProjectPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}
