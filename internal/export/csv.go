// Package export writes the project collection as a spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"seisaku-manager/internal/models"
	"seisaku-manager/internal/tracker"
)

// utf8BOM makes Excel open the file as UTF-8.
const utf8BOM = "\ufeff"

var projectHeader = []string{"物件名", "納期", "担当営業", "担当デザイナー", "ステータス", "リンク", "備考"}

var statusLabels = map[models.ProjectStatus]string{
	models.StatusInProgress: "進行中",
	models.StatusCompleted:  "完了",
	models.StatusDeleted:    "削除済み",
}

// WriteCSV writes one row per project followed by as many five-column task
// blocks as the project with the most tasks needs. Tasks are ordered by due
// date; missing blocks are left empty.
func WriteCSV(w io.Writer, projects []models.Project) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	maxTasks := 0
	for i := range projects {
		if n := len(projects[i].Tasks); n > maxTasks {
			maxTasks = n
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header(maxTasks)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range projects {
		if err := cw.Write(row(&projects[i], maxTasks)); err != nil {
			return fmt.Errorf("failed to write project %s: %w", projects[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func header(maxTasks int) []string {
	h := make([]string, 0, len(projectHeader)+maxTasks*5)
	h = append(h, projectHeader...)
	for i := 1; i <= maxTasks; i++ {
		h = append(h,
			fmt.Sprintf("タスク%d名", i),
			fmt.Sprintf("タスク%d期日", i),
			fmt.Sprintf("タスク%d部署", i),
			fmt.Sprintf("タスク%d完了", i),
			fmt.Sprintf("タスク%d備考", i),
		)
	}
	return h
}

func row(p *models.Project, maxTasks int) []string {
	r := make([]string, 0, len(projectHeader)+maxTasks*5)
	r = append(r, p.Name, p.Deadline, p.SalesRep, p.Designer, statusLabel(p.Status), p.Link, p.Notes)
	tasks := tracker.SortedTasks(p)
	for i := 0; i < maxTasks; i++ {
		if i >= len(tasks) {
			r = append(r, "", "", "", "", "")
			continue
		}
		t := tasks[i]
		done := "いいえ"
		if t.Completed {
			done = "はい"
		}
		r = append(r, t.Name, t.DueDate, string(t.Department), done, t.Notes)
	}
	return r
}

func statusLabel(s models.ProjectStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
