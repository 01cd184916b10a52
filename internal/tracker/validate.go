package tracker

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"seisaku-manager/internal/models"
)

// ProjectDraft is the user-supplied part of a project on create.
type ProjectDraft struct {
	Name     string        `json:"name"`
	Deadline string        `json:"deadline"`
	SalesRep string        `json:"salesRep"`
	Designer string        `json:"designer"`
	Link     string        `json:"link"`
	Notes    string        `json:"notes"`
	Tasks    []models.Task `json:"tasks"`
}

func draftOf(p *models.Project) ProjectDraft {
	return ProjectDraft{
		Name:     p.Name,
		Deadline: p.Deadline,
		SalesRep: p.SalesRep,
		Designer: p.Designer,
		Link:     p.Link,
		Notes:    p.Notes,
	}
}

// ValidateProjectInput checks the required project fields and the link.
// Tasks in the draft are validated one by one.
func ValidateProjectInput(d ProjectDraft) error {
	verr := &ValidationError{}
	if strings.TrimSpace(d.Name) == "" {
		verr.add("name", "物件名は必須です")
	}
	if strings.TrimSpace(d.Deadline) == "" {
		verr.add("deadline", "納期を選択してください")
	} else if !ValidDate(d.Deadline) {
		verr.add("deadline", "納期の形式が正しくありません")
	}
	if strings.TrimSpace(d.SalesRep) == "" {
		verr.add("salesRep", "担当営業は必須です")
	}
	if strings.TrimSpace(d.Designer) == "" {
		verr.add("designer", "担当デザイナーは必須です")
	}
	if d.Link != "" && !validURL(d.Link) {
		verr.add("link", "有効なURLを入力してください")
	}
	seen := make(map[string]bool, len(d.Tasks))
	for i, t := range d.Tasks {
		if err := ValidateTaskInput(t); err != nil {
			verr.merge(fmt.Sprintf("tasks[%d].", i), err.(*ValidationError))
		}
		// blank ids are assigned later and never collide
		id := strings.TrimSpace(t.ID)
		if id == "" {
			continue
		}
		if seen[id] {
			verr.add(fmt.Sprintf("tasks[%d].id", i), "タスクIDが重複しています")
		}
		seen[id] = true
	}
	return verr.orNil()
}

// ValidateTaskInput checks a single task.
func ValidateTaskInput(t models.Task) error {
	verr := &ValidationError{}
	if strings.TrimSpace(t.Name) == "" {
		verr.add("name", "タスク名は必須です")
	}
	if !t.Department.Valid() {
		verr.add("department", "部署を選択してください")
	}
	if strings.TrimSpace(t.DueDate) == "" {
		verr.add("dueDate", "期日を選択してください")
	} else if !ValidDate(t.DueDate) {
		verr.add("dueDate", "期日の形式が正しくありません")
	}
	return verr.orNil()
}

// ValidDate reports whether s is a calendar date in yyyy-MM-dd form.
func ValidDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
