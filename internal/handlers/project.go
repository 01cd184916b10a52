package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/models"
	"seisaku-manager/internal/tracker"
)

// optString tells an absent field from an explicit null, which clears the
// value.
type optString struct {
	set bool
	val string
}

func (o *optString) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.val = ""
		return nil
	}
	return json.Unmarshal(b, &o.val)
}

func (o optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.val
	return &v
}

type projectPatchRequest struct {
	Name     *string               `json:"name"`
	Deadline *string               `json:"deadline"`
	SalesRep *string               `json:"salesRep"`
	Designer *string               `json:"designer"`
	Link     optString             `json:"link"`
	Notes    optString             `json:"notes"`
	Status   *models.ProjectStatus `json:"status"`
	Tasks    *[]models.Task        `json:"tasks"`
}

func (r projectPatchRequest) patch() tracker.ProjectPatch {
	return tracker.ProjectPatch{
		Name:     r.Name,
		Deadline: r.Deadline,
		SalesRep: r.SalesRep,
		Designer: r.Designer,
		Link:     r.Link.ptr(),
		Notes:    r.Notes.ptr(),
		Status:   r.Status,
		Tasks:    r.Tasks,
	}
}

// ListProjects serves the snapshot. Without a status filter tombstones are
// left out.
func (h *Handler) ListProjects(c *gin.Context) {
	status := models.ProjectStatus(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusOK, gin.H{"projects": h.coll.Active()})
		return
	}
	if !status.Valid() {
		badRequest(c, "ステータスが正しくありません")
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": tracker.ByStatus(h.coll.Snapshot(), status)})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var draft tracker.ProjectDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "入力内容が正しくありません")
		return
	}

	out, err := h.svc.CreateProject(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	h.record(c, h.userID(c), "project", out.Project.ID, "create", out.Project.Name)
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) GetProject(c *gin.Context) {
	p, err := h.svc.Project(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	p.Color = h.coll.Color(p.ID)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req projectPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "入力内容が正しくありません")
		return
	}

	patch := req.patch()
	out, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	if !patch.Empty() {
		action := "update"
		if out.StatusChanged {
			action = "status_change"
		}
		h.record(c, h.userID(c), "project", out.Project.ID, action, out.Message)
	}
	out.Project.Color = h.coll.Color(out.Project.ID)
	c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	out, err := h.svc.DeleteProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.record(c, h.userID(c), "project", out.Project.ID, "delete", out.Project.Name)
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var patch tracker.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "入力内容が正しくありません")
		return
	}

	taskID := c.Param("taskId")
	out, err := h.svc.UpdateTask(c.Request.Context(), c.Param("id"), taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	if !patch.Empty() {
		action := "task_update"
		if out.StatusChanged {
			action = "status_change"
		}
		h.record(c, h.userID(c), "project", out.Project.ID, action, taskID+": "+out.Message)
	}
	out.Project.Color = h.coll.Color(out.Project.ID)
	c.JSON(http.StatusOK, out)
}
