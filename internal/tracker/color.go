package tracker

import (
	"sort"

	"seisaku-manager/internal/models"
)

// Palette holds the display colors handed out by AssignColors.
var Palette = []string{
	"#3b82f6",
	"#ef4444",
	"#10b981",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
	"#14b8a6",
	"#f97316",
	"#6366f1",
	"#84cc16",
	"#06b6d4",
	"#a855f7",
}

// AssignColors sets Color on every non-deleted project in place. Projects
// are ordered by name, then id, and take palette[index % len(palette)].
// Adding a project can shift the colors of projects that sort after it.
// Deleted projects get no color.
func AssignColors(projects []models.Project) {
	idx := make([]int, 0, len(projects))
	for i := range projects {
		if projects[i].IsDeleted() {
			projects[i].Color = ""
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := &projects[idx[a]], &projects[idx[b]]
		if pa.Name != pb.Name {
			return pa.Name < pb.Name
		}
		return pa.ID < pb.ID
	})
	for rank, i := range idx {
		projects[i].Color = Palette[rank%len(Palette)]
	}
}

// ColorMap returns id -> color for the given projects without modifying them.
func ColorMap(projects []models.Project) map[string]string {
	cp := make([]models.Project, len(projects))
	copy(cp, projects)
	AssignColors(cp)
	out := make(map[string]string, len(cp))
	for _, p := range cp {
		if p.Color != "" {
			out[p.ID] = p.Color
		}
	}
	return out
}
