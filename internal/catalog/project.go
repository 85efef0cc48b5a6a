// Package catalog loads the showcase catalog (projects.json) into an
// ordered, immutable list of project records.
package catalog

import "strings"

// Project is one catalog entry. Records are created at load time and never
// mutated afterwards; every consumer holds pointers into the catalog.
type Project struct {
	// ID identifies the project. Entries without an explicit id use their title.
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Tech        []string `json:"tech,omitempty"`
	GitHub      string   `json:"github,omitempty"`
	CoverClass  string   `json:"coverClass,omitempty"`
	CoverStyle  string   `json:"coverStyle,omitempty"`
}

// normalize fills derived fields of a freshly decoded entry.
func (p *Project) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = p.Title
	}
	if p.Tech == nil {
		p.Tech = []string{}
	}
}

// CategoryKey is the lowercase form used for filtering and counting.
func (p *Project) CategoryKey() string {
	return strings.ToLower(p.Category)
}
