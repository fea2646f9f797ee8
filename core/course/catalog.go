package course

import (
	"sort"
	"time"
)

// AllDepartments disables department filtering.
const AllDepartments = "All Departments"

const startAnytime = "Start Anytime"

// Card is a catalog entry.
type Card struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	ReadableID      string `json:"readable_id"`
	FeatureImageSrc string `json:"feature_image_src,omitempty"`
	PageURL         string `json:"page_url,omitempty"`
	Tag             string `json:"tag"`
}

// IsCatalogVisible reports whether any run qualifies the course for listing.
func (c *Course) IsCatalogVisible(now time.Time) bool {
	if c == nil {
		return false
	}
	for i := range c.Runs {
		if c.Runs[i].IsCatalogVisible(now) {
			return true
		}
	}
	return false
}

// InDepartment reports whether the course belongs to the named department.
// An empty name or AllDepartments matches everything.
func (c *Course) InDepartment(name string) bool {
	if name == "" || name == AllDepartments {
		return true
	}
	for _, d := range c.Departments {
		if d.Name == name {
			return true
		}
	}
	return false
}

// CardTag is the start label of a catalog card: the soonest future start of
// an instructor-paced run, or "Start Anytime".
func CardTag(c *Course, now time.Time) string {
	if c == nil {
		return startAnytime
	}

	var soonest *time.Time
	for i := range c.Runs {
		r := &c.Runs[i]
		if r.IsSelfPaced || r.StartDate == nil || !r.StartDate.After(now) {
			continue
		}
		soonest = MinDate(soonest, r.StartDate)
	}

	if soonest == nil {
		return startAnytime
	}
	return "Start Date: " + PrettyDate(soonest)
}

// NewCard builds the catalog card for c.
func NewCard(c *Course, now time.Time) Card {
	card := Card{
		ID:         c.ID,
		Title:      c.Title,
		ReadableID: c.ReadableID,
		Tag:        CardTag(c, now),
	}
	if c.Page != nil {
		card.FeatureImageSrc = c.Page.FeatureImageSrc
		card.PageURL = c.Page.PageURL
	}
	return card
}

// Catalog filters courses to the visible ones in department and builds their
// cards.
func Catalog(courses []Course, department string, now time.Time) []Card {
	cards := make([]Card, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		if !c.IsCatalogVisible(now) || !c.InDepartment(department) {
			continue
		}
		cards = append(cards, NewCard(c, now))
	}
	return cards
}

// DepartmentNames returns the sorted, de-duplicated department names.
func DepartmentNames(groups ...[]Department) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, g := range groups {
		for _, d := range g {
			if _, ok := seen[d.Name]; ok || d.Name == "" {
				continue
			}
			seen[d.Name] = struct{}{}
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}
