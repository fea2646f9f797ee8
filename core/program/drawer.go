package program

import (
	"fmt"
)

// Section is a titled group of course cards.
type Section struct {
	NodeID int          `json:"node_id,omitempty"`
	Title  string       `json:"title"`
	Cards  []CourseCard `json:"cards"`
}

// Drawer is the program overview opened from the dashboard.
type Drawer struct {
	ProgramID   int       `json:"program_id"`
	Title       string    `json:"title"`
	ReadableID  string    `json:"readable_id"`
	CourseCount int       `json:"course_count"`
	PassedCount int       `json:"passed_count"`
	Summary     string    `json:"summary"`
	Flat        bool      `json:"flat"`
	Sections    []Section `json:"sections"`
}

// NewDrawer lays out the program's courses. Programs without a requirement
// tree list their courses flat; otherwise each child of the root operator
// becomes a section.
func NewDrawer(pe *Enrollment) Drawer {
	p := &pe.Program
	d := Drawer{
		ProgramID:   p.ID,
		Title:       p.Title,
		ReadableID:  p.ReadableID,
		CourseCount: len(p.Courses),
		PassedCount: PassedCount(pe),
	}
	d.Summary = fmt.Sprintf("%d courses | %d passed", d.CourseCount, d.PassedCount)

	if len(p.ReqTree) == 0 || len(p.ReqTree[0].Children) == 0 {
		d.Flat = true
		cards := make([]CourseCard, 0, len(p.Courses))
		for i := range p.Courses {
			cards = append(cards, newCourseCard(pe, &p.Courses[i]))
		}
		d.Sections = []Section{{Title: fmt.Sprintf("COURSES (%d)", len(cards)), Cards: cards}}
		return d
	}

	root := &p.ReqTree[0]
	for i := range root.Children {
		node := &root.Children[i]
		cards := ExtractCoursesFromNode(node, pe)
		d.Sections = append(d.Sections, Section{
			NodeID: node.ID,
			Title:  fmt.Sprintf("%s (%d)", node.Data.Title, len(cards)),
			Cards:  cards,
		})
	}
	return d
}
