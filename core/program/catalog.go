package program

import "github.com/irsalhamdi/learner-portal/core/course"

// Card is a catalog entry for a program.
type Card struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	ReadableID      string `json:"readable_id"`
	FeatureImageSrc string `json:"feature_image_src,omitempty"`
	PageURL         string `json:"page_url,omitempty"`
	CourseCount     int    `json:"course_count"`
}

func (p *Program) InDepartment(name string) bool {
	if name == "" || name == course.AllDepartments {
		return true
	}
	for _, d := range p.Departments {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Catalog lists the live programs of department.
func Catalog(programs []Program, department string) []Card {
	cards := make([]Card, 0, len(programs))
	for i := range programs {
		p := &programs[i]
		if !p.Live || !p.InDepartment(department) {
			continue
		}
		card := Card{ID: p.ID, Title: p.Title, ReadableID: p.ReadableID, CourseCount: len(p.Courses)}
		if p.Page != nil {
			card.FeatureImageSrc = p.Page.FeatureImageSrc
			card.PageURL = p.Page.PageURL
		}
		cards = append(cards, card)
	}
	return cards
}
