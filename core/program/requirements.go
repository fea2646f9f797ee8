package program

import (
	"github.com/irsalhamdi/learner-portal/core/course"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
)

// CourseCard is a course slot in a program: either the learner's enrollment
// in it, or the course to browse when they hold none.
type CourseCard struct {
	Course     *course.Course            `json:"course,omitempty"`
	Enrollment *enrollment.RunEnrollment `json:"enrollment,omitempty"`
	State      enrollment.State          `json:"state"`
	Required   bool                      `json:"required"`
	Elective   bool                      `json:"elective"`
}

func (c CourseCard) Enrolled() bool {
	return c.Enrollment != nil
}

func newCourseCard(pe *Enrollment, c *course.Course) CourseCard {
	card := CourseCard{
		Required: pe.Program.IsRequired(c.ID),
		Elective: pe.Program.IsElective(c.ID),
	}
	if e := enrollment.ForCourse(pe.Enrollments, c); e != nil {
		card.Enrollment = e
	} else {
		card.Course = c
	}
	card.State = enrollment.StateOf(card.Enrollment)
	return card
}

// ExtractCoursesFromNode walks node depth-first and returns a card for every
// course leaf, in tree order. Leaves naming a course the program does not
// carry are skipped.
func ExtractCoursesFromNode(node *Node, pe *Enrollment) []CourseCard {
	if node == nil || pe == nil {
		return nil
	}

	var cards []CourseCard
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Data.NodeType == NodeCourse {
			if c := pe.Program.FindCourse(int(n.Data.Course)); c != nil {
				cards = append(cards, newCourseCard(pe, c))
			}
			return
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	walk(node)

	return cards
}

// PassedCount is the number of the learner's enrollments with a passing
// grade.
func PassedCount(pe *Enrollment) int {
	if pe == nil {
		return 0
	}
	n := 0
	for i := range pe.Enrollments {
		if pe.Enrollments[i].HasPassingGrade() {
			n++
		}
	}
	return n
}
