package program

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/irsalhamdi/learner-portal/core/cart"
	"github.com/irsalhamdi/learner-portal/core/course"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

const treeJSON = `[{
	"id": 1,
	"data": {"node_type": "program", "program": "9"},
	"children": [
		{
			"id": 2,
			"data": {"node_type": "operator", "title": "Required Courses", "operator": "all_of"},
			"children": [
				{"id": 3, "data": {"node_type": "course", "course": "101"}, "children": []},
				{"id": 4, "data": {"node_type": "course", "course": 102}, "children": []}
			]
		},
		{
			"id": 5,
			"data": {"node_type": "operator", "title": "Electives", "operator": "min_number_of", "operator_value": "1"},
			"children": [
				{"id": 6, "data": {"node_type": "course", "course": 103}, "children": []},
				{"id": 7, "data": {"node_type": "course", "course": 999}, "children": []}
			]
		}
	]
}]`

func fixture(t *testing.T) *Enrollment {
	t.Helper()

	var tree []Node
	if err := json.Unmarshal([]byte(treeJSON), &tree); err != nil {
		t.Fatalf("decoding tree: %v", err)
	}

	return &Enrollment{
		Program: Program{
			ID:    9,
			Title: "Electronics",
			Courses: []course.Course{
				{ID: 101, Title: "Circuits", Runs: []course.Run{{ID: 1011}}},
				{ID: 102, Title: "Signals", Runs: []course.Run{{ID: 1021}}},
				{ID: 103, Title: "Robotics", Runs: []course.Run{{ID: 1031}}},
			},
			Requirements: Requirements{Required: []int{101, 102}, Electives: []int{103}},
			ReqTree:      tree,
		},
		Enrollments: []enrollment.RunEnrollment{{
			ID:     50,
			Run:    course.Run{ID: 1011, Course: &course.Detail{ID: 101}},
			Grades: []enrollment.Grade{{Grade: 0.92, LetterGrade: "A", Passed: true}},
		}},
	}
}

func TestRefUnmarshal(t *testing.T) {
	var d NodeData
	if err := json.Unmarshal([]byte(`{"course": "12", "operator_value": 2, "program": null}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Course != 12 || d.OperatorValue != 2 || d.Program != 0 {
		t.Fatalf("unexpected node data %+v", d)
	}

	if err := json.Unmarshal([]byte(`{"course": "abc"}`), &d); err == nil {
		t.Fatal("expected an error for a non-numeric id")
	}
}

// Two required courses: passed in one, not enrolled in the other.
func TestRequiredCoursesScenario(t *testing.T) {
	pe := fixture(t)

	if got := PassedCount(pe); got != 1 {
		t.Fatalf("expected 1 passed, got %d", got)
	}

	required := &pe.Program.ReqTree[0].Children[0]
	cards := ExtractCoursesFromNode(required, pe)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	if !cards[0].Enrolled() || cards[0].State != enrollment.Passed || cards[0].Enrollment.ID != 50 {
		t.Fatalf("first card should be the passed enrollment, got %+v", cards[0])
	}
	if cards[1].Enrolled() || cards[1].State != enrollment.NotEnrolled || cards[1].Course.ID != 102 {
		t.Fatalf("second card should browse course 102, got %+v", cards[1])
	}
	if !cards[0].Required || !cards[1].Required || cards[1].Elective {
		t.Fatal("requirement membership not carried on cards")
	}
}

func TestExtractCoursesFromNodeOrder(t *testing.T) {
	pe := fixture(t)

	cards := ExtractCoursesFromNode(&pe.Program.ReqTree[0], pe)

	var ids []int
	for _, c := range cards {
		if c.Enrollment != nil {
			ids = append(ids, c.Enrollment.CourseID())
		} else {
			ids = append(ids, c.Course.ID)
		}
	}
	if diff := cmp.Diff([]int{101, 102, 103}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	if ExtractCoursesFromNode(nil, pe) != nil {
		t.Fatal("nil node yields no cards")
	}
}

func TestDrawerSections(t *testing.T) {
	d := NewDrawer(fixture(t))

	if d.Flat || d.Summary != "3 courses | 1 passed" {
		t.Fatalf("unexpected drawer header %+v", d)
	}

	var titles []string
	for _, s := range d.Sections {
		titles = append(titles, s.Title)
	}
	if diff := cmp.Diff([]string{"Required Courses (2)", "Electives (1)"}, titles); diff != "" {
		t.Fatalf("unexpected sections (-want +got):\n%s", diff)
	}
}

func TestDrawerFlat(t *testing.T) {
	pe := fixture(t)
	pe.Program.ReqTree = nil

	d := NewDrawer(pe)

	if !d.Flat || len(d.Sections) != 1 {
		t.Fatalf("expected one flat section, got %+v", d)
	}
	if d.Sections[0].Title != "COURSES (3)" || len(d.Sections[0].Cards) != 3 {
		t.Fatalf("unexpected flat section %+v", d.Sections[0])
	}
}

func TestNewDetail(t *testing.T) {
	next := 2
	p := &Program{
		ID: 9,
		Courses: []course.Course{
			{
				ID:        101,
				NextRunID: &next,
				Runs: []course.Run{
					{ID: 1, StartDate: days(-100), EndDate: days(-10)},
					{ID: 2, StartDate: days(10), Products: []cart.Product{{ID: 7, Price: decimal.NewFromInt(150)}}},
				},
			},
			{ID: 102},
		},
	}

	d := NewDetail(p, now, "https://learn.example.com")

	want := []CourseOffer{
		{
			CourseID:   101,
			Run:        &course.Dates{RunID: 2, Start: course.PrettyDate(days(10))},
			Enrollable: true,
			Certificate: &course.Certificate{
				ProductID: 7,
				Price:     "$150.00",
				CartURL:   "https://learn.example.com/cart/add/?product_id=7",
			},
		},
		{CourseID: 102},
	}
	if diff := cmp.Diff(want, d.Courses); diff != "" {
		t.Fatalf("unexpected offers (-want +got):\n%s", diff)
	}
}

func TestCatalog(t *testing.T) {
	programs := []Program{
		{ID: 1, Title: "Live", Live: true, Departments: []course.Department{{Name: "Math"}}},
		{ID: 2, Title: "Draft"},
		{ID: 3, Title: "Physics", Live: true, Departments: []course.Department{{Name: "Physics"}}},
	}

	if got := Catalog(programs, ""); len(got) != 2 {
		t.Fatalf("expected the 2 live programs, got %+v", got)
	}
	got := Catalog(programs, "Physics")
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("department filter failed: %+v", got)
	}
}
