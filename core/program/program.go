// Package program models programs, bundles of courses with a requirement
// tree, and derives what a learner enrolled in one sees.
package program

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/irsalhamdi/learner-portal/core/course"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
)

type NodeType string

const (
	NodeOperator NodeType = "operator"
	NodeCourse   NodeType = "course"
	NodeProgram  NodeType = "program"
)

type Operator string

const (
	AllOf       Operator = "all_of"
	MinNumberOf Operator = "min_number_of"
)

// Ref is an id the service sometimes serializes as a string.
type Ref int

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*r = Ref(n)
	return nil
}

type NodeData struct {
	NodeType      NodeType `json:"node_type"`
	Course        Ref      `json:"course,omitempty"`
	Program       Ref      `json:"program,omitempty"`
	Title         string   `json:"title,omitempty"`
	Operator      Operator `json:"operator,omitempty"`
	OperatorValue Ref      `json:"operator_value,omitempty"`
}

// Node is one node of a program requirement tree.
type Node struct {
	ID       int      `json:"id"`
	Data     NodeData `json:"data"`
	Children []Node   `json:"children"`
}

type Requirements struct {
	Required  []int `json:"required"`
	Electives []int `json:"electives"`
}

type Program struct {
	ID           int                 `json:"id"`
	Title        string              `json:"title"`
	ReadableID   string              `json:"readable_id"`
	Live         bool                `json:"live"`
	Courses      []course.Course     `json:"courses"`
	Requirements Requirements        `json:"requirements"`
	ReqTree      []Node              `json:"req_tree"`
	Departments  []course.Department `json:"departments"`
	Page         *course.Page        `json:"page"`
}

// Enrollment is the learner's view of a program they are enrolled in.
type Enrollment struct {
	Program     Program                    `json:"program"`
	Enrollments []enrollment.RunEnrollment `json:"enrollments"`
}

// FindCourse returns the program course with the given id.
func (p *Program) FindCourse(id int) *course.Course {
	if p == nil {
		return nil
	}
	for i := range p.Courses {
		if p.Courses[i].ID == id {
			return &p.Courses[i]
		}
	}
	return nil
}

func (p *Program) IsRequired(courseID int) bool {
	return p != nil && contains(p.Requirements.Required, courseID)
}

func (p *Program) IsElective(courseID int) bool {
	return p != nil && contains(p.Requirements.Electives, courseID)
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
