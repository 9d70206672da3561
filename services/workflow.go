package services

import (
	"fmt"

	"compliance-assessment-api/models"
)

// Stage names. An assessment's status is always exactly one of the stages of
// its configured workflow.
const (
	StageCreated         = "created"
	StageOngoing         = "ongoing"
	StageOngoingReview   = "ongoing-review"
	StageOversight       = "oversight"
	StageOversightReview = "oversight-review"
	StageCompleted       = "completed"

	// Legacy pipeline stages.
	StageAssessorReview = "assessor-review"
	StageClientReview   = "client-review"
)

// Workflow variant names stored on assessments.workflow.
const (
	WorkflowStandard = "standard"
	WorkflowLegacy   = "legacy"
)

// Workflow is a linear chain of stages. No branching, no cycles; transitions
// only ever move to the immediate successor.
type Workflow struct {
	Name   string
	Stages []string
}

var workflows = map[string]*Workflow{
	WorkflowStandard: {
		Name: WorkflowStandard,
		Stages: []string{
			StageCreated,
			StageOngoing,
			StageOngoingReview,
			StageOversight,
			StageOversightReview,
			StageCompleted,
		},
	},
	WorkflowLegacy: {
		Name: WorkflowLegacy,
		Stages: []string{
			StageCreated,
			StageOngoing,
			StageAssessorReview,
			StageOversight,
			StageClientReview,
			StageCompleted,
		},
	},
}

// WorkflowByName resolves a workflow variant. An empty name selects the
// standard pipeline so assessments created before the workflow column existed
// keep working.
func WorkflowByName(name string) (*Workflow, error) {
	if name == "" {
		return workflows[WorkflowStandard], nil
	}
	wf, ok := workflows[name]
	if !ok {
		return nil, fmt.Errorf("unknown workflow '%s'", name)
	}
	return wf, nil
}

// index returns the position of stage in the chain, or -1.
func (w *Workflow) index(stage string) int {
	for i, s := range w.Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Valid reports whether stage belongs to this workflow.
func (w *Workflow) Valid(stage string) bool {
	return w.index(stage) >= 0
}

// Terminal reports whether stage has no outgoing transition.
func (w *Workflow) Terminal(stage string) bool {
	idx := w.index(stage)
	return idx >= 0 && idx == len(w.Stages)-1
}

// Next returns the immediate successor of stage. Terminal and unknown stages
// have none.
func (w *Workflow) Next(stage string) (string, error) {
	idx := w.index(stage)
	if idx < 0 {
		return "", fmt.Errorf("stage '%s' is not part of workflow '%s'", stage, w.Name)
	}
	if idx == len(w.Stages)-1 {
		return "", fmt.Errorf("stage '%s' is terminal", stage)
	}
	return w.Stages[idx+1], nil
}

// Before reports whether stage a precedes stage b in the chain.
func (w *Workflow) Before(a, b string) bool {
	ia, ib := w.index(a), w.index(b)
	return ia >= 0 && ib >= 0 && ia < ib
}

// PerAssessor reports whether the stage collects one answer per assessor.
// Later stages are role-singleton: a single reviewer answers on behalf of the
// role and the answer's user reference may stay null.
func (w *Workflow) PerAssessor(stage string) bool {
	return stage == StageOngoing
}

// RationaleRequired reports whether answers in the stage must carry a
// rationale. The oversight stage only requires a rating plus the oversight
// comment captured in notes.
func (w *Workflow) RationaleRequired(stage string) bool {
	return stage != StageOversight
}

// SubmitterRoles returns the role IDs allowed to submit (advance) the given
// stage.
func (w *Workflow) SubmitterRoles(stage string) []int {
	switch stage {
	case StageOngoing:
		return []int{models.RoleAssessor}
	case StageOngoingReview, StageAssessorReview:
		return []int{models.RoleReviewer}
	case StageOversight:
		return []int{models.RoleAdmin}
	case StageOversightReview:
		return []int{models.RoleReviewer}
	case StageClientReview:
		return []int{models.RoleReviewer, models.RoleClient}
	default:
		return nil
	}
}

// FinalAuthoringStage returns the last stage in which answers are written,
// i.e. the stage right before completed.
func (w *Workflow) FinalAuthoringStage() string {
	return w.Stages[len(w.Stages)-2]
}
