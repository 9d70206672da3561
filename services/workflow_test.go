package services

import (
	"testing"

	"compliance-assessment-api/models"
)

func TestWorkflowByNameDefaultsToStandard(t *testing.T) {
	wf, err := WorkflowByName("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.Name != WorkflowStandard {
		t.Fatalf("expected standard workflow, got %s", wf.Name)
	}
}

func TestWorkflowByNameRejectsUnknown(t *testing.T) {
	if _, err := WorkflowByName("parallel"); err == nil {
		t.Fatal("expected error for unknown workflow")
	}
}

func TestStandardChainOrder(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	expected := []string{
		StageCreated,
		StageOngoing,
		StageOngoingReview,
		StageOversight,
		StageOversightReview,
		StageCompleted,
	}
	if len(wf.Stages) != len(expected) {
		t.Fatalf("expected %d stages, got %d", len(expected), len(wf.Stages))
	}
	for i, stage := range expected {
		if wf.Stages[i] != stage {
			t.Fatalf("stage %d: expected %s, got %s", i, stage, wf.Stages[i])
		}
	}
}

func TestLegacyChainOrder(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowLegacy)

	expected := []string{
		StageCreated,
		StageOngoing,
		StageAssessorReview,
		StageOversight,
		StageClientReview,
		StageCompleted,
	}
	for i, stage := range expected {
		if wf.Stages[i] != stage {
			t.Fatalf("stage %d: expected %s, got %s", i, stage, wf.Stages[i])
		}
	}
}

func TestNextReturnsImmediateSuccessorOnly(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	for i := 0; i < len(wf.Stages)-1; i++ {
		next, err := wf.Next(wf.Stages[i])
		if err != nil {
			t.Fatalf("Next(%s) returned error: %v", wf.Stages[i], err)
		}
		if next != wf.Stages[i+1] {
			t.Fatalf("Next(%s): expected %s, got %s", wf.Stages[i], wf.Stages[i+1], next)
		}
	}
}

func TestNextRejectsTerminalStage(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	if _, err := wf.Next(StageCompleted); err == nil {
		t.Fatal("expected error for terminal stage")
	}
}

func TestNextRejectsForeignStage(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	// assessor-review belongs to the legacy chain only.
	if _, err := wf.Next(StageAssessorReview); err == nil {
		t.Fatal("expected error for stage outside the workflow")
	}
}

func TestTerminal(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	if !wf.Terminal(StageCompleted) {
		t.Fatal("completed must be terminal")
	}
	if wf.Terminal(StageOngoing) {
		t.Fatal("ongoing must not be terminal")
	}
	if wf.Terminal("bogus") {
		t.Fatal("unknown stage must not be terminal")
	}
}

func TestBefore(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	if !wf.Before(StageOngoing, StageOversight) {
		t.Fatal("ongoing precedes oversight")
	}
	if wf.Before(StageOversight, StageOngoing) {
		t.Fatal("oversight does not precede ongoing")
	}
	if wf.Before(StageOngoing, StageOngoing) {
		t.Fatal("a stage does not precede itself")
	}
}

func TestPerAssessorOnlyInOngoing(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	if !wf.PerAssessor(StageOngoing) {
		t.Fatal("ongoing collects one answer per assessor")
	}
	for _, stage := range []string{StageOngoingReview, StageOversight, StageOversightReview} {
		if wf.PerAssessor(stage) {
			t.Fatalf("%s must be role-singleton", stage)
		}
	}
}

func TestRationaleNotRequiredInOversight(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowStandard)

	if wf.RationaleRequired(StageOversight) {
		t.Fatal("oversight only requires a rating")
	}
	for _, stage := range []string{StageOngoing, StageOngoingReview, StageOversightReview} {
		if !wf.RationaleRequired(stage) {
			t.Fatalf("%s requires a rationale", stage)
		}
	}
}

func TestSubmitterRoles(t *testing.T) {
	wf, _ := WorkflowByName(WorkflowLegacy)

	cases := []struct {
		stage string
		want  []int
	}{
		{StageOngoing, []int{models.RoleAssessor}},
		{StageAssessorReview, []int{models.RoleReviewer}},
		{StageOversight, []int{models.RoleAdmin}},
		{StageClientReview, []int{models.RoleReviewer, models.RoleClient}},
		{StageCompleted, nil},
	}
	for _, tc := range cases {
		got := wf.SubmitterRoles(tc.stage)
		if len(got) != len(tc.want) {
			t.Fatalf("SubmitterRoles(%s): expected %v, got %v", tc.stage, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("SubmitterRoles(%s): expected %v, got %v", tc.stage, tc.want, got)
			}
		}
	}
}

func TestFinalAuthoringStage(t *testing.T) {
	standard, _ := WorkflowByName(WorkflowStandard)
	if standard.FinalAuthoringStage() != StageOversightReview {
		t.Fatalf("expected oversight-review, got %s", standard.FinalAuthoringStage())
	}

	legacy, _ := WorkflowByName(WorkflowLegacy)
	if legacy.FinalAuthoringStage() != StageClientReview {
		t.Fatalf("expected client-review, got %s", legacy.FinalAuthoringStage())
	}
}
