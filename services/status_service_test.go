package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
)

var assessmentColumns = []string{"assessment_id", "site_id", "engagement_id", "status", "workflow"}

func assessmentRow(status string) [][]driver.Value {
	return [][]driver.Value{{int64(7), int64(2), int64(3), status, WorkflowStandard}}
}

func TestSubmitAdvancesToNextStage(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			args:    []driver.Value{int64(7)},
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}
	steps = append(steps, threeQuestionSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindQuery,
			pattern: answerQueryPattern,
			columns: answerColumns,
			rows: [][]driver.Value{
				{int64(101), int64(1), int64(5), StageOngoing, int64(4), "observed on site", nil},
				{int64(102), int64(2), int64(5), StageOngoing, int64(3), "partial coverage", nil},
				{int64(103), int64(3), int64(5), StageOngoing, int64(5), "log reviewed", nil},
			},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: assessorQueryPattern,
			columns: assessorColumns,
			rows: [][]driver.Value{
				{int64(1), int64(7), int64(5)},
			},
		},
		&queryStep{
			kind:    kindExec,
			pattern: updateAssessmentPat,
			result:  scriptedResult{rowsAffected: 1},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertChangelogPat,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: assessorQueryPattern,
			columns: assessorColumns,
			rows: [][]driver.Value{
				{int64(1), int64(7), int64(5)},
			},
		},
		&queryStep{
			kind:    kindExec,
			pattern: insertNotificationPat,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	service.stageMail = func(int, string) {}

	assessment, unfinished, err := service.Submit(7, StageOngoing, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(unfinished) != 0 {
		t.Fatalf("expected no unfinished items, got %+v", unfinished)
	}
	if assessment.Status != StageOngoingReview {
		t.Fatalf("expected status ongoing-review, got %s", assessment.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitBlockedByUnfinishedQuestion(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			args:    []driver.Value{int64(7)},
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}
	steps = append(steps, threeQuestionSteps()...)
	steps = append(steps,
		&queryStep{
			kind:    kindQuery,
			pattern: answerQueryPattern,
			columns: answerColumns,
			rows: [][]driver.Value{
				{int64(101), int64(1), int64(5), StageOngoing, int64(4), "observed on site", nil},
				{int64(102), int64(2), int64(5), StageOngoing, int64(3), "partial coverage", nil},
			},
		},
		&queryStep{
			kind:    kindQuery,
			pattern: assessorQueryPattern,
			columns: assessorColumns,
			rows: [][]driver.Value{
				{int64(1), int64(7), int64(5)},
			},
		},
	)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	service.stageMail = func(int, string) {}

	_, unfinished, err := service.Submit(7, StageOngoing, 5)
	if !errors.Is(err, ErrUnfinished) {
		t.Fatalf("expected ErrUnfinished, got %v", err)
	}
	if len(unfinished) != 1 {
		t.Fatalf("expected exactly 1 unfinished item, got %d", len(unfinished))
	}
	if unfinished[0].QuestionNumber != "Q3" {
		t.Fatalf("expected Q3 to block the submit, got %+v", unfinished[0])
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitRejectsStaleStage(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoingReview),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	service.stageMail = func(int, string) {}

	if _, _, err := service.Submit(7, StageOngoing, 5); !errors.Is(err, ErrStaleStage) {
		t.Fatalf("expected ErrStaleStage, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSubmitRejectsTerminalStage(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageCompleted),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	service.stageMail = func(int, string) {}

	if _, _, err := service.Submit(7, StageCompleted, 5); !errors.Is(err, ErrStaleStage) {
		t.Fatalf("expected ErrStaleStage, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestActivateFlipsCreatedToOngoing(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageCreated),
		},
		{
			kind:    kindExec,
			pattern: updateAssessmentPat,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: insertChangelogPat,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	assessment, activated, err := service.Activate(7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activated {
		t.Fatal("expected activation to be reported")
	}
	if assessment.Status != StageOngoing {
		t.Fatalf("expected status ongoing, got %s", assessment.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestActivateEmptyStatusJournalsActualFormerValue(t *testing.T) {
	// Rows from before the status column was populated activate from "", and
	// the journal must record that, not a fabricated created.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(""),
		},
		{
			kind:    kindExec,
			pattern: updateAssessmentPat,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: insertChangelogPat,
			verify: func(args []driver.NamedValue) error {
				if len(args) < 3 {
					return fmt.Errorf("expected at least 3 args, got %d", len(args))
				}
				if args[1].Value != "" {
					return fmt.Errorf("former value: got %v, want empty", args[1].Value)
				}
				if args[2].Value != StageOngoing {
					return fmt.Errorf("new value: got %v, want %s", args[2].Value, StageOngoing)
				}
				return nil
			},
			result: scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	assessment, activated, err := service.Activate(7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !activated {
		t.Fatal("expected activation to be reported")
	}
	if assessment.Status != StageOngoing {
		t.Fatalf("expected status ongoing, got %s", assessment.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestActivateIsIdempotentOncePastCreated(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	assessment, activated, err := service.Activate(7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated {
		t.Fatal("an already-active assessment must not report activation")
	}
	if assessment.Status != StageOngoing {
		t.Fatalf("expected status ongoing, got %s", assessment.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestActivateConcurrentLoserReloadsWinner(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageCreated),
		},
		// The other opener already flipped the status; zero rows match.
		{
			kind:    kindExec,
			pattern: updateAssessmentPat,
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			kind:    kindQuery,
			pattern: assessmentQueryPat,
			columns: assessmentColumns,
			rows:    assessmentRow(StageOngoing),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	service := NewStatusService(db)
	assessment, activated, err := service.Activate(7, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated {
		t.Fatal("the losing opener must not report activation")
	}
	if assessment.Status != StageOngoing {
		t.Fatalf("expected the winner's status, got %s", assessment.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
