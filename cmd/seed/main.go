package main

import (
	"context"
	"fmt"
	"os"

	"gorm.io/datatypes"

	"github.com/casekeep/casekeep-backend/internal/app"
	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/domain"
)

// Seeds a small demo workspace: a few users, folders, cases with history,
// one finished run, a bug, and a whiteboard. Run it against an empty
// database; it does not check for existing rows.
func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	log := application.Log.With("tool", "seed")
	repo := application.Repo
	recorder := audit.New(application.Store, application.Log)
	ctx := context.Background()

	fail := func(step string, err error) {
		log.Error("seed step failed", "step", step, "error", err)
		application.Close()
		os.Exit(1)
	}

	ada, err := repo.CreateUser(ctx, domain.NewUser{
		Username: "ada", Email: "ada@example.com", Password: "seed-only", Role: domain.RoleAdmin,
	})
	if err != nil {
		fail("create admin", err)
	}
	tomas, err := repo.CreateUser(ctx, domain.NewUser{
		Username: "tomas", Email: "tomas@example.com", Password: "seed-only", Role: domain.RoleTester,
	})
	if err != nil {
		fail("create tester", err)
	}
	if _, err := repo.CreateUser(ctx, domain.NewUser{
		Username: "vera", Email: "vera@example.com", Password: "seed-only", Role: domain.RoleViewer,
	}); err != nil {
		fail("create viewer", err)
	}

	smoke, err := repo.CreateFolder(ctx, domain.NewFolder{
		Name: "Smoke", Description: "Must pass before every release", CreatedBy: &ada.ID,
	})
	if err != nil {
		fail("create smoke folder", err)
	}
	regression, err := repo.CreateFolder(ctx, domain.NewFolder{
		Name: "Regression", Description: "Broader weekly sweep", CreatedBy: &ada.ID,
	})
	if err != nil {
		fail("create regression folder", err)
	}

	login, err := repo.CreateTestCaseWithSteps(ctx, domain.NewTestCase{
		Title:          "Login with valid credentials",
		Description:    "Happy-path sign in through the web form",
		Priority:       "high",
		Type:           "functional",
		AssigneeID:     &tomas.ID,
		CreatedBy:      &ada.ID,
		ExpectedResult: "User lands on the dashboard",
		Steps: []domain.NewStep{
			{Description: "Open the login page"},
			{Description: "Enter a valid username and password"},
			{Description: "Submit the form", ExpectedResult: "Dashboard is shown"},
		},
	})
	if err != nil {
		fail("create login case", err)
	}
	reset, err := repo.CreateTestCaseWithSteps(ctx, domain.NewTestCase{
		Title:      "Password reset email",
		Priority:   "medium",
		Type:       "functional",
		CreatedBy:  &ada.ID,
		AssigneeID: &tomas.ID,
		Steps: []domain.NewStep{
			{Description: "Request a reset for a known address"},
			{Description: "Follow the emailed link", ExpectedResult: "Reset form opens"},
		},
	})
	if err != nil {
		fail("create reset case", err)
	}
	checkout, err := repo.CreateTestCaseWithSteps(ctx, domain.NewTestCase{
		Title:     "Checkout with saved card",
		Priority:  "high",
		Type:      "functional",
		CreatedBy: &ada.ID,
		Steps: []domain.NewStep{
			{Description: "Add an item to the cart"},
			{Description: "Pay with the stored card", ExpectedResult: "Order confirmation appears"},
		},
	})
	if err != nil {
		fail("create checkout case", err)
	}

	for _, tc := range []int64{login.ID, reset.ID} {
		if _, err := repo.AssignToFolder(ctx, tc, smoke.ID); err != nil {
			fail("assign to smoke", err)
		}
	}
	for _, tc := range []int64{login.ID, reset.ID, checkout.ID} {
		if _, err := repo.AssignToFolder(ctx, tc, regression.ID); err != nil {
			fail("assign to regression", err)
		}
	}

	// A little version history so the UI has something to show.
	title := "Login with valid credentials (web)"
	if _, err := repo.UpdateTestCaseWithSteps(ctx, login.ID, domain.TestCasePatch{
		Title:   &title,
		ActorID: &ada.ID,
		Comment: "scoped to the web client",
	}); err != nil {
		fail("update login case", err)
	}
	if _, err := repo.CreateVersionSnapshot(ctx, checkout.ID, &ada.ID, "baseline before payment rework"); err != nil {
		fail("snapshot checkout case", err)
	}

	run, err := repo.CreateTestRun(ctx, domain.NewTestRun{Name: "Nightly smoke", CreatedBy: &tomas.ID})
	if err != nil {
		fail("create run", err)
	}
	if _, err := repo.StartTestRun(ctx, run.ID); err != nil {
		fail("start run", err)
	}
	if _, err := repo.RecordRunResult(ctx, domain.NewRunResult{
		RunID: run.ID, TestCaseID: login.ID, Status: domain.CaseStatusPassed, ExecutedBy: &tomas.ID,
	}); err != nil {
		fail("record login result", err)
	}
	failedResult, err := repo.RecordRunResult(ctx, domain.NewRunResult{
		RunID: run.ID, TestCaseID: checkout.ID, Status: domain.CaseStatusFailed,
		Notes: "payment service returned 502", ExecutedBy: &tomas.ID,
	})
	if err != nil {
		fail("record checkout result", err)
	}
	if _, err := repo.CompleteTestRun(ctx, run.ID); err != nil {
		fail("complete run", err)
	}

	if _, err := repo.CreateBug(ctx, domain.NewBug{
		Title:       "Checkout fails when payment service is slow",
		Description: "502 from the payment gateway surfaces as a blank page",
		Severity:    "high",
		TestCaseID:  &checkout.ID,
		RunResultID: &failedResult.ID,
		ReportedBy:  &tomas.ID,
		AssignedTo:  &ada.ID,
	}); err != nil {
		fail("create bug", err)
	}

	board, err := repo.CreateWhiteboard(ctx, domain.NewWhiteboard{
		Name:      "Release planning",
		Content:   datatypes.JSON([]byte(`{"notes":["stabilize checkout","retest smoke set"]}`)),
		CreatedBy: &ada.ID,
	})
	if err != nil {
		fail("create whiteboard", err)
	}

	recorder.Record(ctx, &ada.ID, audit.ActionCreate, audit.EntityWhiteboard, board.ID, map[string]any{"name": board.Name})
	recorder.Record(ctx, &tomas.ID, audit.ActionComplete, audit.EntityTestRun, run.ID, map[string]any{"name": run.Name})

	log.Info("seed complete",
		"users", 3,
		"folders", 2,
		"test_cases", 3,
		"runs", 1,
	)
}
