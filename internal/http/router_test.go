package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/casekeep/casekeep-backend/internal/audit"
	"github.com/casekeep/casekeep-backend/internal/data/memory"
	httpH "github.com/casekeep/casekeep-backend/internal/http/handlers"
	"github.com/casekeep/casekeep-backend/internal/platform/logger"
	"github.com/casekeep/casekeep-backend/internal/realtime"
	"github.com/casekeep/casekeep-backend/internal/repository"
	"github.com/casekeep/casekeep-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)

	store := memory.NewStore(log)
	repo := repository.New(store, log)
	recorder := audit.New(store, log)
	dashboard := services.NewDashboardService(store, log)
	hub := realtime.NewSSEHub(log)
	pub := realtime.NewLocalPublisher(hub)

	return NewRouter(RouterConfig{
		Log:               log,
		HealthHandler:     httpH.NewHealthHandler(log, store),
		UserHandler:       httpH.NewUserHandler(log, repo, recorder),
		TestCaseHandler:   httpH.NewTestCaseHandler(log, repo, recorder),
		FolderHandler:     httpH.NewFolderHandler(log, repo, recorder),
		TestRunHandler:    httpH.NewTestRunHandler(log, repo, recorder, pub),
		BugHandler:        httpH.NewBugHandler(log, repo, recorder),
		WhiteboardHandler: httpH.NewWhiteboardHandler(log, repo, recorder, pub),
		ActivityHandler:   httpH.NewActivityHandler(log, recorder),
		DashboardHandler:  httpH.NewDashboardHandler(log, dashboard),
		RealtimeHandler:   httpH.NewRealtimeHandler(log, hub, nil),
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, actor string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor-Id", actor)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &env)
	return env.Error.Code
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/healthcheck", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestTestCaseLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/test-cases", gin.H{
		"title":    "Login",
		"priority": "high",
		"steps": []gin.H{
			{"description": "open page"},
			{"description": "submit creds", "expected_result": "dashboard shown"},
		},
	}, "7")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		TestCase struct {
			ID      int64  `json:"id"`
			Title   string `json:"title"`
			Status  string `json:"status"`
			Version int    `json:"version"`
			Steps   []struct {
				StepNumber  int    `json:"step_number"`
				Description string `json:"description"`
			} `json:"steps"`
		} `json:"test_case"`
	}
	decodeBody(t, rec, &created)
	tc := created.TestCase
	if tc.ID == 0 || tc.Version != 1 || tc.Status != "pending" {
		t.Fatalf("unexpected created case: %+v", tc)
	}
	if len(tc.Steps) != 2 || tc.Steps[0].StepNumber != 1 {
		t.Fatalf("unexpected steps: %+v", tc.Steps)
	}

	base := "/api/test-cases/" + itoa(tc.ID)

	rec = doJSON(t, r, http.MethodPut, base, gin.H{
		"title":   "Login happy path",
		"comment": "clarified scope",
	}, "7")
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &created)
	if created.TestCase.Version != 2 || created.TestCase.Title != "Login happy path" {
		t.Fatalf("unexpected updated case: %+v", created.TestCase)
	}

	rec = doJSON(t, r, http.MethodGet, base+"/versions", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("versions status: got=%d", rec.Code)
	}
	var versions struct {
		Versions []struct {
			Version int    `json:"version"`
			Comment string `json:"comment"`
		} `json:"versions"`
	}
	decodeBody(t, rec, &versions)
	if len(versions.Versions) != 1 || versions.Versions[0].Version != 2 || versions.Versions[0].Comment != "clarified scope" {
		t.Fatalf("unexpected versions: %+v", versions.Versions)
	}

	rec = doJSON(t, r, http.MethodPost, base+"/revert", gin.H{"version": 2}, "7")
	if rec.Code != http.StatusOK {
		t.Fatalf("revert status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &created)
	if created.TestCase.Version != 3 || created.TestCase.Title != "Login happy path" {
		t.Fatalf("unexpected reverted case: %+v", created.TestCase)
	}

	rec = doJSON(t, r, http.MethodDelete, base, nil, "7")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status: got=%d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, base, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got=%d", rec.Code)
	}
	if code := errorCode(t, rec); code != "not_found" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestStatusMapping(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/test-cases", gin.H{"title": "   "}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("validation status: got=%d", rec.Code)
	}
	if code := errorCode(t, rec); code != "validation" {
		t.Fatalf("unexpected error code: %q", code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/test-cases/4242", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("not found status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/test-cases/notanid", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status: got=%d", rec.Code)
	}

	body := gin.H{"username": "kim", "email": "kim@example.com", "password": "hunter22"}
	rec = doJSON(t, r, http.MethodPost, "/api/users", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, http.MethodPost, "/api/users", body, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate user status: got=%d", rec.Code)
	}
	if code := errorCode(t, rec); code != "conflict" {
		t.Fatalf("unexpected error code: %q", code)
	}
}

func TestRunFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/test-cases", gin.H{"title": "Checkout"}, "3")
	var createdCase struct {
		TestCase struct {
			ID int64 `json:"id"`
		} `json:"test_case"`
	}
	decodeBody(t, rec, &createdCase)
	caseID := createdCase.TestCase.ID

	rec = doJSON(t, r, http.MethodPost, "/api/test-runs", gin.H{"name": "nightly"}, "3")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create run status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var createdRun struct {
		TestRun struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"test_run"`
	}
	decodeBody(t, rec, &createdRun)
	runID := createdRun.TestRun.ID
	if createdRun.TestRun.Status != "pending" {
		t.Fatalf("unexpected run status: %q", createdRun.TestRun.Status)
	}

	runBase := "/api/test-runs/" + itoa(runID)

	rec = doJSON(t, r, http.MethodPost, runBase+"/start", nil, "3")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, r, http.MethodPost, runBase+"/start", nil, "3")
	if rec.Code != http.StatusConflict {
		t.Fatalf("second start status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, runBase+"/results", gin.H{
		"test_case_id": caseID,
		"status":       "failed",
		"notes":        "timeout on submit",
	}, "3")
	if rec.Code != http.StatusCreated {
		t.Fatalf("record result status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	// Result status lands on the case itself.
	rec = doJSON(t, r, http.MethodGet, "/api/test-cases/"+itoa(caseID), nil, "")
	var gotCase struct {
		TestCase struct {
			Status string `json:"status"`
		} `json:"test_case"`
	}
	decodeBody(t, rec, &gotCase)
	if gotCase.TestCase.Status != "failed" {
		t.Fatalf("case status after result: %q", gotCase.TestCase.Status)
	}

	rec = doJSON(t, r, http.MethodPost, runBase+"/complete", nil, "3")
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var completed struct {
		TestRun struct {
			Status          string `json:"status"`
			DurationSeconds *int64 `json:"duration_seconds"`
		} `json:"test_run"`
	}
	decodeBody(t, rec, &completed)
	if completed.TestRun.Status != "completed" || completed.TestRun.DurationSeconds == nil {
		t.Fatalf("unexpected completed run: %+v", completed.TestRun)
	}

	rec = doJSON(t, r, http.MethodGet, runBase+"/results", nil, "")
	var results struct {
		Results []struct {
			Status string `json:"status"`
		} `json:"results"`
	}
	decodeBody(t, rec, &results)
	if len(results.Results) != 1 || results.Results[0].Status != "failed" {
		t.Fatalf("unexpected results: %+v", results.Results)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/results?test_case_id="+itoa(caseID), nil, "")
	decodeBody(t, rec, &results)
	if len(results.Results) != 1 {
		t.Fatalf("unexpected filtered results: %+v", results.Results)
	}
}

func TestWhiteboardOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	payload := gin.H{"strokes": []any{[]any{0, 0}, []any{10, 4}}, "color": "#aa0000"}
	rec := doJSON(t, r, http.MethodPost, "/api/whiteboards", gin.H{"name": "sprint board"}, "2")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var created struct {
		Whiteboard struct {
			ID int64 `json:"id"`
		} `json:"whiteboard"`
	}
	decodeBody(t, rec, &created)

	base := "/api/whiteboards/" + itoa(created.Whiteboard.ID)
	rec = doJSON(t, r, http.MethodPut, base, gin.H{"content": payload}, "2")
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: got=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, base, nil, "")
	var got struct {
		Whiteboard struct {
			Content map[string]any `json:"content"`
		} `json:"whiteboard"`
	}
	decodeBody(t, rec, &got)
	if got.Whiteboard.Content["color"] != "#aa0000" {
		t.Fatalf("content not stored verbatim: %+v", got.Whiteboard.Content)
	}
}

func TestActivityFeedOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/test-cases", gin.H{"title": "Search"}, "9")
	doJSON(t, r, http.MethodPost, "/api/folders", gin.H{"name": "Smoke"}, "9")

	rec := doJSON(t, r, http.MethodGet, "/api/activity?limit=1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activity status: got=%d", rec.Code)
	}
	var feed struct {
		Activity []struct {
			UserID     *int64 `json:"user_id"`
			Action     string `json:"action"`
			EntityType string `json:"entity_type"`
		} `json:"activity"`
	}
	decodeBody(t, rec, &feed)
	if len(feed.Activity) != 1 {
		t.Fatalf("unexpected feed length: %d", len(feed.Activity))
	}
	row := feed.Activity[0]
	if row.Action != "create" || row.EntityType != "folder" {
		t.Fatalf("unexpected newest row: %+v", row)
	}
	if row.UserID == nil || *row.UserID != 9 {
		t.Fatalf("actor not attributed: %+v", row.UserID)
	}
}

func TestDashboardOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/test-cases", gin.H{"title": "A"}, "")
	doJSON(t, r, http.MethodPost, "/api/test-runs", gin.H{"name": "r1"}, "")
	doJSON(t, r, http.MethodPost, "/api/bugs", gin.H{"title": "broken submit"}, "")

	rec := doJSON(t, r, http.MethodGet, "/api/dashboard", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Dashboard struct {
			TestCasesByStatus map[string]int64 `json:"test_cases_by_status"`
			TestRunsByStatus  map[string]int64 `json:"test_runs_by_status"`
			BugsByStatus      map[string]int64 `json:"bugs_by_status"`
		} `json:"dashboard"`
	}
	decodeBody(t, rec, &got)
	if got.Dashboard.TestCasesByStatus["pending"] != 1 {
		t.Fatalf("unexpected case counts: %+v", got.Dashboard.TestCasesByStatus)
	}
	if got.Dashboard.TestRunsByStatus["pending"] != 1 {
		t.Fatalf("unexpected run counts: %+v", got.Dashboard.TestRunsByStatus)
	}
	if got.Dashboard.BugsByStatus["open"] != 1 {
		t.Fatalf("unexpected bug counts: %+v", got.Dashboard.BugsByStatus)
	}
}

func TestSSESubscribeNeedsStream(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/events/subscribe", gin.H{"channels": []string{"runs"}}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("anonymous subscribe status: got=%d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/events/subscribe", gin.H{"channels": []string{"runs"}}, "5")
	if rec.Code != http.StatusConflict {
		t.Fatalf("subscribe without stream status: got=%d", rec.Code)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
