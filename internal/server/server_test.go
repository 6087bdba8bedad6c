package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/views"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(Config{}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body, out any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func createDataset(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var req createDatasetRequest
	req.Tables.Outcomes = "label,content\nPLO1,Analyze systems\nPLO2,Design software\n"
	req.Tables.Courses = "id,label,fullname,tong\nC1,CS101,Intro to Computing,3\nC2,CS201,Data Structures,4\n"
	req.Tables.Relations = "plo,course,level\nPLO1,CS101,I\nPLO2,CS201,A\n"
	req.Tables.Details = "label,clo,content\nCS101,CLO1,Describe algorithms\n"

	var out createDatasetResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets", req, &out)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create dataset: status %d", resp.StatusCode)
	}
	if out.Report.Relations != 2 {
		t.Fatalf("report = %+v", out.Report)
	}
	return out.ID
}

func TestCreateAndReadDataset(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)

	var g struct {
		Nodes []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/datasets/"+id+"/graph", nil, &g)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("graph: status %d", resp.StatusCode)
	}
	if len(g.Nodes) != 5 || len(g.Edges) != 3 {
		t.Errorf("graph = %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}

	var m views.Model
	doJSON(t, http.MethodGet, srv.URL+"/api/datasets/"+id+"/views", nil, &m)
	if len(m.Pivot) != 2 || m.Distribution.Total() != 2 {
		t.Errorf("views = %+v", m)
	}

	var scores []struct {
		ID     string `json:"id"`
		Degree int    `json:"degree"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/datasets/"+id+"/centrality", nil, &scores)
	if len(scores) != 4 {
		t.Errorf("centrality nodes = %d, want 4", len(scores))
	}
}

func TestUnknownDatasetIs404(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/datasets/nope/graph", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRelationEditCycle(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)
	base := srv.URL + "/api/datasets/" + id

	// Add by course label.
	var rel dataset.Relation
	resp := doJSON(t, http.MethodPost, base+"/relations",
		relationRequest{Outcome: "PLO1", Course: "CS201", Level: "M"}, &rel)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: status %d", resp.StatusCode)
	}
	if rel.CourseID != "C2" || rel.Level != dataset.LevelMaster {
		t.Errorf("rel = %+v", rel)
	}

	// Duplicate add conflicts.
	resp = doJSON(t, http.MethodPost, base+"/relations",
		relationRequest{Outcome: "PLO1", Course: "C2", Level: "I"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate add: status %d, want 409", resp.StatusCode)
	}

	// Update level.
	resp = doJSON(t, http.MethodPatch, base+"/relations",
		relationRequest{Outcome: "PLO1", Course: "CS201", Level: "A"}, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("patch: status %d", resp.StatusCode)
	}

	// Delete, then undo restores the deleted level.
	resp = doJSON(t, http.MethodDelete, base+"/relations?outcome=PLO1&course=CS201", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status %d", resp.StatusCode)
	}
	var restored dataset.Relation
	resp = doJSON(t, http.MethodPost, base+"/undo", nil, &restored)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("undo: status %d", resp.StatusCode)
	}
	if restored.CourseID != "C2" || restored.Level != dataset.LevelAssess {
		t.Errorf("restored = %+v", restored)
	}

	// Second undo has nothing left.
	resp = doJSON(t, http.MethodPost, base+"/undo", nil, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("empty undo: status %d, want 422", resp.StatusCode)
	}
}

func TestAddDetailAutoCode(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)

	var d dataset.Detail
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/"+id+"/details",
		detailRequest{Course: "CS101", Text: "Trace simple programs"}, &d)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add detail: status %d", resp.StatusCode)
	}
	if d.Code != "CLO2" {
		t.Errorf("Code = %s, want auto CLO2", d.Code)
	}
}

func TestLinkEditCycle(t *testing.T) {
	srv := newTestServer(t)

	var req createDatasetRequest
	req.Tables.Outcomes = "label,content\nPLO1,Analyze systems\n"
	req.Tables.Indicators = "label,content\nPI1.1,Model a problem\n"
	req.Tables.Courses = "id,label\nC1,CS101\n"
	req.Tables.Relations = "plo,course,level\nPLO1,C1,I\n"
	var created createDatasetResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets", req, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create dataset: status %d", resp.StatusCode)
	}
	base := srv.URL + "/api/datasets/" + created.ID

	var link dataset.OutcomeLink
	resp = doJSON(t, http.MethodPost, base+"/links",
		linkRequest{Outcome: "PLO1", Indicator: "PI1.1"}, &link)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add link: status %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, base+"/links",
		linkRequest{Outcome: "PLO1", Indicator: "PI1.1"}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate link: status %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, base+"/links?outcome=PLO1&indicator=PI1.1", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete link: status %d", resp.StatusCode)
	}
}

func TestConnectionsRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)
	base := srv.URL + "/api/datasets/" + id

	resp, err := http.Get(base + "/connections")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(data), "\ufeffplo,course,level") {
		t.Fatalf("export missing BOM header: %q", string(data[:20]))
	}

	resp, err = http.Post(base+"/connections", "text/csv", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var rep struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Imported != 2 || rep.Skipped != 0 {
		t.Errorf("import report = %+v", rep)
	}
}

func TestPlanValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)

	var out planResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/"+id+"/plan", planRequest{
		Assignments:   map[string]int{"CS101": 2, "C2": 1, "Ghost": 1},
		Prerequisites: []planPair{{From: "CS101", To: "CS201"}},
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("plan: status %d", resp.StatusCode)
	}

	if len(out.Semesters) != 12 {
		t.Fatalf("semesters = %d, want the full grid", len(out.Semesters))
	}
	if out.Semesters[0].Credits != 4 || out.Semesters[1].Credits != 3 {
		t.Errorf("credits = %v / %v", out.Semesters[0], out.Semesters[1])
	}
	if out.Skipped != 1 {
		t.Errorf("Skipped = %d, want the unknown course counted", out.Skipped)
	}
	if len(out.Violations) != 1 || out.Violations[0].Kind != "prerequisite" {
		t.Fatalf("violations = %+v", out.Violations)
	}
	if out.Violations[0].From != "CS101" || out.Violations[0].FromSemester != 2 {
		t.Errorf("violation = %+v", out.Violations[0])
	}
}

func TestSnapshotSaveAndRestore(t *testing.T) {
	srv := newTestServer(t)
	id := createDataset(t, srv)

	var snap struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/"+id+"/snapshots",
		snapshotRequest{Name: "fall-2026"}, &snap)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save snapshot: status %d", resp.StatusCode)
	}

	var snaps []json.RawMessage
	doJSON(t, http.MethodGet, srv.URL+"/api/snapshots", nil, &snaps)
	if len(snaps) != 1 {
		t.Errorf("snapshots = %d, want 1", len(snaps))
	}

	var out createDatasetResponse
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/snapshots/"+snap.ID+"/datasets", nil, &out)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("restore: status %d", resp.StatusCode)
	}
	if out.Report.Relations != 2 || out.ID == id {
		t.Errorf("restore = %+v", out)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/snapshots/"+snap.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete snapshot: status %d", resp.StatusCode)
	}
}

func TestSuggestFallsBackWithoutRemote(t *testing.T) {
	srv := newTestServer(t)

	var out suggestResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/suggest", map[string]any{
		"plo":   "PLO1",
		"level": "I",
		"count": 3,
	}, &out)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggest: status %d", resp.StatusCode)
	}
	if out.Remote {
		t.Error("no remote configured, must report fallback")
	}
	if len(out.Items) != 3 {
		t.Errorf("items = %v", out.Items)
	}
	for i, item := range out.Items {
		if !strings.HasPrefix(item, fmt.Sprintf("CLO%d:", i+1)) {
			t.Errorf("item %d = %q", i, item)
		}
	}
}

func TestEvaluateFallsBackWithoutRemote(t *testing.T) {
	srv := newTestServer(t)

	var out struct {
		Score   int    `json:"score"`
		Verdict string `json:"verdict"`
		Remote  bool   `json:"remote"`
	}
	doJSON(t, http.MethodPost, srv.URL+"/api/evaluate", evaluateRequest{
		Outcome:     "PLO1",
		OutcomeText: "Analyze and design software systems",
		DetailText:  "Design basic software modules",
	}, &out)
	if out.Remote {
		t.Error("no remote configured, must report fallback")
	}
	if out.Score != 40 || out.Verdict != "partial match" {
		t.Errorf("evaluation = %+v", out)
	}
}
