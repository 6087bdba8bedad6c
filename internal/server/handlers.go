package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/minhlq/curmap/pkg/dataset"
	"github.com/minhlq/curmap/pkg/errors"
	"github.com/minhlq/curmap/pkg/graph"
	"github.com/minhlq/curmap/pkg/plan"
	"github.com/minhlq/curmap/pkg/store"
	"github.com/minhlq/curmap/pkg/suggest"
	"github.com/minhlq/curmap/pkg/views"
)

// =============================================================================
// Dataset lifecycle
// =============================================================================

type createDatasetRequest struct {
	Tables struct {
		Outcomes   string `json:"outcomes"`
		Indicators string `json:"indicators,omitempty"`
		Courses    string `json:"courses"`
		Details    string `json:"details,omitempty"`
		Relations  string `json:"relations"`
		Links      string `json:"links,omitempty"`
	} `json:"tables"`
	AllowPlaceholders bool `json:"allow_placeholders,omitempty"`
}

type createDatasetResponse struct {
	ID     string             `json:"id"`
	Report dataset.LoadReport `json:"report"`
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var req createDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	var src dataset.Sources
	tables := []struct {
		csv string
		dst *[]dataset.Row
	}{
		{req.Tables.Outcomes, &src.Outcomes},
		{req.Tables.Indicators, &src.Indicators},
		{req.Tables.Courses, &src.Courses},
		{req.Tables.Details, &src.Details},
		{req.Tables.Relations, &src.Relations},
		{req.Tables.Links, &src.Links},
	}
	for _, t := range tables {
		if t.csv == "" {
			continue
		}
		rows, err := dataset.ReadRows(strings.NewReader(t.csv))
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidRow, err, "parse table"))
			return
		}
		*t.dst = rows
	}

	ds := dataset.New(s.logger)
	rep := ds.Load(src, dataset.BuildOptions{AllowPlaceholders: req.AllowPlaceholders})
	sess := s.sessions.Add(ds)

	s.logger.Info("dataset created", "id", sess.ID, "relations", rep.Relations)
	s.writeJSON(w, http.StatusCreated, createDatasetResponse{ID: sess.ID, Report: rep})
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Reads
// =============================================================================

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var g graph.Graph
	_ = sess.Do(func(ds *dataset.Dataset) error {
		g = graph.FromDataset(ds)
		return nil
	})
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Model())
}

func (s *Server) handleCentrality(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Model().Centrality)
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	outcome := r.URL.Query().Get("outcome")
	if outcome == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "outcome query parameter is required"))
		return
	}
	var flow views.FlowStages
	err = sess.Do(func(ds *dataset.Dataset) error {
		if !ds.Outcomes.Has(outcome) {
			return errors.New(errors.ErrCodeOutcomeNotFound, "unknown outcome: %s", outcome)
		}
		flow = views.BuildFlow(ds, outcome)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, flow)
}

// =============================================================================
// CSV interchange
// =============================================================================

func (s *Server) handleExportConnections(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	err = sess.Do(func(ds *dataset.Dataset) error {
		return graph.WriteConnections(ds, &buf)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="plo_course.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleImportConnections(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var rep graph.ImportReport
	err = sess.Do(func(ds *dataset.Dataset) error {
		var ierr error
		rep, ierr = graph.ImportConnections(ds, r.Body)
		return ierr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleExportTable(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	err = sess.Do(func(ds *dataset.Dataset) error {
		return graph.WriteRelationTable(ds, &buf)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="relation_table.csv"`)
	_, _ = w.Write(buf.Bytes())
}

// =============================================================================
// Edits
// =============================================================================

type relationRequest struct {
	Outcome string `json:"outcome"`
	Course  string `json:"course"`
	Level   string `json:"level,omitempty"`
}

func (s *Server) handleAddRelation(w http.ResponseWriter, r *http.Request) {
	sess, req, err := s.sessionWithRelation(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var rel dataset.Relation
	err = sess.Do(func(ds *dataset.Dataset) error {
		var aerr error
		rel, aerr = ds.AddRelation(req.Outcome, req.Course, dataset.NormalizeLevel(req.Level))
		return aerr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rel)
}

func (s *Server) handleUpdateRelation(w http.ResponseWriter, r *http.Request) {
	sess, req, err := s.sessionWithRelation(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	err = sess.Do(func(ds *dataset.Dataset) error {
		key, kerr := relationKey(ds, req.Outcome, req.Course)
		if kerr != nil {
			return kerr
		}
		return ds.UpdateRelationLevel(key, dataset.NormalizeLevel(req.Level))
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	err = sess.Do(func(ds *dataset.Dataset) error {
		key, kerr := relationKey(ds, q.Get("outcome"), q.Get("course"))
		if kerr != nil {
			return kerr
		}
		return ds.DeleteRelation(key)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var rel dataset.Relation
	err = sess.Do(func(ds *dataset.Dataset) error {
		var uerr error
		rel, uerr = ds.UndoDelete()
		return uerr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rel)
}

type detailRequest struct {
	Course string `json:"course"`
	Code   string `json:"code,omitempty"` // Empty auto-assigns the next CLOn
	Text   string `json:"text"`
}

func (s *Server) handleAddDetail(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req detailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	var d dataset.Detail
	err = sess.Do(func(ds *dataset.Dataset) error {
		var aerr error
		d, aerr = ds.AddDetail(req.Course, req.Code, req.Text)
		return aerr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

type linkRequest struct {
	Outcome   string `json:"outcome"`
	Indicator string `json:"indicator"`
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	var link dataset.OutcomeLink
	err = sess.Do(func(ds *dataset.Dataset) error {
		var aerr error
		link, aerr = ds.AddLink(req.Outcome, req.Indicator)
		return aerr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	q := r.URL.Query()
	err = sess.Do(func(ds *dataset.Dataset) error {
		return ds.DeleteLink(q.Get("outcome"), q.Get("indicator"))
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Semester planning
// =============================================================================

type planPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type planRequest struct {
	Assignments   map[string]int `json:"assignments"` // course id or label -> semester
	Prerequisites []planPair     `json:"prerequisites,omitempty"`
	Corequisites  []planPair     `json:"corequisites,omitempty"`
}

type planResponse struct {
	Semesters  []plan.SemesterLoad `json:"semesters"`
	Violations []plan.Violation    `json:"violations"`
	Unassigned []string            `json:"unassigned"`
	Skipped    int                 `json:"skipped"`
}

// handlePlan checks a semester assignment against the dataset. The plan is
// built per request, nothing is stored: the client owns the assignment,
// the server owns the course registry and the validation.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	var resp planResponse
	_ = sess.Do(func(ds *dataset.Dataset) error {
		p := plan.New(ds)
		for ref, sem := range req.Assignments {
			if aerr := p.Assign(ref, sem); aerr != nil {
				resp.Skipped++
			}
		}
		for _, pair := range req.Prerequisites {
			if aerr := p.AddPrerequisite(pair.From, pair.To); aerr != nil {
				resp.Skipped++
			}
		}
		for _, pair := range req.Corequisites {
			if aerr := p.AddCorequisite(pair.From, pair.To); aerr != nil {
				resp.Skipped++
			}
		}
		resp.Semesters = p.Summary()
		resp.Violations = p.Violations()
		resp.Unassigned = p.Unassigned()
		return nil
	})
	s.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Snapshots
// =============================================================================

type snapshotRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Name == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "snapshot name is required"))
		return
	}

	var g graph.Graph
	_ = sess.Do(func(ds *dataset.Dataset) error {
		g = graph.FromDataset(ds)
		return nil
	})
	snap := store.New(req.Name, g)
	if err := s.store.Set(r.Context(), snap); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "save snapshot"))
		return
	}
	s.writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list snapshots"))
		return
	}
	s.writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete snapshot"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ds := dataset.New(s.logger)
	rep := ds.Load(graph.ToSources(snap.Graph), dataset.BuildOptions{})
	sess := s.sessions.Add(ds)

	s.logger.Info("snapshot restored", "snapshot", snap.ID, "dataset", sess.ID)
	s.writeJSON(w, http.StatusCreated, createDatasetResponse{ID: sess.ID, Report: rep})
}

// =============================================================================
// Suggestions
// =============================================================================

type suggestResponse struct {
	Items  []string `json:"items"`
	Remote bool     `json:"remote"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	items, remote := s.suggest.Suggest(r.Context(), req)
	s.writeJSON(w, http.StatusOK, suggestResponse{Items: items, Remote: remote})
}

type evaluateRequest struct {
	Outcome     string `json:"plo"`
	OutcomeText string `json:"ploText"`
	DetailText  string `json:"cloText"`
}

type evaluateResponse struct {
	suggest.Evaluation
	Remote bool `json:"remote"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	ev, remote := s.suggest.Evaluate(r.Context(), req.Outcome, req.OutcomeText, req.DetailText)
	s.writeJSON(w, http.StatusOK, evaluateResponse{Evaluation: ev, Remote: remote})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) session(r *http.Request) (*Session, error) {
	return s.sessions.Get(chi.URLParam(r, "id"))
}

func (s *Server) sessionWithRelation(r *http.Request) (*Session, relationRequest, error) {
	sess, err := s.session(r)
	if err != nil {
		return nil, relationRequest{}, err
	}
	var req relationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, relationRequest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return sess, req, nil
}

func (s *Server) snapshot(r *http.Request) (*store.Snapshot, error) {
	id := chi.URLParam(r, "id")
	snap, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get snapshot")
	}
	if snap == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown snapshot: %s", id)
	}
	return snap, nil
}

// relationKey resolves a course reference and builds the relation key.
func relationKey(ds *dataset.Dataset, outcome, courseRef string) (dataset.RelationKey, error) {
	id, ok := ds.Courses.Resolve(courseRef)
	if !ok {
		return dataset.RelationKey{}, errors.New(errors.ErrCodeCourseNotFound, "unknown course: %s", courseRef)
	}
	return dataset.RelationKey{Outcome: outcome, CourseID: id}, nil
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	s.writeJSON(w, statusFor(code), errorResponse{Error: err.Error(), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRow, errors.ErrCodeInvalidLevel,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeCourseNotFound, errors.ErrCodeOutcomeNotFound,
		errors.ErrCodeRelationNotFound, errors.ErrCodeDatasetNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDuplicateRelation:
		return http.StatusConflict
	case errors.ErrCodeNothingToUndo, errors.ErrCodePrecondition:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
