package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mail-triage-backend/internal/triage/domain"
	"mail-triage-backend/internal/triage/usecase"
)

type stubUsecase struct {
	messages   []usecase.ScoredMessage
	fetchErr   error
	states     map[string]domain.TriageState
	bulkReport *domain.BulkReport
}

func newStubUsecase() *stubUsecase {
	return &stubUsecase{states: make(map[string]domain.TriageState)}
}

func (s *stubUsecase) FetchAndScore(ctx context.Context, days int) ([]usecase.ScoredMessage, error) {
	return s.messages, s.fetchErr
}

func (s *stubUsecase) GetMessage(id string) (usecase.ScoredMessage, bool) {
	for _, m := range s.messages {
		if m.Record.ID == id {
			return m, true
		}
	}
	return usecase.ScoredMessage{}, false
}

func (s *stubUsecase) GetState(id string) domain.TriageState {
	if state, ok := s.states[id]; ok {
		return state
	}
	return domain.TriageState{MessageID: id, Source: domain.ProvenanceNone}
}

func (s *stubUsecase) SetMustReply(id string, mustReply bool) domain.TriageState {
	state := s.GetState(id)
	state.MustReply = mustReply
	s.states[id] = state
	return state
}

func (s *stubUsecase) SetDraft(id, text string) domain.TriageState {
	state := s.GetState(id)
	state.DraftText = text
	state.Source = domain.ProvenanceManual
	s.states[id] = state
	return state
}

func (s *stubUsecase) ClearState(id string) {
	delete(s.states, id)
}

func (s *stubUsecase) GenerateDraft(ctx context.Context, id, instruction string) (domain.TriageState, error) {
	if _, ok := s.GetMessage(id); !ok {
		return domain.TriageState{}, &domain.GenerationError{
			MessageID: id,
			Backend:   domain.ProvenanceNone,
			Err:       context.Canceled,
		}
	}
	return s.SetDraft(id, "generated"), nil
}

func (s *stubUsecase) PersistDraft(ctx context.Context, id string) (domain.TriageState, error) {
	state, ok := s.states[id]
	if !ok || !state.HasDraft() {
		return domain.TriageState{}, &domain.PersistenceError{MessageID: id, Err: context.Canceled}
	}
	state.PersistedDraftID = "draft-" + id
	s.states[id] = state
	return state, nil
}

func (s *stubUsecase) RunBulk(ctx context.Context, n int, force bool) *domain.BulkReport {
	return s.bulkReport
}

func (s *stubUsecase) ComposeEnabled() bool { return true }

func newTestRouter(uc usecase.TriageUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewTriageHandler(uc, 14)

	messages := r.Group("/api/messages")
	messages.GET("", handler.GetMessages)
	messages.GET("/:id", handler.GetMessage)
	messages.GET("/:id/state", handler.GetState)
	messages.POST("/:id/must-reply", handler.SetMustReply)
	messages.PUT("/:id/draft", handler.SetDraft)
	messages.DELETE("/:id/state", handler.ClearState)
	messages.POST("/:id/generate", handler.GenerateDraft)
	messages.POST("/:id/persist", handler.PersistDraft)
	r.POST("/api/bulk", handler.RunBulk)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMessages_OK(t *testing.T) {
	uc := newStubUsecase()
	uc.messages = []usecase.ScoredMessage{
		{
			Record: domain.MessageRecord{ID: "m1", Subject: "Hello"},
			Score:  domain.ScoreResult{Score: 40},
			State:  domain.TriageState{MessageID: "m1", Source: domain.ProvenanceNone},
		},
	}
	r := newTestRouter(uc)

	w := perform(r, http.MethodGet, "/api/messages", "")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count          int  `json:"count"`
		ComposeEnabled bool `json:"compose_enabled"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Count != 1 || !resp.ComposeEnabled {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestGetMessages_FetchFailure(t *testing.T) {
	uc := newStubUsecase()
	uc.fetchErr = context.DeadlineExceeded
	r := newTestRouter(uc)

	w := perform(r, http.MethodGet, "/api/messages", "")

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 on fetch failure, got %d", w.Code)
	}
}

func TestGetMessage_NotFound(t *testing.T) {
	r := newTestRouter(newStubUsecase())

	w := perform(r, http.MethodGet, "/api/messages/ghost", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestSetMustReply_ValidatesBody(t *testing.T) {
	r := newTestRouter(newStubUsecase())

	w := perform(r, http.MethodPost, "/api/messages/m1/must-reply", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing value, got %d", w.Code)
	}

	w = perform(r, http.MethodPost, "/api/messages/m1/must-reply", `{"value":true}`)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetDraftAndClearState(t *testing.T) {
	uc := newStubUsecase()
	r := newTestRouter(uc)

	w := perform(r, http.MethodPut, "/api/messages/m1/draft", `{"text":"hand-written reply"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		State domain.TriageState `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.State.Source != domain.ProvenanceManual {
		t.Errorf("Expected manual provenance, got %q", resp.State.Source)
	}

	w = perform(r, http.MethodDelete, "/api/messages/m1/state", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if _, ok := uc.states["m1"]; ok {
		t.Error("State not cleared")
	}
}

func TestGenerateDraft_UnknownID(t *testing.T) {
	r := newTestRouter(newStubUsecase())

	w := perform(r, http.MethodPost, "/api/messages/ghost/generate", "")

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", w.Code)
	}
}

func TestPersistDraft_Conflict(t *testing.T) {
	r := newTestRouter(newStubUsecase())

	w := perform(r, http.MethodPost, "/api/messages/m1/persist", "")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 without a local draft, got %d", w.Code)
	}
}

func TestRunBulk(t *testing.T) {
	uc := newStubUsecase()
	uc.bulkReport = &domain.BulkReport{
		BatchID:   "batch-1",
		Requested: 2,
		Selected:  2,
		Succeeded: 2,
	}
	r := newTestRouter(uc)

	w := perform(r, http.MethodPost, "/api/bulk", `{"count":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = perform(r, http.MethodPost, "/api/bulk", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing count, got %d", w.Code)
	}
}
