package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/gitomatikus/signail/internal/game"
	"github.com/gitomatikus/signail/internal/models"
	"github.com/gitomatikus/signail/internal/ws"
)

// newTestRouter wires the HTTP surface against a coordinator running over
// the given state. Seed the state before calling; the coordinator goroutine
// owns it afterwards.
func newTestRouter(t *testing.T, state *game.State, packPath string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	coordinator := ws.NewCoordinator(state)
	ctx, cancel := context.WithCancel(context.Background())
	go coordinator.Run(ctx)
	t.Cleanup(cancel)

	userHandler := NewUserHandler(coordinator)
	questionHandler := NewQuestionHandler(coordinator)
	packHandler := NewPackHandler(packPath)

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/users/online", userHandler.GetOnlineUsers)
		api.POST("/users/:id/score", userHandler.UpdateScore)
		api.GET("/questions/:id/times", questionHandler.GetQuestionTimes)
		api.DELETE("/questions/:id/times", questionHandler.ClearQuestionTimes)
		api.GET("/pack", packHandler.GetPack)
		api.POST("/pack", packHandler.UploadPack)
	}
	return r
}

func newState() *game.State {
	return game.NewState(clockwork.NewRealClock(), false)
}

func doRequest(r *gin.Engine, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOnlineUsers(t *testing.T) {
	state := newState()
	state.Login(models.Participant{ID: "u1", Name: "Ann", Score: 100})
	r := newTestRouter(t, state, "")

	w := doRequest(r, http.MethodGet, "/api/users/online", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Status string               `json:"status"`
		Data   []models.Participant `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "u1" || resp.Data[0].Score != 100 {
		t.Errorf("unexpected roster %v", resp.Data)
	}
}

func TestGetOnlineUsersEmptyIsArray(t *testing.T) {
	r := newTestRouter(t, newState(), "")

	w := doRequest(r, http.MethodGet, "/api/users/online", nil, "")
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("expected empty roster to serialize as [], got %s", w.Body.String())
	}
}

func TestUpdateScore(t *testing.T) {
	state := newState()
	state.Login(models.Participant{ID: "u1", Name: "Ann"})
	r := newTestRouter(t, state, "")

	body := bytes.NewBufferString(`{"score":300}`)
	w := doRequest(r, http.MethodPost, "/api/users/u1/score", body, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/users/online", nil, "")
	var resp struct {
		Data []models.Participant `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data[0].Score != 300 {
		t.Errorf("expected score 300, got %d", resp.Data[0].Score)
	}
}

func TestUpdateScoreUnknownParticipant(t *testing.T) {
	r := newTestRouter(t, newState(), "")

	body := bytes.NewBufferString(`{"score":300}`)
	w := doRequest(r, http.MethodPost, "/api/users/ghost/score", body, "application/json")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateScoreRejectsNonNumeric(t *testing.T) {
	state := newState()
	state.Login(models.Participant{ID: "u1", Name: "Ann"})
	r := newTestRouter(t, state, "")

	for _, body := range []string{`{"score":"lots"}`, `{}`, `not json`} {
		w := doRequest(r, http.MethodPost, "/api/users/u1/score", bytes.NewBufferString(body), "application/json")
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestQuestionTimes(t *testing.T) {
	state := newState()
	state.RecordTime("7", "u1", 2.5)
	r := newTestRouter(t, state, "")

	w := doRequest(r, http.MethodGet, "/api/questions/7/times", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data["u1"] != 2.5 {
		t.Errorf("expected time 2.5 for u1, got %v", resp.Data)
	}

	w = doRequest(r, http.MethodGet, "/api/questions/8/times", nil, "")
	resp.Data = nil
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected empty mapping for unknown question, got %v", resp.Data)
	}
}

func TestClearQuestionTimes(t *testing.T) {
	state := newState()
	state.RecordTime("7", "u1", 2.5)
	r := newTestRouter(t, state, "")

	w := doRequest(r, http.MethodDelete, "/api/questions/7/times", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, "/api/questions/7/times", nil, "")
	var resp struct {
		Data map[string]float64 `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected times cleared, got %v", resp.Data)
	}
}

func TestGetPack(t *testing.T) {
	packPath := filepath.Join(t.TempDir(), "pack.json")
	if err := os.WriteFile(packPath, []byte(`{"rounds":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	r := newTestRouter(t, newState(), packPath)

	w := doRequest(r, http.MethodGet, "/api/pack", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != `{"rounds":[]}` {
		t.Errorf("unexpected pack body %s", w.Body.String())
	}
}

func TestGetPackMissingOrInvalid(t *testing.T) {
	dir := t.TempDir()

	r := newTestRouter(t, newState(), filepath.Join(dir, "missing.json"))
	if w := doRequest(r, http.MethodGet, "/api/pack", nil, ""); w.Code != http.StatusInternalServerError {
		t.Errorf("missing pack: expected 500, got %d", w.Code)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"rounds":`), 0644); err != nil {
		t.Fatal(err)
	}
	r = newTestRouter(t, newState(), broken)
	if w := doRequest(r, http.MethodGet, "/api/pack", nil, ""); w.Code != http.StatusInternalServerError {
		t.Errorf("broken pack: expected 500, got %d", w.Code)
	}
}

func multipartPack(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadPack(t *testing.T) {
	packPath := filepath.Join(t.TempDir(), "pack.json")
	r := newTestRouter(t, newState(), packPath)

	body, contentType := multipartPack(t, "pack.json", `{"rounds":[1]}`)
	w := doRequest(r, http.MethodPost, "/api/pack", body, contentType)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/api/pack", nil, "")
	if w.Body.String() != `{"rounds":[1]}` {
		t.Errorf("expected uploaded pack to be served back, got %s", w.Body.String())
	}
}

func TestUploadPackRejectsBadInput(t *testing.T) {
	packPath := filepath.Join(t.TempDir(), "pack.json")
	r := newTestRouter(t, newState(), packPath)

	body, contentType := multipartPack(t, "pack.txt", `{"rounds":[]}`)
	if w := doRequest(r, http.MethodPost, "/api/pack", body, contentType); w.Code != http.StatusBadRequest {
		t.Errorf("wrong extension: expected 400, got %d", w.Code)
	}

	body, contentType = multipartPack(t, "pack.json", `{"rounds":`)
	if w := doRequest(r, http.MethodPost, "/api/pack", body, contentType); w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", w.Code)
	}

	if w := doRequest(r, http.MethodPost, "/api/pack", nil, "application/json"); w.Code != http.StatusBadRequest {
		t.Errorf("no file: expected 400, got %d", w.Code)
	}
}
