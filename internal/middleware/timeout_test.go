package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutMiddleware_PassesThroughFastRequests(t *testing.T) {
	handler := NewTimeoutMiddleware(1 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestTimeoutMiddleware_SetsContextDeadline(t *testing.T) {
	deadlineSet := false
	handler := NewTimeoutMiddleware(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadlineSet = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !deadlineSet {
		t.Error("expected request context to carry a deadline")
	}
}

func TestTimeoutMiddleware_Returns504WhenDeadlineExceeded(t *testing.T) {
	// ハンドラーが期限切れまで何も書き込まなかったケース
	handler := NewTimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusGatewayTimeout)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != "REQUEST_TIMEOUT" {
		t.Errorf("code = %q, want %q", body.Code, "REQUEST_TIMEOUT")
	}
}

func TestTimeoutMiddleware_DoesNotOverwriteWrittenResponse(t *testing.T) {
	// 期限切れ前にレスポンスが書かれていれば上書きしない
	handler := NewTimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/log", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d (already written response must stand)", w.Result().StatusCode, http.StatusOK)
	}
}
