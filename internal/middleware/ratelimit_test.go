package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// --- GeneralMiddleware のテスト ---

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     2, // 2 req/sec
		GeneralBurst:    5, // バースト5
		UserRegRate:     1,
		UserRegBurst:    10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
		req.RemoteAddr = "192.0.2.1:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    2,
		UserRegRate:     1,
		UserRegBurst:    10,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.GeneralMiddleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
		req.RemoteAddr = "192.0.2.2:12345"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目はレート制限に引っかかる
	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	req.RemoteAddr = "192.0.2.2:12345"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}

	// Retry-Afterヘッダーの検証
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		t.Error("expected Retry-After header")
	}
	if sec, err := strconv.Atoi(retryAfter); err != nil || sec < 1 {
		t.Errorf("Retry-After = %q, want integer >= 1", retryAfter)
	}

	// JSONエラーボディの検証
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["code"] != "rate_limit_exceeded" {
		t.Errorf("code = %q, want %q", body["code"], "rate_limit_exceeded")
	}
}

func TestRateLimitMiddleware_IsolatesClients(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		UserRegRate:     1,
		UserRegBurst:    1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// クライアントAがバーストを使い切る
	reqA := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	reqA.RemoteAddr = "192.0.2.10:1000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, reqA)
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("client A first request: status = %d, want 200", w.Result().StatusCode)
	}

	reqA2 := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	reqA2.RemoteAddr = "192.0.2.10:1001"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, reqA2)
	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("client A second request: status = %d, want 429", w.Result().StatusCode)
	}

	// クライアントBは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	reqB.RemoteAddr = "192.0.2.20:1000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, reqB)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("client B: status = %d, want 200", w.Result().StatusCode)
	}
}

// --- UserRegistrationMiddleware のテスト ---

func TestUserRegistrationMiddleware_IndependentOfGeneralLimit(t *testing.T) {
	cfg := RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		UserRegRate:     1,
		UserRegBurst:    1,
		CleanupInterval: 1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	userReg := rl.UserRegistrationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 全般リミッターのバーストを使い切る
	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	req.RemoteAddr = "192.0.2.30:1000"
	w := httptest.NewRecorder()
	general.ServeHTTP(w, req)

	// 登録リミッターは独立してまだ通る
	req = httptest.NewRequest(http.MethodPost, "/api/exercise/new-user", nil)
	req.RemoteAddr = "192.0.2.30:1000"
	w = httptest.NewRecorder()
	userReg.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("user registration: status = %d, want 200", w.Result().StatusCode)
	}
}

// --- エントリ管理のテスト ---

func TestRateLimiter_TracksLimiterEntries(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"192.0.2.40:1", "192.0.2.41:1", "192.0.2.42:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := rl.GeneralLimiterCount(); got != 3 {
		t.Errorf("GeneralLimiterCount = %d, want 3", got)
	}
	if got := rl.UserRegLimiterCount(); got != 0 {
		t.Errorf("UserRegLimiterCount = %d, want 0", got)
	}
}

func TestNewRateLimiterConfig_ConvertsPerMinute(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 10)

	if float64(cfg.GeneralRate) != 2.0 {
		t.Errorf("GeneralRate = %v, want 2.0 req/sec", cfg.GeneralRate)
	}
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.UserRegBurst != 10 {
		t.Errorf("UserRegBurst = %d, want 10", cfg.UserRegBurst)
	}
}
