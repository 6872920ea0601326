package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/exertrack/internal/model"
)

// ExerciseServiceInterface はエクササイズハンドラーが必要とするサービスインターフェース。
type ExerciseServiceInterface interface {
	// AddExercise はユーザーのログ末尾にエクササイズを1件追加する。
	AddExercise(ctx context.Context, userID, description string, duration int, date *time.Time) (*model.UserWithLog, error)
	// GetLog はユーザーのログをフィルタ適用済みで返す。
	GetLog(ctx context.Context, userID string, query model.LogQuery) (*model.UserWithLog, error)
}

// ExerciseHandler はエクササイズログのHTTPハンドラー。
type ExerciseHandler struct {
	service ExerciseServiceInterface
}

// NewExerciseHandler はExerciseHandlerを生成する。
func NewExerciseHandler(service ExerciseServiceInterface) *ExerciseHandler {
	return &ExerciseHandler{
		service: service,
	}
}

// addExerciseRequest はエクササイズ追加リクエストのボディ。
// durationはJSON数値として受け取り、整数であることをハンドラーで検証する。
type addExerciseRequest struct {
	UserID      string  `json:"userId"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// exerciseResponse はログ1件のAPIレスポンス。
type exerciseResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// userWithLogResponse はログ付きユーザーのAPIレスポンス。
type userWithLogResponse struct {
	ID       string             `json:"id"`
	Username string             `json:"username"`
	Count    int                `json:"count"`
	Log      []exerciseResponse `json:"log"`
}

// toUserWithLogResponse はmodel.UserWithLogをAPIレスポンス形式に変換する。
func toUserWithLogResponse(u *model.UserWithLog) userWithLogResponse {
	log := make([]exerciseResponse, 0, len(u.Log))
	for _, ex := range u.Log {
		log = append(log, exerciseResponse{
			Description: ex.Description,
			Duration:    ex.Duration,
			Date:        ex.Date.Format(time.RFC3339),
		})
	}
	return userWithLogResponse{
		ID:       u.ID,
		Username: u.Username,
		Count:    u.Count,
		Log:      log,
	}
}

// dateLayouts は日付クエリパラメータおよびdateフィールドで受け付ける形式。
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate は日付文字列をYYYY-MM-DD形式またはRFC3339形式として解析する。
func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// AddExercise はエクササイズ追加を処理する。
// POST /api/exercise/add
// 追加後のログ全体とcountを含むユーザー表現を返す。
func (h *ExerciseHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	var req addExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.UserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("userId"))
		return
	}

	if req.Duration != math.Trunc(req.Duration) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDurationError())
		return
	}
	duration := int(req.Duration)

	var date *time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError("date", req.Date))
			return
		}
		date = &parsed
	}

	user, err := h.service.AddExercise(r.Context(), req.UserID, req.Description, duration, date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserWithLogResponse(user))
}

// GetLog はログ取得を処理する。
// GET /api/exercise/log?userId=...&from=...&to=...&limit=...
// from/toは両端を含む日付範囲、limitはフィルタ後の先頭から適用する。
func (h *ExerciseHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("userId"))
		return
	}

	var query model.LogQuery

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError("from", raw))
			return
		}
		query.From = &parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError("to", raw))
			return
		}
		query.To = &parsed
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidLimitError(raw))
			return
		}
		query.Limit = &limit
	}

	user, err := h.service.GetLog(r.Context(), userID, query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserWithLogResponse(user))
}
