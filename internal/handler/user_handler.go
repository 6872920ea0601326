package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/exertrack/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// CreateUser はユーザーを登録する。既存usernameの場合は既存レコードとfalseを返す。
	CreateUser(ctx context.Context, username string) (*model.User, bool, error)
	// ListUsers は全ユーザーを返す。
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// createUserRequest はユーザー登録リクエストのボディ。
type createUserRequest struct {
	Username string `json:"username"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// toUserResponse はmodel.UserをAPIレスポンス形式に変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}

// CreateUser はユーザー登録を処理する。
// POST /api/exercise/new-user
// 新規作成で201、既存usernameの場合は既存レコードを200で返す。
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	user, created, err := h.service.CreateUser(r.Context(), req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	statusCode := http.StatusOK
	if created {
		statusCode = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// ListUsers は全ユーザーの一覧を返す。
// GET /api/exercise/users
// ユーザーが存在しない場合は空配列を返す。
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}
