// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, user, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingField = "MISSING_FIELD"
	ErrCodeInvalidDate  = "INVALID_DATE"
	ErrCodeInvalidLimit = "INVALID_LIMIT"
	ErrCodeUserNotFound = "USER_NOT_FOUND"
)

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが未入力です: %s", field),
		Category: "validation",
		Action:   fmt.Sprintf("%s を入力してください。", field),
	}
}

// NewInvalidDurationError は不正なduration値のエラーを生成する。
func NewInvalidDurationError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  "durationは正の数値で指定してください。",
		Category: "validation",
		Action:   "1以上の分数を入力してください。",
	}
}

// NewInvalidDateError は解析できない日付文字列のエラーを生成する。
func NewInvalidDateError(field, value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付を解析できません: %s=%q", field, value),
		Category: "validation",
		Action:   "日付は YYYY-MM-DD 形式またはRFC3339形式で指定してください。",
	}
}

// NewInvalidLimitError は不正なlimit値のエラーを生成する。
func NewInvalidLimitError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLimit,
		Message:  fmt.Sprintf("無効なlimitです: %q", value),
		Category: "validation",
		Action:   "limitには0以上の整数を指定してください。",
	}
}

// NewUserNotFoundError は指定userIdのユーザーが存在しないエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "user",
		Action:   "userIdを確認してください。",
	}
}
