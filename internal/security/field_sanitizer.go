// Package security はアプリケーションのセキュリティ機能を提供する。
//
// FieldSanitizerService はユーザー入力のテキストフィールド（username、description）から
// HTMLタグを除去し、格納値にマークアップが紛れ込むことを防ぐ。
// bluemondayのStrictPolicyですべてのタグと属性を除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// FieldSanitizerService はテキストフィールドのサニタイズ機能のインターフェースを定義する。
// ユーザー作成時およびエクササイズ追加時に保存前の入力へ適用される。
type FieldSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグ・属性を除去し、前後の空白をトリムして返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// fieldSanitizer はFieldSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type fieldSanitizer struct {
	policy *bluemonday.Policy
}

// NewFieldSanitizer はFieldSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグを一切許可しないため、プレーンテキストのみが残る。
func NewFieldSanitizer() *fieldSanitizer {
	return &fieldSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLを除去して返す。
func (s *fieldSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
