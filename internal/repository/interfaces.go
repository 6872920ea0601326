// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/exertrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// CreateIfAbsent はusernameが未使用の場合のみユーザーを挿入する。
	// 挿入できた場合はtrueを、既存usernameと衝突した場合はfalseを返す。
	// 存在確認と挿入はストアレベルの一意制約で1操作として行われる。
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定usernameのユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List は全ユーザーを作成順で返す。ユーザーが存在しない場合は空スライスを返す。
	List(ctx context.Context) ([]*model.User, error)
}

// ExerciseRepository はエクササイズログの永続化インターフェース。
type ExerciseRepository interface {
	// Append はユーザーのログ末尾にエクササイズを1件追加する。
	// 追加は単一行INSERTであり、同一ユーザーへの並行追加でも更新が失われない。
	Append(ctx context.Context, userID string, exercise model.Exercise) error

	// ListByUser はユーザーのログをフィルタ適用済みで挿入順に返す。
	// queryのFrom/Toは日付範囲（両端含む）、Limitはフィルタ後の先頭からの最大件数。
	ListByUser(ctx context.Context, userID string, query model.LogQuery) ([]model.Exercise, error)

	// CountByUser はユーザーのログ全体の件数を返す。
	CountByUser(ctx context.Context, userID string) (int, error)
}
