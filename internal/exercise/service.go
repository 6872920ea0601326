// Package exercise はエクササイズログ管理のドメインロジックを提供する。
package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/exertrack/internal/model"
	"github.com/hitoshi/exertrack/internal/repository"
	"github.com/hitoshi/exertrack/internal/security"
)

// MetricsRecorder はサービス層が使用するドメインメトリクスのインターフェース。
type MetricsRecorder interface {
	RecordUserCreated()
	RecordExerciseAppended()
}

// Service はエクササイズログ管理のサービス層。
// ユーザー登録・ログ追加・ログ取得のビジネスロジックを提供する。
type Service struct {
	userRepo     repository.UserRepository
	exerciseRepo repository.ExerciseRepository
	sanitizer    security.FieldSanitizerService
	metrics      MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容し、その場合は記録をスキップする。
func NewService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	sanitizer security.FieldSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		userRepo:     userRepo,
		exerciseRepo: exerciseRepo,
		sanitizer:    sanitizer,
		metrics:      metrics,
	}
}

// CreateUser はユーザーを登録する。
// usernameが既に使用されている場合は既存レコードとcreated=falseを返す（非致命）。
// 存在確認と挿入はストアの一意制約で原子的に行われ、並行作成でも重複は生じない。
func (s *Service) CreateUser(ctx context.Context, username string) (*model.User, bool, error) {
	username = s.sanitizer.Sanitize(username)
	if username == "" {
		return nil, false, model.NewMissingFieldError("username")
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	created, err := s.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	if !created {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return nil, false, fmt.Errorf("既存ユーザーの取得に失敗しました: %w", err)
		}
		if existing == nil {
			return nil, false, fmt.Errorf("既存ユーザーの再検索で該当なし: %s", username)
		}
		return existing, false, nil
	}

	if s.metrics != nil {
		s.metrics.RecordUserCreated()
	}

	slog.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, true, nil
}

// AddExercise はユーザーのログ末尾にエクササイズを1件追加する。
// 入力検証はストアアクセスより前に行う。dateがnilの場合はサーバー時刻を使用する。
// 戻り値は追加後のログ全体を含むユーザー表現で、Countは追加後のログ長。
func (s *Service) AddExercise(ctx context.Context, userID, description string, duration int, date *time.Time) (*model.UserWithLog, error) {
	description = s.sanitizer.Sanitize(description)
	if description == "" {
		return nil, model.NewMissingFieldError("description")
	}
	if duration <= 0 {
		return nil, model.NewInvalidDurationError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	when := time.Now()
	if date != nil {
		when = *date
	}

	ex := model.Exercise{
		Description: description,
		Duration:    duration,
		Date:        when,
	}

	if err := s.exerciseRepo.Append(ctx, user.ID, ex); err != nil {
		return nil, fmt.Errorf("エクササイズの追加に失敗しました: %w", err)
	}

	log, err := s.exerciseRepo.ListByUser(ctx, user.ID, model.LogQuery{})
	if err != nil {
		return nil, fmt.Errorf("ログの取得に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordExerciseAppended()
	}

	slog.Info("exercise appended",
		slog.String("user_id", user.ID),
		slog.Int("duration_minutes", duration),
	)

	return &model.UserWithLog{
		User:  *user,
		Log:   log,
		Count: len(log),
	}, nil
}

// ListUsers は全ユーザーを返す。ユーザーが存在しない場合は空スライスを返す。
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// GetLog はユーザーのログをフィルタ適用済みで返す。
// フィルタはFrom→To→Limitの順に適用され、Countはフィルタ後のログ長。
// 永続化されたログはこの読み取りで変更されない。
func (s *Service) GetLog(ctx context.Context, userID string, query model.LogQuery) (*model.UserWithLog, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	log, err := s.exerciseRepo.ListByUser(ctx, user.ID, query)
	if err != nil {
		return nil, fmt.Errorf("ログの取得に失敗しました: %w", err)
	}

	return &model.UserWithLog{
		User:  *user,
		Log:   log,
		Count: len(log),
	}, nil
}
