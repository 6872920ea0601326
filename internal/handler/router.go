package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/exertrack/internal/metrics"
	"github.com/hitoshi/exertrack/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	RequestTimeout    time.Duration
	Logger            *slog.Logger

	// 観測
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	HealthChecker HealthChecker

	// サービス
	UserService     UserServiceInterface
	ExerciseService ExerciseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → Timeout
//
// /api/exercise/* にはAPI全般のレート制限を適用し、
// ユーザー登録にはさらに登録専用レート制限を重ねる。
// /、/health、/metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.NewTimeoutMiddleware(deps.RequestTimeout))

	userHandler := NewUserHandler(deps.UserService)
	exerciseHandler := NewExerciseHandler(deps.ExerciseService)

	// 未定義ルートにもJSONエラーフォーマットで応答
	r.NotFound(writeNotFoundRoute)

	// --- レート制限の外のルート ---

	r.Get("/", NewLandingHandler())
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// --- APIルート ---
	r.Route("/api/exercise", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// POST /api/exercise/new-user - ユーザー登録（登録専用レート制限を追加）
		r.With(deps.RateLimiter.UserRegistrationMiddleware()).Post("/new-user", userHandler.CreateUser)

		r.Post("/add", exerciseHandler.AddExercise)
		r.Get("/users", userHandler.ListUsers)
		r.Get("/log", exerciseHandler.GetLog)
	})

	return r
}
