package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/exertrack/internal/model"
)

// NewTimeoutMiddleware は各リクエストの処理時間に上限を設けるミドルウェアを返す。
// リクエストコンテキストに期限を設定し、下流のストアアクセスはこの期限で打ち切られる。
// 期限切れでレスポンス未書き込みの場合は504を返す。
func NewTimeoutMiddleware(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r.WithContext(ctx))

			if ctx.Err() == context.DeadlineExceeded && !rec.written {
				slog.Warn("request timed out",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", timeout),
				)
				WriteErrorResponse(rec, http.StatusGatewayTimeout, &model.APIError{
					Code:     "REQUEST_TIMEOUT",
					Message:  "リクエストの処理が時間内に完了しませんでした。",
					Category: "system",
					Action:   "しばらく待ってから再度お試しください。",
				})
			}
		})
	}
}
