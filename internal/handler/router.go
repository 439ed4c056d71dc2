package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ysato/feedgate/internal/metrics"
	"github.com/ysato/feedgate/internal/middleware"
	"github.com/ysato/feedgate/internal/repository"
)

// Pinger はデータベース接続の死活確認インターフェース。
// *sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger      *slog.Logger
	DB          Pinger
	RateLimiter *middleware.RateLimiter

	// フィード発見
	DiscoveryService DiscoveryServiceInterface

	// 参照系リポジトリ（トランザクション外の単発クエリ）
	FeedRepo         repository.FeedRepository
	SubscriptionRepo repository.SubscriptionRepository

	// メトリクス公開
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Auth → RateLimit(General)
//
// ヘルスチェック（/health）とメトリクス（/metrics）は認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	discoveryHandler := NewDiscoveryHandler(deps.DiscoveryService)
	feedHandler := NewFeedHandler(deps.FeedRepo)
	subHandler := NewSubscriptionHandler(deps.SubscriptionRepo)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.DB))

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// フィード管理
		r.Route("/api/feeds", func(r chi.Router) {
			// POST /api/feeds/discover - フィード発見（発見専用レート制限を追加）
			r.With(deps.RateLimiter.DiscoverMiddleware()).Post("/discover", discoveryHandler.DiscoverFeed)

			r.Get("/{id}", feedHandler.GetFeed)
		})

		// 購読管理
		r.Route("/api/subscriptions", func(r chi.Router) {
			r.Get("/", subHandler.ListSubscriptions)
			r.Delete("/{id}", subHandler.Unsubscribe)
		})
	})

	return r
}

// healthResponse はヘルスチェックのレスポンス。
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// newHealthHandler はデータベース接続を確認するヘルスチェックハンドラーを返す。
// GET /health
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Database: "ok"}
		statusCode := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(resp)
	}
}
