package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/recipebox/internal/metrics"
	"github.com/hitoshi/recipebox/internal/middleware"
	"github.com/hitoshi/recipebox/internal/view"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder  middleware.SessionFinder
	StatusRecorder middleware.HTTPStatusRecorder
	Logger         *slog.Logger

	// ビュー
	Renderer view.Renderer

	// サービス
	AuthService    AuthServiceInterface
	AuthConfig     AuthHandlerConfig
	RecipeService  RecipeServiceInterface
	RecipeConfig   RecipeHandlerConfig
	ContactService ContactServiceInterface

	// 監視
	MetricsGatherer prometheus.Gatherer
	DB              *sql.DB // /healthのDB疎通確認に使用（nilの場合はスキップ）
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Session → Logging
//
// セッション解決はリクエストごとに1回だけ行い、以降はコンテキストの値を参照する。
// 認証が必要なのは /upload（GET・POST）のみで、RequireLoginガードが未認証を
// /signin へ303リダイレクトする。それ以外のページはすべて公開。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}

	pageHandler := NewPageHandler(deps.Renderer)
	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthConfig)
	recipeHandler := NewRecipeHandler(deps.RecipeService, deps.Renderer, deps.RecipeConfig)
	contactHandler := NewContactHandler(deps.ContactService, deps.Renderer)

	// --- 公開ページ ---

	r.Get("/", pageHandler.Home)
	r.Get("/about", pageHandler.About)

	r.Get("/signin", authHandler.SigninPage)
	r.Post("/signin", authHandler.Signin)
	r.Get("/register", authHandler.RegisterPage)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)

	r.Get("/auth/google", authHandler.GoogleLogin)
	r.Get("/auth/google/upload", authHandler.GoogleCallback)

	r.Get("/recipes", recipeHandler.ListRecipes)
	r.Get("/recipes/{id}", recipeHandler.GetRecipe)

	r.Get("/contact", contactHandler.ContactPage)
	r.Post("/contact", contactHandler.Contact)

	r.Get("/sucess", pageHandler.UploadSuccess)
	r.Post("/sucess", pageHandler.RedirectHome)
	r.Get("/sucessContact", pageHandler.ContactSuccess)
	r.Post("/sucessContact", pageHandler.RedirectHome)

	// --- 認証が必要なページ ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin)
		r.Get("/upload", recipeHandler.UploadPage)
		r.Post("/upload", recipeHandler.Upload)
	})

	// --- 運用エンドポイント ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	r.NotFound(pageHandler.NotFound)

	return r
}
