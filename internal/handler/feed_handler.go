package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ysato/feedgate/internal/repository"
)

// FeedHandler はフィード参照のHTTPハンドラー。
// フィードは発見エンジンからは作成後に変更・削除されないため、参照のみを提供する。
type FeedHandler struct {
	repo repository.FeedRepository
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(repo repository.FeedRepository) *FeedHandler {
	return &FeedHandler{repo: repo}
}

// GetFeed はフィード詳細を取得する。
// GET /api/feeds/:id
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "id")

	feed, err := h.repo.FindByID(r.Context(), feedID)
	if err != nil {
		slog.Error("フィードの取得に失敗しました",
			slog.String("feed_id", feedID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if feed == nil {
		http.Error(w, "feed not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFeedResponse(feed))
}
