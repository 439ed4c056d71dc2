// Package fetch は候補URLのHTTP取得とContent-Type検証を提供する。
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ysato/feedgate/internal/model"
)

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// allowedContentTypes はフィードとして許可されるContent-Type。
// このいずれにも一致しないレスポンスは検証失敗（BAD_REQUEST）となり、
// パース処理には進まない。
var allowedContentTypes = []string{
	"application/rss+xml",
	"application/atom+xml",
	"application/xml",
	"text/xml",
}

// Fetcher は候補URLに対するHTTP GETとContent-Type検証を行う。
// ネットワーク・タイムアウト起因の失敗はトランスポートエラーとして伝播し、
// 許可されないContent-Typeは型付きの検証失敗として返す。
type Fetcher struct {
	ssrfGuard   SSRFValidator
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(ssrfGuard SSRFValidator, logger *slog.Logger, timeout time.Duration, maxBodySize int64) *Fetcher {
	return &Fetcher{
		ssrfGuard:   ssrfGuard,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch は候補URLをGETし、Content-Type検証を通過したレスポンスボディを返す。
// 検証内容:
//  1. SSRF検証（スキーム・ホスト・IPの静的チェック）
//  2. HTTP GET（固定User-Agent、フィード向けAcceptヘッダ、制限付きタイムアウト）
//  3. Content-Type検証（rss+xml / atom+xml / 汎用xmlのみ許可）
//
// Content-Type検証はボディのパースより先に行われるため、text/htmlで配信される
// 正しいRSSボディであっても検証失敗となる。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := f.ssrfGuard.ValidateURL(rawURL); err != nil {
		f.logger.Warn("SSRF検証に失敗しました",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewInvalidURLError(err.Error())
	}

	client := f.ssrfGuard.NewSafeClient(f.timeout, f.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}

	req.Header.Set("User-Agent", "Feedgate/1.0 Feed Discovery")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("予期しないHTTPステータス: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isAllowedContentType(contentType) {
		f.logger.Info("許可されないContent-Typeのレスポンスを拒否しました",
			slog.String("url", rawURL),
			slog.String("content_type", contentType),
		)
		return nil, model.NewInvalidContentTypeError(contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return body, nil
}

// isAllowedContentType はContent-Typeがフィードとして許可されるかを判定する。
// charset等のパラメータは除去して比較する。
func isAllowedContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)

	for _, allowed := range allowedContentTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}
