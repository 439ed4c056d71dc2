// Package extract はフィードXMLの正規化メタデータ抽出を提供する。
//
// RSS（0.9x/2.0）、RDF（RSS 1.0）、Atomの各フォーマットを閉じたバリアントとして
// 扱い、ルート要素で一度だけ判別した後、バリアントごとの抽出関数で
// 正規化メタデータ {title, description, image, link, type} に変換する。
// RDFはrssに正規化される。
package extract

import (
	"bytes"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"

	"github.com/ysato/feedgate/internal/model"
)

// Sanitizer はメタデータサニタイズのインターフェース。
// security.MetadataSanitizerServiceを抽象化してテスタビリティを向上させる。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Extractor はフィードXMLから正規化メタデータを抽出する。
// 抽出したタイトル・説明文はサニタイザでプレーンテキスト化してから返す。
type Extractor struct {
	sanitizer Sanitizer
}

// NewExtractor はExtractorの新しいインスタンスを生成する。
func NewExtractor(sanitizer Sanitizer) *Extractor {
	return &Extractor{sanitizer: sanitizer}
}

// Extract はXMLボディからフィードメタデータを抽出する。
// requestURLは元々リクエストされたURLで、常にLinkとして設定される
// （文書内のself linkではなく、購読者が実際にフェッチするURLが運用上のキーとなるため）。
//
// ディスパッチはルート要素で判定する:
//   - rss / rdf:RDF ルート → RSS抽出（typeはrss）
//   - feed ルート → Atom抽出（typeはatom）
//   - それ以外 → フィードではない（BAD_REQUEST）
//
// 抽出後のタイトルが空の場合は検証失敗（BAD_REQUEST）を返す。
func (e *Extractor) Extract(body []byte, requestURL string) (*model.FeedMetadata, error) {
	var (
		meta *model.FeedMetadata
		err  error
	)

	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeRSS:
		meta, err = extractRSS(body, requestURL)
	case gofeed.FeedTypeAtom:
		meta, err = extractAtom(body, requestURL)
	default:
		return nil, model.NewNotAFeedError(requestURL)
	}
	if err != nil {
		return nil, err
	}

	meta.Title = e.sanitizer.Sanitize(meta.Title)
	meta.Description = e.sanitizer.Sanitize(meta.Description)

	// タイトル欠落は不正フィードの典型シグナル。URLフォールバックも効かなかった場合は無効。
	if meta.Title == "" {
		return nil, model.NewMissingTitleError(requestURL)
	}

	return meta, nil
}

// extractRSS はRSS/RDF文書からメタデータを抽出する。
// channel.title、channel.description（省略時は空文字列）、channel.image.url（任意）を
// 取り出し、typeはrssとする。チャネルタイトルが空の場合のみrequestURLをタイトルとする。
func extractRSS(body []byte, requestURL string) (*model.FeedMetadata, error) {
	parser := &rss.Parser{}
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, model.NewNotAFeedError(requestURL)
	}

	meta := &model.FeedMetadata{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        requestURL,
		Type:        model.FeedTypeRSS,
	}
	if feed.Image != nil {
		meta.Image = feed.Image.URL
	}
	if meta.Title == "" {
		meta.Title = requestURL
	}

	return meta, nil
}

// extractAtom はAtom文書からメタデータを抽出する。
// title、subtitle（省略時は空文字列）を説明文、icon（任意）を画像として
// 取り出し、typeはatomとする。Atomにはタイトルフォールバックはない。
func extractAtom(body []byte, requestURL string) (*model.FeedMetadata, error) {
	parser := &atom.Parser{}
	feed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, model.NewNotAFeedError(requestURL)
	}

	return &model.FeedMetadata{
		Title:       feed.Title,
		Description: feed.Subtitle,
		Image:       feed.Icon,
		Link:        requestURL,
		Type:        model.FeedTypeAtom,
	}, nil
}
