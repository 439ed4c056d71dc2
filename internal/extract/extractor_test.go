package extract

import (
	"strings"
	"testing"

	"github.com/ysato/feedgate/internal/model"
)

// --- モック定義 ---

// passthroughSanitizer は入力をトリムのみして返すSanitizerのモック実装。
type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(raw)
}

func newExtractor() *Extractor {
	return NewExtractor(passthroughSanitizer{})
}

// --- RSS抽出テスト ---

func TestExtract_RSS2_Success(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Daily News</title>
    <link>https://news.example.com/</link>
    <description>Top stories of the day</description>
    <image>
      <url>https://news.example.com/logo.png</url>
      <title>Daily News</title>
      <link>https://news.example.com/</link>
    </image>
  </channel>
</rss>`)

	meta, err := newExtractor().Extract(body, "https://news.example.com/rss.xml")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if meta.Title != "Daily News" {
		t.Errorf("Title = %q, want %q", meta.Title, "Daily News")
	}
	if meta.Description != "Top stories of the day" {
		t.Errorf("Description = %q, want %q", meta.Description, "Top stories of the day")
	}
	if meta.Image != "https://news.example.com/logo.png" {
		t.Errorf("Image = %q, want %q", meta.Image, "https://news.example.com/logo.png")
	}
	// Linkは文書内のlinkではなく、リクエストされたURLになる
	if meta.Link != "https://news.example.com/rss.xml" {
		t.Errorf("Link = %q, want %q", meta.Link, "https://news.example.com/rss.xml")
	}
	if meta.Type != model.FeedTypeRSS {
		t.Errorf("Type = %q, want %q", meta.Type, model.FeedTypeRSS)
	}
}

func TestExtract_RSS_WithoutDescriptionAndImage(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Minimal Feed</title>
    <link>https://example.com/</link>
  </channel>
</rss>`)

	meta, err := newExtractor().Extract(body, "https://example.com/feed")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if meta.Title != "Minimal Feed" {
		t.Errorf("Title = %q, want %q", meta.Title, "Minimal Feed")
	}
	if meta.Description != "" {
		t.Errorf("Description = %q, want empty", meta.Description)
	}
	if meta.Image != "" {
		t.Errorf("Image = %q, want empty", meta.Image)
	}
}

func TestExtract_RSS_TitleFallsBackToRequestURL(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <link>https://example.com/</link>
    <description>no title here</description>
  </channel>
</rss>`)

	meta, err := newExtractor().Extract(body, "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// RSSのタイトル欠落時はリクエストURLをタイトルとして採用する
	if meta.Title != "https://example.com/feed.xml" {
		t.Errorf("Title = %q, want %q", meta.Title, "https://example.com/feed.xml")
	}
}

// --- RDF（RSS 1.0）抽出テスト ---

func TestExtract_RDF_NormalizedToRSS(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns="http://purl.org/rss/1.0/">
  <channel rdf:about="https://legacy.example.com/">
    <title>Legacy Journal</title>
    <link>https://legacy.example.com/</link>
    <description>RSS 1.0 archive</description>
  </channel>
</rdf:RDF>`)

	meta, err := newExtractor().Extract(body, "https://legacy.example.com/rdf")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if meta.Title != "Legacy Journal" {
		t.Errorf("Title = %q, want %q", meta.Title, "Legacy Journal")
	}
	// RDFはrssに正規化される
	if meta.Type != model.FeedTypeRSS {
		t.Errorf("Type = %q, want %q", meta.Type, model.FeedTypeRSS)
	}
}

// --- Atom抽出テスト ---

func TestExtract_Atom_Success(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Engineering Blog</title>
  <subtitle>Posts from the team</subtitle>
  <icon>https://blog.example.com/icon.png</icon>
  <link href="https://blog.example.com/"/>
  <id>urn:uuid:60a76c80-d399-11d9-b93C-0003939e0af6</id>
  <updated>2025-01-01T00:00:00Z</updated>
</feed>`)

	meta, err := newExtractor().Extract(body, "https://blog.example.com/atom.xml")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if meta.Title != "Engineering Blog" {
		t.Errorf("Title = %q, want %q", meta.Title, "Engineering Blog")
	}
	// Atomのsubtitleが説明文になる
	if meta.Description != "Posts from the team" {
		t.Errorf("Description = %q, want %q", meta.Description, "Posts from the team")
	}
	// Atomのiconが画像になる
	if meta.Image != "https://blog.example.com/icon.png" {
		t.Errorf("Image = %q, want %q", meta.Image, "https://blog.example.com/icon.png")
	}
	if meta.Link != "https://blog.example.com/atom.xml" {
		t.Errorf("Link = %q, want %q", meta.Link, "https://blog.example.com/atom.xml")
	}
	if meta.Type != model.FeedTypeAtom {
		t.Errorf("Type = %q, want %q", meta.Type, model.FeedTypeAtom)
	}
}

func TestExtract_Atom_MissingTitle(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <subtitle>No title element</subtitle>
  <id>urn:uuid:60a76c80-d399-11d9-b93C-0003939e0af6</id>
  <updated>2025-01-01T00:00:00Z</updated>
</feed>`)

	_, err := newExtractor().Extract(body, "https://blog.example.com/atom.xml")
	if err == nil {
		t.Fatal("Extract() error = nil, want error")
	}

	// Atomにはタイトルフォールバックがなく、検証失敗となる
	assertErrorCode(t, err, model.ErrCodeBadRequest)
}

// --- 非フィード文書テスト ---

func TestExtract_NotAFeed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "HTML文書",
			body: `<!DOCTYPE html><html><head><title>Home</title></head><body>hello</body></html>`,
		},
		{
			name: "認識できないXMLルート要素",
			body: `<?xml version="1.0"?><catalog><item>x</item></catalog>`,
		},
		{
			name: "XMLとして不正",
			body: `this is not xml at all`,
		},
		{
			name: "空ボディ",
			body: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newExtractor().Extract([]byte(tt.body), "https://example.com/feed")
			if err == nil {
				t.Fatal("Extract() error = nil, want error")
			}
			assertErrorCode(t, err, model.ErrCodeBadRequest)
		})
	}
}

// --- サニタイズテスト ---

// stripSanitizer は特定文字列を除去するSanitizerのモック実装。
type stripSanitizer struct{}

func (stripSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "<script>", ""))
}

func TestExtract_TitleAndDescriptionAreSanitized(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Feed &lt;script&gt;Title</title>
    <link>https://example.com/</link>
    <description>  Desc &lt;script&gt;here  </description>
  </channel>
</rss>`)

	meta, err := NewExtractor(stripSanitizer{}).Extract(body, "https://example.com/feed")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if meta.Title != "Feed Title" {
		t.Errorf("Title = %q, want %q", meta.Title, "Feed Title")
	}
	if meta.Description != "Desc here" {
		t.Errorf("Description = %q, want %q", meta.Description, "Desc here")
	}
}

// --- ヘルパー ---

// assertErrorCode はエラーが期待するDiscoveryErrorコードであることを検証する。
func assertErrorCode(t *testing.T, err error, want model.ErrorCode) {
	t.Helper()

	discErr, ok := err.(*model.DiscoveryError)
	if !ok {
		t.Fatalf("error type = %T, want *model.DiscoveryError", err)
	}
	if discErr.Code != want {
		t.Errorf("Code = %q, want %q", discErr.Code, want)
	}
}
