// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MetadataSanitizerService はフィード文書から抽出したメタデータ
// （タイトル・説明文）をサニタイズし、埋め込まれたHTMLやスクリプトを除去する。
// メタデータはプレーンテキストとして保存・表示されるため、
// bluemondayのStrictPolicyで全タグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MetadataSanitizerService はフィードメタデータのサニタイズ機能のインターフェースを定義する。
// 抽出済みメタデータの保存前に使用される。
type MetadataSanitizerService interface {
	// Sanitize は入力文字列から全てのHTMLタグとイベント属性を除去し、
	// 前後の空白をトリムしたプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// metadataSanitizer はMetadataSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type metadataSanitizer struct {
	policy *bluemonday.Policy
}

// NewMetadataSanitizer はMetadataSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは全ての要素と属性を除去し、テキストのみを通過させる。
func NewMetadataSanitizer() *metadataSanitizer {
	return &metadataSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列をプレーンテキストにサニタイズして返す。
func (s *metadataSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
