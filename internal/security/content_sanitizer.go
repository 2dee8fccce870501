// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが投稿するレシピ本文をサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 保存前に危険なマークアップを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー投稿コンテンツのサニタイズ機能のインターフェースを定義する。
// レシピおよびお問い合わせの保存前に使用される。
type ContentSanitizerService interface {
	// SanitizePlain は入力からすべてのHTMLタグを除去し、プレーンテキストを返す。
	// タイトル・名前・メールアドレス等の1行フィールドに使用する。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizePlain(raw string) string

	// SanitizeBody は本文フィールド（説明・材料・手順）をサニタイズする。
	// 基本的な整形タグ（p, br, ul, ol, li, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	SanitizeBody(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	strict *bluemonday.Policy
	body   *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// ポリシーの内容:
//   - strict: 全タグ除去（タイトル等の1行フィールド用）
//   - body: p, br, ul, ol, li, strong, em のみ許可（本文用）
//   - script, iframe, style および全てのon*イベント属性は許可リストに
//     含めないことで自動的に除去される
func NewContentSanitizer() *contentSanitizer {
	body := bluemonday.NewPolicy()
	body.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em",
	)

	return &contentSanitizer{
		strict: bluemonday.StrictPolicy(),
		body:   body,
	}
}

// SanitizePlain は入力からすべてのHTMLタグを除去する。
func (s *contentSanitizer) SanitizePlain(raw string) string {
	return strings.TrimSpace(s.strict.Sanitize(raw))
}

// SanitizeBody は本文フィールドをサニタイズする。
func (s *contentSanitizer) SanitizeBody(raw string) string {
	return strings.TrimSpace(s.body.Sanitize(raw))
}
