package security

import (
	"strings"
	"testing"
)

// TestSanitizePlain_StripsAllTags は1行フィールド用ポリシーが全タグを除去することを検証する。
func TestSanitizePlain_StripsAllTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま通過する",
			input: "肉じゃが",
			want:  "肉じゃが",
		},
		{
			name:  "scriptタグが除去される",
			input: `カレー<script>alert('xss')</script>`,
			want:  "カレー",
		},
		{
			name:  "整形タグも除去される",
			input: "<strong>特製</strong>パスタ",
			want:  "特製パスタ",
		},
		{
			name:  "前後の空白が除去される",
			input: "  味噌汁  ",
			want:  "味噌汁",
		},
		{
			name:  "空文字列は空文字列を返す",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizePlain(tt.input)
			if got != tt.want {
				t.Errorf("SanitizePlain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeBody_AllowedTags は本文用ポリシーが整形タグを通過させることを検証する。
func TestSanitizeBody_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{
			name:         "pタグが許可される",
			input:        "<p>まず玉ねぎを切る</p>",
			wantContains: []string{"<p>まず玉ねぎを切る</p>"},
		},
		{
			name:         "brタグが許可される",
			input:        "手順1<br>手順2",
			wantContains: []string{"<br>", "手順1", "手順2"},
		},
		{
			name:         "ulタグとliタグが許可される",
			input:        "<ul><li>じゃがいも 3個</li><li>にんじん 1本</li></ul>",
			wantContains: []string{"<ul>", "<li>じゃがいも 3個</li>", "<li>にんじん 1本</li>", "</ul>"},
		},
		{
			name:         "olタグが許可される",
			input:        "<ol><li>切る</li><li>炒める</li></ol>",
			wantContains: []string{"<ol>", "</ol>"},
		},
		{
			name:         "strongタグとemタグが許可される",
			input:        "<strong>強火</strong>で<em>さっと</em>炒める",
			wantContains: []string{"<strong>強火</strong>", "<em>さっと</em>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeBody(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("SanitizeBody(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitizeBody_ForbiddenMarkup は危険なマークアップが除去されることを検証する。
func TestSanitizeBody_ForbiddenMarkup(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantAbsent   []string
		wantContains []string
	}{
		{
			name:         "scriptタグが除去される",
			input:        `<p>手順</p><script>document.cookie</script>`,
			wantAbsent:   []string{"<script", "document.cookie"},
			wantContains: []string{"手順"},
		},
		{
			name:       "iframeタグが除去される",
			input:      `<p>手順</p><iframe src="https://evil.com"></iframe>`,
			wantAbsent: []string{"<iframe", "evil.com"},
		},
		{
			name:       "styleタグが除去される",
			input:      `<p>手順</p><style>body{display:none}</style>`,
			wantAbsent: []string{"<style", "display:none"},
		},
		{
			name:         "onclickが除去される",
			input:        `<p onclick="alert('xss')">手順</p>`,
			wantAbsent:   []string{"onclick", "alert"},
			wantContains: []string{"<p>手順</p>"},
		},
		{
			name:         "aタグが除去されテキストは残る",
			input:        `<a href="https://evil.com">ここをクリック</a>`,
			wantAbsent:   []string{"<a", "href"},
			wantContains: []string{"ここをクリック"},
		},
		{
			name:       "imgタグが除去される",
			input:      `<img src="x" onerror="alert('xss')">`,
			wantAbsent: []string{"<img", "onerror"},
		},
		{
			name:         "divタグが除去され中身は残る",
			input:        `<div><p>手順</p></div>`,
			wantAbsent:   []string{"<div"},
			wantContains: []string{"<p>手順</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.SanitizeBody(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("SanitizeBody(%q) = %q, should NOT contain %q", tt.input, got, absent)
				}
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("SanitizeBody(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力（冪等性）を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	input := `<p>手順<strong>重要</strong></p><script>alert(1)</script>`

	result1 := sanitizer.SanitizeBody(input)
	result2 := sanitizer.SanitizeBody(input)
	result3 := sanitizer.SanitizeBody(result1) // 二重サニタイズ

	if result1 != result2 {
		t.Errorf("冪等性違反: 1回目=%q, 2回目=%q", result1, result2)
	}
	if result1 != result3 {
		t.Errorf("二重サニタイズで結果が変わった: 1回目=%q, 二重=%q", result1, result3)
	}
}

// TestContentSanitizerInterface はContentSanitizerServiceインターフェースの適合を検証する。
func TestContentSanitizerInterface(t *testing.T) {
	var _ ContentSanitizerService = NewContentSanitizer()
}
