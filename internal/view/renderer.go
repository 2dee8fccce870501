// Package view はHTMLテンプレートのレンダリングを提供する。
//
// テンプレートはバイナリに埋め込まれ、各ページはビュー名で参照される。
// ハンドラーはビュー名とデータバッグのみを渡し、テンプレートの構造には依存しない。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
)

//go:embed templates/layout.html templates/pages/*.html
var templateFS embed.FS

// Data はテンプレートに渡すデータバッグ。
type Data map[string]any

// Renderer はビュー名でHTMLテンプレートをレンダリングするインターフェース。
type Renderer interface {
	Render(w io.Writer, name string, data Data) error
}

// TemplateRenderer は埋め込みテンプレートによるRendererの実装。
// 各ページテンプレートは共通レイアウトと組み合わせて事前にパースされる。
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer は埋め込みテンプレートをパースしてTemplateRendererを生成する。
func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := filepath.Base(page)
		name = name[:len(name)-len(filepath.Ext(name))]

		t, err := template.ParseFS(templateFS, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &TemplateRenderer{templates: templates}, nil
}

// Render は指定ビューをレイアウト込みでレンダリングする。
// 存在しないビュー名はエラーを返す。
func (r *TemplateRenderer) Render(w io.Writer, name string, data Data) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown view: %s", name)
	}
	if data == nil {
		data = Data{}
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render view %s: %w", name, err)
	}
	return nil
}

// compile-time interface check
var _ Renderer = (*TemplateRenderer)(nil)
