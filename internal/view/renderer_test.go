package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hitoshi/recipebox/internal/model"
)

func TestNewTemplateRenderer_ParsesAllPages(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	views := []string{
		"home", "about", "signin", "register", "contact",
		"upload", "recipes", "recipe", "sucess", "sucessContact", "notfound",
	}
	for _, name := range views {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("view %q should be parsed", name)
		}
	}
}

func TestRender_Home(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "home", Data{"Title": "ホーム"}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, "RecipeBox") {
		t.Error("rendered home should contain site name")
	}
	if !strings.Contains(body, "<title>ホーム - RecipeBox</title>") {
		t.Errorf("rendered home should contain page title, got: %s", body[:200])
	}
}

func TestRender_ContactForm_UsesFormTextField(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "contact", Data{"Title": "お問い合わせ"}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// メッセージ本文のフィールド名はハンドラーが読むformTextと一致していること
	if !strings.Contains(buf.String(), `name="formText"`) {
		t.Error("contact form textarea should be named formText")
	}
}

func TestRender_UnknownView_ReturnsError(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "no-such-view", nil); err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestRender_RecipesListAndDetail(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	recipes := []*model.Recipe{
		{ID: "recipe-1", Title: "カレー", ImageURL: "https://assets.example.com/curry.jpg"},
		{ID: "recipe-2", Title: "肉じゃが"},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "recipes", Data{"Recipes": recipes}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	body := buf.String()
	if !strings.Contains(body, "カレー") || !strings.Contains(body, "肉じゃが") {
		t.Error("recipe list should contain recipe titles")
	}
	if !strings.Contains(body, "/recipes/recipe-1") {
		t.Error("recipe list should link to recipe detail")
	}

	buf.Reset()
	if err := r.Render(&buf, "recipe", Data{"Recipe": recipes[0]}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "https://assets.example.com/curry.jpg") {
		t.Error("recipe detail should contain image URL")
	}
}

func TestRender_ErrorBanner(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	appErr := model.NewInvalidCredentialsError()

	var buf bytes.Buffer
	if err := r.Render(&buf, "signin", Data{"Error": appErr}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	body := buf.String()
	if !strings.Contains(body, appErr.Message) {
		t.Error("error banner should contain the error message")
	}
	if !strings.Contains(body, appErr.Action) {
		t.Error("error banner should contain the suggested action")
	}
}

func TestRender_EscapesUserContent(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	rec := &model.Recipe{ID: "recipe-1", Title: `<script>alert('xss')</script>`}

	var buf bytes.Buffer
	if err := r.Render(&buf, "recipe", Data{"Recipe": rec}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("user content must be HTML-escaped")
	}
}

func TestRender_NavReflectsLoginState(t *testing.T) {
	r, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "home", Data{"LoggedIn": true}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "/logout") {
		t.Error("logged-in nav should contain logout link")
	}

	buf.Reset()
	if err := r.Render(&buf, "home", Data{"LoggedIn": false}); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "/signin") {
		t.Error("logged-out nav should contain signin link")
	}
}
