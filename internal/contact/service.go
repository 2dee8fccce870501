// Package contact はお問い合わせメッセージの受付を提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
)

// Metrics はお問い合わせ受付が記録するメトリクスのインターフェース。
type Metrics interface {
	RecordContactMessage()
}

// Sanitizer はユーザー入力テキストのサニタイズのインターフェース。
type Sanitizer interface {
	SanitizePlain(raw string) string
	SanitizeBody(raw string) string
}

// Service はお問い合わせメッセージの受付ロジックを提供する。
// メッセージは書き込み専用で、このシステムから閲覧する手段は持たない。
type Service struct {
	contactRepo repository.ContactMessageRepository
	sanitizer   Sanitizer
	metrics     Metrics
}

// NewService はServiceを生成する。
func NewService(contactRepo repository.ContactMessageRepository, sanitizer Sanitizer, metrics Metrics) *Service {
	return &Service{
		contactRepo: contactRepo,
		sanitizer:   sanitizer,
		metrics:     metrics,
	}
}

// Create はお問い合わせメッセージを受け付けて永続化する。
func (s *Service) Create(ctx context.Context, name, email, message string) error {
	name = s.sanitizer.SanitizePlain(name)
	email = s.sanitizer.SanitizePlain(email)
	message = s.sanitizer.SanitizeBody(message)

	if name == "" {
		return model.NewValidationError("お名前を入力してください")
	}
	if message == "" {
		return model.NewValidationError("メッセージを入力してください")
	}

	msg := &model.ContactMessage{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	s.metrics.RecordContactMessage()
	slog.Info("contact message received", slog.String("message_id", msg.ID))
	return nil
}
