// Package model はドメインモデルを定義する。
package model

import "fmt"

// AppError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type AppError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, storage, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeProviderError      = "PROVIDER_ERROR"
	ErrCodeStorageError       = "STORAGE_ERROR"
)

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(reason string) *AppError {
	return &AppError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容に誤りがあります: %s", reason),
		Category: "validation",
		Action:   "フォームの入力内容を確認して、再度お試しください。",
	}
}

// NewFileTooLargeError はアップロードサイズ超過エラーを生成する。
func NewFileTooLargeError(maxBytes int64) *AppError {
	return &AppError{
		Code:     ErrCodeFileTooLarge,
		Message:  fmt.Sprintf("画像ファイルが大きすぎます（上限: %dバイト）。", maxBytes),
		Category: "validation",
		Action:   "画像を小さくしてから再度アップロードしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名の存在有無を漏らさないよう、常に同一のメッセージを返す。
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して、再度サインインしてください。",
	}
}

// NewDuplicateUserError はユーザー名重複エラーを生成する。
func NewDuplicateUserError(username string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateUser,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "auth",
		Action:   "別のユーザー名で登録するか、サインインしてください。",
	}
}

// NewProviderError は外部IdPとの認証フロー失敗エラーを生成する。
func NewProviderError() *AppError {
	return &AppError{
		Code:     ErrCodeProviderError,
		Message:  "外部サービスでの認証に失敗しました。",
		Category: "auth",
		Action:   "しばらく待ってから、再度サインインしてください。",
	}
}

// NewStorageError は画像アップロードまたはデータベース書き込み失敗エラーを生成する。
// 内部原因はログにのみ記録し、ユーザーには一般的なメッセージを返す。
func NewStorageError() *AppError {
	return &AppError{
		Code:     ErrCodeStorageError,
		Message:  "レシピの保存に失敗しました。",
		Category: "storage",
		Action:   "しばらく待ってから、再度お試しください。",
	}
}
