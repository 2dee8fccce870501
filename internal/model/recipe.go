package model

import "time"

// Recipe は公開されたレシピを表す。
// ImageURLはアセットホストへのアップロード成功後に確定した公開URLのみを保持する。
// アップロード未完了のRecipeは永続化されない（アップロードパイプラインの不変条件）。
type Recipe struct {
	ID           string
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	ImageURL     string // アセットホスト上の公開URL
	ImageFile    string // ステージング時のローカルファイル名（バックアップ参照用）
	CreatedAt    time.Time
}

// ContactMessage は問い合わせフォームから送信された訪問者のメッセージを表す。
// このシステムからは書き込み専用で、読み返すことはない。
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
