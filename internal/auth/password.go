package auth

import "golang.org/x/crypto/bcrypt"

// dummyPasswordHash は存在しないユーザーへの認証試行時に使うダミーハッシュ。
// ユーザー名の存在有無による応答時間の差を抑えるため、
// 見つからない場合でも必ず1回bcrypt比較を実行する。
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// HashPassword はパスワードをbcryptでソルト付きハッシュ化する。
// 平文パスワードは永続化してはならない。
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// VerifyPassword は保存済みハッシュとパスワードを定数時間で比較する。
func VerifyPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
