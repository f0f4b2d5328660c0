package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestTokenIssuer はトークンの発行と検証を検証する。
func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(testJWTSecret, time.Hour, 24*time.Hour)

	t.Run("アクセストークンからメールアドレスとロールを取り出せること", func(t *testing.T) {
		t.Parallel()

		token, err := issuer.IssueAccessToken("alice@example.com", "USER")
		if err != nil {
			t.Fatalf("IssueAccessToken()でエラーが発生: %v", err)
		}
		claims, err := issuer.ParseAccessToken(token)
		if err != nil {
			t.Fatalf("ParseAccessToken()でエラーが発生: %v", err)
		}
		if claims.Subject != "alice@example.com" {
			t.Errorf("Subject = %q, want %q", claims.Subject, "alice@example.com")
		}
		if claims.Role != "USER" {
			t.Errorf("Role = %q, want %q", claims.Role, "USER")
		}
		if claims.Issuer != tokenIssuerName {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, tokenIssuerName)
		}
	})

	t.Run("有効期限が設定したTTLの後であること", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		token, err := issuer.IssueAccessToken("exp@example.com", "USER")
		if err != nil {
			t.Fatalf("IssueAccessToken()でエラーが発生: %v", err)
		}
		claims, err := issuer.ParseAccessToken(token)
		if err != nil {
			t.Fatalf("ParseAccessToken()でエラーが発生: %v", err)
		}
		// 有効期限が1時間後の前後1分以内であること
		want := before.Add(time.Hour)
		if d := claims.ExpiresAt.Time.Sub(want); d < -time.Minute || d > time.Minute {
			t.Errorf("ExpiresAt = %v, want around %v", claims.ExpiresAt.Time, want)
		}
	})

	t.Run("同じユーザーでも発行のたびに異なるトークンになること", func(t *testing.T) {
		t.Parallel()

		a, _ := issuer.IssueAccessToken("same@example.com", "USER")
		b, _ := issuer.IssueAccessToken("same@example.com", "USER")
		if a == b {
			t.Error("2回発行したトークンが同一")
		}
	})

	t.Run("リフレッシュトークンはアクセストークンとして受け付けないこと", func(t *testing.T) {
		t.Parallel()

		token, err := issuer.IssueRefreshToken("alice@example.com")
		if err != nil {
			t.Fatalf("IssueRefreshToken()でエラーが発生: %v", err)
		}
		if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("期限切れのトークンは無効になること", func(t *testing.T) {
		t.Parallel()

		expired := NewTokenIssuer(testJWTSecret, -time.Minute, time.Hour)
		token, err := expired.IssueAccessToken("old@example.com", "USER")
		if err != nil {
			t.Fatalf("IssueAccessToken()でエラーが発生: %v", err)
		}
		if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("異なる秘密鍵で署名されたトークンは無効になること", func(t *testing.T) {
		t.Parallel()

		other := NewTokenIssuer("another-secret", time.Hour, time.Hour)
		token, _ := other.IssueAccessToken("alice@example.com", "USER")
		if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("HS256以外のアルゴリズムは拒否されること", func(t *testing.T) {
		t.Parallel()

		claims := Claims{
			RegisteredClaims: issuer.registered("alice@example.com", time.Hour),
			Role:             "ADMIN",
			TokenType:        tokenTypeAccess,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testJWTSecret))
		if err != nil {
			t.Fatalf("HS512での署名に失敗: %v", err)
		}
		if _, err := issuer.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("不正な文字列は無効になること", func(t *testing.T) {
		t.Parallel()

		if _, err := issuer.ParseAccessToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}
