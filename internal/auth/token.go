package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuerName はJWTのissクレームに設定する発行者名。
const tokenIssuerName = "resumerank-auth"

const (
	// tokenTypeAccess はAPI呼び出しに使うアクセストークン。
	tokenTypeAccess = "access"
	// tokenTypeRefresh はアクセストークン再発行用のリフレッシュトークン。
	tokenTypeRefresh = "refresh"
)

// ErrInvalidToken はトークンが検証に通らなかったことを表す。
var ErrInvalidToken = errors.New("トークンが無効です")

// Claims はJWTトークンのクレーム（ペイロード）を表す。
// subにはユーザーのメールアドレスを設定する。
type Claims struct {
	jwt.RegisteredClaims
	// Role はユーザーのロール。リフレッシュトークンには含めない。
	Role string `json:"role,omitempty"`
	// TokenType はアクセストークンかリフレッシュトークンかの区別。
	TokenType string `json:"typ"`
}

// TokenIssuer はHS256で署名したトークンを発行・検証する。
type TokenIssuer struct {
	// secret はHMAC署名用の秘密鍵。
	secret []byte
	// accessTTL はアクセストークンの有効期間。
	accessTTL time.Duration
	// refreshTTL はリフレッシュトークンの有効期間。
	refreshTTL time.Duration
}

// NewTokenIssuer は新しいTokenIssuerを生成する。
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken はメールアドレスとロールを含むアクセストークンを発行する。
func (ti *TokenIssuer) IssueAccessToken(email, role string) (string, error) {
	return ti.sign(Claims{
		RegisteredClaims: ti.registered(email, ti.accessTTL),
		Role:             role,
		TokenType:        tokenTypeAccess,
	})
}

// IssueRefreshToken はリフレッシュトークンを発行する。
func (ti *TokenIssuer) IssueRefreshToken(email string) (string, error) {
	return ti.sign(Claims{
		RegisteredClaims: ti.registered(email, ti.refreshTTL),
		TokenType:        tokenTypeRefresh,
	})
}

// ParseAccessToken はアクセストークンを検証してクレームを返す。
// 署名不正、期限切れ、リフレッシュトークン、subやroleの欠落はすべて ErrInvalidToken になる。
func (ti *TokenIssuer) ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != tokenTypeAccess || claims.Subject == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// registered は共通の登録済みクレームを組み立てる。
func (ti *TokenIssuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuerName,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

// sign はクレームに署名してトークン文字列を返す。
func (ti *TokenIssuer) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}
