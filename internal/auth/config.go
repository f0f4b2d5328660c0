package auth

import (
	"time"

	"github.com/nao1215/resumerank/pkg/env"
	"golang.org/x/crypto/bcrypt"
)

// Config は認証サービスの設定。起動時に一度だけ組み立てる。
type Config struct {
	// Port はリッスンポート。
	Port string
	// DBPath はSQLiteデータベースのDSN。
	DBPath string
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string
	// AccessTokenTTL はアクセストークンの有効期間。
	AccessTokenTTL time.Duration
	// RefreshTokenTTL はリフレッシュトークンの有効期間。
	RefreshTokenTTL time.Duration
	// BcryptCost はパスワードハッシュのコスト。
	BcryptCost int
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig(port string) Config {
	return Config{
		Port:            port,
		DBPath:          env.GetOr("DB_PATH", "/data/auth.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		JWTSecret:       env.GetOr("JWT_SECRET", "dev-secret-key"),
		AccessTokenTTL:  env.DurationOr("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: env.DurationOr("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:      bcrypt.DefaultCost,
		AllowedOrigins:  []string{env.GetOr("FRONTEND_URL", "*")},
	}
}
