package resumeclient

import (
	"time"

	"github.com/nao1215/resumerank/pkg/env"
)

// defaultMaxUploadSize はアップロード全体の上限の既定値（20MB）。
const defaultMaxUploadSize = 20 << 20

// Config はresume-clientサービスの設定。起動時に一度だけ組み立てる。
type Config struct {
	// Port はリッスンポート。
	Port string
	// AuthServiceURL は認証サービスのベースURL。
	AuthServiceURL string
	// RankerURL はランキングサービスのベースURL。
	RankerURL string
	// ValidationTimeout はトークン検証呼び出しのタイムアウト。
	ValidationTimeout time.Duration
	// RankTimeout はランキング呼び出しのタイムアウト。
	RankTimeout time.Duration
	// MaxUploadSize はリクエストボディ全体の上限バイト数。
	MaxUploadSize int64
	// ExposeUpstreamErrors が true の場合、ランキングサービスのエラー内容を500レスポンスに含める。
	ExposeUpstreamErrors bool
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// LoadConfig は環境変数から設定を読み込む。
func LoadConfig(port string) Config {
	return Config{
		Port:                 port,
		AuthServiceURL:       env.GetOr("AUTH_SERVICE_URL", "http://localhost:8081"),
		RankerURL:            env.GetOr("RESUME_RANKER_URL", "http://localhost:8000"),
		ValidationTimeout:    env.DurationOr("VALIDATION_TIMEOUT", 5*time.Second),
		RankTimeout:          env.DurationOr("RANK_TIMEOUT", 120*time.Second),
		MaxUploadSize:        env.Int64Or("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
		ExposeUpstreamErrors: env.BoolOr("EXPOSE_UPSTREAM_ERRORS", false),
		AllowedOrigins:       []string{env.GetOr("FRONTEND_URL", "*")},
	}
}
