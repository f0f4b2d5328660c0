package gateway

import (
	"fmt"
	"time"

	"github.com/nao1215/resumerank/pkg/env"
)

// Config はgatewayの設定。起動時に一度だけ組み立て、以降は変更しない。
type Config struct {
	// Port はリッスンポート。
	Port string
	// AuthServiceURL は認証サービスのベースURL。
	AuthServiceURL string
	// Routes は転送先の定義。宣言順に評価する。
	Routes []Route
	// ExcludedPaths は認証を省略するパス接頭辞。
	ExcludedPaths []string
	// ValidationTimeout はトークン検証呼び出しのタイムアウト。
	ValidationTimeout time.Duration
	// ForwardTimeout は内部サービスへの転送のタイムアウト。
	ForwardTimeout time.Duration
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// LoadConfig は環境変数から設定を読み込む。
// GATEWAY_ROUTES_FILE が設定されている場合はYAMLファイルのルート定義を使う。
func LoadConfig(port string) (Config, error) {
	authURL := env.GetOr("AUTH_SERVICE_URL", "http://localhost:8081")
	cfg := Config{
		Port:              port,
		AuthServiceURL:    authURL,
		ExcludedPaths:     DefaultExcludedPaths(),
		ValidationTimeout: env.DurationOr("VALIDATION_TIMEOUT", 5*time.Second),
		ForwardTimeout:    env.DurationOr("FORWARD_TIMEOUT", 60*time.Second),
		AllowedOrigins:    []string{env.GetOr("FRONTEND_URL", "http://localhost:8501")},
		Routes: []Route{
			{ID: "auth-service", Prefix: "/auth", URI: authURL},
			{ID: "resume-client-service", Prefix: "/resume", URI: env.GetOr("RESUME_CLIENT_URL", "http://localhost:8082")},
		},
	}

	if path := env.GetOr("GATEWAY_ROUTES_FILE", ""); path != "" {
		routes, err := LoadRoutes(path)
		if err != nil {
			return Config{}, fmt.Errorf("ルート定義の読み込みに失敗: %w", err)
		}
		cfg.Routes = routes
	}
	return cfg, nil
}
