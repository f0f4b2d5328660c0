// API Gatewayサービスのエントリポイント。
// 全リクエストの認証判定と、内部サービスへのルーティングを担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/nao1215/resumerank/internal/gateway"
	"github.com/nao1215/resumerank/pkg/env"
)

func main() {
	port := env.GetOr("PORT", "8080")

	cfg, err := gateway.LoadConfig(port)
	if err != nil {
		log.Fatalf("Gatewayの設定読み込みに失敗: %v", err)
	}

	server, err := gateway.NewServer(cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Gatewayサービスを起動します: :%s (routes=%d)", port, len(cfg.Routes))
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
