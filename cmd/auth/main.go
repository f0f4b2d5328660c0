// 認証サービスのエントリポイント。
// ユーザー登録、ログイン、トークン検証を担当する。
package main

import (
	"log"

	"github.com/nao1215/resumerank/internal/auth"
	"github.com/nao1215/resumerank/pkg/env"
)

func main() {
	port := env.GetOr("PORT", "8081")

	server, err := auth.NewServer(auth.LoadConfig(port))
	if err != nil {
		log.Fatalf("認証サーバーの初期化に失敗: %v", err)
	}

	log.Printf("認証サービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		_ = server.Close()
		log.Fatalf("認証サービスの起動に失敗: %v", err)
	}
}
