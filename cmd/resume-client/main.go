// resume-clientサービスのエントリポイント。
// アップロードされた履歴書と職務記述書をランキングサービスに中継する。
package main

import (
	"log"

	"github.com/nao1215/resumerank/internal/resumeclient"
	"github.com/nao1215/resumerank/pkg/env"
)

func main() {
	port := env.GetOr("PORT", "8082")

	server := resumeclient.NewServer(resumeclient.LoadConfig(port))

	log.Printf("resume-clientサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("resume-clientサービスの起動に失敗: %v", err)
	}
}
