// Package authclient は認証サービスのトークン検証エンドポイントを呼び出すクライアントを提供する。
//
// gatewayの認証フィルタとresume-clientのランキング中継の両方がこのパッケージを使い、
// 検証結果のスキーマと「失敗したら未認証として扱う」挙動を共有する。
// 通信エラー、タイムアウト、2xx以外のステータス、デコードできないボディは
// すべて無効な判定（Valid == false）に畳み込まれる。
package authclient
