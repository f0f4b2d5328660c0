// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// Authorizationヘッダーからの Bearer トークン抽出、リクエストIDの付与、
// パニックリカバリ、CORS設定など、全サービスで共通して使用する処理を含む。
// トークンの検証自体は行わない。検証は認証サービスに委譲する（pkg/authclient）。
package middleware
