// Package resumeclient はresume-clientサービス（マルチパートリレー）の内部実装を提供する。
//
// POST /resume/rank で履歴書と職務記述書の2ファイルを受け取り、
// 認証サービスでトークンを再検証したうえで、新しいマルチパートリクエストとして
// ランキングサービスの POST /rank に送り直す。
package resumeclient
