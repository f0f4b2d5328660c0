// Package auth は認証サービス（トークン発行者）の内部実装を提供する。
//
// ユーザー登録、ログイン、トークン検証の3つのエンドポイントを持つ。
// gatewayとresume-clientは /auth/validate を呼び出してトークンの有効性と
// ユーザーのメールアドレス・ロールを確認する。ユーザーはSQLiteに保存し、
// パスワードはbcryptでハッシュ化する。
package auth
