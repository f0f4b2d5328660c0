// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として機能する。
// 認証不要のパスを除く全リクエストについて、Bearerトークンの検証を認証サービスに委譲し、
// 有効であれば X-User-Email と X-User-Role を付与してからルートテーブルに従って
// 内部サービスに転送する。検証に失敗した場合は理由に関わらず401を返す。
package gateway
