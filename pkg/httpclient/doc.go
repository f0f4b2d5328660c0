// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// gatewayとresume-clientが認証サービスへトークン検証を依頼する際や、
// resume-clientがランキングサービスへファイルを中継する際に使用する。
// 2xx以外のレスポンスは StatusError として呼び出し側に返す。
package httpclient
