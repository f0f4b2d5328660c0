package gateway

import (
	"net/http"
	"strings"

	"github.com/nao1215/resumerank/pkg/authclient"
)

// 内部サービスにユーザー情報を伝播するためのHTTPヘッダーキー。
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// enrich は検証済みの判定をもとに転送用のリクエストを生成する。
// 元のリクエストは変更しない。ヘッダーは複製してから書き換える。
//
// Authorization は元の値をそのまま設定し直す。Content-Type が multipart の場合も
// boundary を失わないように元の値を設定し直す。
func enrich(r *http.Request, v authclient.Verdict, authHeader string) *http.Request {
	out := r.Clone(r.Context())
	out.Header.Set(HeaderUserEmail, v.Identity)
	out.Header.Set(HeaderUserRole, v.Role)
	out.Header.Set("Authorization", authHeader)

	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "multipart") {
		out.Header.Set("Content-Type", ct)
	}
	return out
}
