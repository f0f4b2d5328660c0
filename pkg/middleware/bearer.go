package middleware

import "strings"

// BearerPrefix はAuthorizationヘッダーのBearerスキームの接頭辞。
const BearerPrefix = "Bearer "

// CredentialStatus はAuthorizationヘッダーの解析結果。
type CredentialStatus int

const (
	// CredentialMissing はヘッダーが無いか空であることを表す。
	CredentialMissing CredentialStatus = iota
	// CredentialMalformed はヘッダーがBearer形式ではないことを表す。
	CredentialMalformed
	// CredentialPresent はBearerトークンを取り出せたことを表す。
	CredentialPresent
)

// String はログ出力用の表現を返す。
func (s CredentialStatus) String() string {
	switch s {
	case CredentialMissing:
		return "missing"
	case CredentialMalformed:
		return "malformed"
	case CredentialPresent:
		return "present"
	default:
		return "unknown"
	}
}

// ExtractBearer はAuthorizationヘッダーの値からBearerトークンを取り出す。
// 接頭辞 "Bearer " の後ろはトリムせずにそのまま返す。
// CredentialPresent 以外の場合、トークンは空文字列になる。
func ExtractBearer(header string) (string, CredentialStatus) {
	if header == "" {
		return "", CredentialMissing
	}
	token, found := strings.CutPrefix(header, BearerPrefix)
	if !found {
		return "", CredentialMalformed
	}
	return token, CredentialPresent
}
