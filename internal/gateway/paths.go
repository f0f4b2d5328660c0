package gateway

import "strings"

// DefaultExcludedPaths は認証を必要としないパスの接頭辞を返す。
// 呼び出しごとに新しいスライスを返す。
func DefaultExcludedPaths() []string {
	return []string{
		"/auth/register",
		"/auth/login",
		"/auth/validate",
		"/actuator",
	}
}

// ExcludedPathSet は認証を省略するパス接頭辞の集合。
// 生成後は変更されないため、複数のリクエストから同時に参照してよい。
type ExcludedPathSet struct {
	prefixes []string
}

// NewExcludedPathSet は接頭辞のコピーを保持する ExcludedPathSet を生成する。
func NewExcludedPathSet(prefixes ...string) ExcludedPathSet {
	return ExcludedPathSet{prefixes: append([]string(nil), prefixes...)}
}

// Bypass はパスがいずれかの接頭辞で始まる場合に true を返す。
func (s ExcludedPathSet) Bypass(path string) bool {
	for _, p := range s.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
