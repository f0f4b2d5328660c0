// Package env は環境変数からの設定値の読み取りを提供する。
//
// 各サービスは起動時に一度だけ環境変数を読み取り、不変の設定構造体を組み立てる。
// 未設定または解釈できない値はデフォルト値にフォールバックする。
package env

import (
	"log"
	"os"
	"strconv"
	"time"
)

// GetOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func GetOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// DurationOr は環境変数を time.Duration として取得する。
// "5s" や "24h" のような time.ParseDuration 形式を受け付ける。
func DurationOr(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[Config] %s の値が不正なためデフォルト値を使用します: value=%q, default=%s", key, v, defaultValue)
		return defaultValue
	}
	return d
}

// BoolOr は環境変数を真偽値として取得する。
func BoolOr(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[Config] %s の値が不正なためデフォルト値を使用します: value=%q, default=%t", key, v, defaultValue)
		return defaultValue
	}
	return b
}

// Int64Or は環境変数を int64 として取得する。
func Int64Or(key string, defaultValue int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("[Config] %s の値が不正なためデフォルト値を使用します: value=%q, default=%d", key, v, defaultValue)
		return defaultValue
	}
	return n
}
