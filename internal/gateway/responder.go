package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 認証拒否時のメッセージ。
const (
	msgMissingCredential = "Missing or invalid authorization header"
	msgInvalidToken      = "Invalid or expired token"
	msgValidationFailed  = "Authentication failed"
)

// ErrorEnvelope は拒否レスポンスのボディ。
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// reject は401とエラーボディを書き込み、以降のハンドラを実行しない。
// Content-Type は charset なしの application/json 固定にする。
func reject(c *gin.Context, message string) {
	body, err := json.Marshal(ErrorEnvelope{Error: message})
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Abort()
	c.Data(http.StatusUnauthorized, "application/json", body)
}
