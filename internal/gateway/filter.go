package gateway

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/resumerank/pkg/authclient"
	"github.com/nao1215/resumerank/pkg/httpclient"
	"github.com/nao1215/resumerank/pkg/middleware"
)

// statusClientClosedRequest は呼び出し元が切断した場合に記録するステータス。
// 呼び出し元には届かない。
const statusClientClosedRequest = 499

// TokenVerifier はBearerトークンを検証する。
// 呼び出し自体の失敗はエラーとして返す。
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (authclient.Verdict, error)
}

// AuthFilter は全リクエストに適用する認証フィルタ。
// パス判定、トークン抽出、検証、リクエストの書き換えの順に処理し、
// いずれかで拒否した場合は401を返して後続の処理を行わない。
type AuthFilter struct {
	// excluded は認証を省略するパス接頭辞。
	excluded ExcludedPathSet
	// verifier は認証サービスへの検証クライアント。
	verifier TokenVerifier
	// metrics は判定結果の計測先。
	metrics *Metrics
}

// NewAuthFilter は新しい認証フィルタを生成する。
func NewAuthFilter(excluded ExcludedPathSet, verifier TokenVerifier, metrics *Metrics) *AuthFilter {
	return &AuthFilter{
		excluded: excluded,
		verifier: verifier,
		metrics:  metrics,
	}
}

// Handler はフィルタをGinミドルウェアとして返す。
// 他のリクエストを書き換えるミドルウェアより前に登録すること。
func (f *AuthFilter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if f.excluded.Bypass(path) {
			f.metrics.observeDecision(outcomeBypass)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		token, status := middleware.ExtractBearer(authHeader)
		if status != middleware.CredentialPresent {
			// missing と malformed は呼び出し元には区別せず、メトリクスでのみ区別する
			f.metrics.observeDecision(status.String())
			reject(c, msgMissingCredential)
			return
		}

		ctx := c.Request.Context()
		verifyCtx := ctx
		if id := c.GetHeader(httpclient.HeaderRequestID); id != "" {
			verifyCtx = httpclient.WithRequestID(ctx, id)
		}
		start := time.Now()
		verdict, err := f.verifier.Verify(verifyCtx, token)
		f.metrics.observeValidation(time.Since(start).Seconds())

		// 呼び出し元が切断した場合は何も書き換えずに打ち切る
		if ctx.Err() != nil {
			f.metrics.observeDecision(outcomeCancelled)
			log.Printf("[Gateway] 検証中に呼び出し元が切断しました: method=%s path=%s", c.Request.Method, path)
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		if err != nil {
			f.metrics.observeDecision(outcomeFailure)
			log.Printf("[Gateway] トークン検証に失敗: method=%s path=%s error=%v", c.Request.Method, path, err)
			reject(c, msgValidationFailed)
			return
		}
		if !verdict.Valid {
			f.metrics.observeDecision(outcomeInvalid)
			reject(c, msgInvalidToken)
			return
		}

		f.metrics.observeDecision(outcomeAuthenticated)
		c.Request = enrich(c.Request, verdict, authHeader)
		c.Next()
	}
}
