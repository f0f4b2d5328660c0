package authclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/resumerank/pkg/httpclient"
)

// ValidatePath は認証サービスのトークン検証エンドポイントのパス。
const ValidatePath = "/auth/validate"

// ErrMalformedVerdict は検証レスポンスが判定の不変条件を満たさないことを表す。
var ErrMalformedVerdict = errors.New("検証レスポンスが不正です")

// Verdict はトークン検証の判定結果。
// Valid が true の場合に限り Identity と Role が設定される。
type Verdict struct {
	// Valid はトークンが有効かどうか。
	Valid bool
	// Identity は認証済みユーザーの識別子（メールアドレス）。
	Identity string
	// Role はユーザーのロール。
	Role string
}

// invalid は失敗時に返す判定。
var invalid = Verdict{}

// validationResponse は認証サービスの検証レスポンス。
// username と role は無効時に null になる。
type validationResponse struct {
	Valid    bool    `json:"valid"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
}

// Client は認証サービスへのトークン検証クライアント。
// 並行して複数のリクエストから呼び出してよい。
type Client struct {
	// http は認証サービスへのHTTPクライアント。
	http *httpclient.Client
}

// New は新しい検証クライアントを生成する。
// timeoutは検証呼び出し1回あたりの上限時間。
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: httpclient.New(baseURL, httpclient.WithTimeout(timeout)),
	}
}

// Verify はトークンを認証サービスに送り、判定を返す。
// 呼び出し自体が失敗した場合はエラーを返す。その場合も判定は無効として扱うこと。
// 認証サービスが「無効」と応答した場合はエラーではなく Valid == false の判定を返す。
func (c *Client) Verify(ctx context.Context, token string) (Verdict, error) {
	var resp validationResponse
	if err := c.http.PostJSON(ctx, ValidatePath, nil, &resp, httpclient.WithBearer(token)); err != nil {
		return invalid, fmt.Errorf("トークン検証の呼び出しに失敗: %w", err)
	}
	return resp.verdict()
}

// Validate はトークンが有効かどうかだけを返す。
// 呼び出しに失敗した場合は false を返す。
func (c *Client) Validate(ctx context.Context, token string) bool {
	v, err := c.Verify(ctx, token)
	return err == nil && v.Valid
}

// ValidateWithDetails は判定の詳細を返す。
// 呼び出しに失敗した場合は無効な判定を返す。
func (c *Client) ValidateWithDetails(ctx context.Context, token string) Verdict {
	v, err := c.Verify(ctx, token)
	if err != nil {
		return invalid
	}
	return v
}

// verdict はレスポンスを判定に変換する。
// 有効なのにユーザー名かロールが欠けている応答は不正として扱う。
func (r validationResponse) verdict() (Verdict, error) {
	if !r.Valid {
		return invalid, nil
	}
	if r.Username == nil || *r.Username == "" || r.Role == nil || *r.Role == "" {
		return invalid, ErrMalformedVerdict
	}
	return Verdict{Valid: true, Identity: *r.Username, Role: *r.Role}, nil
}
