package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// hopByHopHeaders は転送時に引き継がない接続単位のヘッダー。
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// newForwardClient は内部サービスへの転送に使うHTTPクライアントを生成する。
// 接続はプロセス全体で共有する。リダイレクトは追わずにそのまま呼び出し元へ返す。
func newForwardClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 32
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// handleForward はルートテーブルに従ってリクエストを転送するハンドラを返す。
func (s *Server) handleForward() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, ok := s.routes.match(c.Request.URL.Path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no route"})
			return
		}
		s.doProxy(c, route)
	}
}

// doProxy はリクエストを内部サービスにプロキシする共通処理。
// ボディはストリームのまま転送し、レスポンスもそのまま呼び出し元へ返す。
func (s *Server) doProxy(c *gin.Context, route compiledRoute) {
	in := c.Request
	url := route.targetURL(in.URL.Path, in.URL.RawQuery)

	req, err := http.NewRequestWithContext(in.Context(), in.Method, url, in.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build upstream request"})
		return
	}
	req.ContentLength = in.ContentLength
	req.Header = in.Header.Clone()
	removeHopByHop(req.Header)
	appendForwardedFor(req.Header, in.RemoteAddr)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(in.Context().Err(), context.Canceled) {
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		log.Printf("[Gateway] プロキシエラー: route=%s url=%s error=%v", route.ID, url, err)
		s.metrics.observeForward(route.ID, http.StatusBadGateway)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
		return
	}
	defer resp.Body.Close()

	// 同じキーはバックエンドの値で置き換える（CORSやX-Request-IDの重複を防ぐ）
	header := c.Writer.Header()
	for k, vs := range resp.Header {
		header[k] = append([]string(nil), vs...)
	}
	removeHopByHop(header)
	s.metrics.observeForward(route.ID, resp.StatusCode)

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Printf("[Gateway] レスポンスの転送に失敗: route=%s url=%s error=%v", route.ID, url, err)
	}
}

// removeHopByHop は接続単位のヘッダーと Connection に列挙されたヘッダーを削除する。
func removeHopByHop(h http.Header) {
	for _, v := range h.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				h.Del(name)
			}
		}
	}
	for _, name := range hopByHopHeaders {
		h.Del(name)
	}
}

// appendForwardedFor は X-Forwarded-For に接続元のIPを追記する。
func appendForwardedFor(h http.Header, remoteAddr string) {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil || ip == "" {
		return
	}
	if prior := h.Get("X-Forwarded-For"); prior != "" {
		ip = prior + ", " + ip
	}
	h.Set("X-Forwarded-For", ip)
}
