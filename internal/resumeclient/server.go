package resumeclient

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/resumerank/pkg/authclient"
	"github.com/nao1215/resumerank/pkg/httpclient"
	"github.com/nao1215/resumerank/pkg/middleware"
)

// 呼び出し元に返すエラーメッセージ。
const (
	msgInvalidToken   = "Invalid or expired token"
	msgMissingPart    = "Both resume and job_description files are required"
	msgUploadTooLarge = "Upload too large"
	msgRankingFailed  = "Error ranking resume"
)

// Server はresume-clientサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// relay はランキングサービスへのリレー。
	relay *Relay
	// maxUploadSize はリクエストボディの上限バイト数。
	maxUploadSize int64
	// exposeUpstreamErrors が true の場合、ランキングサービスのエラー内容をレスポンスに含める。
	exposeUpstreamErrors bool
}

// NewServer は新しいresume-clientサーバーを生成する。
func NewServer(cfg Config) *Server {
	validator := authclient.New(cfg.AuthServiceURL, cfg.ValidationTimeout)
	ranker := httpclient.New(cfg.RankerURL, httpclient.WithTimeout(cfg.RankTimeout))
	return newServer(cfg, NewRelay(validator, ranker))
}

// newServer はリレーを差し替えてサーバーを生成する。
func newServer(cfg Config, relay *Relay) *Server {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router:               router,
		port:                 cfg.Port,
		relay:                relay,
		maxUploadSize:        cfg.MaxUploadSize,
		exposeUpstreamErrors: cfg.ExposeUpstreamErrors,
	}
	s.setupRoutes()
	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はルーターをhttp.Handlerとして返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	resume := s.router.Group("/resume")
	{
		resume.POST("/rank", s.handleRank())
		resume.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "Resume Client Service is healthy")
		})
	}
}

// handleRank は履歴書のランキングを依頼するハンドラを返す。
// トークンの検証をファイルの読み込みより先に行う。
func (s *Server) handleRank() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, status := middleware.ExtractBearer(authHeader)
		switch status {
		case middleware.CredentialMissing:
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidToken})
			return
		case middleware.CredentialMalformed:
			// Bearer 接頭辞が無い場合はヘッダーの値をそのままトークンとして扱う
			token = authHeader
		}

		if s.maxUploadSize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadSize)
		}

		result, err := s.relay.Rank(c.Request.Context(), token, func() (FilePart, FilePart, error) {
			return loadParts(c)
		})
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// respondError はリレーのエラーをHTTPステータスに対応付けて返す。
func (s *Server) respondError(c *gin.Context, err error) {
	var (
		tooLarge *http.MaxBytesError
		procErr  *ProcessingError
	)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidToken})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgUploadTooLarge})
	case errors.Is(err, ErrMissingPart):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingPart})
	case errors.As(err, &procErr):
		log.Printf("[Relay] ランキングに失敗: request_id=%s error=%v", middleware.GetRequestID(c), procErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": s.processingMessage(procErr)})
	default:
		log.Printf("[Relay] リクエストの処理に失敗: request_id=%s error=%v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgRankingFailed})
	}
}

// processingMessage は500レスポンスのメッセージを組み立てる。
// ランキングサービスの応答内容は設定で許可された場合にだけ含める。
func (s *Server) processingMessage(err *ProcessingError) string {
	if !s.exposeUpstreamErrors {
		return msgRankingFailed
	}
	if err.StatusCode == 0 {
		return msgRankingFailed + ": ranking service unavailable"
	}
	return fmt.Sprintf("%s: ranking service returned %d - %s", msgRankingFailed, err.StatusCode, err.Body)
}

// loadParts はリクエストから resume と job_description を読み込む。
func loadParts(c *gin.Context) (FilePart, FilePart, error) {
	resume, err := formFilePart(c, fieldResume)
	if err != nil {
		return FilePart{}, FilePart{}, err
	}
	jobDescription, err := formFilePart(c, fieldJobDescription)
	if err != nil {
		return FilePart{}, FilePart{}, err
	}
	return resume, jobDescription, nil
}

func formFilePart(c *gin.Context, field string) (FilePart, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return FilePart{}, err
		}
		return FilePart{}, fmt.Errorf("%w: %s: %w", ErrMissingPart, field, err)
	}
	return ReadFilePart(fh)
}
