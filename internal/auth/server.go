package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nao1215/resumerank/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// defaultRole は登録時にロールが指定されなかった場合のロール。
const defaultRole = "USER"

// Server は認証サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// db はSQLiteデータベース接続。
	db *sql.DB
	// store はユーザーレコードのストア。
	store *Store
	// tokens はトークンの発行と検証を行う。
	tokens *TokenIssuer
	// bcryptCost はパスワードハッシュのコスト。
	bcryptCost int
}

// NewServer は新しい認証サーバーを生成する。
func NewServer(cfg Config) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	return newServer(router, sqlDB, cfg), nil
}

// newServer はルーターとDB接続からサーバーを組み立てる。
func newServer(router *gin.Engine, db *sql.DB, cfg Config) *Server {
	s := &Server{
		router:     router,
		port:       cfg.Port,
		db:         db,
		store:      NewStore(db),
		tokens:     NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		bcryptCost: cfg.BcryptCost,
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

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	auth := s.router.Group("/auth")
	{
		auth.POST("/register", s.handleRegister())
		auth.POST("/login", s.handleLogin())
		// gateway と resume-client から呼び出されるトークン検証
		auth.POST("/validate", s.handleValidate())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth"})
	})
}

// registerRequest はユーザー登録リクエスト。
type registerRequest struct {
	// Name は表示名。
	Name string `json:"name" binding:"required"`
	// Email はメールアドレス。
	Email string `json:"email" binding:"required,email"`
	// Password は平文のパスワード。bcryptの入力上限に合わせて72バイトまで。
	Password string `json:"password" binding:"required,min=6,max=72"`
	// Role はロール。省略時は USER。
	Role string `json:"role"`
}

// loginRequest はログインリクエスト。
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse は登録・ログイン成功時のレスポンス。
type authResponse struct {
	// Token はアクセストークン。
	Token string `json:"token"`
	// RefreshToken はリフレッシュトークン。
	RefreshToken string `json:"refreshToken"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Role はユーザーのロール。
	Role string `json:"role"`
}

// validateResponse はトークン検証のレスポンス。
// 無効な場合 username と role は null になる。
type validateResponse struct {
	Valid    bool    `json:"valid"`
	Username *string `json:"username"`
	Role     *string `json:"role"`
}

// handleRegister はユーザー登録を処理するハンドラを返す。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration request"})
			return
		}
		role := req.Role
		if role == "" {
			role = defaultRole
		}

		ctx := c.Request.Context()
		exists, err := s.store.ExistsByEmail(ctx, req.Email)
		if err != nil {
			log.Printf("[Auth] ユーザーの存在確認に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			log.Printf("[Auth] パスワードのハッシュ化に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}

		err = s.store.CreateUser(ctx, User{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         role,
		})
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		if err != nil {
			log.Printf("[Auth] ユーザー登録に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}

		s.respondWithTokens(c, req.Email, role)
	}
}

// handleLogin はログインを処理するハンドラを返す。
// ユーザーが存在しない場合とパスワードが一致しない場合は同じ応答を返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request"})
			return
		}

		user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if err != nil {
			log.Printf("[Auth] ユーザー取得に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		s.respondWithTokens(c, user.Email, user.Role)
	}
}

// handleValidate はトークン検証を処理するハンドラを返す。
// 検証結果に関わらず常に200を返し、可否はボディの valid で表す。
func (s *Server) handleValidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, status := middleware.ExtractBearer(header)
		switch status {
		case middleware.CredentialMissing:
			c.JSON(http.StatusOK, validateResponse{Valid: false})
			return
		case middleware.CredentialMalformed:
			// Bearer 接頭辞なしで送られたトークンもそのまま検証する
			token = header
		}

		claims, err := s.tokens.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusOK, validateResponse{Valid: false})
			return
		}
		c.JSON(http.StatusOK, validateResponse{
			Valid:    true,
			Username: &claims.Subject,
			Role:     &claims.Role,
		})
	}
}

// respondWithTokens はアクセストークンとリフレッシュトークンを発行して返す。
func (s *Server) respondWithTokens(c *gin.Context, email, role string) {
	token, err := s.tokens.IssueAccessToken(email, role)
	if err != nil {
		log.Printf("[Auth] アクセストークン生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token issuance failed"})
		return
	}
	refresh, err := s.tokens.IssueRefreshToken(email)
	if err != nil {
		log.Printf("[Auth] リフレッシュトークン生成に失敗: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, authResponse{
		Token:        token,
		RefreshToken: refresh,
		Email:        email,
		Role:         role,
	})
}
