package app

import (
	"context"
	"net/http"

	"authgate/internal/auth"
	"authgate/internal/auth/credentials"
	"authgate/internal/auth/handler"
	"authgate/internal/config"
	"authgate/internal/middleware"
	"authgate/internal/password"
	"authgate/internal/session"
	"authgate/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var (
		sessionStore session.Store
		sweepable    *session.PostgresStore
	)
	if cfg.SessionBackend == "redis" {
		sessionStore = session.NewRedisStore(infra.Redis.Client)
	} else {
		pg := session.NewPostgresStore(infra.DB.DB)
		sessionStore = pg
		sweepable = pg
	}

	userStore := user.NewPostgresStore(infra.DB.DB)

	hasher, err := password.NewHasher(password.Config{
		Time:        cfg.Argon2Time,
		MemoryKB:    cfg.Argon2MemoryKB,
		Parallelism: cfg.Argon2Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		return nil, nil, err
	}

	credentialService := credentials.NewService(userStore, hasher)
	lifecycle := auth.NewManager(sessionStore, userStore, cfg.SessionTTL, cfg.SessionRefreshTTL)

	cookies := session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	authHandler := handler.NewHandler(credentialService, lifecycle, cookies)
	authMiddleware := middleware.NewAuthMiddleware(lifecycle)

	// ----------------------------
	// Router
	// ----------------------------

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		c.File("./web/index.html")
	})
	router.GET("/login", func(c *gin.Context) {
		c.File("./web/login.html")
	})
	router.GET("/signup", func(c *gin.Context) {
		c.File("./web/signup.html")
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		u, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":        u.ID,
			"firstName": u.FirstName,
			"lastName":  u.LastName,
			"email":     u.Email,
		})
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(authMiddleware.WithRedirect("/login")))

	web.GET("/dashboard", func(c *gin.Context) {
		c.File("./web/dashboard.html")
	})

	// ----------------------------
	// Maintenance
	// ----------------------------

	if sweepable != nil && cfg.SweepInterval > 0 {
		go session.NewSweeper(sweepable, cfg.SweepInterval).Run(ctx)
	}

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		return infra.DB.Close()
	}, nil
}
