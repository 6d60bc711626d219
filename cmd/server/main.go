package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/cyd0c/linkUp/internal/config"
	"github.com/cyd0c/linkUp/internal/database"
	"github.com/cyd0c/linkUp/internal/handler"
	"github.com/cyd0c/linkUp/internal/middleware"
	"github.com/cyd0c/linkUp/internal/queue"
	"github.com/cyd0c/linkUp/internal/repository"
	"github.com/cyd0c/linkUp/internal/router"
	"github.com/cyd0c/linkUp/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	uploads, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	jobs := repository.NewJobRepo(db)
	projects := repository.NewProjectRepo(db)
	payments := repository.NewPaymentRepo(db)
	messages := repository.NewMessageRepo(db)
	reviews := repository.NewReviewRepo(db)
	blogs := repository.NewBlogRepo(db)
	stats := repository.NewStatsRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Redis is optional: without it the API runs unthrottled and uncached.
	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, accounts, tokens, uploads), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(accounts, jobs, projects, reviews, blogs), cacheMW)
	router.RegisterClient(e, handler.NewClientHandler(jobs, projects, payments, messages), cfg.JWTSecret)
	router.RegisterStudent(e, handler.NewStudentHandler(accounts, jobs, projects, payments, messages, uploads), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(accounts, tokens, projects, reviews, blogs, stats), cfg.JWTSecret)
	router.RegisterBlog(e, handler.NewBlogHandler(blogs), cfg.JWTSecret)
	router.RegisterMessages(e, handler.NewMessageHandler(accounts, projects, messages), cfg.JWTSecret)
	router.RegisterReviews(e, handler.NewReviewHandler(projects, reviews), cfg.JWTSecret)

	// Uploaded files (final deliverables, resumes, proofs) are served from
	// disk under /static/uploads; stored references already carry the
	// uploads/ prefix.
	e.Static("/static/uploads", cfg.UploadDir)

	// Workflow event consumer; keeps reconnecting in the background and never
	// blocks startup when the broker is down.
	go func() {
		if err := queue.StartWorkflowConsumer(); err != nil {
			log.Printf("rabbitmq consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
