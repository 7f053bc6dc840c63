package api

import (
	"context"
	"log"

	"tender-backend/internal/app/config"
	"tender-backend/internal/app/dsn"
	"tender-backend/internal/app/handler"
	"tender-backend/internal/app/middleware"
	"tender-backend/internal/app/redis"
	"tender-backend/internal/app/repository"
	"tender-backend/internal/app/storage"
	"tender-backend/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal("ошибка чтения конфигурации: ", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatal("ошибка инициализации репозитория: ", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		// Без Redis нельзя отзывать токены — останавливаемся
		logrus.Fatal("ошибка подключения к Redis: ", err)
	}

	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		// Документы заявок опциональны, сервер работает и без MinIO
		logrus.Error("ошибка подключения к MinIO, загрузка документов недоступна: ", err)
		minioClient = nil
	}

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	app := pkg.NewApp(cfg, r, apiHandler, authMiddleware)
	app.RunApp()

	log.Println("Server down")
}
