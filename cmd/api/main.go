package main

import (
	"io"
	"log"
	"os"

	"github.com/nexttalk/nexttalk-api/internal/config"
	"github.com/nexttalk/nexttalk-api/internal/logging"
	"github.com/nexttalk/nexttalk-api/internal/media"
	miniorepo "github.com/nexttalk/nexttalk-api/internal/repository/minio"
	"github.com/nexttalk/nexttalk-api/internal/repository/postgres"
	"github.com/nexttalk/nexttalk-api/internal/service"
	transport "github.com/nexttalk/nexttalk-api/internal/transport/http"
	"github.com/nexttalk/nexttalk-api/internal/transport/mail"
	"github.com/nexttalk/nexttalk-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash writer disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	userRepo := postgres.NewUserRepo(db)
	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.FrontendBaseURL)
	processor := media.NewFFMPEGProcessor(cfg.FFmpegPath, media.DefaultAvatarSize)

	authService := service.NewAuthService(userRepo, mailer, jwtManager, cfg.PasswordResetTTL, cfg.GoogleAudience)
	userService := service.NewUserService(userRepo, storage, processor, cfg.MinIOBucketProfile, cfg.ProfileImageMaxBytes)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService)
	transport.RegisterUsers(e, authService, userService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
