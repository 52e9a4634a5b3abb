package main

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"chirper/auth"
	"chirper/crud"
	"chirper/http"
	"chirper/storage"
)

// sessionDuration is the lifetime of the session cookie and its JWT.
const sessionDuration = 15 * 24 * time.Hour

// main is the app's entry point.
func main() {
	config, err := LoadConfig()
	must(err)
	if config.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	must(Open(db, config.IsProd()))
	defer Close(db)
	must(AutoMigrate(db))

	// Construct the S3 client once and hand it to the asset service; every
	// request shares this one configured client.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(config.Storage.Region))
	must(err)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	assets := storage.NewAssetService(s3Client, config.Storage.Bucket, config.Storage.KeyPrefix, config.Storage.BaseURL())

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(assets, config.Pepper),
		crud.WithFollow(),
		crud.WithNotification(),
		crud.WithPost(assets),
		crud.WithLike(),
	)
	must(err)

	// Set up a webserver.
	tokens := auth.NewTokenManager(config.JWTSecret, sessionDuration)
	server := http.NewServer(config.IsProd(), config.CSRFKey, tokens, services)

	// Serve the app.
	server.Run(config.Port)
}

// must is a little helper for shortening the fail-fast instruction.
func must(err error) {
	if err != nil {
		logrus.Fatal(err)
	}
}
