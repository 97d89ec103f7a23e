package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dappstore-io/passport/adapters/events"
	"github.com/dappstore-io/passport/adapters/identity"
	"github.com/dappstore-io/passport/adapters/noncestore"
	"github.com/dappstore-io/passport/adapters/tokenizer"
	"github.com/dappstore-io/passport/adapters/userstore"
	"github.com/dappstore-io/passport/internal/config"
	"github.com/dappstore-io/passport/ports"
	"github.com/dappstore-io/passport/service"
	transport "github.com/dappstore-io/passport/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "passportd: %v\n", err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "passportd").Logger()

	signKey, err := loadSigningKey(cfg.SigningKeyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load signing key")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		watermill.NewStdLogger(cfg.Debug, false),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	var googleVerifier ports.IdentityVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier = identity.NewGoogleVerifier(cfg.GoogleClientID)
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_ID not set; Google login disabled")
	}

	authService := service.NewAuthService(
		noncestore.NewRedisStore(redisClient),
		userstore.NewRedisStore(redisClient),
		tokenizer.NewJWTTokenizer(signKey),
		googleVerifier,
		events.NewWatermillPublisher(publisher),
		log,
	).WithTTLs(cfg.NonceTTL, cfg.SessionTTL)

	router := transport.SetupRouter(authService)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// loadSigningKey reads an EC private key from a PEM file, or generates an
// ephemeral one when no file is configured. An ephemeral key invalidates
// outstanding sessions on restart.
func loadSigningKey(path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC key: %w", err)
	}

	return key, nil
}
