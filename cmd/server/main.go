package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"aegis/internal/jwttoken"
	"aegis/internal/oauth/acr"
	"aegis/internal/oauth/authorize"
	"aegis/internal/oauth/ciba"
	"aegis/internal/oauth/clientauth"
	"aegis/internal/oauth/consent"
	"aegis/internal/oauth/grant"
	"aegis/internal/oauth/request"
	acrstore "aegis/internal/oauth/store/acr"
	authcodestore "aegis/internal/oauth/store/authcode"
	bcastore "aegis/internal/oauth/store/bcauthorize"
	clientstore "aegis/internal/oauth/store/client"
	consentstore "aegis/internal/oauth/store/consent"
	pollstore "aegis/internal/oauth/store/pollwindow"
	resourcestore "aegis/internal/oauth/store/resource"
	scopestore "aegis/internal/oauth/store/scope"
	sessionstore "aegis/internal/oauth/store/session"
	userstore "aegis/internal/oauth/store/user"
	"aegis/internal/oauth/token"
	"aegis/internal/platform/config"
	"aegis/internal/platform/httpserver"
	"aegis/internal/platform/logger"
	"aegis/internal/platform/metrics"
	platformredis "aegis/internal/platform/redis"
	httptransport "aegis/internal/transport/http"
	"aegis/pkg/platform/audit"
	"aegis/pkg/platform/audit/publisher"
	auditkafka "aegis/pkg/platform/audit/store/kafka"
	auditmemory "aegis/pkg/platform/audit/store/memory"
)

// selfIssuedReader adapts the jwt service to the validator's
// id_token_hint reader.
type selfIssuedReader struct {
	tokens *jwttoken.Service
}

func (r selfIssuedReader) ReadSelfIssued(realm, raw string) (*authorize.SelfIssuedClaims, error) {
	claims, err := r.tokens.ReadSelfIssued(realm, raw)
	if err != nil {
		return nil, err
	}
	return &authorize.SelfIssuedClaims{
		Subject:   claims.Subject,
		Audiences: claims.Audience,
	}, nil
}

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}

	// Client registrations come from postgres when a DSN is configured,
	// everything else is realm-scoped in-memory state.
	var clientStore authorize.ClientStore
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		clientStore = clientstore.NewPostgres(db)
	} else {
		clientStore = clientstore.NewInMemory()
	}

	users := userstore.NewInMemory()
	sessions := sessionstore.NewInMemory()
	acrs := acrstore.NewInMemory()
	consents := consentstore.NewInMemory()
	scopes := scopestore.NewInMemory()
	resources := resourcestore.NewInMemory()
	codes := authcodestore.NewInMemory()

	var bcaStore httptransport.BCAuthorizeStore
	var throttle ciba.PollThrottle
	if redisClient != nil {
		bcaStore = bcastore.NewRedis(redisClient.Client)
		throttle = pollstore.NewRedis(redisClient.Client)
	} else {
		bcaStore = bcastore.NewInMemory()
		throttle = pollstore.NewInMemory()
	}

	var auditStore audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := auditkafka.New(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := publisher.NewPublisher(auditStore, publisher.WithAsyncBuffer(256), publisher.WithLogger(log))
	defer auditor.Close()

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.Issuer)

	validator := authorize.NewValidator(
		clientStore,
		grant.NewResolver(scopes, resources),
		request.NewExtractor(),
		consent.NewChecker(consents),
		acr.NewResolver(acrs),
		selfIssuedReader{tokens: tokens},
		authorize.NewResponseTypeRegistry(authorize.DefaultResponseTypeHandlers()...),
		authorize.NewResponseModeRegistry(),
		authorize.Options{GrantManagementActionRequired: cfg.GrantManagementActionRequired},
		log,
		m,
	)

	pipeline, err := token.NewPipeline(
		[]token.Builder{
			token.NewAccessTokenBuilder(tokens, cfg.AccessTokenLifetime),
			token.NewIDTokenBuilder(tokens, cfg.AccessTokenLifetime),
			token.NewRefreshTokenBuilder(),
		},
		token.DefaultProfiles(),
		log,
		m,
	)
	if err != nil {
		log.Error("build token pipeline", "error", err)
		os.Exit(1)
	}

	authenticator := clientauth.NewSecretAuthenticator(clientStore)
	cibaHandler := ciba.NewHandler(
		authenticator,
		users,
		ciba.NewGrantValidator(bcaStore, throttle),
		pipeline,
		bcaStore,
		log,
		m,
	)

	authorizeHandler := httptransport.NewAuthorizeHandler(
		validator, sessions, users, codes, pipeline, auditor, log, cfg.Realm, cfg.Issuer)
	tokenHandler := httptransport.NewTokenHandler(
		map[string]httptransport.GrantHandler{ciba.GrantType: cibaHandler},
		auditor, log, cfg.Realm, cfg.Issuer)
	bcHandler := httptransport.NewBCAuthorizeHandler(
		authenticator, users, sessions, bcaStore, auditor, log,
		cfg.Realm, cfg.Issuer, cfg.BackchannelLifetime, cfg.BackchannelInterval)

	router := httptransport.NewRouter(authorizeHandler, tokenHandler, bcHandler)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting aegis", "addr", cfg.Addr, "realm", cfg.Realm)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
