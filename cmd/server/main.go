// Command server runs the innovation portal gateway. main wires the stores,
// services, and HTTP surface; business logic lives in the internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticshandler "innoport/internal/analytics/handler"
	analyticsservice "innoport/internal/analytics/service"
	"innoport/internal/authz"
	collabhandler "innoport/internal/collab/handler"
	collabservice "innoport/internal/collab/service"
	collabstore "innoport/internal/collab/store"
	identityhandler "innoport/internal/identity/handler"
	identitymetrics "innoport/internal/identity/metrics"
	"innoport/internal/identity/password"
	identityservice "innoport/internal/identity/service"
	"innoport/internal/identity/session"
	identitystore "innoport/internal/identity/store"
	"innoport/internal/identity/store/revocation"
	interesthandler "innoport/internal/interest/handler"
	interestservice "innoport/internal/interest/service"
	intereststore "innoport/internal/interest/store"
	patenthandler "innoport/internal/patent/handler"
	patentservice "innoport/internal/patent/service"
	patentstore "innoport/internal/patent/store"
	"innoport/internal/platform/config"
	"innoport/internal/platform/httpserver"
	"innoport/internal/platform/logger"
	platformmetrics "innoport/internal/platform/metrics"
	"innoport/internal/platform/postgres"
	platformredis "innoport/internal/platform/redis"
	researchhandler "innoport/internal/research/handler"
	researchservice "innoport/internal/research/service"
	researchstore "innoport/internal/research/store"
	startuphandler "innoport/internal/startup/handler"
	startupservice "innoport/internal/startup/service"
	startupstore "innoport/internal/startup/store"
	httptransport "innoport/internal/transport/http"
	audit "innoport/pkg/platform/audit"
	auditpub "innoport/pkg/platform/audit/publisher"
	auditmemory "innoport/pkg/platform/audit/store/memory"
	auditpostgres "innoport/pkg/platform/audit/store/postgres"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Store selection: PostgreSQL when configured, in-memory otherwise.
	var (
		userStore    identitystore.UserStore
		profileStore identitystore.ProfileStore
		roleStore    identitystore.RoleStore
		auditStore   audit.Store
	)
	var atomic identitystore.Atomic = identitystore.PassthroughAtomic{}
	if db != nil {
		atomic = identitystore.NewPostgresAtomic(db)
		userStore = identitystore.NewPostgresUserStore(db)
		profileStore = identitystore.NewPostgresProfileStore(db)
		roleStore = identitystore.NewPostgresRoleStore(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		userStore = identitystore.NewInMemoryUserStore()
		profileStore = identitystore.NewInMemoryProfileStore()
		roleStore = identitystore.NewInMemoryRoleStore()
		auditStore = auditmemory.NewInMemoryStore()
	}

	var projects researchstore.Store = researchstore.NewInMemoryStore()
	var patents patentstore.Store = patentstore.NewInMemoryStore()
	var startups startupstore.Store = startupstore.NewInMemoryStore()
	var collabs collabstore.Store = collabstore.NewInMemoryStore()
	var interest intereststore.Store = intereststore.NewInMemoryStore()
	if db != nil {
		projects = researchstore.NewPostgres(db)
		patents = patentstore.NewPostgres(db)
		startups = startupstore.NewPostgres(db)
		collabs = collabstore.NewPostgres(db)
		interest = intereststore.NewPostgres(db)
	}

	var revocations identityservice.RevocationList
	if redisClient != nil {
		revocations = revocation.NewRedisList(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-memory revocation list")
		revocations = revocation.NewInMemoryList()
	}

	auditor := auditpub.NewPublisher(auditStore,
		auditpub.WithAsyncBuffer(128),
		auditpub.WithLogger(log),
	)
	defer auditor.Close()

	procMetrics := platformmetrics.New()
	idMetrics := identitymetrics.New()

	tokens := identityservice.NewTokenIssuer(cfg.Auth.JWTSigningKey, cfg.Auth.AccessTokenTTL)
	resolver := authz.NewResolver(roleStore, log)
	sessionState := session.New(profileStore, resolver, log)
	// Resolve the initial session up front so the state's loading flag
	// drops before the server accepts traffic.
	sessionState.InitialSession(context.Background(), session.NoStoredSession{})
	guard := authz.NewGuard(resolver, log, procMetrics.GuardDecisions)

	identitySvc, err := identityservice.New(identityservice.Deps{
		Users:       userStore,
		Profiles:    profileStore,
		Roles:       roleStore,
		Hasher:      password.NewHasher(nil),
		Tokens:      tokens,
		Revocations: revocations,
		Auditor:     auditor,
		Metrics:     idMetrics,
		Logger:      log,
		Sink:        sessionState,
		Atomic:      atomic,
	})
	if err != nil {
		log.Error("identity service init failed", "error", err)
		os.Exit(1)
	}

	researchSvc, err := researchservice.New(projects, resolver, auditor, log)
	if err != nil {
		log.Error("research service init failed", "error", err)
		os.Exit(1)
	}
	patentSvc, err := patentservice.New(patents, resolver, auditor, log)
	if err != nil {
		log.Error("patent service init failed", "error", err)
		os.Exit(1)
	}
	startupSvc, err := startupservice.New(startups, resolver, auditor, log)
	if err != nil {
		log.Error("startup service init failed", "error", err)
		os.Exit(1)
	}
	interestSvc, err := interestservice.New(interest, startups, resolver, auditor, log)
	if err != nil {
		log.Error("interest service init failed", "error", err)
		os.Exit(1)
	}
	collabSvc, err := collabservice.New(collabs, projects, resolver, auditor, log)
	if err != nil {
		log.Error("collaboration service init failed", "error", err)
		os.Exit(1)
	}
	analyticsSvc, err := analyticsservice.New(projects, patents, startups, collabs, interest, log)
	if err != nil {
		log.Error("analytics service init failed", "error", err)
		os.Exit(1)
	}

	var health httptransport.HealthChecker
	if redisClient != nil {
		health = redisClient
	}
	router := httptransport.NewRouter(httptransport.Deps{
		Identity:  identityhandler.New(identitySvc, log),
		Research:  researchhandler.New(researchSvc, log),
		Patents:   patenthandler.New(patentSvc, log),
		Startups:  startuphandler.New(startupSvc, log),
		Interest:  interesthandler.New(interestSvc, log),
		Collab:    collabhandler.New(collabSvc, log),
		Analytics: analyticshandler.New(analyticsSvc, log),
		Guard:     guard,
		Validator: tokens,
		Revoked:   revocations,
		Metrics:   procMetrics,
		Logger:    log,
		Health:    health,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting innovation portal", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
