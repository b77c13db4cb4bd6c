// Server runs the procurement HTTP API. Access tokens are issued by an
// external identity provider; set JWT_PUBLIC_KEY (inline PEM or path) in
// production. In development with no key configured an ephemeral signer is
// generated and a sample token is logged.
package main

import (
	"context"
	"crypto"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurehub/internal/config"
	"procurehub/internal/db"
	"procurehub/internal/platform/access"
	"procurehub/internal/security"
	"procurehub/internal/server"
	"procurehub/internal/telemetry"
	otelsetup "procurehub/internal/telemetry/otel"
	"procurehub/internal/telemetry/producer"

	assetrepo "procurehub/internal/asset/repository"
	auditrepo "procurehub/internal/audit/repository"
	evaluationrepo "procurehub/internal/evaluation/repository"
	membershiprepo "procurehub/internal/membership/repository"
	organizationrepo "procurehub/internal/organization/repository"
	projectrepo "procurehub/internal/project/repository"
	workpackagerepo "procurehub/internal/workpackage/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "procurehub-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()

	publicKey := loadVerificationKey(cfg)
	tokens := security.NewTokenValidator(publicKey, cfg.JWTIssuer, cfg.JWTAudience)

	var emitter telemetry.EventEmitter
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		kp, err := producer.NewKafkaProducer(brokers, cfg.TelemetryKafkaTopic)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		if kp != nil {
			defer kp.Close()
			emitter = kp
		}
	} else if cfg.OTLPEndpoint != "" {
		emitter = otelsetup.NewEventEmitter(providers.LoggerProvider)
	}

	app := server.New(server.Deps{
		Tokens:           tokens,
		AccessStore:      access.NewPostgresStore(sqlDB),
		OrganizationRepo: organizationrepo.NewPostgresRepository(sqlDB),
		MembershipRepo:   membershiprepo.NewPostgresRepository(sqlDB),
		ProjectRepo:      projectrepo.NewPostgresRepository(sqlDB),
		PackageRepo:      workpackagerepo.NewPostgresRepository(sqlDB),
		AssetRepo:        assetrepo.NewPostgresRepository(sqlDB),
		EvaluationRepo:   evaluationrepo.NewPostgresRepository(sqlDB),
		AuditRepo:        auditrepo.NewPostgresRepository(sqlDB),
		Emitter:          emitter,
		HealthPinger:     sqlDB,
	})

	go func() {
		log.Printf("http server listening on %s", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down http server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
	// Let in-flight async telemetry emits finish before tearing down providers.
	time.Sleep(telemetry.ShutdownDrainDuration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
	log.Println("http server stopped")
}

// loadVerificationKey returns the configured JWT public key, or an ephemeral
// development keypair when none is set outside production.
func loadVerificationKey(cfg *config.Config) crypto.PublicKey {
	if cfg.JWTPublicKey != "" {
		key, err := security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			log.Fatalf("jwt public key: %v", err)
		}
		return key
	}
	signer, err := security.NewDevSigner(cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		log.Fatalf("dev signer: %v", err)
	}
	token, err := signer.Sign("dev-user-001", "dev-org-001", "dev-session", "dev@example.com", 24*time.Hour)
	if err != nil {
		log.Fatalf("dev signer: %v", err)
	}
	log.Printf("JWT_PUBLIC_KEY not set; using ephemeral dev keypair. Sample token:\n%s", token)
	return signer.PublicKey()
}
