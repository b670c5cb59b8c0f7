// Server exposes the HTTP API: feature flips, jeune creation, archival, and
// the support commands.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	agencerepo "pass-accompagnement/backend/internal/agence/repository"
	agenceservice "pass-accompagnement/backend/internal/agence/service"
	animationrepo "pass-accompagnement/backend/internal/animationcollective/repository"
	archiverepo "pass-accompagnement/backend/internal/archivejeune/repository"
	archiveservice "pass-accompagnement/backend/internal/archivejeune/service"
	"pass-accompagnement/backend/internal/audit"
	auditrepo "pass-accompagnement/backend/internal/audit/repository"
	"pass-accompagnement/backend/internal/authz"
	"pass-accompagnement/backend/internal/chat"
	"pass-accompagnement/backend/internal/config"
	conseillerrepo "pass-accompagnement/backend/internal/conseiller/repository"
	"pass-accompagnement/backend/internal/db"
	ffrepo "pass-accompagnement/backend/internal/featureflip/repository"
	ffservice "pass-accompagnement/backend/internal/featureflip/service"
	"pass-accompagnement/backend/internal/idp"
	jeunerepo "pass-accompagnement/backend/internal/jeune/repository"
	jeuneservice "pass-accompagnement/backend/internal/jeune/service"
	"pass-accompagnement/backend/internal/jobs"
	"pass-accompagnement/backend/internal/mail"
	"pass-accompagnement/backend/internal/security"
	"pass-accompagnement/backend/internal/server"
	"pass-accompagnement/backend/internal/suivijob"
	"pass-accompagnement/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "pass-accompagnement-api", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	verifier := security.NewVerifier(publicKey, cfg.JWTIssuer, cfg.JWTAudience)

	migrationDate, err := cfg.MigrationDate()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	jeunes := jeunerepo.NewPostgresRepository(conn)
	conseillers := conseillerrepo.NewPostgresRepository(conn)
	agences := agencerepo.NewPostgresRepository(conn)
	animations := animationrepo.NewPostgresRepository(conn)
	flags := ffrepo.NewPostgresRepository(conn)
	archives := archiverepo.NewPostgresRepository(conn)
	chats := chat.NewPostgresRepository(conn)

	idpClient := idp.NewClient(cfg.IDPBaseURL, cfg.IDPToken)
	mailer := mail.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoBaseURL, cfg.ArchiveEmailTemplateID)

	featureFlips := ffservice.NewFeatureFlipService(flags, migrationDate)
	jeuneSvc := jeuneservice.NewJeuneService(jeunes, conseillers, nil)
	archiveSvc := archiveservice.NewArchiveService(jeunes, archives, idpClient, chats, mailer, nil)
	agenceSvc := agenceservice.NewAgenceService(conseillers, agences, animations, db.NewTransactor(conn))
	migrationJob := jobs.NewArchiverJeunesMigrationJob(featureFlips, archiveSvc, nil)

	authorizer, err := authz.NewAuthorizer(jeunes)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn))

	var emitter suivijob.Emitter
	if p := suivijob.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.SuiviJobKafkaTopic); p != nil {
		emitter = p
		defer p.Close()
	}

	srv := server.NewServer(server.Deps{
		Verifier:     verifier,
		Authz:        authorizer,
		FeatureFlips: featureFlips,
		FlagAdmin:    flags,
		Jeunes:       jeuneSvc,
		Archives:     archiveSvc,
		Agences:      agenceSvc,
		Migration:    migrationJob,
		Audit:        auditLogger,
		DB:           conn,
		Emitter:      emitter,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
