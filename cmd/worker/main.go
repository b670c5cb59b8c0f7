// Worker runs the batch jobs: recurring ones on a cron schedule, delayed ones
// from the scheduled_job table, and forwards job reports from Kafka to Loki.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/segmentio/kafka-go"

	archiverepo "pass-accompagnement/backend/internal/archivejeune/repository"
	archiveservice "pass-accompagnement/backend/internal/archivejeune/service"
	"pass-accompagnement/backend/internal/chat"
	"pass-accompagnement/backend/internal/config"
	conseillerrepo "pass-accompagnement/backend/internal/conseiller/repository"
	"pass-accompagnement/backend/internal/db"
	ffrepo "pass-accompagnement/backend/internal/featureflip/repository"
	ffservice "pass-accompagnement/backend/internal/featureflip/service"
	"pass-accompagnement/backend/internal/fichier"
	"pass-accompagnement/backend/internal/idp"
	jeunerepo "pass-accompagnement/backend/internal/jeune/repository"
	"pass-accompagnement/backend/internal/jobs"
	"pass-accompagnement/backend/internal/mail"
	"pass-accompagnement/backend/internal/notification"
	"pass-accompagnement/backend/internal/planificateur"
	"pass-accompagnement/backend/internal/suivijob"
)

const (
	pollInterval     = 20 * time.Second
	pollBatchSize    = 10
	delaiEntreEnvois = 100 * time.Millisecond
)

type registry struct {
	notifier  *jobs.NotifierBeneficiairesJob
	mailing   *jobs.MajMailingListsJob
	nettoyage *jobs.NettoyerPiecesJointesJob
	migration *jobs.ArchiverJeunesMigrationJob
	emitter   suivijob.Emitter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is not set")
	}

	loc, err := time.LoadLocation(config.TimezoneEuropeParis)
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}
	migrationDate, err := cfg.MigrationDate()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	jeunes := jeunerepo.NewPostgresRepository(conn)
	conseillers := conseillerrepo.NewPostgresRepository(conn)
	flags := ffrepo.NewPostgresRepository(conn)
	archives := archiverepo.NewPostgresRepository(conn)
	chats := chat.NewPostgresRepository(conn)
	fichiers := fichier.NewPostgresRepository(conn)
	scheduler := planificateur.NewPostgresRepository(conn)

	idpClient := idp.NewClient(cfg.IDPBaseURL, cfg.IDPToken)
	mailer := mail.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoBaseURL, cfg.ArchiveEmailTemplateID)
	push := notification.NewPushClient(cfg.PushGatewayURL, cfg.PushGatewayToken)

	featureFlips := ffservice.NewFeatureFlipService(flags, migrationDate)
	archiveSvc := archiveservice.NewArchiveService(jeunes, archives, idpClient, chats, mailer, nil)

	reg := &registry{
		notifier:  jobs.NewNotifierBeneficiairesJob(jeunes, push, scheduler, loc, delaiEntreEnvois, nil),
		mailing:   jobs.NewMajMailingListsJob(conseillers, mailer, cfg.MailingLists(), nil),
		nettoyage: jobs.NewNettoyerPiecesJointesJob(fichiers, chats, nil),
		migration: jobs.NewArchiverJeunesMigrationJob(featureFlips, archiveSvc, nil),
	}
	if p := suivijob.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.SuiviJobKafkaTopic); p != nil {
		reg.emitter = p
		defer p.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc("0 4 * * 1", func() {
		suivijob.EmitAsync(reg.emitter, reg.mailing.Execute(ctx))
	}); err != nil {
		log.Fatalf("cron: %v", err)
	}
	if _, err := c.AddFunc("0 3 * * *", func() {
		suivijob.EmitAsync(reg.emitter, reg.nettoyage.Execute(ctx))
	}); err != nil {
		log.Fatalf("cron: %v", err)
	}
	c.Start()
	defer c.Stop()

	if brokers := cfg.KafkaBrokersList(); len(brokers) > 0 && cfg.LokiURL != "" {
		go forwardRapports(ctx, brokers, cfg.SuiviJobKafkaTopic, cfg.KafkaGroupID, cfg.LokiURL)
	}

	log.Printf("worker: polling scheduled jobs every %s", pollInterval)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("worker: stopped")
			return
		case <-ticker.C:
			processDue(ctx, scheduler, reg)
		}
	}
}

// processDue takes every scheduled job that is due and runs it. Taking is
// destructive: a job that fails mid-run is reported, not retried.
func processDue(ctx context.Context, scheduler *planificateur.PostgresRepository, reg *registry) {
	due, err := scheduler.TakeDue(ctx, time.Now(), pollBatchSize)
	if err != nil {
		log.Printf("worker: take due jobs: %v", err)
		return
	}
	for _, job := range due {
		run(ctx, job, reg)
	}
}

func run(ctx context.Context, job planificateur.ScheduledJob, reg *registry) {
	var rapport suivijob.Rapport
	switch job.Type {
	case planificateur.JobNotifierBeneficiaires:
		var contenu jobs.NotifierContenu
		if err := json.Unmarshal(job.Contenu, &contenu); err != nil {
			log.Printf("worker: job %d: invalid contenu: %v", job.ID, err)
			return
		}
		rapport = reg.notifier.Execute(ctx, contenu)
	case planificateur.JobMajMailingLists:
		rapport = reg.mailing.Execute(ctx)
	case planificateur.JobNettoyerPiecesJointes:
		rapport = reg.nettoyage.Execute(ctx)
	case planificateur.JobArchiverJeunesMigration:
		rapport = reg.migration.Execute(ctx)
	default:
		log.Printf("worker: job %d: unknown type %q", job.ID, job.Type)
		return
	}
	suivijob.EmitAsync(reg.emitter, rapport)
}

// forwardRapports consumes job reports from Kafka and pushes them to Loki.
func forwardRapports(ctx context.Context, brokers []string, topic, groupID, lokiURL string) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	log.Printf("worker: forwarding job reports from %s (group %s) to %s", topic, groupID, lokiURL)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		pushCtx, pushCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := suivijob.PushRapportJSON(pushCtx, lokiURL, msg.Value); err != nil {
			log.Printf("worker: loki push failed: %v", err)
		}
		pushCancel()
	}
}
