// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"pass-accompagnement/backend/internal/core"
)

// TimezoneEuropeParis is the timezone every user-facing date computation uses.
const TimezoneEuropeParis = "Europe/Paris"

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPublicKey is the PEM-encoded public key or a path to a PEM file; used to verify caller tokens.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the expected iss claim of caller tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the expected aud claim of caller tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// DateDeMigration is the migration cutover date (YYYY-MM-DD). Empty disables
	// migration-date lookups entirely: the feature can be flagged active but no
	// date is ever returned.
	DateDeMigration string `mapstructure:"FEATURES_DATE_DE_MIGRATION"`

	// BrevoAPIKey authenticates against the Brevo transactional-mail API.
	BrevoAPIKey string `mapstructure:"BREVO_API_KEY"`
	// BrevoBaseURL is the Brevo API base URL (default https://api.brevo.com/v3).
	BrevoBaseURL string `mapstructure:"BREVO_BASE_URL"`
	// ArchiveEmailTemplateID is the Brevo template used for the archival email.
	ArchiveEmailTemplateID int64 `mapstructure:"BREVO_TEMPLATE_COMPTE_ARCHIVE"`
	// Per-structure Brevo mailing-list IDs, synced by the worker.
	MailingListPoleEmploi             int64 `mapstructure:"MAILING_LIST_POLE_EMPLOI"`
	MailingListMilo                   int64 `mapstructure:"MAILING_LIST_MILO"`
	MailingListBRSA                   int64 `mapstructure:"MAILING_LIST_BRSA"`
	MailingListAIJ                    int64 `mapstructure:"MAILING_LIST_AIJ"`
	MailingListConseilDept            int64 `mapstructure:"MAILING_LIST_CD"`
	MailingListAvenirPro              int64 `mapstructure:"MAILING_LIST_AVENIR_PRO"`
	MailingListAccompagnementIntensif int64 `mapstructure:"MAILING_LIST_ACCOMPAGNEMENT_INTENSIF"`
	MailingListAccompagnementGlobal   int64 `mapstructure:"MAILING_LIST_ACCOMPAGNEMENT_GLOBAL"`
	MailingListEquipEmploi            int64 `mapstructure:"MAILING_LIST_EQUIP_EMPLOI"`

	// IDPBaseURL is the identity-provider admin API base URL (account deletion).
	IDPBaseURL string `mapstructure:"IDP_BASE_URL"`
	// IDPToken authenticates against the identity-provider admin API.
	IDPToken string `mapstructure:"IDP_TOKEN"`

	// PushGatewayURL is the push-notification gateway base URL.
	PushGatewayURL string `mapstructure:"PUSH_GATEWAY_URL"`
	// PushGatewayToken authenticates against the push-notification gateway.
	PushGatewayToken string `mapstructure:"PUSH_GATEWAY_TOKEN"`

	// SuiviJobKafkaBrokers is a comma-separated list of Kafka broker addresses.
	// When set, job execution reports are published to Kafka.
	SuiviJobKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// SuiviJobKafkaTopic is the Kafka topic for job reports (default suivi-jobs).
	SuiviJobKafkaTopic string `mapstructure:"SUIVI_JOB_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the report-forwarding worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// LokiURL is where the worker pushes job reports (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`

	// OTLPEndpoint is the OpenTelemetry collector endpoint (empty disables export).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "pass-accompagnement-auth")
	v.SetDefault("JWT_AUDIENCE", "pass-accompagnement-api")
	v.SetDefault("FEATURES_DATE_DE_MIGRATION", "")
	v.SetDefault("BREVO_BASE_URL", "https://api.brevo.com/v3")
	v.SetDefault("SUIVI_JOB_KAFKA_TOPIC", "suivi-jobs")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_GROUP_ID", "suivi-job-worker")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.DateDeMigration != "" {
		if _, err := cfg.MigrationDate(); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// MigrationDate parses DateDeMigration as midnight Europe/Paris on the configured day.
// Returns (nil, nil) when no date is configured.
func (c *Config) MigrationDate() (*time.Time, error) {
	if c == nil || c.DateDeMigration == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(TimezoneEuropeParis)
	if err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation("2006-01-02", c.DateDeMigration, loc)
	if err != nil {
		return nil, errors.New("config: FEATURES_DATE_DE_MIGRATION must be YYYY-MM-DD")
	}
	return &t, nil
}

// MailingLists returns the Brevo list ID for each structure. Structures whose
// list ID is unset (zero) are skipped by the sync job.
func (c *Config) MailingLists() map[core.Structure]int64 {
	return map[core.Structure]int64{
		core.StructurePoleEmploi:               c.MailingListPoleEmploi,
		core.StructureMilo:                     c.MailingListMilo,
		core.StructurePoleEmploiBRSA:           c.MailingListBRSA,
		core.StructurePoleEmploiAIJ:            c.MailingListAIJ,
		core.StructureConseilDept:              c.MailingListConseilDept,
		core.StructureAvenirPro:                c.MailingListAvenirPro,
		core.StructureFTAccompagnementIntensif: c.MailingListAccompagnementIntensif,
		core.StructureFTAccompagnementGlobal:   c.MailingListAccompagnementGlobal,
		core.StructureFTEquipEmploiRecrut:      c.MailingListEquipEmploi,
	}
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if job reporting is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.SuiviJobKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.SuiviJobKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
