// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev conseiller (nils.tavernier@pole-emploi.fr) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"pass-accompagnement/backend/internal/config"
	"pass-accompagnement/backend/internal/db"
	"pass-accompagnement/backend/internal/featureflip/domain"
)

const (
	devConseillerEmail = "nils.tavernier@pole-emploi.fr"
	devConseillerID    = "dev-conseiller-001"
	devConseiller2ID   = "dev-conseiller-002"
	devAgenceID        = "dev-agence-001"
	devAgence2ID       = "dev-agence-002"
	devJeuneID         = "dev-jeune-001"
	devJeune2ID        = "dev-jeune-002"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	var exists bool
	err = conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM conseiller WHERE email = $1)`, devConseillerEmail).Scan(&exists)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if exists {
		log.Println("Seed already applied (dev conseiller exists). Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()

	exec := func(query string, args ...interface{}) {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	exec(`INSERT INTO agence (id, nom, structure, code_departement) VALUES ($1, $2, $3, $4)`,
		devAgenceID, "Agence Paris 11e", "POLE_EMPLOI", "75")
	exec(`INSERT INTO agence (id, nom, structure, code_departement) VALUES ($1, $2, $3, $4)`,
		devAgence2ID, "Agence Lyon Part-Dieu", "POLE_EMPLOI", "69")

	exec(`INSERT INTO conseiller (id, prenom, nom, email, structure, id_agence, date_creation)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		devConseillerID, "Nils", "Tavernier", devConseillerEmail, "POLE_EMPLOI", devAgenceID, now)
	exec(`INSERT INTO conseiller (id, prenom, nom, email, structure, id_agence, date_creation)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		devConseiller2ID, "Fanny", "Girard", "fanny.girard@milo.fr", "MILO", nil, now)

	exec(`INSERT INTO jeune (id, prenom, nom, email, structure, dispositif, id_conseiller, id_conseiller_initial, date_creation)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		devJeuneID, "Kenji", "Lefebvre", "kenji.lefebvre@exemple.fr", "POLE_EMPLOI", "CEJ",
		devConseillerID, devConseillerID, now)
	exec(`INSERT INTO jeune (id, prenom, nom, email, structure, dispositif, id_conseiller, id_conseiller_initial, date_creation)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		devJeune2ID, "Zoé", "Marchand", "zoe.marchand@exemple.fr", "MILO", "PACEA",
		devConseiller2ID, devConseiller2ID, now)

	exec(`INSERT INTO feature_flip (feature_tag, email_conseiller) VALUES ($1, $2)`,
		string(domain.TagMigration), devConseillerEmail)

	exec(`INSERT INTO animation_collective (id, titre, id_agence, id_conseiller_createur, date_debut, date_fin)
	      VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), "Atelier CV", devAgenceID, devConseillerID,
		now.Add(24*time.Hour), now.Add(26*time.Hour))

	log.Println("Seed completed successfully.")
	log.Printf("Dev conseiller: %s (%s)", devConseillerEmail, devConseillerID)
}
