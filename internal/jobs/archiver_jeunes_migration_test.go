package jobs

import (
	"context"
	"errors"
	"testing"

	archivedomain "pass-accompagnement/backend/internal/archivejeune/domain"
)

type fakeEligibles struct {
	ids []string
	err error
}

func (f *fakeEligibles) IdsBeneficiairesAMigrer(ctx context.Context) ([]string, error) {
	return f.ids, f.err
}

type fakeArchiver struct {
	archived []string
	motifs   map[string]string
	failFor  map[string]bool
}

func (f *fakeArchiver) Archive(ctx context.Context, idJeune, motif, commentaire string) error {
	if f.failFor[idJeune] {
		return errors.New("archive failed")
	}
	f.archived = append(f.archived, idJeune)
	if f.motifs == nil {
		f.motifs = map[string]string{}
	}
	f.motifs[idJeune] = motif
	return nil
}

func TestArchiverJeunesMigration(t *testing.T) {
	eligibles := &fakeEligibles{ids: []string{"j1", "j2"}}
	archiver := &fakeArchiver{}
	job := NewArchiverJeunesMigrationJob(eligibles, archiver, nil)

	rapport := job.Execute(context.Background())
	if !rapport.Succes || rapport.NbTraites != 2 {
		t.Fatalf("rapport: %+v", rapport)
	}
	if len(archiver.archived) != 2 {
		t.Errorf("archived: %v", archiver.archived)
	}
	if archiver.motifs["j1"] != archivedomain.MotifSuppressionMigration {
		t.Errorf("motif: %q", archiver.motifs["j1"])
	}
}

func TestArchiverJeunesMigration_ContinueApresEchec(t *testing.T) {
	eligibles := &fakeEligibles{ids: []string{"j1", "j2", "j3"}}
	archiver := &fakeArchiver{failFor: map[string]bool{"j2": true}}
	job := NewArchiverJeunesMigrationJob(eligibles, archiver, nil)

	rapport := job.Execute(context.Background())
	if rapport.Succes {
		t.Error("a failed archival should mark the report failed")
	}
	if rapport.NbErreurs != 1 || rapport.NbTraites != 2 {
		t.Errorf("rapport: erreurs=%d traités=%d", rapport.NbErreurs, rapport.NbTraites)
	}
	if len(archiver.archived) != 2 {
		t.Errorf("remaining jeunes must still be archived: %v", archiver.archived)
	}
}

func TestArchiverJeunesMigration_EchecListe(t *testing.T) {
	eligibles := &fakeEligibles{err: errors.New("db down")}
	archiver := &fakeArchiver{}
	job := NewArchiverJeunesMigrationJob(eligibles, archiver, nil)

	rapport := job.Execute(context.Background())
	if rapport.Succes {
		t.Error("listing failure should mark the report failed")
	}
	if len(archiver.archived) != 0 {
		t.Error("nothing must be archived when listing fails")
	}
}
