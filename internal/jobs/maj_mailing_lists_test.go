package jobs

import (
	"context"
	"errors"
	"testing"

	conseillerdomain "pass-accompagnement/backend/internal/conseiller/domain"
	"pass-accompagnement/backend/internal/core"
)

type memContacts struct {
	byStructure map[core.Structure][]conseillerdomain.Contact
	sansEmail   map[core.Structure]int
}

func (r *memContacts) ContactsByStructure(ctx context.Context, structure core.Structure) ([]conseillerdomain.Contact, error) {
	return r.byStructure[structure], nil
}

func (r *memContacts) CountSansEmail(ctx context.Context, structure core.Structure) (int, error) {
	return r.sansEmail[structure], nil
}

type fakeReplacer struct {
	replaced map[int64]int
	failFor  map[int64]bool
}

func (f *fakeReplacer) ReplaceMailingList(ctx context.Context, listID int64, contacts []conseillerdomain.Contact) error {
	if f.failFor[listID] {
		return errors.New("brevo down")
	}
	if f.replaced == nil {
		f.replaced = map[int64]int{}
	}
	f.replaced[listID] = len(contacts)
	return nil
}

func TestMajMailingLists(t *testing.T) {
	contacts := &memContacts{
		byStructure: map[core.Structure][]conseillerdomain.Contact{
			core.StructurePoleEmploi: {{Email: "a@ft.fr"}, {Email: "b@ft.fr"}},
			core.StructureMilo:       {{Email: "c@milo.fr"}},
		},
		sansEmail: map[core.Structure]int{core.StructurePoleEmploi: 1},
	}
	replacer := &fakeReplacer{}
	listes := map[core.Structure]int64{
		core.StructurePoleEmploi: 10,
		core.StructureMilo:       11,
	}
	job := NewMajMailingListsJob(contacts, replacer, listes, nil)

	rapport := job.Execute(context.Background())
	if !rapport.Succes {
		t.Fatalf("rapport: %+v", rapport)
	}
	if replacer.replaced[10] != 2 || replacer.replaced[11] != 1 {
		t.Errorf("replaced: %v", replacer.replaced)
	}
	if rapport.NbTraites != 3 {
		t.Errorf("nb traités: %d", rapport.NbTraites)
	}
	if rapport.Resultat["conseillersSansEmail"] != 1 {
		t.Errorf("sans email: %v", rapport.Resultat["conseillersSansEmail"])
	}
}

func TestMajMailingLists_StructureNonConfigureeIgnoree(t *testing.T) {
	contacts := &memContacts{byStructure: map[core.Structure][]conseillerdomain.Contact{
		core.StructureMilo: {{Email: "c@milo.fr"}},
	}}
	replacer := &fakeReplacer{}
	job := NewMajMailingListsJob(contacts, replacer, map[core.Structure]int64{}, nil)

	rapport := job.Execute(context.Background())
	if !rapport.Succes || rapport.NbTraites != 0 {
		t.Errorf("rapport: %+v", rapport)
	}
	if len(replacer.replaced) != 0 {
		t.Error("unconfigured structures must be skipped")
	}
}

func TestMajMailingLists_EchecParStructureCompte(t *testing.T) {
	contacts := &memContacts{byStructure: map[core.Structure][]conseillerdomain.Contact{
		core.StructurePoleEmploi: {{Email: "a@ft.fr"}},
		core.StructureMilo:       {{Email: "c@milo.fr"}},
	}}
	replacer := &fakeReplacer{failFor: map[int64]bool{10: true}}
	listes := map[core.Structure]int64{
		core.StructurePoleEmploi: 10,
		core.StructureMilo:       11,
	}
	job := NewMajMailingListsJob(contacts, replacer, listes, nil)

	rapport := job.Execute(context.Background())
	if rapport.Succes {
		t.Error("a failed structure should mark the report failed")
	}
	if rapport.NbErreurs != 1 {
		t.Errorf("erreurs: %d", rapport.NbErreurs)
	}
	if replacer.replaced[11] != 1 {
		t.Error("the other structure must still be processed")
	}
}
