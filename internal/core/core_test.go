package core

import "testing"

func TestStructureValid(t *testing.T) {
	for _, s := range Structures() {
		if !s.Valid() {
			t.Errorf("Structures() entry %q should be valid", s)
		}
	}
	if Structure("AUTRE").Valid() {
		t.Error("unknown structure should not be valid")
	}
	if Structure("").Valid() {
		t.Error("empty structure should not be valid")
	}
}

func TestMigrationEligibleStructure(t *testing.T) {
	if StructureMigrationEligible != StructurePoleEmploi {
		t.Errorf("migration-eligible structure: got %q", StructureMigrationEligible)
	}
}

func TestIsNotFound(t *testing.T) {
	err := NewNotFound("conseiller", "c1")
	if !IsNotFound(err) {
		t.Error("IsNotFound should match NotFoundError")
	}
	if IsNotFound(NewBadCommand("nope")) {
		t.Error("IsNotFound should not match BadCommandError")
	}
	if got := err.Error(); got != "conseiller c1 not found" {
		t.Errorf("Error(): %q", got)
	}
}

func TestIsBadCommand(t *testing.T) {
	if !IsBadCommand(NewBadCommand("le conseiller est déjà dans cette agence")) {
		t.Error("IsBadCommand should match BadCommandError")
	}
	if IsBadCommand(ErrDroitsInsuffisants) {
		t.Error("IsBadCommand should not match ErrDroitsInsuffisants")
	}
}
