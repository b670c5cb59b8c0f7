// Package authz decides who may run support and conseiller commands.
// Decisions are computed before any mutation.
package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"pass-accompagnement/backend/internal/core"
	jeunedomain "pass-accompagnement/backend/internal/jeune/domain"
	"pass-accompagnement/backend/internal/security"
)

// Access rules, evaluated in-process with OPA Rego.
const regoPolicy = `package passaccompagnement.authz

default allow = false

allow if {
	input.action.scope == "support"
	input.caller.type == "SUPPORT"
}

allow if {
	input.action.scope == "conseiller_du_jeune"
	input.caller.type == "CONSEILLER"
	input.caller.id == input.jeune.id_conseiller
}

allow if {
	input.action.scope == "self"
	input.caller.id != ""
}
`

const allowQuery = "data.passaccompagnement.authz.allow"

// JeuneRepo fetches the ownership fact fed into the policy input.
type JeuneRepo interface {
	GetByID(ctx context.Context, id string) (*jeunedomain.Jeune, error)
}

// Authorizer evaluates the embedded Rego policy.
type Authorizer struct {
	compiler *ast.Compiler
	jeunes   JeuneRepo
}

// NewAuthorizer compiles the policy once. jeunes may be nil when no
// conseiller-scope checks are needed (e.g. the worker).
func NewAuthorizer(jeunes JeuneRepo) (*Authorizer, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": regoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile authz policy: %w", err)
	}
	return &Authorizer{compiler: compiler, jeunes: jeunes}, nil
}

// RequireSupport allows only support accounts.
func (a *Authorizer) RequireSupport(ctx context.Context, caller security.Utilisateur) error {
	return a.require(ctx, map[string]interface{}{
		"action": map[string]interface{}{"scope": "support"},
		"caller": callerInput(caller),
	})
}

// RequireConseillerDuJeune allows only the conseiller the jeune is attached to.
// A missing jeune surfaces as not-found so callers fail before authorizing
// against a phantom record.
func (a *Authorizer) RequireConseillerDuJeune(ctx context.Context, caller security.Utilisateur, idJeune string) error {
	j, err := a.jeunes.GetByID(ctx, idJeune)
	if err != nil {
		return err
	}
	if j == nil {
		return core.NewNotFound("jeune", idJeune)
	}
	return a.require(ctx, map[string]interface{}{
		"action": map[string]interface{}{"scope": "conseiller_du_jeune"},
		"caller": callerInput(caller),
		"jeune":  map[string]interface{}{"id": j.ID, "id_conseiller": j.IDConseiller},
	})
}

// RequireAuthenticated allows any authenticated caller.
func (a *Authorizer) RequireAuthenticated(ctx context.Context, caller security.Utilisateur) error {
	return a.require(ctx, map[string]interface{}{
		"action": map[string]interface{}{"scope": "self"},
		"caller": callerInput(caller),
	})
}

func (a *Authorizer) require(ctx context.Context, input map[string]interface{}) error {
	q := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(a.compiler),
		rego.Input(input),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval authz policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return core.ErrDroitsInsuffisants
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok || !allowed {
		return core.ErrDroitsInsuffisants
	}
	return nil
}

func callerInput(caller security.Utilisateur) map[string]interface{} {
	return map[string]interface{}{
		"id":        caller.ID,
		"type":      string(caller.Type),
		"structure": string(caller.Structure),
		"email":     caller.Email,
	}
}
