// Package testutil provides shared helpers for unit tests: canned actors for
// each role and request-context builders.
package testutil

import (
	"context"
	"time"

	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

// NewActor builds an actor with a fresh user ID.
func NewActor(role id.Role) id.Actor {
	return id.Actor{UserID: id.NewUserID(), Role: role}
}

// CaseOfficer builds a case officer scoped to the given court.
func CaseOfficer(court string) id.Actor {
	actor := NewActor(id.RoleCaseOfficer)
	actor.CourtAssignment = court
	return actor
}

// Judge builds a judge actor.
func Judge() id.Actor { return NewActor(id.RoleJudge) }

// SocialWorker builds a social worker actor.
func SocialWorker() id.Actor { return NewActor(id.RoleSocialWorker) }

// AgencyWorker builds an agency worker actor.
func AgencyWorker() id.Actor { return NewActor(id.RoleAgencyWorker) }

// Cafcass builds a CAFCASS officer actor.
func Cafcass() id.Actor { return NewActor(id.RoleCafcass) }

// Adopter builds an adopter actor.
func Adopter() id.Actor { return NewActor(id.RoleAdopter) }

// Ctx returns a context carrying the actor, a request ID, and a fixed clock
// reading, the way the middleware chain would prepare it.
func Ctx(actor id.Actor) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	return ctx
}

// CtxAt is Ctx with an explicit clock reading.
func CtxAt(actor id.Actor, at time.Time) context.Context {
	return requestcontext.WithTime(Ctx(actor), at)
}
