// Package middleware carries the transport middleware chain: request
// metadata, bearer-token authentication, and tracing.
//
// Session issuance lives in a separate identity service; this middleware
// only verifies tokens it minted and projects their claims into the actor
// context that services consume.
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

// ActorClaims are the JWT claims this service consumes.
type ActorClaims struct {
	jwt.RegisteredClaims
	Role            string `json:"role"`
	CourtAssignment string `json:"court,omitempty"`
	OrganisationID  string `json:"organisation_id,omitempty"`
}

// TokenVerifier validates bearer tokens and extracts the actor.
type TokenVerifier struct {
	signingKey []byte
}

func NewTokenVerifier(signingKey string) *TokenVerifier {
	return &TokenVerifier{signingKey: []byte(signingKey)}
}

// Verify parses and validates an HS256 token, returning the actor it names.
func (v *TokenVerifier) Verify(tokenString string) (id.Actor, error) {
	var claims ActorClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return id.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return id.Actor{}, fmt.Errorf("token subject: %w", err)
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return id.Actor{}, fmt.Errorf("token role: %w", err)
	}

	actor := id.Actor{
		UserID:          userID,
		Role:            role,
		CourtAssignment: claims.CourtAssignment,
	}
	if claims.OrganisationID != "" {
		orgID, err := id.ParseOrganisationID(claims.OrganisationID)
		if err != nil {
			return id.Actor{}, fmt.Errorf("token organisation: %w", err)
		}
		actor.OrganisationID = orgID
	}
	return actor, nil
}

// RequireActor rejects requests without a valid bearer token and injects the
// authenticated actor into the request context.
func RequireActor(verifier *TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}
			actor, err := verifier.Verify(token)
			if err != nil {
				log.Warn("rejected bearer token",
					zap.String("request_id", requestcontext.RequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, "invalid or expired token")
				return
			}
			ctx := requestcontext.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthorized",
		"error_description": description,
	})
}
