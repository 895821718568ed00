package jwttoken

import (
	"github.com/navikt/dp-rapportering/internal/platform/middleware"
)

// MiddlewareAdapter exposes JWTService as a middleware.TokenValidator.
type MiddlewareAdapter struct {
	svc *JWTService
}

func NewMiddlewareAdapter(svc *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) Validate(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.svc.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		Ident:      claims.Ident,
		ActorID:    claims.ActorID(),
		Caseworker: claims.IsCaseworker(),
	}, nil
}
