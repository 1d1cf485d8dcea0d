package models

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   UserRole
	Name   string
	Email  string
}

// IsZero reports whether no principal is set.
func (a Actor) IsZero() bool {
	return a.UserID == "" || a.Role == ""
}

// ActorFromClaims converts access token claims into an Actor.
func ActorFromClaims(claims *JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{UserID: claims.UserID, Role: claims.Role, Name: claims.FullName, Email: claims.Email}
}
