package model

// PrincipalKind names the kind of identity making a request
type PrincipalKind string

const (
	KindAnonymous PrincipalKind = "anonymous"
	KindPlayer    PrincipalKind = "player"
	KindAdmin     PrincipalKind = "admin"
)

// Valid reports whether k is a kind that can be carried by a session token
func (k PrincipalKind) Valid() bool {
	return k == KindPlayer || k == KindAdmin
}

// Principal is the resolved identity behind a request.
// The set of implementations is closed: Anonymous, PlayerPrincipal and AdminPrincipal.
//
//sumtype:decl
type Principal interface {
	Kind() PrincipalKind
	sealed()
}

// Anonymous is a request without a usable session
type Anonymous struct{}

// PlayerPrincipal is an authenticated, active player
type PlayerPrincipal struct {
	ID          PlayerID
	DisplayName string
	IsActive    bool
}

// AdminPrincipal is an authenticated administrator
type AdminPrincipal struct {
	ID    AdminID
	Email string
}

func (Anonymous) Kind() PrincipalKind       { return KindAnonymous }
func (PlayerPrincipal) Kind() PrincipalKind { return KindPlayer }
func (AdminPrincipal) Kind() PrincipalKind  { return KindAdmin }

func (Anonymous) sealed()       {}
func (PlayerPrincipal) sealed() {}
func (AdminPrincipal) sealed()  {}

// PlayerPrincipalFromRecord builds a principal from a freshly read record
func PlayerPrincipalFromRecord(p *Player) PlayerPrincipal {
	return PlayerPrincipal{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		IsActive:    p.IsActive,
	}
}
