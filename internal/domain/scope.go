package domain

// ScopeKind discriminates the access scope variants.
type ScopeKind string

const (
	ScopeAdmin    ScopeKind = "ADMIN"
	ScopeEmployee ScopeKind = "EMPLOYEE"
	ScopeClient   ScopeKind = "CLIENT"
)

// AccessScope is the closed variant controlling which tickets a caller may
// see: admins see all, employees see tickets they raised or are assigned to,
// client users see their client's tickets. Exactly one of UserID/ClientID is
// meaningful depending on Kind.
type AccessScope struct {
	Kind     ScopeKind
	UserID   string
	ClientID string
}

// ScopeForUser derives the access scope from a user's role.
func ScopeForUser(u *User) AccessScope {
	switch u.Role {
	case RoleAdmin:
		return AccessScope{Kind: ScopeAdmin}
	case RoleClient:
		scope := AccessScope{Kind: ScopeClient}
		if u.ClientID != nil {
			scope.ClientID = *u.ClientID
		}
		return scope
	default:
		return AccessScope{Kind: ScopeEmployee, UserID: u.ID}
	}
}

// AllowsTicket reports whether the scope grants access to a ticket belonging
// to the given client. Employee checks are against the ticket's raiser and
// assignee.
func (s AccessScope) AllowsTicket(ticket *Ticket, clientID string) bool {
	switch s.Kind {
	case ScopeAdmin:
		return true
	case ScopeEmployee:
		if ticket.RaisedByID == s.UserID {
			return true
		}
		return ticket.AssignedToID != nil && *ticket.AssignedToID == s.UserID
	case ScopeClient:
		return s.ClientID != "" && s.ClientID == clientID
	default:
		return false
	}
}
