// Package models defines server-side data models persisted in the database.
package models

// IdentityKind tags which store an authenticated principal was resolved from.
type IdentityKind string

const (
	KindUser  IdentityKind = "user"
	KindAdmin IdentityKind = "admin"
)

// Identity is the principal attached to an authenticated request. Exactly one
// of Account or Admin is set, selected by Kind.
type Identity struct {
	Kind    IdentityKind
	Account *Account
	Admin   *Admin
}

// UserIdentity wraps an account.
func UserIdentity(a *Account) Identity {
	return Identity{Kind: KindUser, Account: a}
}

// AdminIdentity wraps an admin.
func AdminIdentity(a *Admin) Identity {
	return Identity{Kind: KindAdmin, Admin: a}
}

// ID returns the subject id regardless of kind.
func (i Identity) ID() string {
	switch i.Kind {
	case KindUser:
		if i.Account != nil {
			return i.Account.ID
		}
	case KindAdmin:
		if i.Admin != nil {
			return i.Admin.ID
		}
	}
	return ""
}

// IsAdmin reports whether the identity is an admin.
func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin && i.Admin != nil
}
