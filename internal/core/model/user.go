package model

import (
	"fmt"

	"github.com/rs/xid"
)

type UserID string

const ProviderAnonymous = "anonymous"

func NewAnonymousUserID() UserID {
	return UserID(ProviderAnonymous + ":" + xid.New().String())
}

type User interface {
	WithID[UserID]

	Subject() string
	DisplayName() string
	Provider() string
}

type BaseUser struct {
	id          UserID
	displayName string
	subject     string
	provider    string
}

// ID implements User.
func (u *BaseUser) ID() UserID {
	return u.id
}

// DisplayName implements User.
func (u *BaseUser) DisplayName() string {
	return u.displayName
}

// Provider implements User.
func (u *BaseUser) Provider() string {
	return u.provider
}

// Subject implements User.
func (u *BaseUser) Subject() string {
	return u.subject
}

var _ User = &BaseUser{}

func NewUser(provider, subject, displayName string) *BaseUser {
	return &BaseUser{
		id:          UserID(provider + ":" + subject),
		displayName: displayName,
		subject:     subject,
		provider:    provider,
	}
}

func NewAnonymousUser(id UserID) *BaseUser {
	return &BaseUser{
		id:          id,
		displayName: "Anonymous",
		subject:     string(id),
		provider:    ProviderAnonymous,
	}
}

// IsAnonymous returns true if the user is nil or has not been authenticated.
// Anonymous users never have full access to a gated document.
func IsAnonymous(user User) bool {
	return user == nil || user.Provider() == ProviderAnonymous || user.ID() == ""
}

func UserString(user User) string {
	if user == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%s (%s)", user.DisplayName(), user.ID())
}
