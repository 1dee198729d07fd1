// Package source implements the data collaborators behind the session manager and
// the content catalog: the bundled JSON fixtures and the REST backend.
package source

import (
	"context"
	"edunova/content"
	"edunova/models"
)

// Source is the single contract both backings satisfy.
type Source interface {
	content.Loader

	// Login returns a session for the account whose email and password match exactly.
	Login(ctx context.Context, email, password string) (models.Session, error)
	// Register creates an account and returns its session.
	Register(ctx context.Context, reg models.Registration) (models.Session, error)
	// Logout tells the backing that token is no longer in use.
	Logout(ctx context.Context, token string) error
}
