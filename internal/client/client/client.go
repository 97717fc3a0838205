package client

import (
	"context"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
)

// VerifyResult mirrors the server's verification answer.
type VerifyResult struct {
	Matched  bool
	Distance float64
	Updated  bool
}

// Credential is one saved site login.
type Credential struct {
	ID       string
	Site     string
	Email    string
	Password string
	URL      string
	Category string
}

// CredentialPatch names the fields an edit sends; nil fields are left
// alone on the server.
type CredentialPatch struct {
	Site     *string
	Email    *string
	Password *string
	URL      *string
	Category *string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, email string, password []byte) (string, error)
	Login(ctx context.Context, email string, password []byte) error
	Resume(ctx context.Context, refreshToken string) error
	Logout()
	UserID() string
	Enroll(ctx context.Context, descriptor biometrics.Descriptor) (int64, error)
	Verify(ctx context.Context, descriptor biometrics.Descriptor) (*VerifyResult, error)
	HasEnrolled(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
	ListPasswords(ctx context.Context) ([]Credential, error)
	CreatePassword(ctx context.Context, c Credential) (*Credential, error)
	UpdatePassword(ctx context.Context, id string, patch CredentialPatch) (*Credential, error)
	DeletePassword(ctx context.Context, id string) error
	// OnTokens registers a callback run whenever the token pair changes,
	// including transparent refreshes.
	OnTokens(fn func(userID, refreshToken string))
}
