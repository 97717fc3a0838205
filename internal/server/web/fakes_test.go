package web

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
)

type fakeUsers struct {
	regErr    error
	loginResp *services.TokenPair
	loginErr  error
	loggedOut []string
	tokens    map[string]string
	tokenErr  error
}

func (f *fakeUsers) Register(ctx context.Context, email, password string) (*models.User, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeUsers) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeUsers) UserIDFromAccessToken(token string) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return "", common.ErrInvalidToken
}

type fakeEnrollment struct {
	enrolled  map[string]biometrics.Descriptor
	enrollErr error
	hasErr    error
	resetErr  error
}

func (f *fakeEnrollment) Enroll(ctx context.Context, userID string, d biometrics.Descriptor) (*models.Template, error) {
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	f.enrolled[userID] = d
	return &models.Template{UserID: userID, Descriptor: d, Version: 1}, nil
}

func (f *fakeEnrollment) HasEnrolled(ctx context.Context, userID string) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	_, ok := f.enrolled[userID]
	return ok, nil
}

func (f *fakeEnrollment) Reset(ctx context.Context, userID string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	delete(f.enrolled, userID)
	return nil
}

type fakeVerifier struct {
	result *services.VerificationResult
	err    error
	sample biometrics.Descriptor
}

func (f *fakeVerifier) Verify(ctx context.Context, userID string, sample biometrics.Descriptor) (*services.VerificationResult, error) {
	f.sample = sample
	return f.result, f.err
}

// fakePasswords keeps credentials in memory and enforces ownership the way
// the real service does.
type fakePasswords struct {
	rows  map[string]models.Credential
	order []string
	seq   int
	err   error

	gotPatch services.CredentialPatch
}

func (f *fakePasswords) Create(ctx context.Context, userID string, c models.Credential) (*models.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c.Site == "" || c.Email == "" || c.Password == "" {
		return nil, fmt.Errorf("%w: site, email and password are required", common.ErrInvalidRequest)
	}
	f.seq++
	c.ID = fmt.Sprintf("e%d", f.seq)
	c.UserID = userID
	f.rows[c.ID] = c
	f.order = append(f.order, c.ID)
	return &c, nil
}

func (f *fakePasswords) List(ctx context.Context, userID string) ([]models.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Credential
	for _, id := range f.order {
		if c, ok := f.rows[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakePasswords) Update(ctx context.Context, userID, id string, patch services.CredentialPatch) (*models.Credential, error) {
	f.gotPatch = patch
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.rows[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrEntryNotFound
	}
	if patch.Site != nil && *patch.Site != "" {
		c.Site = *patch.Site
	}
	if patch.Password != nil && *patch.Password != "" {
		c.Password = *patch.Password
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	f.rows[id] = c
	return &c, nil
}

func (f *fakePasswords) Delete(ctx context.Context, userID, id string) error {
	if f.err != nil {
		return f.err
	}
	c, ok := f.rows[id]
	if !ok || c.UserID != userID {
		return common.ErrEntryNotFound
	}
	delete(f.rows, id)
	return nil
}

type testEnv struct {
	server     *Server
	users      *fakeUsers
	enrollment *fakeEnrollment
	verifier   *fakeVerifier
	passwords  *fakePasswords
	metrics    *metrics.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users: &fakeUsers{
			tokens:    map[string]string{"tok-u1": "u1", "tok-u2": "u2"},
			loginResp: &services.TokenPair{UserID: "u1", AccessToken: "tok-u1", RefreshToken: "ref-u1"},
		},
		enrollment: &fakeEnrollment{enrolled: map[string]biometrics.Descriptor{}},
		verifier:   &fakeVerifier{},
		passwords:  &fakePasswords{rows: map[string]models.Credential{}},
		metrics:    metrics.NewRecorder(),
	}
	env.server = NewServer("127.0.0.1:0", time.Second, time.Hour, Services{
		Users:      env.users,
		Enrollment: env.enrollment,
		Verifier:   env.verifier,
		Passwords:  env.passwords,
	}, logging.Nop{}, env.metrics)
	return env
}
