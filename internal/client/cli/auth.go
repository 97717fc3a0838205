package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/lockwise/internal/client/client"
	"github.com/dmitrijs2005/lockwise/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account and logs into it right away.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	userID, err := a.api.Register(rctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrAlreadyExists) {
			return fmt.Errorf("email %s is already registered", email)
		}
		return err
	}
	fmt.Fprintf(a.out, "Registered, user id %s\n", userID)

	return a.login(ctx, email, password)
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.login(ctx, email, password)
}

func (a *App) login(ctx context.Context, email string, password []byte) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	// email must be known before the token callback saves the session
	prev := a.email
	a.email = email

	if err := a.api.Login(ctx, email, password); err != nil {
		a.email = prev
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}

	log.Printf("Login successful")
	return nil
}

// Logout forgets the tokens and removes the stored session.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.email = ""
	if a.store == nil {
		return nil
	}
	return a.store.Clear(ctx)
}
