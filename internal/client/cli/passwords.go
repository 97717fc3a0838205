package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/lockwise/internal/client/client"
	"github.com/dmitrijs2005/lockwise/internal/common"
)

// clearValue, entered while editing, empties the URL or category.
const clearValue = "-"

// Passwords prints the saved credentials as a table.
func (a *App) Passwords(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	list, err := a.api.ListPasswords(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No saved passwords")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSITE\tEMAIL\tPASSWORD\tURL\tCATEGORY")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Site, c.Email, c.Password, c.URL, c.Category)
	}
	return tw.Flush()
}

// AddPassword prompts for a new credential and saves it.
func (a *App) AddPassword(ctx context.Context) error {
	var c client.Credential
	var err error

	if c.Site, err = getSimpleText(a.reader, "Site", a.out); err != nil {
		return err
	}
	if c.Email, err = getSimpleText(a.reader, "Email or username", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	c.Password = string(password)

	if c.URL, err = getSimpleText(a.reader, "URL (optional)", a.out); err != nil {
		return err
	}
	if c.Category, err = getSimpleText(a.reader, "Category (optional)", a.out); err != nil {
		return err
	}
	if c.Site == "" || c.Email == "" || c.Password == "" {
		return errors.New("site, email and password are required")
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	saved, err := a.api.CreatePassword(rctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Password saved, id %s\n", saved.ID)
	return nil
}

// EditPassword prompts for new values of entry id. Blank answers keep the
// current value; "-" clears the URL or category.
func (a *App) EditPassword(ctx context.Context, id string) error {
	var patch client.CredentialPatch

	keepBlank := func(prompt string) (*string, error) {
		v, err := getSimpleText(a.reader, prompt+" (blank to keep)", a.out)
		if err != nil || v == "" {
			return nil, err
		}
		return &v, nil
	}
	clearable := func(prompt string) (*string, error) {
		v, err := getSimpleText(a.reader, prompt+" (blank to keep, - to clear)", a.out)
		if err != nil || v == "" {
			return nil, err
		}
		if v == clearValue {
			v = ""
		}
		return &v, nil
	}

	var err error
	if patch.Site, err = keepBlank("Site"); err != nil {
		return err
	}
	if patch.Email, err = keepBlank("Email or username"); err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if len(password) > 0 {
		pw := string(password)
		patch.Password = &pw
	}
	common.WipeByteArray(password)

	if patch.URL, err = clearable("URL"); err != nil {
		return err
	}
	if patch.Category, err = clearable("Category"); err != nil {
		return err
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if _, err := a.api.UpdatePassword(rctx, id, patch); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("no saved password with id %s", id)
		}
		return err
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

// DeletePassword removes entry id after confirmation.
func (a *App) DeletePassword(ctx context.Context, id string) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete saved password %s?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.DeletePassword(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("no saved password with id %s", id)
		}
		return err
	}
	fmt.Fprintln(a.out, "Password deleted")
	return nil
}
