package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockwise/internal/client/client"
)

// loadDescriptor is a test seam for reading descriptor files.
var loadDescriptor = client.LoadDescriptor

// Enroll stores the descriptor in path as the user's face template.
func (a *App) Enroll(ctx context.Context, path string) error {
	d, err := loadDescriptor(path)
	if err != nil {
		return fmt.Errorf("error reading descriptor: %w", err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	version, err := a.api.Enroll(ctx, d)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Face data saved (version %d, %d values)\n", version, len(d))
	return nil
}

func (a *App) Verify(ctx context.Context, path string) error {
	d, err := loadDescriptor(path)
	if err != nil {
		return fmt.Errorf("error reading descriptor: %w", err)
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	res, err := a.api.Verify(ctx, d)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return errors.New("no face data enrolled, run 'enroll' first")
		}
		return err
	}

	if !res.Matched {
		fmt.Fprintf(a.out, "Face verification failed (distance %.4f)\n", res.Distance)
		return nil
	}

	msg := fmt.Sprintf("Face verified (distance %.4f)", res.Distance)
	if res.Updated {
		msg += ", template updated"
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	enrolled, err := a.api.HasEnrolled(ctx)
	if err != nil {
		return err
	}
	if enrolled {
		fmt.Fprintln(a.out, "Face data is enrolled")
	} else {
		fmt.Fprintln(a.out, "No face data enrolled")
	}
	return nil
}

// Reset deletes the stored template after confirmation.
func (a *App) Reset(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Delete stored face data?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.api.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Face data deleted")
	return nil
}
