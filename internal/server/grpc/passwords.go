package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func credentialFields(c *models.Credential) map[string]any {
	return map[string]any{
		pb.FieldID:       c.ID,
		pb.FieldSite:     c.Site,
		pb.FieldEmail:    c.Email,
		pb.FieldPassword: c.Password,
		pb.FieldURL:      c.URL,
		pb.FieldCategory: c.Category,
	}
}

func (s *GRPCServer) ListPasswords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.passwords.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListPasswords", err)
	}

	entries := make([]any, 0, len(list))
	for i := range list {
		entries = append(entries, credentialFields(&list[i]))
	}
	return response(map[string]any{pb.FieldEntries: entries})
}

func (s *GRPCServer) CreatePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.passwords.Create(ctx, userID, models.Credential{
		Site:     pb.String(req, pb.FieldSite),
		Email:    pb.String(req, pb.FieldEmail),
		Password: pb.String(req, pb.FieldPassword),
		URL:      pb.String(req, pb.FieldURL),
		Category: pb.String(req, pb.FieldCategory),
	})
	if err != nil {
		return nil, s.fail(ctx, "CreatePassword", err)
	}

	return response(map[string]any{pb.FieldEntry: credentialFields(c)})
}

func (s *GRPCServer) UpdatePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.passwords.Update(ctx, userID, pb.String(req, pb.FieldID), services.CredentialPatch{
		Site:     pb.OptionalString(req, pb.FieldSite),
		Email:    pb.OptionalString(req, pb.FieldEmail),
		Password: pb.OptionalString(req, pb.FieldPassword),
		URL:      pb.OptionalString(req, pb.FieldURL),
		Category: pb.OptionalString(req, pb.FieldCategory),
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdatePassword", err)
	}

	return response(map[string]any{pb.FieldEntry: credentialFields(c)})
}

func (s *GRPCServer) DeletePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	id := pb.String(req, pb.FieldID)
	if err := s.passwords.Delete(ctx, userID, id); err != nil {
		return nil, s.fail(ctx, "DeletePassword", err)
	}

	return response(map[string]any{pb.FieldOK: true, pb.FieldID: id})
}
