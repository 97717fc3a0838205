package client

import (
	"context"

	pb "github.com/dmitrijs2005/lockwise/internal/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func credentialFrom(s *structpb.Struct) Credential {
	return Credential{
		ID:       pb.String(s, pb.FieldID),
		Site:     pb.String(s, pb.FieldSite),
		Email:    pb.String(s, pb.FieldEmail),
		Password: pb.String(s, pb.FieldPassword),
		URL:      pb.String(s, pb.FieldURL),
		Category: pb.String(s, pb.FieldCategory),
	}
}

func entryFrom(resp *structpb.Struct) *Credential {
	c := credentialFrom(resp.GetFields()[pb.FieldEntry].GetStructValue())
	return &c
}

func (s *GRPCClient) ListPasswords(ctx context.Context) ([]Credential, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}

	resp, err := s.client.ListPasswords(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	entries := pb.Structs(resp, pb.FieldEntries)
	out := make([]Credential, 0, len(entries))
	for _, e := range entries {
		out = append(out, credentialFrom(e))
	}
	return out, nil
}

func (s *GRPCClient) CreatePassword(ctx context.Context, c Credential) (*Credential, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}

	req, err := pb.NewStruct(map[string]any{
		pb.FieldSite:     c.Site,
		pb.FieldEmail:    c.Email,
		pb.FieldPassword: c.Password,
		pb.FieldURL:      c.URL,
		pb.FieldCategory: c.Category,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreatePassword(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return entryFrom(resp), nil
}

func (s *GRPCClient) UpdatePassword(ctx context.Context, id string, patch CredentialPatch) (*Credential, error) {
	if _, err := s.requireUser(); err != nil {
		return nil, err
	}

	fields := map[string]any{pb.FieldID: id}
	for key, v := range map[string]*string{
		pb.FieldSite:     patch.Site,
		pb.FieldEmail:    patch.Email,
		pb.FieldPassword: patch.Password,
		pb.FieldURL:      patch.URL,
		pb.FieldCategory: patch.Category,
	} {
		if v != nil {
			fields[key] = *v
		}
	}
	req, err := pb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.UpdatePassword(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return entryFrom(resp), nil
}

func (s *GRPCClient) DeletePassword(ctx context.Context, id string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}

	req, err := pb.NewStruct(map[string]any{pb.FieldID: id})
	if err != nil {
		return err
	}

	if _, err := s.client.DeletePassword(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}
