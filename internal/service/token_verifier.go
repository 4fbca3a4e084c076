package service

import (
	"context"
	"errors"
	"strings"

	"app/internal/model"
	"app/internal/util"

	"google.golang.org/api/idtoken"
)

// GoogleTokenVerifier validates Firebase/Google ID tokens against Google's
// public keys, with the Firebase project ID as the expected audience.
type GoogleTokenVerifier struct {
	audience string
}

func NewGoogleTokenVerifier(projectID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{audience: projectID}
}

func (v *GoogleTokenVerifier) Verify(ctx context.Context, token string) (*model.IdentityClaims, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, err
	}
	if payload.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	email, _ := payload.Claims["email"].(string)
	return &model.IdentityClaims{
		SubjectID: payload.Subject,
		Email:     strings.ToLower(email),
	}, nil
}

// StaticSecretVerifier validates HMAC-signed tokens with a shared secret.
// Local development only; it cannot verify provider-issued tokens.
type StaticSecretVerifier struct {
	secret string
}

func NewStaticSecretVerifier(secret string) *StaticSecretVerifier {
	return &StaticSecretVerifier{secret: secret}
}

func (v *StaticSecretVerifier) Verify(_ context.Context, token string) (*model.IdentityClaims, error) {
	claims, err := util.ValidateJWT(token, v.secret)
	if err != nil {
		return nil, err
	}
	return &model.IdentityClaims{
		SubjectID: claims.Subject,
		Email:     strings.ToLower(claims.Email),
	}, nil
}
