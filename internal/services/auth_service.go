package services

import (
	"context"
	"log"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

// Verifier is satisfied by *auth.GoogleVerifier.
type Verifier interface {
	Verify(ctx context.Context, token string, isExtension bool) (*auth.Identity, error)
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	Verifier Verifier
	Users    store.UserStore
	Sessions *auth.SessionIssuer
}

func NewAuthService(v Verifier, users store.UserStore, sessions *auth.SessionIssuer) *AuthService {
	return &AuthService{Verifier: v, Users: users, Sessions: sessions}
}

// GoogleLogin verifies the Google credential, resolves the local user and
// issues a session token. When the user table cannot be reached the user id
// is derived from the email so the session still maps to a stable owner.
func (s *AuthService) GoogleLogin(ctx context.Context, token string, isExtension bool) (*LoginResult, error) {
	id, err := s.Verifier.Verify(ctx, token, isExtension)
	if err != nil {
		return nil, err
	}

	candidate := models.User{
		GoogleID: id.ProviderID,
		Email:    id.Email,
		Name:     id.Name,
		Picture:  id.Picture,
	}
	user, err := s.Users.FindOrCreate(ctx, candidate)
	if err != nil {
		log.Printf("⚠️  user store unavailable (%v), using pseudo identity for %s", err, id.Email)
		candidate.ID = models.PseudoUserID(id.Email)
		user = &candidate
	}

	signed, _, err := s.Sessions.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: signed, User: user}, nil
}
