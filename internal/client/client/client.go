package client

import (
	"context"

	"github.com/dmitrijs2005/euem/internal/client/models"
)

// Client is the contract of the remote account service.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.AuthSession, error)
	RegisterUser(ctx context.Context, payload models.RegisterPayload) (*models.AuthUser, error)
	VerifyEmail(ctx context.Context, code string) (*models.StatusMessage, error)
	ResendVerificationCode(ctx context.Context, email string) (*models.StatusMessage, error)
	GetProfile(ctx context.Context, token string) (*models.AuthUser, error)
}
