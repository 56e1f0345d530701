package commands

import (
	"context"

	reqdto "cowork-booking/internal/handler/dto/request"
	"cowork-booking/internal/infra"
	"cowork-booking/internal/pkg/errs"
	"cowork-booking/internal/pkg/jwt"
	"cowork-booking/internal/usecase/shared"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type AuthCommands interface {
	// RegisterUser upserts the messenger user and issues their API token.
	RegisterUser(ctx context.Context, req reqdto.RegisterUserRequest) (string, error)
	// AdminLogin verifies the admin password and issues an admin token.
	AdminLogin(ctx context.Context, req reqdto.AdminLoginRequest) (string, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwtService: jwtService}
}

func (a *authCommandsImpl) RegisterUser(ctx context.Context, req reqdto.RegisterUserRequest) (string, error) {
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Upsert(ctx, tx.DB(), shared.UserProfile{
			ID:        req.UserID,
			FirstName: req.FirstName,
			Username:  req.Username,
			Phone:     req.Phone,
		})
	})
	if err != nil {
		return "", err
	}

	token, err := a.jwtService.GenerateToken(req.UserID)
	if err != nil {
		return "", errs.Mark(err, ErrTokenGeneration)
	}
	return token, nil
}

func (a *authCommandsImpl) AdminLogin(ctx context.Context, req reqdto.AdminLoginRequest) (string, error) {
	admin, err := a.uow.CommandReads().AdminByLogin(ctx, req.Login)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", errs.Mark(err, ErrInvalidCredentials)
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateAdminToken(admin.ID)
	if err != nil {
		return "", errs.Mark(err, ErrTokenGeneration)
	}
	return token, nil
}
