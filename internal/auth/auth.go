package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contact_keeper/internal/lib/jwt"
	sl "contact_keeper/internal/lib/logger"
	"contact_keeper/internal/models"
	"contact_keeper/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	secret      string
	registerTTL time.Duration
	loginTTL    time.Duration
}

type UserSaver interface {
	SaveUser(ctx context.Context, name, email string, passHash []byte) (uid int64, err error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	secret string,
	registerTTL, loginTTL time.Duration,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		secret:      secret,
		registerTTL: registerTTL,
		loginTTL:    loginTTL,
	}
}

// Register creates an account and issues a token bound to the new identity.
// An already-taken email fails with ErrUserExists.
func (a *Auth) Register(ctx context.Context, name, email, pass string) (string, int64, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	_, err := a.usrProvider.UserByEmail(ctx, email)
	if err == nil {
		log.Warn("user already exists")
		return "", 0, ErrUserExists
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to check existing user", sl.Err(err))
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, name, email, passHash)
	if err != nil {
		// The unique index closes the check-then-insert race.
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return "", 0, ErrUserExists
		}

		log.Error("failed to save user", sl.Err(err))
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	token, err := jwt.NewToken(id, a.secret, a.registerTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("uid", id))

	return token, id, nil
}

// Login checks the credentials and issues a token. An unknown email fails with
// storage.ErrUserNotFound, a wrong password with ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, pass string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return "", storage.ErrUserNotFound
		}

		log.Error("failed to get user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(pass)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return "", ErrInvalidCredentials
	}

	token, err := jwt.NewToken(user.ID, a.secret, a.loginTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return token, nil
}

func (a *Auth) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "auth.UserByID"

	user, err := a.usrProvider.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
