package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/promptdesk-backend/internal/data/repos"
	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
	"github.com/yungbote/promptdesk-backend/internal/platform/logger"
)

const minPasswordLen = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, user *types.User) error
	LoginUser(dbc dbctx.Context, email, password string) (string, string, error)
	RefreshUser(dbc dbctx.Context, refreshToken string) (string, string, error)
	LogoutUser(dbc dbctx.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(dbc dbctx.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("user required: %w", pkgerrors.ErrInvalidArgument)
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return fmt.Errorf("invalid email: %w", pkgerrors.ErrInvalidArgument)
	}
	if len(user.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, pkgerrors.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)

	return inTx(as.db, dbc, func(inner dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(inner, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return fmt.Errorf("email %s: %w", user.Email, pkgerrors.ErrConflict)
		}
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		as.log.Info("User registered", "user_id", user.ID)
		return nil
	})
}

func (as *authService) LoginUser(dbc dbctx.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password required: %w", pkgerrors.ErrInvalidArgument)
	}

	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("lookup user: %w", err)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("invalid credentials: %w", pkgerrors.ErrUnauthorized)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", pkgerrors.ErrUnauthorized)
	}

	var accessToken, refreshToken string
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		if n, err := as.userTokenRepo.FullDeleteExpired(inner, time.Now()); err != nil {
			return fmt.Errorf("purge expired tokens: %w", err)
		} else if n > 0 {
			as.log.Debug("Purged expired tokens", "count", n)
		}
		access, refresh, err := as.issueTokens(inner, user)
		if err != nil {
			return err
		}
		accessToken, refreshToken = access, refresh
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(dbc dbctx.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", "", fmt.Errorf("refresh token required: %w", pkgerrors.ErrInvalidArgument)
	}

	var accessToken, newRefresh string
	err := inTx(as.db, dbc, func(inner dbctx.Context) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}
		if len(found) == 0 {
			return fmt.Errorf("unknown refresh token: %w", pkgerrors.ErrUnauthorized)
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("delete expired refresh token: %w", err)
			}
			return fmt.Errorf("refresh token expired: %w", pkgerrors.ErrUnauthorized)
		}

		users, err := as.userRepo.GetByIDs(inner, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("no user for refresh token: %w", pkgerrors.ErrUnauthorized)
		}

		access, refresh, err := as.issueTokens(inner, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.FullDeleteByIDs(inner, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		accessToken, newRefresh = access, refresh
		return nil
	})
	if err != nil {
		as.log.Warn("Refresh failed", "error", err)
		return "", "", err
	}
	return accessToken, newRefresh, nil
}

func (as *authService) LogoutUser(dbc dbctx.Context) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("no token in request: %w", pkgerrors.ErrUnauthorized)
	}
	return inTx(as.db, dbc, func(inner dbctx.Context) error {
		found, err := as.userTokenRepo.GetByAccessTokens(inner, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("lookup access token: %w", err)
		}
		if len(found) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, 0, len(found))
		for _, t := range found {
			ids = append(ids, t.ID)
		}
		return as.userTokenRepo.FullDeleteByIDs(inner, ids)
	})
}

func (as *authService) issueTokens(dbc dbctx.Context, user *types.User) (string, string, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	refresh := uuid.NewString()
	_, err = as.userTokenRepo.Create(dbc, []*types.UserToken{{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}})
	if err != nil {
		return "", "", fmt.Errorf("create user token: %w", err)
	}
	return access, refresh, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates an access token and attaches RequestData. The
// token must still be present in user_token, so logout revokes it immediately.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token: %w", pkgerrors.ErrUnauthorized)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("parse token: %v: %w", err, pkgerrors.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", pkgerrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", pkgerrors.ErrUnauthorized)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.From(ctx), []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("lookup access token: %w", err)
	}
	if len(found) == 0 {
		return ctx, fmt.Errorf("token revoked: %w", pkgerrors.ErrUnauthorized)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
