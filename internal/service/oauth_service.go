package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"forensichub-be/internal/dto"
	"forensichub-be/internal/entity"
	"forensichub-be/internal/repository/specification"
	"forensichub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.AuthTokenResponse, *dto.UserProfileResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.AuthTokenResponse, *dto.UserProfileResponse, error) {
	if provider != "google" {
		return nil, nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("code exchange failed: %v", err)
	}

	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken
	resp, err := http.Get(userInfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed reading response: %v", err)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(content, &googleUser); err != nil {
		return nil, nil, err
	}
	if !googleUser.VerifiedEmail {
		return nil, nil, errors.New("google account email not verified")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		now := time.Now()
		avatar := googleUser.Picture
		user = &entity.User{
			Id:              uuid.New(),
			Email:           googleUser.Email,
			FullName:        googleUser.Name,
			Role:            entity.UserRoleStudent,
			Status:          entity.UserStatusActive,
			EmailVerified:   true,
			EmailVerifiedAt: &now,
			AvatarURL:       &avatar,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := uow.Begin(ctx); err != nil {
			return nil, nil, err
		}
		defer uow.Rollback()

		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, nil, err
		}

		providerLink := &entity.UserProvider{
			Id:             uuid.New(),
			UserId:         user.Id,
			ProviderName:   provider,
			ProviderUserId: googleUser.ID,
			AvatarURL:      googleUser.Picture,
			CreatedAt:      now,
		}
		if err := uow.UserRepository().SaveUserProvider(ctx, providerLink); err != nil {
			return nil, nil, err
		}

		if err := uow.Commit(); err != nil {
			return nil, nil, err
		}
	} else {
		existing, err := uow.UserRepository().FindUserProvider(ctx, provider, googleUser.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing == nil {
			providerLink := &entity.UserProvider{
				Id:             uuid.New(),
				UserId:         user.Id,
				ProviderName:   provider,
				ProviderUserId: googleUser.ID,
				AvatarURL:      googleUser.Picture,
				CreatedAt:      time.Now(),
			}
			if err := uow.UserRepository().SaveUserProvider(ctx, providerLink); err != nil {
				log.Printf("failed to link oauth provider: %v", err)
			}
		}
	}

	svc := &authService{uowFactory: s.uowFactory}
	tokens, err := svc.issueTokens(ctx, uow, user, "", "oauth/google")
	if err != nil {
		return nil, nil, err
	}

	return tokens, toUserProfile(user), nil
}
