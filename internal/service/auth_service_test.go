package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"forensichub-be/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// capturingMailer records sent mail instead of dialing SMTP.
type capturingMailer struct {
	mu       sync.Mutex
	otps     map[string]string
	welcomes []string
}

func newCapturingMailer() *capturingMailer {
	return &capturingMailer{otps: make(map[string]string)}
}

func (m *capturingMailer) SendOTP(toEmail, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[toEmail] = otp
	return nil
}

func (m *capturingMailer) SendWelcome(toEmail, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, toEmail)
	return nil
}

func newAuthFixture() (IAuthService, *memStore, *capturingMailer) {
	store := newMemStore()
	mail := newCapturingMailer()
	svc := NewAuthService(&memFactory{store: store}, mail, nil)
	return svc, store, mail
}

// storedOTP pulls the OTP back out of the token table, since the mail
// send is async.
func storedOTP(t *testing.T, store *memStore, userId uuid.UUID) string {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, tok := range store.emailTokens {
		if tok.UserId == userId {
			return tok.Token
		}
	}
	t.Fatal("no verification token stored")
	return ""
}

func TestRegisterCreatesPendingUserWithOTP(t *testing.T) {
	svc, store, _ := newAuthFixture()

	profile, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "adaeze@unilag.edu.ng",
		Password: "s3cure-pass",
		FullName: "Adaeze Okafor",
		Role:     "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", profile.Status)
	assert.Equal(t, "student", profile.Role)

	otp := storedOTP(t, store, profile.Id)
	assert.Len(t, otp, 6)

	// The password never lands in clear text.
	store.mu.Lock()
	hash := store.users[profile.Id].PasswordHash
	store.mu.Unlock()
	require.NotNil(t, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*hash), []byte("s3cure-pass")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "dup@x.ng", Password: "pw-123456", FullName: "A"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.Error(t, err)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "pending@x.ng", Password: "pw-123456", FullName: "P",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Email: "pending@x.ng", Password: "pw-123456"}, "", "")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestVerifyEmailActivatesAccount(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "verify@x.ng", Password: "pw-123456", FullName: "V",
	})
	require.NoError(t, err)

	// Wrong code first.
	err = svc.VerifyEmail(ctx, "verify@x.ng", &dto.VerifyEmailRequest{Token: "000000x"})
	assert.Error(t, err)

	otp := storedOTP(t, store, profile.Id)
	require.NoError(t, svc.VerifyEmail(ctx, "verify@x.ng", &dto.VerifyEmailRequest{Token: otp}))

	me, err := svc.Me(ctx, profile.Id)
	require.NoError(t, err)
	assert.Equal(t, "active", me.Status)

	// Verifying again is a no-op, not an error.
	assert.NoError(t, svc.VerifyEmail(ctx, "verify@x.ng", &dto.VerifyEmailRequest{Token: otp}))
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "login@x.ng", Password: "pw-123456", FullName: "L",
	})
	require.NoError(t, err)
	otp := storedOTP(t, store, profile.Id)
	require.NoError(t, svc.VerifyEmail(ctx, "login@x.ng", &dto.VerifyEmailRequest{Token: otp}))

	tokens, user, err := svc.Login(ctx, &dto.LoginRequest{Email: "login@x.ng", Password: "pw-123456"}, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, profile.Id, user.Id)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))

	// The access token carries the user id claim.
	parsed, err := jwt.Parse(tokens.AccessToken, func(tk *jwt.Token) (interface{}, error) {
		return []byte("default_secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, profile.Id.String(), claims["user_id"])

	// Only the hash of the refresh token is stored.
	store.mu.Lock()
	_, rawStored := store.refreshTokens[tokens.RefreshToken]
	_, hashStored := store.refreshTokens[hashToken(tokens.RefreshToken)]
	store.mu.Unlock()
	assert.False(t, rawStored)
	assert.True(t, hashStored)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "wrongpw@x.ng", Password: "pw-123456", FullName: "W",
	})
	require.NoError(t, err)
	otp := storedOTP(t, store, profile.Id)
	require.NoError(t, svc.VerifyEmail(ctx, "wrongpw@x.ng", &dto.VerifyEmailRequest{Token: otp}))

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Email: "wrongpw@x.ng", Password: "nope"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@x.ng", Password: "pw-123456"}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "rotate@x.ng", Password: "pw-123456", FullName: "R",
	})
	require.NoError(t, err)
	otp := storedOTP(t, store, profile.Id)
	require.NoError(t, svc.VerifyEmail(ctx, "rotate@x.ng", &dto.VerifyEmailRequest{Token: otp}))

	tokens, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "rotate@x.ng", Password: "pw-123456"}, "", "")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old token is dead.
	_, err = svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The new one still works.
	_, err = svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "logout@x.ng", Password: "pw-123456", FullName: "O",
	})
	require.NoError(t, err)
	otp := storedOTP(t, store, profile.Id)
	require.NoError(t, svc.VerifyEmail(ctx, "logout@x.ng", &dto.VerifyEmailRequest{Token: otp}))

	tokens, _, err := svc.Login(ctx, &dto.LoginRequest{Email: "logout@x.ng", Password: "pw-123456"}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResendVerificationCooldown(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "cooldown@x.ng", Password: "pw-123456", FullName: "C",
	})
	require.NoError(t, err)

	// The registration OTP was just issued, so an immediate resend is
	// throttled.
	err = svc.ResendVerification(ctx, &dto.ResendVerificationRequest{Email: "cooldown@x.ng"})
	assert.ErrorIs(t, err, ErrResendCooldown)
}

func TestVerifyEmailExpiredOTP(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	profile, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "expired@x.ng", Password: "pw-123456", FullName: "E",
	})
	require.NoError(t, err)

	store.mu.Lock()
	var otp string
	for _, tok := range store.emailTokens {
		if tok.UserId == profile.Id {
			tok.ExpiresAt = time.Now().Add(-time.Minute)
			otp = tok.Token
		}
	}
	store.mu.Unlock()
	require.NotEmpty(t, otp)

	err = svc.VerifyEmail(ctx, "expired@x.ng", &dto.VerifyEmailRequest{Token: otp})
	assert.EqualError(t, err, "otp code expired")
}
