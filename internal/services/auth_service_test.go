package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/domain"
	"storefront/internal/mocks"
)

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockAuthClient)
		check      func(*testing.T, *domain.User, error)
	}{
		{
			name: "successful login",
			setupMocks: func(client *mocks.MockAuthClient) {
				client.On("Login", mock.Anything, "buyer@example.com", "secret").Return(&domain.User{
					ID:    "user-1",
					Email: "buyer@example.com",
					Role:  domain.RoleBuyer,
				}, nil)
			},
			check: func(t *testing.T, user *domain.User, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)
			},
		},
		{
			name: "invalid credentials pass through untouched",
			setupMocks: func(client *mocks.MockAuthClient) {
				client.On("Login", mock.Anything, "buyer@example.com", "secret").Return(nil, domain.ErrInvalidCredentials)
			},
			check: func(t *testing.T, user *domain.User, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
				var syncErr *domain.RemoteSyncError
				assert.False(t, errors.As(err, &syncErr), "a rejection is not a sync failure")
				assert.Nil(t, user)
			},
		},
		{
			name: "backend unreachable wraps into sync failure",
			setupMocks: func(client *mocks.MockAuthClient) {
				client.On("Login", mock.Anything, "buyer@example.com", "secret").Return(nil, errors.New("connection refused"))
			},
			check: func(t *testing.T, user *domain.User, err error) {
				var syncErr *domain.RemoteSyncError
				assert.ErrorAs(t, err, &syncErr)
				assert.Nil(t, user)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockAuthClient)
			tt.setupMocks(client)

			service := NewAuthService(client, nil)
			user, err := service.Login(context.Background(), "buyer@example.com", "secret")

			tt.check(t, user, err)
			client.AssertExpectations(t)
		})
	}
}
