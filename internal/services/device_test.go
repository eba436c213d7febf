package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceRegisterIssuesValidToken(t *testing.T) {
	svc := NewDeviceService("test-secret")

	device, err := svc.Register()
	require.NoError(t, err)
	assert.NotEmpty(t, device.ID)
	assert.NotEmpty(t, device.Token)

	deviceID, err := svc.ValidateJWT(device.Token)
	require.NoError(t, err)
	assert.Equal(t, device.ID, deviceID)
}

func TestDeviceValidateRejectsForeignSecret(t *testing.T) {
	device, err := NewDeviceService("secret-a").Register()
	require.NoError(t, err)

	_, err = NewDeviceService("secret-b").ValidateJWT(device.Token)
	assert.Error(t, err)
}

func TestDeviceValidateRejectsExpiredToken(t *testing.T) {
	svc := NewDeviceService("test-secret")
	svc.now = func() time.Time { return time.Now().AddDate(-2, 0, 0) }

	token, err := svc.GenerateJWT("dev-1")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(token)
	assert.Error(t, err)
}

func TestDeviceValidateRequiresDeviceClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewDeviceService("test-secret").ValidateJWT(signed)
	assert.ErrorContains(t, err, "device_id")
}

func TestDeviceValidateRejectsGarbage(t *testing.T) {
	_, err := NewDeviceService("test-secret").ValidateJWT("not-a-token")
	assert.Error(t, err)
}
