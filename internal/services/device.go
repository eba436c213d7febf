package services

import (
	"fmt"
	"time"

	"campus-connect-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 365

// DeviceService issues and validates anonymous device identities. The device
// id doubles as the owner of the device's key-value scope.
type DeviceService struct {
	jwtSecret string
	now       func() time.Time
}

// NewDeviceService creates a new device service
func NewDeviceService(jwtSecret string) *DeviceService {
	return &DeviceService{
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// GenerateJWT generates a JWT token for a device
func (s *DeviceService) GenerateJWT(deviceID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"device_id": deviceID,
		"exp":       now.AddDate(0, 0, jwtExpDays).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the device ID
func (s *DeviceService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return "", fmt.Errorf("device_id not found in token")
	}

	return deviceID, nil
}

// Register creates a new anonymous device
func (s *DeviceService) Register() (*models.Device, error) {
	deviceID := uuid.New().String()

	token, err := s.GenerateJWT(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.Device{
		ID:        deviceID,
		Token:     token,
		CreatedAt: s.now(),
	}, nil
}
