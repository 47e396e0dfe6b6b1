package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sisconis/identity-api/internal/application"
)

func TestSystemService_Health(t *testing.T) {
	svc := application.NewSystemService("identity-api", "dev", "test", nil, nil, nil)

	status := svc.Health()
	assert.Equal(t, "ok", status.Status)
	assert.False(t, status.Timestamp.IsZero())
}

func TestSystemService_ReadinessWithoutDependencies(t *testing.T) {
	svc := application.NewSystemService("identity-api", "dev", "test", nil, nil, nil)

	status := svc.Readiness(context.Background())
	assert.True(t, status.IsReady(), "no configured dependencies means nothing can fail")
	assert.Empty(t, status.Checks)
}

func TestSystemService_FeatureFlagsSortedByName(t *testing.T) {
	svc := application.NewSystemService("identity-api", "dev", "test", map[string]bool{
		"user_search":           true,
		"self_service_password": false,
	}, nil, nil)

	flags := svc.FeatureFlags()
	assert.Len(t, flags, 2)
	assert.Equal(t, "self_service_password", flags[0].Name)
	assert.False(t, flags[0].Enabled)
	assert.Equal(t, "user_search", flags[1].Name)
	assert.True(t, flags[1].Enabled)
}

func TestSystemService_Info(t *testing.T) {
	svc := application.NewSystemService("identity-api", "1.2.3", "production", nil, nil, nil)

	info := svc.Info()
	assert.Equal(t, "identity-api", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "production", info.Environment)
	assert.GreaterOrEqual(t, info.Uptime, 0.0)
}
