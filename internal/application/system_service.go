package application

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SystemService answers the operational endpoints: liveness, readiness
// against the backing stores, server clock, feature flags and build info.
type SystemService struct {
	AppName string
	Version string
	Env     string
	Flags   map[string]bool
	Pool    *pgxpool.Pool
	Redis   *redis.Client

	startedAt time.Time
}

func NewSystemService(appName, version, env string, flags map[string]bool, pool *pgxpool.Pool, rdb *redis.Client) *SystemService {
	return &SystemService{
		AppName:   appName,
		Version:   version,
		Env:       env,
		Flags:     flags,
		Pool:      pool,
		Redis:     rdb,
		startedAt: time.Now(),
	}
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health is pure liveness: the process is up.
func (s *SystemService) Health() HealthStatus {
	return HealthStatus{Status: "ok", Timestamp: time.Now().UTC()}
}

type ReadinessStatus struct {
	Status    string          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Timestamp time.Time       `json:"timestamp"`
}

func (r ReadinessStatus) IsReady() bool { return r.Status == "ready" }

// Readiness probes postgres and redis; the status is ready only when every
// configured dependency answers.
func (s *SystemService) Readiness(ctx context.Context) ReadinessStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	checks := map[string]bool{}
	if s.Pool != nil {
		checks["postgres"] = s.Pool.Ping(ctx) == nil
	}
	if s.Redis != nil {
		checks["redis"] = s.Redis.Ping(ctx).Err() == nil
	}

	status := "ready"
	for _, ok := range checks {
		if !ok {
			status = "not_ready"
			break
		}
	}
	return ReadinessStatus{Status: status, Checks: checks, Timestamp: time.Now().UTC()}
}

type ClockInfo struct {
	ISO  string `json:"iso"`
	Unix int64  `json:"unix"`
}

func (s *SystemService) Clock() ClockInfo {
	now := time.Now().UTC()
	return ClockInfo{ISO: now.Format(time.RFC3339), Unix: now.Unix()}
}

type FeatureFlag struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (s *SystemService) FeatureFlags() []FeatureFlag {
	flags := make([]FeatureFlag, 0, len(s.Flags))
	for name, enabled := range s.Flags {
		flags = append(flags, FeatureFlag{Name: name, Enabled: enabled})
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	return flags
}

type SystemInfo struct {
	Name        string  `json:"name"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
	Uptime      float64 `json:"uptime_seconds"`
}

func (s *SystemService) Info() SystemInfo {
	return SystemInfo{
		Name:        s.AppName,
		Version:     s.Version,
		Environment: s.Env,
		Uptime:      time.Since(s.startedAt).Seconds(),
	}
}
