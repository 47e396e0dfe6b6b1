package router

import (
	"github.com/sisconis/identity-api/internal/application"
	"github.com/sisconis/identity-api/internal/container"
	"github.com/sisconis/identity-api/internal/infrastructure/idgen"
	pginfra "github.com/sisconis/identity-api/internal/infrastructure/postgres"
	"github.com/sisconis/identity-api/internal/infrastructure/security"
	handlers "github.com/sisconis/identity-api/internal/interface/http"
	"github.com/sisconis/identity-api/internal/router/modules"
)

// InitModules wires every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	hasher := security.NewBcryptHasher()
	idGen := idgen.NewULIDGenerator()

	userSvc := application.NewUserService(
		repo,
		hasher,
		idGen,
		container.GetLogger(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESUsersIndex,
	)
	authSvc := application.NewAuthService(
		repo,
		hasher,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
	)
	systemSvc := application.NewSystemService(
		cfg.AppName,
		cfg.AppVersion,
		cfg.Env,
		cfg.Flags(),
		container.GetPGPool(),
		container.GetRedis(),
	)

	userHandler := handlers.NewUserHandler(userSvc, container.GetLogger())
	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	systemHandler := handlers.NewSystemHandler(systemSvc)

	r.Add(modules.NewSystemModule(systemHandler))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
}
