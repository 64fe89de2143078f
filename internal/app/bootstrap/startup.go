// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/donorhub/internal/app/store/users"
	"github.com/dalemusser/donorhub/internal/app/system/auth"
	"github.com/dalemusser/donorhub/internal/app/system/timeouts"
	"github.com/dalemusser/donorhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts)

	if appCfg.AdminEmail == "" {
		return nil
	}
	return ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger)
}

// ensureAdmin makes sure the configured account exists and is an admin.
// An existing user is promoted; its password is left unchanged.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin {
			return nil
		}
		role := models.RoleAdmin
		if _, err := users.Update(ctx, u.ID, userstore.Update{Role: &role}); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted bootstrap admin", zap.String("email", u.Email), zap.String("previous_role", u.Role))
		return nil

	case errors.Is(err, userstore.ErrNotFound):
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		created, err := users.Create(ctx, models.User{
			Name:         "Administrator",
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("created bootstrap admin", zap.String("email", created.Email))
		return nil

	default:
		return fmt.Errorf("look up admin: %w", err)
	}
}
