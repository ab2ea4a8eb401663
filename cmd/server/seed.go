package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tooflex/task-manager-server/internal/domain"
	"github.com/Tooflex/task-manager-server/internal/store"
)

// seed ensures the baseline roles exist and, when enabled in
// configuration, an initial admin account. Seeding is idempotent: an
// existing role or admin user is left untouched.
func (app *application) seed(ctx context.Context) error {
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		if err := app.ensureRole(ctx, name); err != nil {
			return err
		}
	}

	if !app.config.Seed.Enabled {
		return nil
	}
	return app.ensureAdminUser(ctx)
}

func (app *application) ensureRole(ctx context.Context, name string) error {
	_, err := app.roleStore.GetByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrRoleNotFound) {
		return fmt.Errorf("failed to look up role %q: %w", name, err)
	}

	role, err := domain.NewRole(name)
	if err != nil {
		return fmt.Errorf("failed to build role %q: %w", name, err)
	}
	if err := app.roleStore.Create(ctx, role); err != nil {
		// Another instance may have created it between the lookup and
		// the insert.
		if errors.Is(err, store.ErrRoleNameExists) {
			return nil
		}
		return fmt.Errorf("failed to create role %q: %w", name, err)
	}

	app.logger.Info("Seeded role", "role", name)
	return nil
}

func (app *application) ensureAdminUser(ctx context.Context) error {
	seedCfg := app.config.Seed
	if seedCfg.AdminUsername == "" || seedCfg.AdminEmail == "" || seedCfg.AdminPassword == "" {
		return fmt.Errorf("seeding enabled but admin username, email or password missing")
	}

	exists, err := app.userStore.ExistsByUsername(ctx, seedCfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if exists {
		return nil
	}

	_, err = app.userService.CreateUserWithRole(
		ctx,
		seedCfg.AdminUsername,
		seedCfg.AdminEmail,
		seedCfg.AdminPassword,
		domain.RoleAdmin,
	)
	if err != nil {
		if store.IsDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	app.logger.Info("Seeded admin user", "username", seedCfg.AdminUsername)
	return nil
}
