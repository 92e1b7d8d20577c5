// Command seed provisions demo tenants, areas, users, and initiatives
// for local development and for isolation-audit fixtures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alignhq/api/internal/config"
	"github.com/alignhq/api/internal/infra/postgres"
	"github.com/alignhq/api/pkg/domain/area"
	"github.com/alignhq/api/pkg/domain/initiative"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/domain/shared"
	"github.com/alignhq/api/pkg/domain/tenant"
	"github.com/alignhq/api/pkg/domain/user"
	"github.com/alignhq/api/pkg/password"
)

type seeder struct {
	tenants     *postgres.TenantRepository
	areas       *postgres.AreaRepository
	users       *postgres.UserRepository
	initiatives *postgres.InitiativeRepository
}

func main() {
	demoPassword := flag.String("password", "changeme-demo", "Password for all seeded users")
	flag.Parse()

	if err := run(*demoPassword); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Seed completed successfully!")
}

func run(demoPassword string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := &seeder{
		tenants:     postgres.NewTenantRepository(db),
		areas:       postgres.NewAreaRepository(db),
		users:       postgres.NewUserRepository(db),
		initiatives: postgres.NewInitiativeRepository(db),
	}

	hash, err := password.Hash(demoPassword)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	for _, spec := range demoTenants {
		if err := s.seedTenant(ctx, spec, hash); err != nil {
			return err
		}
	}
	return nil
}

type tenantSpec struct {
	name  string
	slug  string
	areas []string
}

var demoTenants = []tenantSpec{
	{name: "Northwind Labs", slug: "northwind", areas: []string{"Engineering", "Sales"}},
	{name: "Fabrikam Group", slug: "fabrikam", areas: []string{"Operations", "Marketing"}},
}

func (s *seeder) seedTenant(ctx context.Context, spec tenantSpec, passwordHash string) error {
	t, err := tenant.NewTenant(spec.name, spec.slug)
	if err != nil {
		return fmt.Errorf("creating tenant %s: %w", spec.slug, err)
	}
	if err := s.tenants.Create(ctx, t); err != nil {
		if shared.IsStorage(err) {
			return err
		}
		fmt.Printf("tenant %s already present, skipping\n", spec.slug)
		return nil
	}
	fmt.Printf("tenant %s (%s)\n", spec.name, t.ID().String())

	var areaIDs []shared.ID
	for _, name := range spec.areas {
		a, err := area.NewArea(t.ID(), name)
		if err != nil {
			return fmt.Errorf("creating area %s: %w", name, err)
		}
		if err := s.areas.Create(ctx, a); err != nil {
			return err
		}
		areaIDs = append(areaIDs, a.ID())
		fmt.Printf("  area %s (%s)\n", name, a.ID().String())
	}

	users := []struct {
		email string
		name  string
		role  role.Role
		area  *shared.ID
	}{
		{email: "owner@" + spec.slug + ".test", name: "Demo Owner", role: role.RoleOwner},
		{email: "admin@" + spec.slug + ".test", name: "Demo Admin", role: role.RoleAdmin},
		{email: "analyst@" + spec.slug + ".test", name: "Demo Analyst", role: role.RoleAnalyst},
		{email: "manager@" + spec.slug + ".test", name: "Demo Manager", role: role.RoleManager, area: &areaIDs[0]},
	}

	var managerID shared.ID
	for _, spec := range users {
		u, err := user.NewUser(t.ID(), spec.email, spec.name, spec.role, spec.area)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", spec.email, err)
		}
		u.SetPasswordHash(passwordHash)
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if spec.role == role.RoleManager {
			managerID = u.ID()
		}
		fmt.Printf("  user %s (%s)\n", spec.email, spec.role)
	}

	// One initiative per area, created by the manager's area first so
	// cross-area audit probes have data on both sides.
	for i, areaID := range areaIDs {
		init, err := initiative.NewInitiative(t.ID(), areaID,
			fmt.Sprintf("%s demo initiative %d", spec.name, i+1), managerID)
		if err != nil {
			return fmt.Errorf("creating initiative: %w", err)
		}
		init.SetSummary("Seeded demo initiative")
		if err := s.initiatives.Create(ctx, init); err != nil {
			return err
		}
		fmt.Printf("  initiative %s\n", init.ID().String())
	}

	return nil
}
