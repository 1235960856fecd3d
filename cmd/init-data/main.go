package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/model"
	"github.com/autovm/autovm/utils"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Config struct {
	DatabaseURI   string
	AdminUsername string
	AdminEmail    string
}

// loadConfig loads configuration settings from the environment. We're using koanf directly here so that the
// configuration files don't have to be present to run the initialization utility.
func loadConfig() (*Config, error) {
	k := koanf.New(".")

	// Load the configuration settings from the environment.
	err := k.Load(
		env.Provider("AUTOVM_", ".",
			func(s string) string {
				return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "AUTOVM_")), "_", ".", -1)
			},
		),
		nil,
	)
	if err != nil {
		return nil, err
	}

	// Verify that the database URI is specified.
	databaseURI := k.String("database.uri")
	if databaseURI == "" {
		return nil, fmt.Errorf("AUTOVM_DATABASE_URI must be defined")
	}

	adminUsername := k.String("admin.username")
	adminEmail := k.String("admin.email")
	if adminUsername != "" && adminEmail == "" {
		return nil, fmt.Errorf("AUTOVM_ADMIN_EMAIL must be defined when AUTOVM_ADMIN_USERNAME is")
	}

	return &Config{DatabaseURI: databaseURI, AdminUsername: adminUsername, AdminEmail: adminEmail}, nil
}

// regionNames lists the regions that virtual machines can be placed in by default.
var regionNames = []string{
	"North America",
	"Europe",
	"Asia Pacific",
}

// osVersions lists the operating system versions that are installable by default.
var osVersions = map[string][]string{
	"ubuntu":  {"20.04", "22.04"},
	"fedora":  {"38"},
	"debian":  {"12"},
	"windows": {"server-2019"},
}

// seedRegions adds the default regions. Regions that already exist keep their slugs and get their names refreshed.
func seedRegions(ctx context.Context, tx *gorm.DB) error {
	for _, name := range regionNames {
		region := &model.Region{Name: name, Slug: utils.Slugify(name)}
		if err := db.UpsertRegion(ctx, tx, region); err != nil {
			return errors.Wrapf(err, "unable to add the %s region", name)
		}
		fmt.Printf("added region %s\n", name)
	}
	return nil
}

// seedOSVersions adds the default operating system versions, skipping any that already exist.
func seedOSVersions(ctx context.Context, tx *gorm.DB) error {
	existing, err := db.ListOSVersions(ctx, tx)
	if err != nil {
		return errors.Wrap(err, "unable to list the existing operating system versions")
	}
	present := make(map[string]bool)
	for _, version := range existing {
		present[version.OperatingSystem.Name+" "+version.Version] = true
	}

	for osName, versions := range osVersions {
		for _, version := range versions {
			if present[osName+" "+version] {
				continue
			}
			if _, err := db.AddOSVersion(ctx, tx, osName, version); err != nil {
				return errors.Wrapf(err, "unable to add %s %s", osName, version)
			}
			fmt.Printf("added operating system version %s %s\n", osName, version)
		}
	}
	return nil
}

// seedAdmin registers the initial administrator if one was requested.
func seedAdmin(ctx context.Context, tx *gorm.DB, cfg *Config) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	user, err := db.EnsureUser(ctx, tx, cfg.AdminUsername, cfg.AdminEmail, "", model.RoleAdmin)
	if err != nil {
		return errors.Wrapf(err, "unable to register the administrator %s", cfg.AdminUsername)
	}
	if err = db.ProvisionProfile(ctx, tx, user); err != nil {
		return errors.Wrapf(err, "unable to provision the administrator profile for %s", cfg.AdminUsername)
	}

	fmt.Printf("registered administrator %s\n", cfg.AdminUsername)
	return nil
}

func main() {

	// Load the configuration.
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("unable to load the configuration: %s", err)
	}

	// Establish the database connection.
	_, gormdb, err := db.Init("postgres", cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("unable to connect to the database: %s", err)
	}

	// Run the actual updates in a transaction.
	err = gormdb.Transaction(func(tx *gorm.DB) error {
		ctx := context.Background()

		if err := seedRegions(ctx, tx); err != nil {
			return err
		}
		if err := seedOSVersions(ctx, tx); err != nil {
			return err
		}
		return seedAdmin(ctx, tx, cfg)
	})
	if err != nil {
		log.Fatal(err)
	}
}
