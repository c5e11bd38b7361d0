package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"intersectionreg/internal/auth"
	"intersectionreg/internal/config"
	"intersectionreg/internal/db"
	"intersectionreg/internal/logger"
	"intersectionreg/internal/model"
	"intersectionreg/internal/repository"
	"intersectionreg/internal/service"
)

type seedOptions struct {
	username string
	password string
	role     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}

	root := &cobra.Command{
		Use:          "seed",
		Short:        "Provision the admin account and dropdown catalogue",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(s *seeder) error {
				if err := s.admin(cmd, opts); err != nil {
					return err
				}
				return s.dropdowns(cmd)
			})
		},
	}
	root.PersistentFlags().StringVar(&opts.username, "username", "admin", "Admin username")
	root.PersistentFlags().StringVar(&opts.password, "password", "admin123", "Admin password")
	root.PersistentFlags().StringVar(&opts.role, "role", model.RoleAdmin, "Role of the provisioned user")

	root.AddCommand(
		&cobra.Command{
			Use:   "admin",
			Short: "Provision only the admin account",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(func(s *seeder) error { return s.admin(cmd, opts) })
			},
		},
		&cobra.Command{
			Use:   "dropdowns",
			Short: "Provision only the dropdown catalogue",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(func(s *seeder) error { return s.dropdowns(cmd) })
			},
		},
	)
	return root
}

type seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

func run(fn func(*seeder) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("database ready")

	return fn(&seeder{db: gormDB, log: log})
}

func (s *seeder) admin(cmd *cobra.Command, opts *seedOptions) error {
	// The token service is not used for provisioning; any secret will do.
	authService := service.NewAuthService(repository.NewUserRepository(s.db), auth.NewTokenService("unused", 0))

	created, err := authService.Provision(cmd.Context(), opts.username, opts.password, opts.role)
	if err != nil {
		return err
	}
	if created {
		s.log.Info("user created", zap.String("username", opts.username), zap.String("role", opts.role))
	} else {
		s.log.Info("user already exists, left unchanged", zap.String("username", opts.username))
	}
	return nil
}

func (s *seeder) dropdowns(cmd *cobra.Command) error {
	dropdownService := service.NewDropdownService(repository.NewDropdownRepository(s.db), nil, 0)
	if err := dropdownService.EnsureDefaults(cmd.Context()); err != nil {
		return err
	}
	s.log.Info("dropdown catalogue ready")
	return nil
}
