package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Iamanointing/mvv/config"
	"github.com/Iamanointing/mvv/internal/model"
	"github.com/Iamanointing/mvv/internal/repository"
	"github.com/Iamanointing/mvv/internal/service"
	"github.com/Iamanointing/mvv/pkg/database"
	"github.com/Iamanointing/mvv/pkg/jwt"
	applogger "github.com/Iamanointing/mvv/pkg/logger"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "mvvctl",
		Short:        "MyVesaVote administration tool",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (default ./config/config.yaml)")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newCreateAdminCmd(opts),
		newImportStudentsCmd(opts),
	)
	return cmd
}

// stack is the subset of the server wiring a CLI command needs.
type stack struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func openStack(opts *rootOptions) (*stack, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger, model.All()...); err != nil {
		return nil, err
	}
	return &stack{cfg: cfg, logger: logger, db: db}, nil
}

// service builds the domain services without realtime or redis; events
// raised by CLI commands are dropped.
func (s *stack) service() *service.Service {
	return service.NewService(service.Deps{
		Config: s.cfg,
		Repo:   repository.NewRepository(s.db),
		JWT:    jwt.NewManager(&s.cfg.Auth),
		Logger: s.logger,
	})
}

func (s *stack) close() {
	if sqlDB, _ := s.db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	_ = s.logger.Sync()
}
