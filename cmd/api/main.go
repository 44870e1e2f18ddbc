// @title Petshop CRM API
// @version 1.0
// @description Productos, clientes, mascotas, agenda de banho e tosa, dashboard y marketing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"petshop-crm/internal/adapters/storage/sqlstore"
	"petshop-crm/internal/config"
	"petshop-crm/internal/platform/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "petshop-crm",
	Short: "API del CRM del petshop",
	Long: `API HTTP del CRM: productos, clientes, mascotas, banho e tosa,
dashboard financiero y campañas de marketing.

Sin subcomando arranca el servidor (igual que "serve").`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env opcional")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap carga config y logger comunes a todos los subcomandos.
func bootstrap() (config.Config, logger.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg config.Config) (*sqlstore.DB, error) {
	dsn := strings.TrimSpace(cfg.DB.DSN)
	if dsn == "" {
		dsn = sqlstore.MemoryDSN
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.DB.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func syncLogger(log logger.Logger) {
	if zl, ok := log.(*logger.ZapLogger); ok {
		_ = zl.Zap().Sync()
	}
}
