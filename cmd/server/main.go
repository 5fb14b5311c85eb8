package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"sqlpractice-service/internal/config"
	"sqlpractice-service/internal/domain/entities"
	"sqlpractice-service/internal/logging"
)

var (
	envFile  string
	seedFile string
	account  string
	role     string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sqlpractice",
	Short: "SQL practice service: question banks, saved questions and an AI tutor",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if envFile != "" {
			cfg, err = config.Load(envFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load question banks from a YAML file",
	Long: `Loads banks and their questions from a YAML document of the form

  banks:
    - title: Joins
      topic: basics
      questions:
        - title: Inner join
          content: ...
          answer: SELECT ...
          tags: [join]

Banks already present under the same topic and title are skipped.`,
	RunE: runSeed,
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Set the role of an existing user",
	Long: `Sets the role of the user owning --account. Admins can reach the
/api/admin routes; pass --role user to take that away again.`,
	RunE: runPromote,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed document")
	_ = seedCmd.MarkFlagRequired("file")
	promoteCmd.Flags().StringVarP(&account, "account", "a", "", "account (e-mail) of the user")
	promoteCmd.Flags().StringVar(&role, "role", entities.RoleAdmin, "role to grant: admin or user")
	_ = promoteCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, promoteCmd)
}

func gormLogLevel() gormlogger.LogLevel {
	if cfg.IsProduction() {
		return gormlogger.Error
	}
	return gormlogger.Warn
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
