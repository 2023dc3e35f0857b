package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// RootConfig carries global flags shared by all subcommands.
type RootConfig struct {
	DBPath   string
	LogLevel string

	log *logrus.Logger
}

// Logger returns the logger configured by the persistent flags.
func (rc *RootConfig) Logger() *logrus.Logger { return rc.log }

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Future Wallet — deterministic financial projection engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "./wallet.sqlite", "SQLite scenario database")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		rc.log = logrus.New()
		rc.log.SetFormatter(&logrus.JSONFormatter{})
		level, err := logrus.ParseLevel(rc.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", rc.LogLevel)
		}
		rc.log.SetLevel(level)
		return nil
	}

	cmd.AddCommand(
		newRunCmd(rc),
		newScenariosCmd(rc),
		newServeCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("wallet (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
