package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ALi-ather/Video-Text-Translator/internal/config"
	"github.com/ALi-ather/Video-Text-Translator/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "subbatch",
	Short: "Batch subtitle generator and translator",
	Long: `subbatch converts a folder of videos into SRT subtitle files and
translates a folder of SRT files into another language.

Each file is processed on its own: a file that fails is reported and the
batch moves on to the next one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, resolved, exists, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logger.Debugw("configuration loaded",
			"path", resolved,
			"exists", exists,
		)
		return nil
	},
}

// Execute runs the root command. An interrupt cancels the running batch
// after the file in progress.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/subbatch/config.toml)")
}
