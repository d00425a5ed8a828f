// Command loghaulctl tails one file and ships its records to stdout or
// another file until interrupted. Configuration comes from a YAML file,
// the environment, and flags, in the usual viper precedence order.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/sink"
	"github.com/shadowmint/loghaul/tail"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loghaulctl",
		Short: "Ship one file's records to stdout (or a file) until interrupted.",
		RunE:  run,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./loghaulctl.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().String("source", "", "pathname to tail")
	cmd.Flags().String("sink", "", "pathname to write to; empty means stdout")
	cmd.Flags().Duration("interval", 100*time.Millisecond, "polling interval")
	cmd.Flags().Duration("cooldown", 0, "if > 0, resume the source after EOF with this cooldown")
	_ = viper.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("sink", cmd.Flags().Lookup("sink"))
	_ = viper.BindPFlag("interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("cooldown", cmd.Flags().Lookup("cooldown"))
	return cmd
}

func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("loghaulctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("LOGHAULCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := loadConfig(); err != nil {
		return fmt.Errorf("loghaulctl: loading config: %w", err)
	}

	source := viper.GetString("source")
	if source == "" {
		return fmt.Errorf("loghaulctl: --source (or config key \"source\") is required")
	}

	keeper, err := startKeeper(source, viper.GetString("sink"), viper.GetDuration("interval"), viper.GetDuration("cooldown"))
	if err != nil {
		return err
	}

	// Restart the Keeper (never mutate a running one, preserving
	// KeeperConfig's "immutable after start" invariant) whenever the
	// config file changes, via viper's fsnotify-backed WatchConfig.
	restart := make(chan struct{}, 1)
	viper.OnConfigChange(func(_ fsnotify.Event) {
		select {
		case restart <- struct{}{}:
		default:
		}
	})
	viper.WatchConfig()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Lifecycle events only reach the sink when someone drains the log
	// channel; do so once a second so they show up while running, not
	// just in the final flush inside Halt.
	drain := time.NewTicker(time.Second)
	defer drain.Stop()

	for {
		select {
		case <-drain.C:
			keeper.Step()
		case <-sig:
			keeper.Halt()
			return nil
		case <-restart:
			log.Info().Msg("config changed, restarting keeper")
			keeper.Halt()
			keeper, err = startKeeper(viper.GetString("source"), viper.GetString("sink"), viper.GetDuration("interval"), viper.GetDuration("cooldown"))
			if err != nil {
				return err
			}
		}
	}
}

func startKeeper(source, sinkPath string, interval, cooldown time.Duration) (*loghaul.Keeper, error) {
	stream := loghaul.NewStream()
	stream.AddSource(tail.NewFileSource(afero.NewOsFs(), source))

	if sinkPath == "" {
		stream.AddTarget(sink.NewStdoutTarget(os.Stdout))
	} else {
		stream.AddTarget(sink.NewFileTarget(afero.NewOsFs(), sinkPath))
	}

	strategy := loghaul.DropSource()
	if cooldown > 0 {
		strategy = loghaul.ResumeSourceAfterCooldown(cooldown)
	}

	keeper := loghaul.NewKeeper(stream, loghaul.KeeperConfig{
		Interval:    interval,
		EofStrategy: strategy,
		Logger:      zerologKeeperLog{},
	})
	return keeper, nil
}

// zerologKeeperLog adapts loghaul.KeeperLog onto the global zerolog logger.
type zerologKeeperLog struct{}

func (zerologKeeperLog) Log(entry loghaul.KeeperLogEntry) {
	evt := log.Info()
	if entry.Kind == loghaul.KeeperErrorKind {
		evt = log.Error().Err(entry.Inner)
	}
	evt.Str("event", entry.Kind.String()).Msg("keeper lifecycle event")
}

