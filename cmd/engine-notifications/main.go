// ABOUTME: engine-notifications CLI: runs the notification daemon and forwards
// ABOUTME: post/minimize requests from the engine process to it.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/777genius/engine-notifications/internal/config"
	"github.com/777genius/engine-notifications/internal/logging"
	"github.com/777genius/engine-notifications/internal/window"
)

// version is set at build time via -ldflags.
var version = "dev"

type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "engine-notifications",
		Short:         "Notification and window reactivation glue for the native engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Close()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ~/.config/engine-notifications/config.json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newDaemonCmd(opts),
		newPostCmd(opts),
		newMinimizeCmd(opts),
		newPingCmd(opts),
		newStopCmd(opts),
		newConfigCmd(opts),
		newDoctorCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *options) load() error {
	o.cfg = config.LoadDefault(o.configPath)
	if o.logLevel != "" {
		o.cfg.Logging.Level = o.logLevel
	}
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return logging.Init(logging.Config{
		Level:   o.cfg.Logging.Level,
		File:    o.cfg.Logging.File,
		Console: o.cfg.IsConsoleLoggingEnabled(),
	})
}

func newDaemonCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the notification daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts.cfg)
		},
	}
}

func newPostCmd(opts *options) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "post [--session ID] TEXT",
		Short: "Show the engine notification; tapping it reactivates the application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postNotification(opts, sessionID, args[0])
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session identifier delivered to the application on tap")
	return cmd
}

func newMinimizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "minimize",
		Short: "Send the application to the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return minimize(opts)
		},
	}
}

func newPingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ping(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func newStopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stop(opts)
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func newDoctorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Report the window tools available for raising the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tray backend: %s\n", opts.cfg.Notifications.Backend)
			fmt.Fprintf(out, "window target: %s\n", opts.cfg.App.WindowTarget)
			if opts.cfg.App.LaunchCommand == "" {
				fmt.Fprintln(out, "launch command: (none, session ids are not delivered to a raised window)")
			} else {
				fmt.Fprintf(out, "launch command: %s\n", opts.cfg.App.LaunchCommand)
			}

			tools := window.DetectTools()
			if len(tools) == 0 {
				fmt.Fprintln(out, "window tools: not supported on this platform")
				return nil
			}
			names := make([]string, 0, len(tools))
			for name := range tools {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(out, "window tools:")
			for _, name := range names {
				status := "missing"
				if tools[name] {
					status = "ok"
				}
				fmt.Fprintf(out, "  %-26s %s\n", name, status)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "engine-notifications %s\n", version)
			return nil
		},
	}
}

func (o *options) resolvedConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.GetStableConfigPath()
}
