// qodem hosts a local shell behind the emulation core, rendering the
// scrollback buffer with tcell. It exists to exercise the core
// end to end; the interesting work happens in the emulation,
// scrollback and music packages.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qodem/qodem/config"
	"github.com/qodem/qodem/emulation"
	"github.com/qodem/qodem/logging"
)

var (
	cfgFile  string
	emuName  string
	logfile  string
	debugLog bool
	shell    string

	rootCmd = &cobra.Command{
		Use:               "qodem",
		Short:             "A terminal emulator with BBS-era emulations, scrollback and ANSI music",
		RunE:              runQodem,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
)

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", defaultConfigPath(), "path to the qodemrc config file")
	rootCmd.Flags().StringVar(&emuName, "emulation", "xterm-utf-8", "emulation to run (ansi, avatar, vt52, vt100, vt102, vt220, linux, xterm, tty, debug)")
	rootCmd.Flags().StringVar(&logfile, "logfile", "", "if set, logs will be written to this file")
	rootCmd.Flags().BoolVar(&debugLog, "debug", false, "log at debug level, including swallowed sequences")
	rootCmd.Flags().StringVar(&shell, "shell", os.Getenv("SHELL"), "shell to run inside the emulator")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "qodemrc"
	}
	return filepath.Join(home, ".qodem", "qodemrc")
}

func runQodem(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("qodem requires a terminal on stdin")
	}

	if err := logging.Setup(logfile, debugLog); err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("couldn't load config: %w", err)
	}

	if shell == "" {
		shell = "/bin/sh"
	}

	app, err := newApp(emulation.ModeFromName(emuName), cfg, shell)
	if err != nil {
		return err
	}
	return app.run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
