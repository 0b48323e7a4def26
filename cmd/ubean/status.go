package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/ytbean/ubean/internal/cliconfig"
	"github.com/ytbean/ubean/internal/status"
)

func newStatusCmd() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "status [name]",
		Short: "Show the last recorded lifecycle state of a component",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			loaded, err := loadConfig(cfg, cfgFile, changed)
			if err != nil {
				return err
			}

			name := loaded.Name
			if len(args) == 1 {
				name = args[0]
			}
			if loaded.StatusDir == "" {
				return fmt.Errorf("status directory not configured")
			}

			st, err := status.NewFileRepository(loaded.StatusDir).Load(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("load status: %w", err)
			}
			if st.IsEmpty() {
				return fmt.Errorf("no status recorded for %s", name)
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.ubean/config.toml)")
	cmd.Flags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory for status files")
	return cmd
}

func printStatus(w io.Writer, st status.Status) {
	fmt.Fprintf(w, "%s\t%s\n", st.Name, st.State)
	if st.Previous != "" {
		fmt.Fprintf(w, "  previous:\t%s\n", st.Previous)
	}
	fmt.Fprintf(w, "  pid:\t%d\n", st.PID)
	fmt.Fprintf(w, "  changed:\t%s\n", st.ChangedAt.Local().Format(time.RFC3339))
}
