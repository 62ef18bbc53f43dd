package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediabackup/internal/config"
)

// pathFlags are the per-invocation overrides for the source and backup roots.
type pathFlags struct {
	source string
	backup string
}

func (p *pathFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.source, "source", "s", "", "Export directory to organize (overrides paths.source_dir)")
	cmd.Flags().StringVarP(&p.backup, "backup", "b", "", "Backup root to place files under (overrides paths.backup_dir)")
}

func (p *pathFlags) apply(cfg *config.Config) error {
	if err := cfg.Override(p.source, p.backup, 0); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
