package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/dvdcodez/SeaSync/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or validate configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration after defaults and overrides",
		RunE:  runConfigShow,
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a candidate config file without applying it",
		Long: `Validate checks a TOML config file against the same rules the CLI
applies at startup, without loading it into the running command. Defaults
to the configured config path (--config, or the platform default) when no
file argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigValidate,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(cc.Cfg)
	}

	enc := toml.NewEncoder(os.Stdout)

	return enc.Encode(cc.Cfg)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cc := mustCLIContext(cmd.Context())

	path := flagConfigPath
	if len(args) == 1 {
		path = args[0]
	}

	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := config.Load(path, cc.Logger); err != nil {
		return fmt.Errorf("%s: invalid: %w", path, err)
	}

	fmt.Printf("%s: valid\n", path)

	return nil
}
