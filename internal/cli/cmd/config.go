package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/huewatch/internal/cli/styles"
	"github.com/bnema/huewatch/internal/infrastructure/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Create the config file, print its location, or print its JSON schema.`,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default config file",
	Long:        `Write the default configuration. An existing file is kept unless --force is given.`,
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE:        runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE:        runConfigPath,
}

var configSchemaCmd = &cobra.Command{
	Use:         "schema",
	Short:       "Print the JSON schema of the config file",
	Annotations: map[string]string{annotationNoApp: "true"},
	RunE:        runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSchemaCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigFile()
}

func configRenderer() *styles.ConfigRenderer {
	return styles.NewConfigRenderer(styles.NewThemeFromPalette(styles.DefaultDarkPalette()))
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	renderer := configRenderer()
	out := cmd.OutOrStdout()

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil && !configForce {
		fmt.Fprint(out, renderer.RenderExists(path))
		return nil
	} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("check config file: %w", statErr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		fmt.Fprint(out, renderer.RenderError(err))
		return err
	}
	fmt.Fprint(out, renderer.RenderCreated(path))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	fmt.Fprintln(cmd.OutOrStdout(), configRenderer().RenderPath(path, statErr == nil))
	return nil
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := config.GenerateSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
