package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/huewatch/internal/cli/styles"
	"github.com/bnema/huewatch/internal/domain/entity"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current appearance settings",
	Long: `Resolve every appearance setting once and print it.

Each setting comes from the highest priority provider that knows it:
config file overrides, then the desktop portal, then GTK_THEME, then gsettings.`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON instead of styled output")
}

type showOutput struct {
	entity.Appearance
	Providers []string `json:"providers"`
}

func runShow(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	resolver := app.NewResolver()
	snapshot := resolver.Snapshot()
	out := cmd.OutOrStdout()

	if showJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(showOutput{Appearance: snapshot, Providers: resolver.Providers()})
	}

	renderer := styles.NewAppearanceRenderer(styles.NewTheme(snapshot))
	fmt.Fprintln(out, renderer.RenderSnapshot(snapshot, resolver.Providers()))
	return nil
}
