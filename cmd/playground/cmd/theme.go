package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/output"
	"github.com/openplayground/catalog/internal/theme"
)

func newThemeCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the color theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the stored theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTheme(g, func(p *theme.Preference) error {
				t, err := p.Get(cmd.Context())
				if err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Status("", string(t))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <light|dark>",
		Short: "Store a theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := theme.Parse(args[0])
			if err != nil {
				return err
			}
			return withTheme(g, func(p *theme.Preference) error {
				if err := p.Set(cmd.Context(), t); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Theme set to %s", t)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTheme(g, func(p *theme.Preference) error {
				t, err := p.Toggle(cmd.Context())
				if err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Theme set to %s", t)
				return nil
			})
		},
	})

	return cmd
}

// withTheme runs fn against the theme stored in the configured backend.
func withTheme(g *globalOptions, fn func(*theme.Preference) error) error {
	a, err := openApp(g, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(theme.New(a.kv))
}
