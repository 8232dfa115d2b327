package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"lazyext/internal/manifest"
)

var (
	listGrammars  bool
	listLanguages bool
	listThemes    bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List manifest entries",
	Long: `List the grammars, languages and themes provided by installed extensions.

Examples:
  lazyext list              # List everything
  lazyext list --themes     # List themes only
  lazyext list -g -l        # List grammars and languages`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listGrammars, "grammars", "g", false, "List grammars")
	listCmd.Flags().BoolVarP(&listLanguages, "languages", "l", false, "List languages")
	listCmd.Flags().BoolVarP(&listThemes, "themes", "t", false, "List themes")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m := sess.store.Manifest()
	if m.Len() == 0 {
		fmt.Fprintln(out, "No extensions installed")
		fmt.Fprintf(out, "\nInstall extensions under %s and run 'lazyext sync'\n", sess.store.InstalledDir())
		return nil
	}

	all := !listGrammars && !listLanguages && !listThemes
	if all || listGrammars {
		printSection(out, "Grammars", m.GrammarNames(), func(name string) (string, string) {
			e := m.Grammars[name]
			return e.Extension, e.Path
		})
	}
	if all || listLanguages {
		printSection(out, "Languages", m.LanguageNames(), func(name string) (string, string) {
			e := m.Languages[name]
			detail := e.Path
			if e.Grammar != "" {
				detail += " [grammar: " + e.Grammar + "]"
			}
			return e.Extension, detail
		})
	}
	if all || listThemes {
		printSection(out, "Themes", m.ThemeNames(), func(name string) (string, string) {
			e := m.Themes[name]
			return e.Extension, e.Path
		})
	}
	return nil
}

// printSection prints one aligned block of entries
func printSection(out io.Writer, title string, names []string, describe func(string) (string, string)) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(names))
	nameWidth, extWidth := 0, 0
	for _, name := range names {
		ext, _ := describe(name)
		nameWidth = max(nameWidth, len(name))
		extWidth = max(extWidth, len(ext))
	}
	for _, name := range names {
		ext, detail := describe(name)
		fmt.Fprintf(out, "  ● %-*s  %-*s  %s\n", nameWidth, name, extWidth, ext, detail)
	}
	fmt.Fprintln(out)
}

// countSummary renders "N grammar(s), N language(s), N theme(s)"
func countSummary(m *manifest.Manifest) string {
	return fmt.Sprintf("%d grammar(s), %d language(s), %d theme(s)", len(m.Grammars), len(m.Languages), len(m.Themes))
}
