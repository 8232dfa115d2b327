package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details about a grammar, language or theme",
	Long: `Show every manifest entry with the given name.

Examples:
  lazyext info Ruby
  lazyext info "Monokai Dark"`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	name := args[0]
	out := cmd.OutOrStdout()
	m := sess.store.Manifest()
	abs := func(extension, rel string) string {
		return filepath.Join(sess.store.InstalledDir(), extension, filepath.FromSlash(rel))
	}
	found := false

	if g, ok := m.Grammars[name]; ok {
		found = true
		fmt.Fprintf(out, "Grammar: %s\n", name)
		fmt.Fprintf(out, "  Extension: %s\n", g.Extension)
		fmt.Fprintf(out, "  Path: %s\n", abs(g.Extension, g.Path))
		fmt.Fprintln(out)
	}

	if l, ok := m.Languages[name]; ok {
		found = true
		fmt.Fprintf(out, "Language: %s\n", name)
		fmt.Fprintf(out, "  Extension: %s\n", l.Extension)
		fmt.Fprintf(out, "  Directory: %s\n", abs(l.Extension, l.Path))
		switch {
		case l.Grammar == "":
			fmt.Fprintln(out, "  Grammar: (none)")
		default:
			status := "missing"
			if _, resolved := sess.languages.Grammar(name); resolved {
				status = "resolved"
			}
			fmt.Fprintf(out, "  Grammar: %s (%s)\n", l.Grammar, status)
		}
		if len(l.Matcher.PathSuffixes) > 0 {
			fmt.Fprintf(out, "  Suffixes: %s\n", strings.Join(l.Matcher.PathSuffixes, ", "))
		}
		if l.Matcher.FirstLinePattern != "" {
			fmt.Fprintf(out, "  First line: %s\n", l.Matcher.FirstLinePattern)
		}
		fmt.Fprintln(out)
	}

	if t, ok := m.Themes[name]; ok {
		found = true
		fmt.Fprintf(out, "Theme: %s\n", name)
		fmt.Fprintf(out, "  Extension: %s\n", t.Extension)
		fmt.Fprintf(out, "  Path: %s\n", abs(t.Extension, t.Path))
		fmt.Fprintln(out)
	}

	if !found {
		return fmt.Errorf("%s not found in the manifest", name)
	}
	return nil
}
