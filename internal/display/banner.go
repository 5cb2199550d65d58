// Package display renders the banner, the closing guidance box, the
// confirmation prompt, and human-readable sizes.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/usdzfix/internal/term"
)

const banner = `               _     __ _
 _   _ ___  __| |___/ _(_)_  __
| | | / __|/ _` + "`" + ` |_  / |_| \ \/ /
| |_| \__ \ (_| |/ /|  _| |>  <
 \__,_|___/\__,_/___|_| |_/_/\_\`

// newRenderer returns a lipgloss renderer for w whose color profile follows
// the term package, so --color/--no-color apply to styled output too.
func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(term.Profile())
	return r
}

// PrintBanner writes the ASCII banner and tagline to w.
func PrintBanner(w io.Writer) {
	r := newRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	tagline := r.NewStyle().Faint(true)
	fmt.Fprintln(w, title.Render(banner))
	fmt.Fprintln(w, tagline.Render("Double-sided materials for USDZ Quick Look"))
	fmt.Fprintln(w)
}

// PrintGuidance writes the next-steps box shown after archives were fixed.
// backupExample is a backup file name to mention, e.g. "_backup.usdz".
func PrintGuidance(w io.Writer, backupExample string) {
	steps := []string{
		"Next steps:",
		"1. Test on an iOS device (Quick Look)",
		"2. Surfaces should now render from all angles",
		"3. Backup files saved with '" + backupExample + "' suffix",
		"4. If issues persist, restore from backup",
	}
	r := newRenderer(w)
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Padding(0, 1)
	fmt.Fprintln(w, box.Render(strings.Join(steps, "\n")))
}
