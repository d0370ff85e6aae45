package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	newStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	fileStyle  = lipgloss.NewStyle().Faint(true)
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	kwStyle    = lipgloss.NewStyle().Bold(true)
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	emptyStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// SetColor applies an output.color setting of auto, always or never. Auto
// colors only when w is a terminal.
func SetColor(mode string, w io.Writer) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		if IsTerminal(w) {
			lipgloss.SetColorProfile(termenv.ANSI256)
		} else {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

// IsTerminal reports whether w is a terminal, including Cygwin ptys.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func ErrLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+": "+err.Error())
}

func WarnLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, warnStyle.Render("wrn")+"  "+path+": "+err.Error())
}

func SummaryLine(w io.Writer, count int) {
	fmt.Fprintf(w, "synced %d files\n", count)
}

func OKLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"   "+path)
}

func FailLine(w io.Writer, err error) {
	fmt.Fprintln(w, errStyle.Render("FAIL")+" "+err.Error())
}

// ListRow prints one scenario of `gk list`, padded to the given widths.
func ListRow(w io.Writer, id int64, file, name string, idWidth, fileWidth int) {
	fmt.Fprintf(w, "%s  %s  %s\n",
		idStyle.Render(fmt.Sprintf("%-*s", idWidth, fmt.Sprintf("#%d", id))),
		fileStyle.Render(fmt.Sprintf("%-*s", fileWidth, file)),
		name)
}

func ShowHeader(w io.Writer, id int64, file string, line int) {
	fmt.Fprintln(w, headStyle.Render(fmt.Sprintf("#%d", id))+"  "+fileStyle.Render(fmt.Sprintf("%s:%d", file, line)))
}

func ShowTags(w io.Writer, tags []string) {
	if len(tags) == 0 {
		return
	}
	rendered := make([]string, len(tags))
	for i, t := range tags {
		rendered[i] = tagStyle.Render(t)
	}
	fmt.Fprintln(w, strings.Join(rendered, " "))
}

// ShowGherkin prints source text with the leading keyword of each line in
// bold. keywords should be ordered longest first.
func ShowGherkin(w io.Writer, content string, keywords []string) {
	for _, line := range strings.Split(content, "\n") {
		body := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(body)]
		for _, kw := range keywords {
			if kw != "" && strings.HasPrefix(body, kw) {
				body = kwStyle.Render(kw) + body[len(kw):]
				break
			}
		}
		fmt.Fprintln(w, indent+body)
	}
}

func TagRow(w io.Writer, tag string, count, tagWidth int) {
	fmt.Fprintf(w, "%s  %d\n", tagStyle.Render(fmt.Sprintf("%-*s", tagWidth, tag)), count)
}

func Empty(w io.Writer, msg string) {
	fmt.Fprintln(w, emptyStyle.Render(msg))
}
