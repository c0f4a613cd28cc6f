package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	heroAccentColor        = lipgloss.Color("#5fafff")
	heroInkColor           = lipgloss.Color("#0b1a2e")
	heroTextColor          = lipgloss.Color("#e6f0ff")
	heroSecondaryTextColor = lipgloss.Color("#8fb8ff")

	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	panelBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	toolbarStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Padding(0, 1)
	helpBoxStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 1)

	annotationStyle        = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#ffd166"))
	focusedAnnotationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))
	selectionStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe"))
	caretStyle             = lipgloss.NewStyle().Reverse(true)
	diffDeleteStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b")).Strikethrough(true)
	diffInsertStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroInkColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#050b14"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██╗  ███╗   ██╗  ██╗  ██╗  ██╗    ██╗  ███████╗  ██╗      ██╗      ",
		"██║  ████╗  ██║  ██║ ██╔╝  ██║    ██║  ██╔════╝  ██║      ██║      ",
		"██║  ██╔██╗ ██║  █████╔╝   ██║ █╗ ██║  █████╗    ██║      ██║      ",
		"██║  ██║╚██╗██║  ██╔═██╗   ██║███╗██║  ██╔══╝    ██║      ██║      ",
		"██║  ██║ ╚████║  ██║  ██╗  ╚███╔███╔╝  ███████╗  ███████╗ ███████╗ ",
		"╚═╝  ╚═╝  ╚═══╝  ╚═╝  ╚═╝   ╚══╝╚══╝   ╚══════╝  ╚══════╝ ╚══════╝ ",
	}
)

// renderLogo draws the wordmark with a one-cell drop shadow.
func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
