package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/minhlq/curmap/pkg/dataset"
)

// Color palette. The four level colors double as the I/R/M/A legend used by
// the matrix, flow, and distribution tables, so they must stay distinct.
var (
	colorCyan   = lipgloss.Color("36")  // Headings and primary actions
	colorGreen  = lipgloss.Color("35")  // Success, R (reinforce)
	colorYellow = lipgloss.Color("220") // Warnings, M (master)
	colorRed    = lipgloss.Color("167") // Errors, A (assess)
	colorBlue   = lipgloss.Color("75")  // Links, I (introduce)
	colorWhite  = lipgloss.Color("255") // Values
	colorGray   = lipgloss.Color("245") // Secondary text
	colorDim    = lipgloss.Color("240") // Muted text
)

// Styles shared with the TUI and the table renderers.
var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized labels (outcome and course codes).
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// levelStyles colors proficiency levels wherever they appear: table cells,
// flow stages, the TUI list, and the distribution summary.
var levelStyles = map[dataset.Level]lipgloss.Style{
	dataset.LevelIntroduce: lipgloss.NewStyle().Foreground(colorBlue),
	dataset.LevelReinforce: lipgloss.NewStyle().Foreground(colorGreen),
	dataset.LevelMaster:    lipgloss.NewStyle().Foreground(colorYellow),
	dataset.LevelAssess:    lipgloss.NewStyle().Foreground(colorRed),
}

// renderLevel renders a level letter in its legend color.
func renderLevel(l dataset.Level) string {
	if s, ok := levelStyles[l]; ok {
		return s.Render(string(l))
	}
	return string(l)
}

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a written-file line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled count or value, aligned for the build
// report ("indicators" is the widest label).
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printGraphStats prints the node/edge counts of the assembled graph and
// whether it came from the cache or a fresh build.
func printGraphStats(nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodeCount))
	}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printLevelSummary prints the relation counts per proficiency level with
// the level letters in their legend colors.
func printLevelSummary(i, r, m, a int) {
	fmt.Printf("  %s=%d %s=%d %s=%d %s=%d\n",
		renderLevel(dataset.LevelIntroduce), i,
		renderLevel(dataset.LevelReinforce), r,
		renderLevel(dataset.LevelMaster), m,
		renderLevel(dataset.LevelAssess), a)
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
