package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Every user-facing line goes through these so the
// commands share one look.
var (
	colorPrimary = lipgloss.Color("63")  // purple-blue, headings and accents
	colorSuccess = lipgloss.Color("42")  // green
	colorWarn    = lipgloss.Color("214") // orange
	colorErr     = lipgloss.Color("203") // red
	colorAccent  = lipgloss.Color("81")  // sky blue, commands
	colorBright  = lipgloss.Color("252") // values
	colorMuted   = lipgloss.Color("243") // secondary text
	colorFaint   = lipgloss.Color("238") // dimmed text
)

// Styles shared with the inspector TUI.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorPrimary)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorBright)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorPrimary)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorAccent)
	styleCached      = lipgloss.NewStyle().Foreground(colorSuccess)
	styleComputed    = lipgloss.NewStyle().Foreground(colorMuted)
)

// Status icons, rendered once at init.
var (
	iconSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
	iconError   = lipgloss.NewStyle().Foreground(colorErr).Render("✗")
	iconWarning = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	iconInfo    = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	iconArrow   = lipgloss.NewStyle().Foreground(colorFaint).Render("→")
)

// printSuccess prints a checkmarked status line.
func printSuccess(format string, args ...any) {
	fmt.Println(iconSuccess + " " + fmt.Sprintf(format, args...))
}

// printError prints a failure line.
func printError(format string, args ...any) {
	fmt.Println(iconError + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning line.
func printWarning(format string, args ...any) {
	fmt.Println(iconWarning + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints a neutral status line.
func printInfo(format string, args ...any) {
	fmt.Println(iconInfo + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written-file line.
func printFile(path string) {
	fmt.Println("  " + iconArrow + " " + StyleValue.Render(path))
}

// printKeyValue prints a label/value pair with aligned labels.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the one-line run summary shown under a command's
// output: counts, then whether the result came from cache.
func printStats(nodeCount, linkCount, diagCount int, cached bool) {
	parts := make([]string, 0, 3)
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodeCount))
	}
	if linkCount > 0 {
		parts = append(parts, fmt.Sprintf("%d links", linkCount))
	}
	if diagCount > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", diagCount))
	}

	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}

	line := status
	if len(parts) > 0 {
		line = StyleDim.Render(strings.Join(parts, " · ")) + StyleDim.Render(" · ") + status
	}
	fmt.Println("  " + line)
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
