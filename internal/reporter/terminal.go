package reporter

import (
	"fmt"
	"strings"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
	"github.com/mattn/go-runewidth"
)

// maxNameWidth caps the package column; longer names are truncated
const maxNameWidth = 48

// TerminalReporter outputs the inventory as an aligned table
type TerminalReporter struct{}

// Report generates terminal output for the given entries
func (r *TerminalReporter) Report(entries []models.Entry) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("No declared dependencies found.\n"), nil
	}

	header := []string{"PACKAGE", "ENV", "STATUS", "VERSION", "SOURCE"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "installed"
		if !e.Package.Installed {
			status = "missing"
		}
		version := e.Package.VersionString()
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			runewidth.Truncate(e.Package.PackageName, maxNameWidth, "…"),
			e.Package.InstallEnvironment.String(),
			status,
			version,
			location(e),
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	writeRow(&sb, header, widths)
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}

	s := Summarize(entries)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d dependencies: %d installed, %d missing (%d required)\n",
		s.Total, s.Installed, s.Missing, s.MissingRequired))

	return []byte(sb.String()), nil
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	var line strings.Builder
	for i, cell := range cells {
		if i > 0 {
			line.WriteString("  ")
		}
		line.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	sb.WriteString(strings.TrimRight(line.String(), " "))
	sb.WriteString("\n")
}
