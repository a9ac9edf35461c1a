package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes styled components to a writer. Commands that do not run
// steps (listings, config, version) print through it.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w, or to os.Stdout when w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Detail) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Detail) {
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details []Detail) {
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintTable prints rows under headers
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	p.Println(RenderTable(headers, rows))
}

// PrintChanges prints the interfaces a device commit removes, updates and adds
func (p *Printer) PrintChanges(host string, removed, updated, added []string) {
	p.Println(RenderChanges(host, removed, updated, added))
}

// RenderTable renders rows under headers with a rounded border
func RenderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(roundedBorder).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	return t.Render()
}

// RenderChanges renders the change list of one device:
//
//	edge-1
//	  - Removed: GigabitEthernet1/0/2
//	  ~ Updated: (none)
//	  + Added:   GigabitEthernet1/0/1
func RenderChanges(host string, removed, updated, added []string) string {
	list := func(ports []string) string {
		if len(ports) == 0 {
			return "(none)"
		}
		return strings.Join(ports, " ")
	}

	lines := []string{
		HeaderTitleStyle.UnsetPaddingLeft().Render(host),
		RemovedStyle.Render("  - Removed: " + list(removed)),
		UpdatedStyle.Render("  ~ Updated: " + list(updated)),
		AddedStyle.Render("  + Added:   " + list(added)),
	}
	return strings.Join(lines, "\n")
}
