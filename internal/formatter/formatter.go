// package formatter renders persona lists as table, CSV, Markdown, JSON or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
)

// Format names an output format accepted by [Export].
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatCSV, FormatMarkdown, FormatJSON, FormatText}

// ParseFormat accepts a format name or a common alias (md, txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension is the file extension used by [WriteExport].
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// PercentLabel renders a tally as "75% truth", or "no votes yet" when nobody has voted.
func PercentLabel(t models.Tally) string {
	percent, ok := t.PercentTruth()
	if !ok {
		return "no votes yet"
	}
	return fmt.Sprintf("%d%% truth", percent)
}

// Export renders personas in format.
func Export(format Format, personas []models.Persona) ([]byte, error) {
	switch format {
	case FormatTable:
		return ExportToTable(personas), nil
	case FormatCSV:
		return ExportToCSV(personas)
	case FormatMarkdown:
		return ExportToMarkdown("Personas", personas)
	case FormatJSON:
		return ExportToJSON(personas)
	case FormatText:
		return ExportToText(personas)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToTable draws a bordered table with one row per persona.
func ExportToTable(personas []models.Persona) []byte {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Age", "District", "University", "Votes", "Verdict").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, p := range personas {
		tally := p.Tally()
		t.Row(
			p.ID,
			p.FullName(),
			strconv.Itoa(p.Age),
			p.District,
			p.University,
			fmt.Sprintf("%d/%d", tally.Truth, tally.Lie),
			PercentLabel(tally),
		)
	}

	return []byte(t.Render() + "\n")
}

// ExportToCSV converts personas to CSV with a header row.
func ExportToCSV(personas []models.Persona) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "FirstNames", "LastNames", "Age", "District", "Instagram", "University", "TruthVotes", "LieVotes", "Story"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range personas {
		record := []string{
			p.ID,
			p.FirstNames,
			p.LastNames,
			strconv.Itoa(p.Age),
			p.District,
			p.InstagramHandle,
			p.University,
			strconv.Itoa(p.TruthVotes),
			strconv.Itoa(p.LieVotes),
			p.Story,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders personas as a Markdown document with one section each.
func ExportToMarkdown(title string, personas []models.Persona) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Entries**: %d\n", len(personas))

	for i, p := range personas {
		tally := p.Tally()

		fmt.Fprintf(&buf, "\n## %d. %s\n\n", i+1, p.FullName())
		fmt.Fprintf(&buf, "- **Age**: %d\n", p.Age)
		fmt.Fprintf(&buf, "- **District**: %s\n", p.District)
		if p.University != "" {
			fmt.Fprintf(&buf, "- **University**: %s\n", p.University)
		}
		if p.InstagramHandle != "" {
			fmt.Fprintf(&buf, "- **Instagram**: %s\n", p.InstagramHandle)
		}
		fmt.Fprintf(&buf, "- **Votes**: %d truth / %d lie (%s)\n", tally.Truth, tally.Lie, PercentLabel(tally))

		if story := strings.TrimSpace(p.Story); story != "" {
			fmt.Fprintf(&buf, "\n%s\n", story)
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders personas using the directory's own field names.
func ExportToJSON(personas []models.Persona) ([]byte, error) {
	if personas == nil {
		personas = []models.Persona{}
	}
	data, err := shared.MarshalJSON(personas, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode personas: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToText converts personas to a numbered plain-text list.
func ExportToText(personas []models.Persona) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Personas: %d\n\n", len(personas))
	for i, p := range personas {
		fmt.Fprintf(&buf, "%d. %s (%d, %s) - %s\n", i+1, p.FullName(), p.Age, p.District, PercentLabel(p.Tally()))
	}

	return buf.Bytes(), nil
}

// WriteExport writes personas to path in format and returns the path written.
//
// Defaults to personas{ext} in the working directory.
func WriteExport(format Format, personas []models.Persona, path string) (string, error) {
	if path == "" {
		path = "personas" + format.Extension()
	}

	data, err := Export(format, personas)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
