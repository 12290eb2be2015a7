package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/personas/internal/models"
	"github.com/desertthunder/personas/internal/shared"
	th "github.com/desertthunder/personas/internal/testing"
)

func TestExporters(t *testing.T) {
	personas := th.SamplePersonas()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(personas)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "ID,FirstNames,LastNames,Age,District,Instagram,University,TruthVotes,LieVotes,Story" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 4 {
			t.Errorf("expected 4 lines, got %d", len(lines))
		}
		if !strings.Contains(output, "2,María José,Quispe,31,Surco,@majo,,3,1,") {
			t.Errorf("CSV missing persona 2 row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Lima", personas)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		for _, want := range []string{
			"# Lima",
			"**Entries**: 3",
			"## 1. Ana Gomez",
			"- **University**: Universidad de Lima",
			"- **Instagram**: @majo",
			"- **Votes**: 3 truth / 1 lie (75% truth)",
			"- **Votes**: 0 truth / 0 lie (no votes yet)",
			"Siempre llega tarde.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}

		if strings.Contains(output, "**Instagram**: \n") {
			t.Error("Markdown should omit empty optional fields")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(personas)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Personas: 3") {
			t.Errorf("Text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. Ana Gomez (24, Miraflores) - 50% truth") {
			t.Errorf("Text missing first entry, got: %s", output)
		}
		if !strings.Contains(output, "3. Lucía Ramírez (19, Barranco) - no votes yet") {
			t.Errorf("Text missing third entry, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(personas)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []models.Persona
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(decoded) != 3 || decoded[1].InstagramHandle != "@majo" {
			t.Errorf("unexpected decoded personas: %+v", decoded)
		}
		if !strings.Contains(string(data), `"votosYala"`) {
			t.Error("JSON should use directory field names")
		}
	})

	t.Run("ExportToJSON Empty", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}
	})

	t.Run("ExportToTable", func(t *testing.T) {
		output := string(ExportToTable(personas))

		for _, want := range []string{"ID", "Verdict", "Ana Gomez", "María José Quispe", "75% truth", "no votes yet", "3/1"} {
			if !strings.Contains(output, want) {
				t.Errorf("Table missing %q, got:\n%s", want, output)
			}
		}
	})
}

func TestPercentLabel(t *testing.T) {
	tests := []struct {
		tally models.Tally
		want  string
	}{
		{models.Tally{Truth: 3, Lie: 1}, "75% truth"},
		{models.Tally{}, "no votes yet"},
		{models.Tally{Truth: 0, Lie: 5}, "0% truth"},
		{models.Tally{Truth: 1, Lie: 2}, "33% truth"},
		{models.Tally{Truth: 2, Lie: 1}, "67% truth"},
	}

	for _, tt := range tests {
		if got := PercentLabel(tt.tally); got != tt.want {
			t.Errorf("PercentLabel(%+v) = %q, want %q", tt.tally, got, tt.want)
		}
	}
}

func TestFormats(t *testing.T) {
	t.Run("ParseFormat", func(t *testing.T) {
		cases := map[string]Format{
			"":         FormatTable,
			"TABLE":    FormatTable,
			"csv":      FormatCSV,
			"md":       FormatMarkdown,
			"markdown": FormatMarkdown,
			"json":     FormatJSON,
			"txt":      FormatText,
		}
		for in, want := range cases {
			got, err := ParseFormat(in)
			if err != nil || got != want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
			}
		}

		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Export Dispatches", func(t *testing.T) {
		for _, f := range Formats {
			if _, err := Export(f, th.SamplePersonas()); err != nil {
				t.Errorf("Export(%s) failed: %v", f, err)
			}
		}
		if _, err := Export(Format("xml"), nil); err == nil {
			t.Error("expected error for unknown format")
		}
	})

	t.Run("Extension", func(t *testing.T) {
		if FormatMarkdown.Extension() != ".md" || FormatTable.Extension() != ".txt" {
			t.Error("unexpected extensions")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "personas.csv")

		written, err := WriteExport(FormatCSV, th.SamplePersonas(), path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "Ana") {
			t.Error("export file missing content")
		}
	})

	t.Run("Default Filename", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(FormatJSON, th.SamplePersonas(), "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "personas.json" {
			t.Errorf("expected personas.json, got %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		th.MustWriteFile(t, blocker, "")

		if _, err := WriteExport(FormatText, nil, filepath.Join(blocker, "x.txt")); err == nil {
			t.Error("expected error writing under a file")
		}
	})
}
