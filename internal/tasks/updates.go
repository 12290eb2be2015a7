package tasks

import (
	"fmt"

	"github.com/desertthunder/personas/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadDirectory Phase = iota
	ReadImport
	ValidateDrafts
	CreatePersonas
	ExportPersonas
)

func (p Phase) String() string {
	switch p {
	case LoadDirectory:
		return "load_directory"
	case ReadImport:
		return "read_import"
	case ValidateDrafts:
		return "validate_drafts"
	case CreatePersonas:
		return "create_personas"
	case ExportPersonas:
		return "export_personas"
	default:
		return ""
	}
}

func loadDirectoryUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadDirectory,
		Step:    step,
		Total:   total,
		Message: "Loading personas from the directory...",
	}
}

func readImportUpdate(path string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadImport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Read %d personas from %s", count, path),
	}
}

func invalidDraftUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateDrafts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func createdUpdate(step, total int, p *models.Persona) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePersonas,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (ID: %s)", step, total, p.FullName(), p.ID),
		Data:    p,
	}
}

func createFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePersonas,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func exportingUpdate(count int, format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPersonas,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Exporting %d personas as %s...", count, format),
	}
}

func exportedUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPersonas,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Wrote %s", path),
		Data:    path,
	}
}
