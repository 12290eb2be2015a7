package tasks

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/personas/internal/directory"
	"github.com/desertthunder/personas/internal/form"
	"github.com/desertthunder/personas/internal/formatter"
	"github.com/desertthunder/personas/internal/ledger"
	"github.com/desertthunder/personas/internal/services"
	"github.com/desertthunder/personas/internal/shared"
	tu "github.com/desertthunder/personas/internal/testing"
)

func newTestEngine(t *testing.T) (*Engine, *directory.Controller, *tu.FakeDirectory) {
	t.Helper()
	fake := tu.NewFakeDirectory(t, tu.SamplePersonas()...)
	ctrl := directory.NewController(services.NewDirectoryService(fake.BaseURL(), nil), ledger.NewMemory(), nil)
	return NewEngine(ctrl, nil), ctrl, fake
}

func validInput(first string) form.Input {
	return form.Input{FirstNames: first, LastNames: "Test", Age: "30", District: "Lince", Story: "Historia."}
}

func drain(prog chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-prog:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Valid Entries", func(t *testing.T) {
		e, ctrl, fake := newTestEngine(t)
		inputs := []form.Input{validInput("Uno"), validInput("Dos"), validInput("Tres")}
		prog := make(chan ProgressUpdate, 16)

		result, err := e.Import(ctx, prog, inputs, ImportOpts{AcceptTerms: true, RateLimit: 100})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}

		if result.Total != 3 || result.Created != 3 || result.Invalid != 0 || result.Failed != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if len(fake.Personas()) != 6 {
			t.Errorf("expected 6 personas on the server, got %d", len(fake.Personas()))
		}
		if len(ctrl.Entries()) != 3 {
			t.Errorf("expected 3 entries appended to the controller, got %d", len(ctrl.Entries()))
		}

		for i, item := range result.Items {
			if item.Index != i {
				t.Errorf("items not in file order: %d at position %d", item.Index, i)
			}
			if item.Persona == nil || item.Persona.ID == "" {
				t.Errorf("item %d missing stored persona", i)
			}
		}

		updates := drain(prog)
		if len(updates) != 3 {
			t.Errorf("expected 3 progress updates, got %d", len(updates))
		}
		for _, u := range updates {
			if u.Phase != CreatePersonas {
				t.Errorf("unexpected phase %s", u.Phase)
			}
		}
	})

	t.Run("Requires Accepted Terms", func(t *testing.T) {
		e, _, fake := newTestEngine(t)

		result, err := e.Import(ctx, nil, []form.Input{validInput("Uno")}, ImportOpts{})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Invalid != 1 || result.Created != 0 {
			t.Errorf("expected entry rejected without terms, got %+v", result)
		}
		if fake.Calls(tu.RouteCreate) != 0 {
			t.Error("invalid entries must not reach the directory")
		}
	})

	t.Run("Mixed Valid And Invalid", func(t *testing.T) {
		e, _, fake := newTestEngine(t)
		bad := validInput("Malo")
		bad.District = "Narnia"
		inputs := []form.Input{validInput("Uno"), bad, {}}
		prog := make(chan ProgressUpdate, 16)

		result, err := e.Import(ctx, prog, inputs, ImportOpts{AcceptTerms: true, RateLimit: 100})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Created != 1 || result.Invalid != 2 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if fake.Calls(tu.RouteCreate) != 1 {
			t.Errorf("expected 1 create call, got %d", fake.Calls(tu.RouteCreate))
		}

		if !errors.Is(result.Items[1].Err, shared.ErrValidation) {
			t.Errorf("expected validation error for item 1, got %v", result.Items[1].Err)
		}
		if result.Items[2].Name != "entry #3" {
			t.Errorf("expected placeholder name, got %q", result.Items[2].Name)
		}

		invalid := 0
		for _, u := range drain(prog) {
			if u.Phase == ValidateDrafts {
				invalid++
			}
		}
		if invalid != 2 {
			t.Errorf("expected 2 validation updates, got %d", invalid)
		}
	})

	t.Run("Validate Only", func(t *testing.T) {
		e, _, fake := newTestEngine(t)

		result, err := e.Import(ctx, nil, []form.Input{validInput("Uno")}, ImportOpts{AcceptTerms: true, ValidateOnly: true})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Created != 0 || result.Invalid != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if fake.Calls(tu.RouteCreate) != 0 {
			t.Error("validate only must not create")
		}
	})

	t.Run("Remote Failures Are Counted", func(t *testing.T) {
		e, ctrl, fake := newTestEngine(t)
		fake.Fail(tu.RouteCreate, http.StatusInternalServerError, "db down")

		result, err := e.Import(ctx, nil, []form.Input{validInput("Uno"), validInput("Dos")}, ImportOpts{AcceptTerms: true, RateLimit: 100})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if result.Failed != 2 || result.Created != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if len(ctrl.Entries()) != 0 {
			t.Error("failed creates must not change the list")
		}
		if !errors.Is(result.Items[0].Err, shared.ErrHTTP) {
			t.Errorf("expected HTTP error, got %v", result.Items[0].Err)
		}
	})

	t.Run("Rate Limited", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		inputs := []form.Input{validInput("Uno"), validInput("Dos"), validInput("Tres")}

		start := time.Now()
		if _, err := e.Import(ctx, nil, inputs, ImportOpts{AcceptTerms: true, RateLimit: 20, NumWorkers: 3}); err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
			t.Errorf("expected limiter to spread 3 creates at 20/s, took %v", elapsed)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		e, _, _ := newTestEngine(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := e.Import(cancelled, nil, []form.Input{validInput("Uno"), validInput("Dos")}, ImportOpts{AcceptTerms: true})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.Created != 0 {
			t.Errorf("expected nothing created, got %+v", result)
		}
	})
}

func TestReadImportFile(t *testing.T) {
	t.Run("Reads Wire Format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "import.json")
		tu.MustWriteFile(t, path, `[
			{"nombres":"Rosa","apellidos":"Flores","edad":28,"distrito":"Lince","historia":"Nunca paga.","votosYala":9},
			{"nombres":"Sin edad","apellidos":"X","distrito":"Lince","historia":"..."}
		]`)

		inputs, err := ReadImportFile(path)
		if err != nil {
			t.Fatalf("ReadImportFile failed: %v", err)
		}
		if len(inputs) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(inputs))
		}
		if inputs[0].FirstNames != "Rosa" || inputs[0].Age != "28" {
			t.Errorf("unexpected first input: %+v", inputs[0])
		}
		if inputs[1].Age != "" {
			t.Errorf("missing age should stay empty so validation reports it, got %q", inputs[1].Age)
		}
		if inputs[0].Acknowledged {
			t.Error("terms must not be accepted by the file")
		}
	})

	t.Run("Not An Array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "import.json")
		tu.MustWriteFile(t, path, `{"nombres":"Rosa"}`)

		if _, err := ReadImportFile(path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := ReadImportFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads And Writes Filtered View", func(t *testing.T) {
		e, ctrl, _ := newTestEngine(t)
		path := filepath.Join(t.TempDir(), "surco.csv")
		prog := make(chan ProgressUpdate, 8)

		result, err := e.Export(ctx, prog, ExportOpts{
			Format: formatter.FormatCSV,
			Path:   path,
			Filter: directory.Filter{District: "Surco"},
		})
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if result.Count != 1 || result.Path != path {
			t.Errorf("unexpected result: %+v", result)
		}
		if !ctrl.Loaded() {
			t.Error("export should load the directory first")
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "Quispe") || strings.Contains(content, "Gomez") {
			t.Errorf("unexpected export content: %s", content)
		}

		updates := drain(prog)
		if len(updates) != 3 || updates[0].Phase != LoadDirectory || updates[2].Data != path {
			t.Errorf("unexpected progress updates: %+v", updates)
		}
	})

	t.Run("Uses Loaded List Without Reload", func(t *testing.T) {
		e, ctrl, fake := newTestEngine(t)
		if err := ctrl.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if _, err := e.Export(ctx, nil, ExportOpts{Format: formatter.FormatJSON, Path: filepath.Join(t.TempDir(), "all.json")}); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if fake.Calls(tu.RouteList) != 1 {
			t.Errorf("expected a single list call, got %d", fake.Calls(tu.RouteList))
		}
	})

	t.Run("Load Failure", func(t *testing.T) {
		e, _, fake := newTestEngine(t)
		fake.Fail(tu.RouteList, http.StatusServiceUnavailable, "maintenance")

		_, err := e.Export(ctx, nil, ExportOpts{Path: filepath.Join(t.TempDir(), "x.txt")})
		if !errors.Is(err, shared.ErrHTTP) {
			t.Errorf("expected HTTP error, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	if CreatePersonas.String() != "create_personas" {
		t.Errorf("unexpected phase name %q", CreatePersonas.String())
	}
	if Phase(99).String() != "" {
		t.Error("unknown phase should be empty")
	}
}

func TestImportFile(t *testing.T) {
	e, _, fake := newTestEngine(t)
	path := filepath.Join(t.TempDir(), "import.json")
	tu.MustWriteFile(t, path, `[{"nombres":"Rosa","apellidos":"Flores","edad":28,"distrito":"Lince","historia":"Nunca paga."}]`)
	prog := make(chan ProgressUpdate, 8)

	result, err := e.ImportFile(context.Background(), prog, path, ImportOpts{AcceptTerms: true, RateLimit: 100})
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if result.Created != 1 || len(fake.Personas()) != 4 {
		t.Errorf("expected one persona created, got %+v", result)
	}

	updates := drain(prog)
	if len(updates) == 0 || updates[0].Phase != ReadImport {
		t.Errorf("expected a read_import update first, got %+v", updates)
	}

	if _, err := e.ImportFile(context.Background(), nil, filepath.Join(t.TempDir(), "nope.json"), ImportOpts{}); err == nil {
		t.Error("expected error for missing file")
	}
}
