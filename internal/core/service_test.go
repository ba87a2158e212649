package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestService(t *testing.T, opts ServiceOptions) (*Service, string) {
	t.Helper()
	svc := NewService(nil, opts)
	id, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return svc, id
}

func TestService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, ServiceOptions{MaxSessions: 2})

	a, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.CreateSession(ctx); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := svc.CreateSession(ctx); !errors.Is(err, ErrTooManySessions) {
		t.Errorf("third CreateSession err = %v, want ErrTooManySessions", err)
	}
	if got := svc.SessionCount(); got != 2 {
		t.Errorf("SessionCount = %d, want 2", got)
	}

	if err := svc.DeleteSession(ctx, a); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := svc.DeleteSession(ctx, a); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second DeleteSession err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Session(a); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Session(deleted) err = %v, want ErrSessionNotFound", err)
	}
}

func TestService_UnknownSession(t *testing.T) {
	svc := NewService(nil, ServiceOptions{})
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["Records"] = svc.Records("nope", NoSelection)
	_, checks["Unparsed"] = svc.Unparsed("nope")
	_, _, checks["Counts"] = svc.Counts("nope")
	_, checks["ToggleFilter"] = svc.ToggleFilter("nope", CategoryMason)
	checks["ClearFilter"] = svc.ClearFilter("nope")
	checks["Clear"] = svc.Clear(ctx, "nope")
	_, checks["IngestPaste"] = svc.IngestPaste(ctx, "nope", "Ana", "")
	_, checks["IngestPasteBlank"] = svc.IngestPaste(ctx, "nope", "  ", "")
	_, checks["IngestFiles"] = svc.IngestFiles(ctx, "nope", "", []FileSource{NamedReader("a.txt", strings.NewReader("Ana"))})

	for name, err := range checks {
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("%s err = %v, want ErrSessionNotFound", name, err)
		}
	}
}

func TestService_IngestFiles(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	result, err := svc.IngestFiles(ctx, id, "", []FileSource{
		NamedReader("crew.csv", strings.NewReader("nombre,telefono,categoria\nJuan Perez,555-1234,Electricista\n")),
		NamedReader("brochure.pdf", strings.NewReader("%PDF")),
		NamedReader("names.txt", strings.NewReader("Maria Lopez\nCarlos Ruiz\n")),
	})
	if err != nil {
		t.Fatalf("IngestFiles: %v", err)
	}

	if result.BatchID == "" {
		t.Error("BatchID is empty")
	}
	if result.Added != 3 || result.Files != 3 {
		t.Errorf("result = %+v, want 3 added from 3 files", result)
	}
	if len(result.Unparsed) != 1 || result.Unparsed[0].Reason != ReasonUnsupportedFormat {
		t.Errorf("Unparsed = %+v, want one unsupported_format", result.Unparsed)
	}
	if result.Message != "Parsed 3 row(s) from 3 file(s)." {
		t.Errorf("Message = %q", result.Message)
	}

	records, err := svc.Records(id, NoSelection)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Source != "Archivo" {
		t.Errorf("Source = %q, want default Archivo", records[0].Source)
	}
	if records[0].Category != CategoryElectrician {
		t.Errorf("Category = %q, want electrician", records[0].Category)
	}
}

func TestService_IngestFilesLimits(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{MaxFiles: 1})
	ctx := context.Background()

	if _, err := svc.IngestFiles(ctx, id, "", nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("empty batch err = %v, want ErrNoFiles", err)
	}

	files := []FileSource{
		NamedReader("a.txt", strings.NewReader("A")),
		NamedReader("b.txt", strings.NewReader("B")),
	}
	if _, err := svc.IngestFiles(ctx, id, "", files); !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("oversized batch err = %v, want ErrTooManyFiles", err)
	}
}

func TestService_IngestPaste(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	result, err := svc.IngestPaste(ctx, id, "Maria Lopez\nCarlos Ruiz\n", "")
	if err != nil {
		t.Fatalf("IngestPaste: %v", err)
	}
	if result.Added != 2 || result.Mode != "lines" {
		t.Errorf("result = %+v, want 2 added in lines mode", result)
	}

	result, err = svc.IngestPaste(ctx, id, "name,trade\nAna,Welder\n", "Obra Norte")
	if err != nil {
		t.Fatalf("IngestPaste: %v", err)
	}
	if result.Mode != "delimited" {
		t.Errorf("Mode = %q, want delimited", result.Mode)
	}

	blank, err := svc.IngestPaste(ctx, id, " \n ", "")
	if err != nil {
		t.Fatalf("IngestPaste(blank): %v", err)
	}
	if blank.Added != 0 || blank.BatchID != "" {
		t.Errorf("blank paste = %+v, want no-op", blank)
	}

	records, _ := svc.Records(id, NoSelection)
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Source != "Manual" || records[2].Source != "Obra Norte" {
		t.Errorf("sources = %q, %q; want Manual, Obra Norte", records[0].Source, records[2].Source)
	}
}

func TestService_FilterAndCounts(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	if _, err := svc.IngestPaste(ctx, id, "name,job\nAna,Pintora\nEva,Pintor\nLuis,Plomero\n", ""); err != nil {
		t.Fatalf("IngestPaste: %v", err)
	}

	counts, sel, err := svc.Counts(id)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if sel.IsSet() || counts.Total() != 3 {
		t.Errorf("Counts = total %d selection %q, want 3 and none", counts.Total(), sel)
	}

	sel, err = svc.ToggleFilter(id, CategoryPainter)
	if err != nil {
		t.Fatalf("ToggleFilter: %v", err)
	}
	if c, _ := sel.Category(); c != CategoryPainter {
		t.Errorf("selection = %q, want painter", sel)
	}

	counts, _, _ = svc.Counts(id)
	if counts.Get(CategoryPainter) != 2 || counts.Get(CategoryPlumber) != 0 {
		t.Errorf("filtered counts = %+v", counts)
	}
	visible, _ := svc.VisibleRecords(id)
	if len(visible) != 2 {
		t.Errorf("len(VisibleRecords) = %d, want 2", len(visible))
	}

	sel, _ = svc.ToggleFilter(id, CategoryPainter)
	if sel.IsSet() {
		t.Errorf("second toggle should clear, got %q", sel)
	}

	if _, err := svc.ToggleFilter(id, "astronaut"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ToggleFilter(astronaut) err = %v, want ErrUnknownCategory", err)
	}

	if _, err := svc.ToggleFilter(id, CategoryPlumber); err != nil {
		t.Fatal(err)
	}
	if err := svc.ClearFilter(id); err != nil {
		t.Fatalf("ClearFilter: %v", err)
	}
	if _, sel, _ := svc.Counts(id); sel.IsSet() {
		t.Errorf("selection after ClearFilter = %q, want none", sel)
	}
}

func TestService_Clear(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{})
	ctx := context.Background()

	_, err := svc.IngestFiles(ctx, id, "", []FileSource{
		NamedReader("a.txt", strings.NewReader("Ana")),
		NamedReader("b.docx", strings.NewReader("")),
	})
	if err != nil {
		t.Fatalf("IngestFiles: %v", err)
	}

	if err := svc.Clear(ctx, id); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	records, _ := svc.Records(id, NoSelection)
	unparsed, _ := svc.Unparsed(id)
	if len(records) != 0 || len(unparsed) != 0 {
		t.Errorf("after Clear: %d records, %d unparsed; want 0, 0", len(records), len(unparsed))
	}
}

func TestService_ConcurrentBatchesSameSession(t *testing.T) {
	svc, id := newTestService(t, ServiceOptions{MaxConcurrentIngests: 2, MaxWaitTime: 5 * time.Second})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IngestFiles(ctx, id, "", []FileSource{
				NamedReader("a.txt", strings.NewReader("Ana\nLuis\n")),
			})
			if err != nil {
				t.Errorf("IngestFiles: %v", err)
			}
		}()
	}
	wg.Wait()

	records, _ := svc.Records(id, NoSelection)
	if len(records) != 20 {
		t.Errorf("len(records) = %d, want 20", len(records))
	}
	for i := 0; i < len(records); i += 2 {
		if records[i].Name != "Ana" || records[i+1].Name != "Luis" {
			t.Fatalf("batch at %d interleaved: %q, %q", i, records[i].Name, records[i+1].Name)
		}
	}

	if err := svc.WaitForIngests(ctx); err != nil {
		t.Errorf("WaitForIngests: %v", err)
	}
	if got := svc.IngestLimiterStatus().Active; got != 0 {
		t.Errorf("Active = %d, want 0", got)
	}
}
