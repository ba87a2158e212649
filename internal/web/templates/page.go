// Package templates renders the roster pages.
//
// Components are built with templ.ComponentFunc and write escaped HTML
// directly, so no generated code is needed.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/roster/internal/core"
)

// UnparsedView is one unparsed file with its user-facing explanation.
type UnparsedView struct {
	Entry   core.UnparsedFileEntry
	Message core.UserMessage
}

// RosterView is everything the roster page shows for one session.
type RosterView struct {
	SessionID string
	Status    string
	Counts    core.CategoryCounts
	Selection core.Selection
	Records   []core.WorkerRecord
	Unparsed  []UnparsedView
}

// writer collects the first write error so templates can stay linear.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) rawf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="es"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title)
		w.raw(`</title><style>` + pageCSS + `</style></head><body><main>`)
		if w.err != nil {
			return w.err
		}
		if err := body.Render(ctx, out); err != nil {
			return err
		}
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// RosterPage renders the full roster page.
func RosterPage(v RosterView) templ.Component {
	return Layout("Directorio de trabajadores", rosterBody(v))
}

func rosterBody(v RosterView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		base := "/sessions/" + url.PathEscape(v.SessionID)

		w.raw(`<h1>Directorio de trabajadores</h1>`)
		if v.Status != "" {
			w.raw(`<p class="status" role="status">`)
			w.text(v.Status)
			w.raw(`</p>`)
		}

		renderIngestForms(w, base)
		renderChart(w, base, v.Counts, v.Selection)
		renderRecords(w, base, v.Records, v.Selection)
		renderUnparsed(w, v.Unparsed)

		return w.err
	})
}

func renderIngestForms(w *writer, base string) {
	w.rawf(`<section class="ingest"><form method="post" action="%s/files" enctype="multipart/form-data">`, templ.EscapeString(base))
	w.raw(`<label>Archivos <input type="file" name="files" multiple accept=".csv,.tsv,.txt"></label>`)
	w.raw(`<label>Fuente <input type="text" name="source" placeholder="Archivo"></label>`)
	w.raw(`<button type="submit">Cargar</button></form>`)

	w.rawf(`<form method="post" action="%s/paste">`, templ.EscapeString(base))
	w.raw(`<label>Pegar texto <textarea name="text" rows="5"></textarea></label>`)
	w.raw(`<label>Fuente <input type="text" name="source" placeholder="Manual"></label>`)
	w.raw(`<button type="submit">Procesar</button></form>`)

	w.rawf(`<form method="post" action="%s/clear"><button type="submit" class="danger">Limpiar</button></form></section>`, templ.EscapeString(base))
}

func renderChart(w *writer, base string, counts core.CategoryCounts, sel core.Selection) {
	highest := counts.Max()
	selected, hasSel := sel.Category()

	w.raw(`<section class="chart"><h2>Categorías</h2><ol>`)
	for _, c := range counts {
		width := 0
		if highest > 0 {
			width = c.Count * 100 / highest
		}
		class := ""
		if hasSel && c.Category == selected {
			class = ` class="selected"`
		}
		w.rawf(`<li%s><form method="post" action="%s/filter/%s">`, class,
			templ.EscapeString(base), templ.EscapeString(url.PathEscape(string(c.Category))))
		w.raw(`<button type="submit">`)
		w.text(string(c.Category))
		w.rawf(`</button><span class="bar" style="width:%d%%"></span><span class="count">%d</span></form></li>`, width, c.Count)
	}
	w.raw(`</ol>`)
	if hasSel {
		w.rawf(`<form method="post" action="%s/filter/clear"><button type="submit">Quitar filtro</button></form>`, templ.EscapeString(base))
	}
	w.raw(`</section>`)
}

func renderRecords(w *writer, base string, records []core.WorkerRecord, sel core.Selection) {
	w.raw(`<section class="records"><h2>Trabajadores`)
	if sel.IsSet() {
		w.raw(` · `)
		w.text(sel.String())
	}
	w.rawf(` (%d)</h2>`, len(records))

	if len(records) == 0 {
		w.raw(`<p class="empty">Sin registros.</p></section>`)
		return
	}

	w.raw(`<table><thead><tr><th>Nombre</th><th>Teléfono</th><th>Correo</th><th>Dirección</th><th>Categoría</th><th>Fuente</th></tr></thead><tbody>`)
	for _, r := range records {
		w.raw(`<tr>`)
		for _, cell := range []string{r.Name, r.Phone, r.Email, r.Address, string(r.Category), r.Source} {
			w.raw(`<td>`)
			w.text(cell)
			w.raw(`</td>`)
		}
		w.raw(`</tr>`)
	}
	w.raw(`</tbody></table></section>`)
}

func renderUnparsed(w *writer, entries []UnparsedView) {
	if len(entries) == 0 {
		return
	}
	w.raw(`<section class="unparsed"><h2>Archivos no procesados</h2><ul>`)
	for _, e := range entries {
		w.raw(`<li><strong>`)
		w.text(e.Entry.Name)
		w.raw(`</strong> <span class="ext">`)
		w.text(e.Entry.Extension)
		w.raw(`</span> `)
		w.text(e.Message.Message)
		w.raw(`. `)
		w.text(e.Message.Action)
		w.rawf(` <code>%s</code></li>`, templ.EscapeString(e.Message.Code))
	}
	w.raw(`</ul></section>`)
}

// ErrorAlert renders an error message with its suggested action and code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="alert" role="alert"><p>`)
		w.text(message)
		w.raw(`</p>`)
		if action != "" {
			w.raw(`<p>`)
			w.text(action)
			w.raw(`</p>`)
		}
		w.raw(`<small>Code: `)
		w.text(code)
		w.raw(`</small></div>`)
		return w.err
	})
}

// ErrorPage renders ErrorAlert inside the page shell with a link home.
func ErrorPage(msg core.UserMessage) templ.Component {
	return Layout("Error", templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if err := ErrorAlert(msg.Message, msg.Action, msg.Code).Render(ctx, out); err != nil {
			return err
		}
		_, err := io.WriteString(out, `<p><a href="/">Nuevo directorio</a></p>`)
		return err
	}))
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1d2330}
main{max-width:960px;margin:0 auto;padding:1.5rem}
section{background:#fff;border-radius:8px;padding:1rem;margin-bottom:1rem}
.status{background:#e8f4ea;padding:.5rem 1rem;border-radius:6px}
.alert{background:#fdecec;padding:.75rem 1rem;border-radius:6px}
.chart ol{list-style:none;padding:0}
.chart li form{display:grid;grid-template-columns:10rem 1fr 3rem;align-items:center;gap:.5rem;margin:.2rem 0}
.chart li.selected button{font-weight:bold}
.bar{display:block;height:.8rem;background:#4a78d0;border-radius:4px}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:.3rem;border-bottom:1px solid #e3e6ea}
.danger{color:#a11}`
