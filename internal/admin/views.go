package admin

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"finitefield.org/konstruksi-web/internal/layout"
	mw "finitefield.org/konstruksi-web/internal/middleware"
)

// Chrome is the frame shared by every admin page.
type Chrome struct {
	Lang         string
	Title        string
	User         string
	CSRFToken    string
	AssetVersion string
	LogoutLabel  string
	Tabs         []Tab
	Toast        *layout.Toast
}

// Tab links one collection in the admin header.
type Tab struct {
	Label  string
	Href   string
	Active bool
}

// Row is one record in a table. Cells are rendered in column order.
type Row struct {
	ID          string
	Cells       []string
	ConfirmHref string
	DeleteURL   string
}

// ListData feeds ListPage.
type ListData struct {
	Chrome
	Heading      string
	Columns      []string
	Rows         []Row
	Empty        string
	DeleteLabel  string
	DeletePrompt string
	Prev         string
	Next         string
}

// ConfirmData feeds ConfirmPage.
type ConfirmData struct {
	Chrome
	Heading      string
	Body         string
	Record       string
	Problem      string
	Action       string
	ConfirmLabel string
	CancelLabel  string
	CancelHref   string
}

// htmlWriter accumulates markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

func esc(s string) string { return templ.EscapeString(s) }

// ListPage renders a collection table with pagination and delete controls.
func ListPage(d ListData) templ.Component {
	return frame(d.Chrome, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`, esc(d.Heading), `</h1>`)
		if len(d.Rows) == 0 {
			h.raw(`<p class="empty-state">`, esc(d.Empty), `</p>`)
		} else {
			writeTable(h, d)
		}
		if d.Prev != "" || d.Next != "" {
			h.raw(`<nav class="pagination">`)
			if d.Prev != "" {
				h.raw(`<a class="pagination__prev" rel="prev" href="`, esc(d.Prev), `">&larr;</a>`)
			}
			if d.Next != "" {
				h.raw(`<a class="pagination__next" rel="next" href="`, esc(d.Next), `">&rarr;</a>`)
			}
			h.raw(`</nav>`)
		}
		return h.err
	}))
}

func writeTable(h *htmlWriter, d ListData) {
	h.raw(`<table class="admin-table"><thead><tr>`)
	for _, c := range d.Columns {
		h.raw(`<th scope="col">`, esc(c), `</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	for _, row := range d.Rows {
		h.raw(`<tr id="row-`, esc(row.ID), `">`)
		for _, cell := range row.Cells {
			h.raw(`<td>`, esc(cell), `</td>`)
		}
		h.raw(`<td class="admin-table__actions">`,
			`<a class="admin-delete-link" href="`, esc(row.ConfirmHref), `">`, esc(d.DeleteLabel), `</a> `,
			`<button type="button" class="admin-delete" hx-delete="`, esc(row.DeleteURL), `"`,
			` hx-confirm="`, esc(d.DeletePrompt), `"`,
			` hx-headers='{"`, ConfirmedHeader, `": "true"}'`,
			` hx-target="closest tr" hx-swap="outerHTML">`, esc(d.DeleteLabel), `</button>`,
			`</td></tr>`)
	}
	h.raw(`</tbody></table>`)
}

// ConfirmPage renders the deletion confirmation form.
func ConfirmPage(d ConfirmData) templ.Component {
	return frame(d.Chrome, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section class="admin-confirm">`, `<h1>`, esc(d.Heading), `</h1>`)
		if d.Problem != "" {
			h.raw(`<p class="admin-confirm__problem" role="alert">`, esc(d.Problem), `</p>`)
		}
		h.raw(`<p>`, esc(d.Body), `: <strong class="admin-confirm__record">`, esc(d.Record), `</strong></p>`,
			`<form method="post" action="`, esc(d.Action), `">`,
			`<input type="hidden" name="`, mw.CSRFFormField, `" value="`, esc(d.CSRFToken), `">`,
			`<input type="hidden" name="confirm" value="yes">`,
			`<button type="submit" class="button button--danger">`, esc(d.ConfirmLabel), `</button> `,
			`<a class="button" href="`, esc(d.CancelHref), `">`, esc(d.CancelLabel), `</a>`,
			`</form></section>`)
		return h.err
	}))
}

func frame(c Chrome, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="`, esc(c.Lang), `"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<meta name="robots" content="noindex">`,
			`<title>`, esc(c.Title), `</title>`,
			`<link rel="stylesheet" href="/assets/css/app.css?v=`, esc(c.AssetVersion), `">`,
			`</head><body class="admin" hx-headers='{"X-CSRF-Token": "`, esc(c.CSRFToken), `"}'>`,
			`<header class="admin-header"><strong>`, esc(c.Title), `</strong><nav class="admin-tabs">`)
		for _, t := range c.Tabs {
			class := ""
			if t.Active {
				class = ` class="is-active" aria-current="page"`
			}
			h.raw(`<a href="`, esc(t.Href), `"`, class, `>`, esc(t.Label), `</a>`)
		}
		h.raw(`</nav>`)
		if c.User != "" {
			h.raw(`<span class="admin-header__user">`, esc(c.User), `</span>`,
				`<form class="admin-header__logout" method="post" action="`, LogoutPath, `">`,
				`<input type="hidden" name="`, mw.CSRFFormField, `" value="`, esc(c.CSRFToken), `">`,
				`<button type="submit">`, esc(c.LogoutLabel), `</button></form>`)
		}
		h.raw(`</header><main id="content">`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main><div id="toast" aria-live="polite">`)
		if c.Toast != nil {
			h.raw(`<div class="toast toast--`, esc(string(c.Toast.Severity)), `" role="status"><span>`,
				esc(c.Toast.Message), `</span></div>`)
		}
		h.raw(`</div>`,
			`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`,
			`<script src="/assets/js/app.js?v=`, esc(c.AssetVersion), `" defer></script>`,
			`</body></html>`)
		return h.err
	})
}
