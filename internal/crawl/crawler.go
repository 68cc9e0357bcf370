package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sdutta9/gpscrape/internal/app"
	"github.com/sdutta9/gpscrape/internal/archive"
	"github.com/sdutta9/gpscrape/internal/browser"
)

// Form is the slice of browser capability the crawler needs. browser.Session
// implements it; tests script it.
type Form interface {
	Options(ctx context.Context, control string, includeDefaults bool) ([]browser.Option, error)
	Select(ctx context.Context, control, value string) error
	Refresh(ctx context.Context) error
	PageSource(ctx context.Context) (string, error)
}

// levelNames index the six cascading dropdown levels, outermost first.
var levelNames = [...]string{"state", "district", "block", "panchayat", "year", "date"}

// Params collects the crawler's collaborators.
type Params struct {
	Form        Form
	Store       *archive.Store
	Manifest    *archive.Manifest
	Controls    app.Controls
	StateFilter string
	Processed   map[archive.Key]struct{}
}

// Crawler walks the cascading dropdown form depth-first and archives every
// leaf combination not already in the processed set.
type Crawler struct {
	form     Form
	store    *archive.Store
	manifest *archive.Manifest
	controls app.Controls
	filter   string

	processed map[archive.Key]struct{}
	results   []archive.Record
	saved     int
}

// New creates a Crawler. The processed set is taken by reference and grown in
// place as combinations complete.
func New(p Params) *Crawler {
	processed := p.Processed
	if processed == nil {
		processed = make(map[archive.Key]struct{})
	}
	return &Crawler{
		form:      p.Form,
		store:     p.Store,
		manifest:  p.Manifest,
		controls:  p.Controls,
		filter:    strings.ToLower(p.StateFilter),
		processed: processed,
	}
}

// Saved returns the number of combinations archived during this run.
func (c *Crawler) Saved() int {
	return c.saved
}

// Results returns the records collected during this run.
func (c *Crawler) Results() []archive.Record {
	return c.results
}

// levelControls returns the control IDs of the six levels, outermost first.
func (c *Crawler) levelControls() [6]string {
	return [6]string{
		c.controls.State,
		c.controls.District,
		c.controls.Block,
		c.controls.Panchayat,
		c.controls.Year,
		c.controls.Date,
	}
}

// Run traverses the form. Only a failure to read the top-level state list is
// fatal; every deeper failure abandons its branch and the walk moves on.
func (c *Crawler) Run(ctx context.Context) error {
	controls := c.levelControls()

	states, err := c.form.Options(ctx, controls[0], false)
	if err != nil {
		return fmt.Errorf("reading state options: %w", err)
	}

	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.filter != "" && !strings.Contains(strings.ToLower(st.Label), c.filter) {
			continue
		}
		if err := c.form.Select(ctx, controls[0], st.Value); err != nil {
			slog.Warn("skipping state after selection failure", "state", st.Label, "error", err)
			continue
		}
		c.walk(ctx, 1, []browser.Option{st})
	}

	slog.Info("traversal complete", "saved", c.saved)
	return ctx.Err()
}

// walk drives the nested levels below the state dropdown. picks holds the
// ancestor selections, one per completed level.
func (c *Crawler) walk(ctx context.Context, depth int, picks []browser.Option) {
	if depth == len(levelNames) {
		c.leaf(ctx, picks)
		return
	}

	control := c.levelControls()[depth]

	opts, err := c.form.Options(ctx, control, false)
	if err != nil {
		slog.Error("abandoning branch",
			"level", levelNames[depth],
			"under", picks[depth-1].Label,
			"error", err)
		return
	}

	for _, o := range opts {
		if ctx.Err() != nil {
			return
		}
		if err := c.form.Select(ctx, control, o.Value); err != nil {
			slog.Warn("skipping branch after selection failure",
				"level", levelNames[depth], "value", o.Value, "error", err)
			continue
		}
		c.walk(ctx, depth+1, append(picks[:depth:depth], o))
	}
}

// leaf handles one fully specified combination: pick the report option,
// consult the processed set, select with one refresh-and-reselect recovery,
// then capture and archive the page.
func (c *Crawler) leaf(ctx context.Context, picks []browser.Option) {
	opts, err := c.form.Options(ctx, c.controls.Option, true)
	if err != nil {
		slog.Error("cannot read report options", "date", picks[5].Label, "error", err)
		return
	}

	choice, ok := pickReportOption(opts)
	if !ok {
		slog.Warn("no report option available, skipping combination", "date", picks[5].Label)
		return
	}

	key := archive.NewKey(picks[0].Value, picks[1].Value, picks[2].Value,
		picks[3].Value, picks[4].Value, picks[5].Value)
	if _, done := c.processed[key]; done {
		slog.Info("combination already processed, skipping", "key", key)
		return
	}

	if err := c.form.Select(ctx, c.controls.Option, choice.Value); err != nil {
		slog.Warn("report option selection failed, refreshing page", "key", key, "error", err)
		if err := c.reselect(ctx, picks); err != nil {
			slog.Error("error re-selecting after refresh", "key", key, "error", err)
		}
		if err := c.form.Select(ctx, c.controls.Option, choice.Value); err != nil {
			slog.Error("giving up on combination", "key", key, "error", err)
			return
		}
	}

	html, err := c.form.PageSource(ctx)
	if err != nil {
		slog.Error("cannot capture page", "key", key, "error", err)
		return
	}

	file, err := c.store.Save(key, choice.Value, html)
	if err != nil {
		slog.Error("saving page failed", "key", key, "error", err)
		return
	}

	rec := newRecord(picks, choice, file)
	if c.manifest != nil {
		if err := c.manifest.Append(rec); err != nil {
			slog.Warn("manifest append failed", "file", file, "error", err)
		}
	}
	c.results = append(c.results, rec)
	c.processed[key] = struct{}{}
	c.saved++

	slog.Info("combination archived",
		"count", c.saved,
		"state", picks[0].Label,
		"district", picks[1].Label,
		"block", picks[2].Label,
		"panchayat", picks[3].Label,
		"year", picks[4].Label,
		"date", picks[5].Label,
		"option", choice.Label,
		"file", file)
}

// reselect refreshes the page and re-applies all six ancestor selections in
// order. Used once per leaf as the recovery path for a failed option select.
func (c *Crawler) reselect(ctx context.Context, picks []browser.Option) error {
	if err := c.form.Refresh(ctx); err != nil {
		return err
	}
	controls := c.levelControls()
	for i, p := range picks {
		if err := c.form.Select(ctx, controls[i], p.Value); err != nil {
			return fmt.Errorf("re-selecting %s: %w", levelNames[i], err)
		}
	}
	return nil
}

// pickReportOption prefers the option labeled "all" (case-insensitively) and
// otherwise takes the first in DOM order.
func pickReportOption(opts []browser.Option) (browser.Option, bool) {
	for _, o := range opts {
		if strings.EqualFold(o.Label, "all") {
			return o, true
		}
	}
	if len(opts) == 0 {
		return browser.Option{}, false
	}
	return opts[0], true
}

// newRecord builds the manifest record for one archived combination.
func newRecord(picks []browser.Option, choice browser.Option, file string) archive.Record {
	field := func(o browser.Option) archive.Field {
		return archive.Field{Value: o.Value, Label: o.Label}
	}
	return archive.Record{
		State:     field(picks[0]),
		District:  field(picks[1]),
		Block:     field(picks[2]),
		Panchayat: field(picks[3]),
		Year:      field(picks[4]),
		Date:      field(picks[5]),
		Option:    field(choice),
		File:      file,
		SavedAt:   time.Now(),
	}
}
