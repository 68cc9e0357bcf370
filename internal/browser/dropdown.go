package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chromedp/chromedp"
)

// Option is one value/label pair of a dropdown, in DOM order. Order matters:
// the driver falls back to the first available option when no "All" option
// exists, which depends on the page's enumeration order.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// optionsJS returns the option list of a select element, or null while the
// element is absent (null keeps Poll waiting).
const optionsJS = `
(function() {
    const el = document.getElementById(%q);
    if (!el) return null;
    return Array.from(el.options).map(o => ({value: o.value.trim(), label: o.text.trim()}));
})()
`

// overlayGoneJS is true once the full-page loading overlay is absent or
// hidden. The target page blankets the form with div.wrapper during its
// postback round trips.
const overlayGoneJS = `
(function() {
    const el = document.querySelector('div.wrapper');
    if (!el) return true;
    const s = window.getComputedStyle(el);
    return s.display === 'none' || s.visibility === 'hidden';
})()
`

// enabledJS is true once the control exists and is interactive.
const enabledJS = `
(function() {
    const el = document.getElementById(%q);
    return !!el && !el.disabled;
})()
`

// selectJS picks an option by value and fires a bubbling change event, which
// is what triggers the ASP.NET postback that repopulates dependent dropdowns.
// Returns an error string, empty on success.
const selectJS = `
(function() {
    const el = document.getElementById(%q);
    if (!el) return "control not found";
    const want = %q;
    const opt = Array.from(el.options).find(o => o.value === want);
    if (!opt) return "option not present: " + want;
    el.value = want;
    el.dispatchEvent(new Event('change', {bubbles: true}));
    return "";
})()
`

// nudgeJS scrolls the control into view and force-clicks it. Compensating
// maneuver for intercepted or stuck controls.
const nudgeJS = `
(function() {
    const el = document.getElementById(%q);
    if (!el) return false;
    el.scrollIntoView(true);
    el.click();
    return true;
})()
`

// isDefaultOption reports whether an option is a placeholder the traversal
// should never descend into.
func isDefaultOption(o Option) bool {
	switch strings.ToLower(o.Value) {
	case "", "select", "choose", "0":
		return true
	}
	return false
}

// Options waits (bounded by the option timeout) for the control to appear and
// returns its options in DOM order. Placeholder options are filtered out
// unless includeDefaults is set. Zero options after filtering is an error;
// the caller abandons the branch that led here.
func (s *Session) Options(ctx context.Context, control string, includeDefaults bool) ([]Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	optCtx, cancel := context.WithTimeout(s.ctx, s.cfg.OptionTimeout)
	defer cancel()

	var raw []Option
	err := chromedp.Run(optCtx,
		chromedp.Poll(fmt.Sprintf(optionsJS, control), &raw, chromedp.WithPollingTimeout(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("reading options of %s: %w", control, err)
	}

	opts := raw[:0]
	for _, o := range raw {
		if !includeDefaults && isDefaultOption(o) {
			continue
		}
		opts = append(opts, o)
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("no options available for %s", control)
	}

	return opts, nil
}

// Select chooses value in the given control: wait out the loading overlay,
// wait for the control to be interactive, select by value, then settle so
// dependent controls can refresh. On failure it runs the compensating
// scroll-and-click maneuver and retries, bounded by the configured retry
// count. A terminal failure captures a debug snapshot.
func (s *Session) Select(ctx context.Context, control, value string) error {
	var lastErr error

	for attempt := 0; attempt <= s.cfg.SelectRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 0 {
			s.nudge(control)
		}

		if err := s.trySelect(ctx, control, value); err != nil {
			lastErr = err
			slog.Warn("select attempt failed",
				"control", control, "value", value,
				"attempt", attempt+1, "error", err)
			continue
		}
		return nil
	}

	s.debugSnapshot(fmt.Sprintf("select-failed-%s", control))
	return fmt.Errorf("selecting %q in %s: %w", value, control, lastErr)
}

func (s *Session) trySelect(ctx context.Context, control, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.bounded()
	defer cancel()

	var overlayGone, enabled bool
	var msg string
	err := chromedp.Run(runCtx,
		chromedp.Poll(overlayGoneJS, &overlayGone, chromedp.WithPollingTimeout(0)),
		chromedp.Poll(fmt.Sprintf(enabledJS, control), &enabled, chromedp.WithPollingTimeout(0)),
		chromedp.Evaluate(fmt.Sprintf(selectJS, control, value), &msg),
		chromedp.Sleep(s.cfg.Settle),
	)
	if err != nil {
		return err
	}
	if msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// nudge scrolls the control into view and force-clicks it via script
// injection. Failures here only get logged; the retry that follows decides
// the outcome.
func (s *Session) nudge(control string) {
	runCtx, cancel := context.WithTimeout(s.ctx, s.cfg.OptionTimeout)
	defer cancel()

	var ok bool
	err := chromedp.Run(runCtx,
		chromedp.Evaluate(fmt.Sprintf(nudgeJS, control), &ok),
		chromedp.Sleep(s.cfg.Settle),
	)
	if err != nil || !ok {
		slog.Warn("could not nudge control", "control", control, "found", ok, "error", err)
	}
}
