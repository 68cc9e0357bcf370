package browser

import (
	"log/slog"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// listenEvents wires debug-level diagnostics for the flaky target site:
// document loads (every postback reloads the page) and failed network loads.
func (s *Session) listenEvents() {
	chromedp.ListenTarget(s.ctx, func(ev any) {
		switch e := ev.(type) {
		case *page.EventLoadEventFired:
			slog.Debug("page load event fired")

		case *network.EventLoadingFailed:
			// Cancellations are routine during postbacks; keep them out of
			// the logs unless they carry an error text.
			if e.ErrorText == "" || e.Canceled {
				return
			}
			slog.Debug("network load failed",
				"type", e.Type,
				"error", e.ErrorText,
				"blocked", e.BlockedReason)

		case *network.EventResponseReceived:
			if e.Response.Status >= 400 {
				slog.Debug("error response received",
					"url", e.Response.URL,
					"status", e.Response.Status)
			}
		}
	})
}
