package rod

import (
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/scrapemill/scrapemill"
)

// networkWatcher collects the document response and redirect chain from CDP
// network events while a page loads.
type networkWatcher struct {
	mu        sync.Mutex
	resp      *proto.NetworkResponse
	redirects []string
}

// watchNetwork subscribes to the page's network events. The event loop ends
// when the page context is done or the page is closed.
func watchNetwork(page *rod.Page) *networkWatcher {
	w := &networkWatcher{}
	go page.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			if e.Type != proto.NetworkResourceTypeDocument || e.RedirectResponse == nil {
				return
			}
			w.mu.Lock()
			w.redirects = append(w.redirects, e.RedirectResponse.URL)
			w.mu.Unlock()
		},
		func(e *proto.NetworkResponseReceived) {
			if e.Type != proto.NetworkResourceTypeDocument {
				return
			}
			w.mu.Lock()
			if w.resp == nil {
				w.resp = e.Response
			}
			w.mu.Unlock()
		},
	)()
	return w
}

// fill copies the captured network details onto the render result.
func (w *networkWatcher) fill(result *scrapemill.RenderResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	result.Redirects = append(result.Redirects, w.redirects...)

	if w.resp == nil {
		return
	}

	result.StatusCode = w.resp.Status

	if len(w.resp.Headers) > 0 {
		result.ResponseHeaders = make(map[string]string, len(w.resp.Headers))
		for name, value := range w.resp.Headers {
			result.ResponseHeaders[name] = value.Str()
		}
	}

	if d := w.resp.SecurityDetails; d != nil {
		result.SSL = &scrapemill.SSLInfo{
			Valid:   w.resp.SecurityState == proto.SecuritySecurityStateSecure,
			Issuer:  d.Issuer,
			Subject: d.SubjectName,
			Expires: time.Unix(int64(d.ValidTo), 0).UTC().Format(time.RFC3339),
		}
	}
}
