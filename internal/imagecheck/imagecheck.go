// Package imagecheck probes the remote images a site references and reports
// the ones that no longer load.
package imagecheck

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/folio-web/folio/internal/portfolio"
)

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
)

// Result is the outcome for one source.
type Result struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Err    string `json:"error,omitempty"`
}

// OK reports whether the source answered with a 2xx or 3xx status.
func (r Result) OK() bool {
	return r.Err == "" && r.Status >= 200 && r.Status < 400
}

// Checker issues the probes.
type Checker struct {
	client      *http.Client
	concurrency int
	// OnDone is called after each probe, from the probing goroutine.
	OnDone func(Result)
}

// New returns a Checker. Non-positive values select the defaults.
func New(concurrency int, timeout time.Duration) *Checker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{client: &http.Client{Timeout: timeout}, concurrency: concurrency}
}

// WithClient replaces the HTTP client.
func (c *Checker) WithClient(client *http.Client) *Checker {
	c.client = client
	return c
}

// Check probes every distinct http(s) source in urls and returns the
// unreachable ones sorted by URL. Data URIs and relative paths are skipped.
// It returns early only when ctx is cancelled.
func (c *Checker) Check(ctx context.Context, urls []string) ([]Result, error) {
	var (
		mu     sync.Mutex
		failed []Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, u := range Remote(urls) {
		u := u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := c.probe(gctx, u)
			if c.OnDone != nil {
				c.OnDone(res)
			}
			if !res.OK() {
				mu.Lock()
				failed = append(failed, res)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].URL < failed[j].URL })
	return failed, nil
}

// probe sends HEAD, retrying with GET when the server rejects HEAD.
func (c *Checker) probe(ctx context.Context, u string) Result {
	status, err := c.do(ctx, http.MethodHead, u)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented || status == http.StatusForbidden) {
		status, err = c.do(ctx, http.MethodGet, u)
	}
	if err != nil {
		return Result{URL: u, Err: err.Error()}
	}
	return Result{URL: u, Status: status}
}

func (c *Checker) do(ctx context.Context, method, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Remote returns the distinct http(s) sources among urls, in first-seen order.
func Remote(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Sources collects every image source a dataset references: project
// thumbnails, gallery images and the hero slideshow. Blob links are
// rewritten the same way the page renders them.
func Sources(ds *portfolio.SiteDataset) []string {
	var out []string
	for _, p := range ds.Projects {
		if p.Thumbnail != "" {
			out = append(out, portfolio.RewriteBlobURL(p.Thumbnail))
		}
	}
	for _, it := range ds.Gallery.Items() {
		out = append(out, portfolio.ItemImages(it)...)
	}
	for _, img := range ds.HeroSlideshow {
		if src := img.Source(); src != "" {
			out = append(out, portfolio.RewriteBlobURL(src))
		}
	}
	return out
}
