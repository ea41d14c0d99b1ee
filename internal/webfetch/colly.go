package webfetch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls the Colly-backed fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher implements Fetcher using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
	)
	base.AllowURLRevisit = true
	// Single-page fetches of sites whose owners we are trying to reach;
	// robots.txt is not consulted.
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.Timeout)

	return &CollyFetcher{
		baseCollector: base,
		logger:        logger,
	}
}

// Fetch retrieves a page via a clone of the base collector. Any error, a
// canceled context, or a status >= 400 yields ok=false.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (string, bool) {
	collector := f.baseCollector.Clone()
	resultCh := make(chan fetchResult, 1)
	var once sync.Once
	send := func(res fetchResult) {
		once.Do(func() {
			resultCh <- res
		})
	}

	collector.OnResponse(func(r *colly.Response) {
		send(fetchResult{body: string(r.Body), status: r.StatusCode})
	})
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		send(fetchResult{status: status, err: err})
	})

	if err := collector.Visit(rawURL); err != nil {
		f.logger.Debug("page fetch rejected", zap.String("url", rawURL), zap.Error(err))
		return "", false
	}
	collector.Wait()

	select {
	case res := <-resultCh:
		if ctx.Err() != nil {
			return "", false
		}
		if res.err != nil || res.status >= http.StatusBadRequest {
			f.logger.Debug("page fetch failed",
				zap.String("url", rawURL),
				zap.Int("status", res.status),
				zap.Error(res.err),
			)
			return "", false
		}
		return res.body, true
	default:
		return "", false
	}
}

type fetchResult struct {
	body   string
	status int
	err    error
}
