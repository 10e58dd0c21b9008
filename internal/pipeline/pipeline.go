// Package pipeline ties feeds, analysis, storage and notification together.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/sentinelai/sentinel/internal/analysis"
	"github.com/sentinelai/sentinel/internal/brain"
	"github.com/sentinelai/sentinel/internal/feeds"
	"github.com/sentinelai/sentinel/internal/logging"
	"github.com/sentinelai/sentinel/internal/notify"
	"github.com/sentinelai/sentinel/internal/store"
)

// Analyzer routes one prompt to an AI backend.
type Analyzer interface {
	Analyze(ctx context.Context, req brain.Request, loadBalance bool) (string, error)
}

// Fetcher retrieves entries from one feed source.
type Fetcher interface {
	Fetch(ctx context.Context, src feeds.Source) ([]feeds.Item, error)
}

// Notifier delivers one message. Nil notifier disables notifications.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Storage is the subset of store operations the pipeline needs.
type Storage interface {
	Insert(item feeds.Item) (int64, bool, error)
	UpdateAnalysis(id int64, analysis, category string) error
	PendingAnalysis(limit int) ([]store.Item, error)
	PendingCount() (int, error)
	UpdateSourceStatus(name string, itemCount int, lastError string) error
}

const (
	// sweepBatch bounds one retry pass so a deep backlog cannot
	// monopolize a cycle.
	sweepBatch = 10

	// loadBalanceThreshold: above this many pending items the sweep
	// rotates the provider starting offset to spread the burst.
	loadBalanceThreshold = 20
)

// Pipeline runs the ingest and sweep cycles. Failures of individual items or
// sources are logged and skipped; a cycle never aborts part-way.
type Pipeline struct {
	sources  []feeds.Source
	filter   *feeds.Filter
	fetcher  Fetcher
	storage  Storage
	analyzer Analyzer
	notifier Notifier

	// limiter paces AI calls across items. One token per ~2.5s keeps the
	// free-tier backends out of their rate limits.
	limiter *rate.Limiter
}

// New creates a pipeline. notifier may be nil.
func New(sources []feeds.Source, filter *feeds.Filter, fetcher Fetcher,
	storage Storage, analyzer Analyzer, notifier Notifier) *Pipeline {
	return &Pipeline{
		sources:  sources,
		filter:   filter,
		fetcher:  fetcher,
		storage:  storage,
		analyzer: analyzer,
		notifier: notifier,
		limiter:  rate.NewLimiter(rate.Every(2500*time.Millisecond), 1),
	}
}

// SetLimiter overrides the AI call pacing. Used by tests.
func (p *Pipeline) SetLimiter(l *rate.Limiter) { p.limiter = l }

// Ingest runs one full scan cycle: fetch every active source, filter for
// relevance, insert, analyze new items, notify.
func (p *Pipeline) Ingest(ctx context.Context) {
	var total, fresh int
	for _, src := range p.sources {
		if !src.Active {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		items, err := p.fetcher.Fetch(ctx, src)
		if err != nil {
			logging.Warn("fetch failed", "source", src.Name, "error", err)
			if serr := p.storage.UpdateSourceStatus(src.Name, 0, err.Error()); serr != nil {
				logging.Error("update source status failed", "source", src.Name, "error", serr)
			}
			continue
		}
		if serr := p.storage.UpdateSourceStatus(src.Name, len(items), ""); serr != nil {
			logging.Error("update source status failed", "source", src.Name, "error", serr)
		}

		total += len(items)
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if !p.filter.Relevant(item) {
				continue
			}

			id, inserted, err := p.storage.Insert(item)
			if err != nil {
				logging.Error("insert failed", "link", item.Link, "error", err)
				continue
			}
			if !inserted {
				continue // seen before
			}
			fresh++

			result, _ := p.analyzeItem(ctx, id, item.Title, item.Link, item.Summary, false)
			p.notify(ctx, item, result)
		}
	}
	logging.Info("scan cycle complete", "fetched", total, "new", fresh)
}

// Sweep retries items whose analysis is still missing, in one bounded batch.
// With a deep backlog the provider offset rotates per call to spread load.
func (p *Pipeline) Sweep(ctx context.Context) {
	pending, err := p.storage.PendingCount()
	if err != nil {
		logging.Error("pending count failed", "error", err)
		return
	}
	if pending == 0 {
		return
	}

	items, err := p.storage.PendingAnalysis(sweepBatch)
	if err != nil {
		logging.Error("pending batch failed", "error", err)
		return
	}

	loadBalance := pending > loadBalanceThreshold
	logging.Info("sweeping missing analyses", "pending", pending,
		"batch", len(items), "load_balance", loadBalance)

	recovered := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		// Exhaustion is handled like any other failure: the row stays
		// pending and the rest of the batch still gets its attempt.
		result, _ := p.analyzeItem(ctx, item.ID, item.Title, item.Link, "", loadBalance)
		if result != nil {
			recovered++
		}
	}
	logging.Info("sweep complete", "recovered", recovered, "batch", len(items))
}

// analyzeItem runs one AI analysis and persists the result. A nil result
// means the analysis failed or was unparseable; the row stays pending for the
// next sweep.
func (p *Pipeline) analyzeItem(ctx context.Context, id int64, title, link, content string, loadBalance bool) (*analysis.Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := brain.Request{
		SystemPrompt: analysis.SystemPrompt,
		UserPrompt:   analysis.NewsPrompt(title, link, content),
	}
	raw, err := p.analyzer.Analyze(ctx, req, loadBalance)
	if err != nil {
		logging.Warn("analysis failed", "id", id, "error", err)
		return nil, err
	}

	result := analysis.Parse(raw)
	if result == nil {
		logging.Warn("analysis unparseable", "id", id)
		return nil, nil
	}

	if err := p.storage.UpdateAnalysis(id, result.Render(), result.Category); err != nil {
		logging.Error("store analysis failed", "id", id, "error", err)
		return nil, err
	}
	return result, nil
}

// notify sends one item notification. Best effort: delivery failures are
// logged and never block the cycle.
func (p *Pipeline) notify(ctx context.Context, item feeds.Item, result *analysis.Result) {
	if p.notifier == nil {
		return
	}

	header := "📰 <b>Security News</b>"
	if p.filter.Urgent(item.Title) {
		header = "🚨 <b>URGENT</b>"
	}

	msg := fmt.Sprintf("%s\n\n<b>%s</b>\n%s", header, notify.Escape(item.Title), item.Link)
	if result != nil {
		msg += fmt.Sprintf("\n\n⚠️ Threat Level: %s\n🏷 Category: %s\n%s",
			result.ThreatLevel, result.Category, notify.Escape(result.Summary))
	}

	if err := p.notifier.Send(ctx, msg); err != nil {
		logging.Warn("notification failed", "link", item.Link, "error", err)
	}
}
