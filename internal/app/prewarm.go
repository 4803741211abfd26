package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Prewarmer periodically regenerates popular question sets so the first
// player after a TTL expiry still gets a cache hit. Failures are logged
// and retried on the next tick.
type Prewarmer struct {
	games    *GameService
	requests []QuestionRequest
	interval time.Duration
	log      *zap.Logger
}

func NewPrewarmer(games *GameService, requests []QuestionRequest, interval time.Duration, log *zap.Logger) *Prewarmer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Prewarmer{games: games, requests: requests, interval: interval, log: log}
}

// Run warms immediately, then on every tick until the context is done.
func (p *Prewarmer) Run(ctx context.Context) {
	if len(p.requests) == 0 {
		return
	}
	p.warm(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.warm(ctx)
		}
	}
}

func (p *Prewarmer) warm(ctx context.Context) {
	for _, req := range p.requests {
		if ctx.Err() != nil {
			return
		}
		if _, err := p.games.GenerateQuestions(ctx, req); err != nil {
			p.log.Warn("prewarm failed",
				zap.Int64("subject", req.SubjectID),
				zap.String("difficulty", req.Difficulty),
				zap.Error(err))
		}
	}
}
