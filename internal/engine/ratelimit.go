package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// Outbound rate limiter toward youtube.com. Innertube tolerates bursts but
// sustained hammering from one IP gets the visitor flagged, so every request
// from sources/ goes through WaitYouTube first.
var ytLimiter *rate.Limiter

func initLimiter(rps float64) {
	if rps <= 0 {
		rps = 4
	}
	ytLimiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
}

// WaitYouTube blocks until the limiter grants a slot or ctx is done.
func WaitYouTube(ctx context.Context) error {
	if ytLimiter == nil {
		return nil
	}
	return ytLimiter.Wait(ctx)
}
