package viz

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tokenbucket"

	"github.com/vizlab/algoviz/internal/graph"
)

// IngestItem is one element arriving on a stream. Exactly one field is
// set; an item with both or neither is rejected.
type IngestItem struct {
	Node *graph.Node
	Edge *graph.Edge
}

// IngestOptions paces a stream. A zero RatePerSecond ingests as fast as
// the channel delivers.
type IngestOptions struct {
	RatePerSecond float64
	Burst         int
}

// IngestStream consumes items from src until the channel closes or ctx
// is cancelled, adding each to the dataset. Pacing uses a token bucket
// charged one token per element. Cancellation happens between elements,
// so the dataset always reflects a whole prefix of the stream; the ids
// ingested so far accompany every outcome.
func (v *Visualizer) IngestStream(ctx context.Context, src <-chan IngestItem, opts IngestOptions) Result {
	var tb tokenbucket.TokenBucket
	pace := opts.RatePerSecond > 0
	if pace {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		tb.Init(tokenbucket.TokensPerSecond(opts.RatePerSecond), tokenbucket.Tokens(burst))
	}

	var nodeIDs, edgeIDs []string
	outcome := func(r Result) Result {
		r.NodeIDs, r.EdgeIDs = nodeIDs, edgeIDs
		return r
	}

	for {
		select {
		case <-ctx.Done():
			return outcome(cancelled(ctx.Err()))
		case item, open := <-src:
			if !open {
				return outcome(ok())
			}
			if pace {
				for {
					fulfilled, wait := tb.TryToFulfill(tokenbucket.Tokens(1))
					if fulfilled {
						break
					}
					select {
					case <-ctx.Done():
						return outcome(cancelled(ctx.Err()))
					case <-time.After(wait):
					}
				}
			}
			res := v.ingestOne(item)
			if !res.OK() {
				return outcome(res)
			}
			nodeIDs = append(nodeIDs, res.NodeIDs...)
			edgeIDs = append(edgeIDs, res.EdgeIDs...)
		}
	}
}

func (v *Visualizer) ingestOne(item IngestItem) Result {
	switch {
	case item.Node != nil && item.Edge == nil:
		return v.AddNode(item.Node)
	case item.Edge != nil && item.Node == nil:
		return v.AddEdge(item.Edge)
	default:
		return failed(errors.New("algoviz/viz: ingest item must carry exactly one element"))
	}
}
