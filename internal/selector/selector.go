package selector

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytune/internal/probe"
	"github.com/tanq16/ytune/internal/profile"
)

const DefaultFallback = 10

var DefaultCandidates = []int{5, 10, 15, 20}

type Prober interface {
	Probe(ctx context.Context, url string, fragments int, p profile.SiteProfile) probe.Result
}

type Selection struct {
	Fragments int
	Speed     float64
	Results   []probe.Result
	Fallback  bool
}

type Selector struct {
	Prober   Prober
	Fallback int
	OnStart  func(fragments int)
	OnResult func(probe.Result)
}

// Select probes every candidate in order, one at a time, and keeps the first
// candidate that reached the highest throughput. When no probe scores above zero
// the fallback level is returned instead.
func (s *Selector) Select(ctx context.Context, url string, candidates []int, p profile.SiteProfile) Selection {
	sel := Selection{Fragments: s.fallback()}
	for _, fragments := range candidates {
		if ctx.Err() != nil {
			log.Warn().Str("op", "selector/select").Msg("Probing interrupted, keeping best result so far")
			break
		}
		if s.OnStart != nil {
			s.OnStart(fragments)
		}
		res := s.Prober.Probe(ctx, url, fragments, p)
		sel.Results = append(sel.Results, res)
		if s.OnResult != nil {
			s.OnResult(res)
		}
		speed := res.Throughput()
		log.Debug().Str("op", "selector/select").Int("fragments", fragments).Float64("kbps", speed).Msg("Probe finished")
		if speed > sel.Speed {
			sel.Speed = speed
			sel.Fragments = fragments
		}
	}
	sel.Fallback = sel.Speed == 0
	return sel
}

func (s *Selector) fallback() int {
	if s.Fallback <= 0 {
		return DefaultFallback
	}
	return s.Fallback
}
