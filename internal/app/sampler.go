package app

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"quizclash-service/internal/domain"
)

// Sampling defaults. Probe size and threshold are tuning knobs inherited
// from production traffic, overridable via options/config.
const (
	DefaultProbeSize      = 20
	DefaultFreshThreshold = 0.7
)

// Sampler selects question subsets that favor less-asked questions while
// spreading the selection evenly across topics. It is a pure computation
// over an in-memory pool; callers own the times_asked side effect.
type Sampler struct {
	probeSize      int
	freshThreshold float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithProbeSize sets how many leading pool entries the freshness probe inspects.
func WithProbeSize(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.probeSize = n
		}
	}
}

// WithFreshThreshold sets the zero-asked ratio above which weighted-random
// selection is used instead of the least-asked sort.
func WithFreshThreshold(f float64) SamplerOption {
	return func(s *Sampler) {
		if f > 0 && f <= 1 {
			s.freshThreshold = f
		}
	}
}

// WithRandSource injects a seeded source for deterministic tests.
func WithRandSource(src rand.Source) SamplerOption {
	return func(s *Sampler) { s.rnd = rand.New(src) }
}

func NewSampler(opts ...SamplerOption) *Sampler {
	s := &Sampler{
		probeSize:      DefaultProbeSize,
		freshThreshold: DefaultFreshThreshold,
		rnd:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns up to count questions drawn from pool without duplicates.
// Malformed questions are dropped before selection. When the pool spans
// several topics the selection is balanced: count/topics each, with the
// count%topics extra slots going to the lowest topic IDs. The returned
// order is shuffled so selection bias never leaks into presentation order.
func (s *Sampler) Sample(pool []domain.Question, count int) []domain.Question {
	if count <= 0 {
		return nil
	}
	pool = filterValid(pool)
	if len(pool) == 0 {
		return nil
	}
	if len(pool) <= count {
		out := append([]domain.Question(nil), pool...)
		s.shuffle(out)
		return out
	}

	fresh := s.mostlyUnasked(pool)
	groups, topicIDs := groupByTopic(pool)

	base := count / len(topicIDs)
	remainder := count % len(topicIDs)

	selected := make([]domain.Question, 0, count)
	taken := make(map[int64]bool, count)
	for i, topicID := range topicIDs {
		want := base
		if i < remainder {
			want++
		}
		var picks []domain.Question
		if fresh {
			picks = s.weightedPick(groups[topicID], want)
		} else {
			picks = s.leastAskedPick(groups[topicID], want)
		}
		for _, q := range picks {
			taken[q.ID] = true
		}
		selected = append(selected, picks...)
	}

	// Uneven topic sizes can under-fill; top up from the unselected rest.
	if len(selected) < count {
		rest := make([]domain.Question, 0, len(pool)-len(selected))
		for _, q := range pool {
			if !taken[q.ID] {
				rest = append(rest, q)
			}
		}
		need := count - len(selected)
		if fresh {
			selected = append(selected, s.weightedPick(rest, need)...)
		} else {
			selected = append(selected, s.leastAskedPick(rest, need)...)
		}
	}

	s.shuffle(selected)
	if len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

// mostlyUnasked probes the head of the pool; a high share of never-asked
// questions means fresh content where weighted randomness preserves variety.
func (s *Sampler) mostlyUnasked(pool []domain.Question) bool {
	probe := s.probeSize
	if probe > len(pool) {
		probe = len(pool)
	}
	zero := 0
	for _, q := range pool[:probe] {
		if q.TimesAsked == 0 {
			zero++
		}
	}
	return float64(zero)/float64(probe) >= s.freshThreshold
}

// weightedPick selects count questions without replacement, weighting each
// by max(times_asked)+1 - times_asked so less-asked questions win more often.
func (s *Sampler) weightedPick(pool []domain.Question, count int) []domain.Question {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if len(pool) <= count {
		out := append([]domain.Question(nil), pool...)
		s.shuffle(out)
		return out
	}

	maxAsked := 0
	for _, q := range pool {
		if q.TimesAsked > maxAsked {
			maxAsked = q.TimesAsked
		}
	}

	avail := append([]domain.Question(nil), pool...)
	weights := make([]int, len(avail))
	total := 0
	for i, q := range avail {
		weights[i] = maxAsked + 1 - q.TimesAsked
		total += weights[i]
	}

	out := make([]domain.Question, 0, count)
	for len(out) < count && len(avail) > 0 {
		r := s.intn(total)
		idx := 0
		for i, w := range weights {
			r -= w
			if r < 0 {
				idx = i
				break
			}
		}
		out = append(out, avail[idx])
		total -= weights[idx]
		avail = append(avail[:idx], avail[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return out
}

// leastAskedPick shuffles, then stable-sorts ascending by times_asked and
// takes a prefix. The shuffle randomizes order among equal counters.
func (s *Sampler) leastAskedPick(pool []domain.Question, count int) []domain.Question {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	sorted := append([]domain.Question(nil), pool...)
	s.shuffle(sorted)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimesAsked < sorted[j].TimesAsked
	})
	if count > len(sorted) {
		count = len(sorted)
	}
	return sorted[:count]
}

func (s *Sampler) shuffle(qs []domain.Question) {
	s.mu.Lock()
	s.rnd.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	s.mu.Unlock()
}

func (s *Sampler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func filterValid(pool []domain.Question) []domain.Question {
	valid := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	return valid
}

func groupByTopic(pool []domain.Question) (map[int64][]domain.Question, []int64) {
	groups := make(map[int64][]domain.Question)
	for _, q := range pool {
		groups[q.TopicID] = append(groups[q.TopicID], q)
	}
	topicIDs := make([]int64, 0, len(groups))
	for id := range groups {
		topicIDs = append(topicIDs, id)
	}
	// Ascending topic ID keeps the remainder distribution reproducible.
	sort.Slice(topicIDs, func(i, j int) bool { return topicIDs[i] < topicIDs[j] })
	return groups, topicIDs
}
