package bot

import (
	"math/rand/v2"
	"sync"
)

// linePicker selects random flavor lines without repeating a pool's
// immediately previous pick.
type linePicker struct {
	mu   sync.Mutex
	last map[string]int
}

func newLinePicker() *linePicker {
	return &linePicker{last: make(map[string]int)}
}

func (p *linePicker) pick(pool string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := rand.IntN(len(lines))
	if prev, ok := p.last[pool]; ok && len(lines) > 1 {
		for idx == prev {
			idx = rand.IntN(len(lines))
		}
	}
	p.last[pool] = idx
	return lines[idx]
}
