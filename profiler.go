package gekko

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profiler accumulates named wall-clock scopes and counters. Scopes keep the
// order in which they were first opened.
type Profiler struct {
	mu     sync.Mutex
	scopes map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		scopes: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts[name] = time.Now()
	if _, seen := p.scopes[name]; !seen {
		p.scopes[name] = 0
		p.order = append(p.order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if start, ok := p.starts[name]; ok {
		p.scopes[name] += time.Since(start)
		delete(p.starts, name)
	}
}

// Record adds an externally measured duration to a scope.
func (p *Profiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.scopes[name]; !seen {
		p.order = append(p.order, name)
	}
	p.scopes[name] += d
}

func (p *Profiler) Duration(name string) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scopes[name]
}

func (p *Profiler) SetCount(name string, count int) {
	p.mu.Lock()
	p.counts[name] = count
	p.mu.Unlock()
}

func (p *Profiler) Count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[name]
}

func (p *Profiler) StatsString() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Timings:\n")
	for _, name := range p.order {
		ms := float64(p.scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-18s: %.2f ms\n", name, ms)
	}

	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("Stats:\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-18s: %d\n", k, p.counts[k])
	}
	return sb.String()
}

// ProfilerModule installs a Profiler and logs its stats when the app leaves
// its final state.
type ProfilerModule struct{}

func (ProfilerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewProfiler())
	cmd.UseSystem(System(logProfilerStats).InStage(Finale).InState(OnExit(StateDone)))
}

func logProfilerStats(profiler *Profiler, cmd *Commands) {
	log := cmd.Logger()
	if !log.DebugEnabled() {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(profiler.StatsString(), "\n"), "\n") {
		log.Debugf("%s", line)
	}
}
