package prometheus

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	waitcounter "github.com/MrEthical07/waitcounter"
)

type snapshotSource interface {
	Snapshot() map[string]waitcounter.CounterSnapshot
	Dropped() uint64
}

const namespace = "waitcounter"

// Exporter renders wait counter aggregates in Prometheus text exposition
// format. Counter names become values of the "counter" label; series order
// is stable (sorted by name) so output diffs cleanly.
type Exporter struct {
	source snapshotSource
}

// NewExporter creates a Prometheus exporter that reads from the given
// [waitcounter.Registry].
func NewExporter(registry *waitcounter.Registry) *Exporter {
	return &Exporter{source: registry}
}

// NewExporterFromSource creates a Prometheus exporter from a custom snapshot
// source.
func NewExporterFromSource(source snapshotSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the rendered metrics.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render writes the current aggregates in Prometheus text exposition format.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snapshot := e.source.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.Grow(4096)

	writeFamily(&b, namespace+"_waits_total", "Completed wait spans.", "counter",
		names, func(name string) string {
			return strconv.FormatUint(snapshot[name].Count, 10)
		})
	writeFamily(&b, namespace+"_wait_seconds_total", "Total time spent waiting, in seconds.", "counter",
		names, func(name string) string {
			return strconv.FormatFloat(float64(snapshot[name].DurationNanos)/1e9, 'f', -1, 64)
		})
	writeFamily(&b, namespace+"_active", "Wait spans currently open.", "gauge",
		names, func(name string) string {
			return strconv.FormatInt(snapshot[name].Active, 10)
		})

	dropped := namespace + "_dropped_events_total"
	b.WriteString("# HELP ")
	b.WriteString(dropped)
	b.WriteString(" Span events shed by backend dispatch backpressure.\n")
	b.WriteString("# TYPE ")
	b.WriteString(dropped)
	b.WriteString(" counter\n")
	b.WriteString(dropped)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(e.source.Dropped(), 10))
	b.WriteByte('\n')

	return b.String()
}

func writeFamily(b *strings.Builder, name, help, typ string, counters []string, value func(string) string) {
	if len(counters) == 0 {
		return
	}
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(typ)
	b.WriteByte('\n')

	for _, counter := range counters {
		b.WriteString(name)
		b.WriteString("{counter=\"")
		b.WriteString(escapeLabel(counter))
		b.WriteString("\"} ")
		b.WriteString(value(counter))
		b.WriteByte('\n')
	}
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "\"", "\\\"")
	v = strings.ReplaceAll(v, "\n", "\\n")
	return v
}
