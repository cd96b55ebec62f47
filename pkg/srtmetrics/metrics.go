// Package srtmetrics exports socket statistics snapshots as Prometheus
// metrics. A Collector wraps any statistics source and converts one
// snapshot per scrape, so the scrape interval is the sampling interval.
package srtmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/irctrakz/gosrt/pkg/core"
	"github.com/irctrakz/gosrt/pkg/logging"
)

// StatsSource is the slice of the socket surface the collector needs.
// *srt.Socket satisfies it.
type StatsSource interface {
	Bistats(clearIntervals bool) (core.TraceStats, error)
	ID() int32
}

// Config holds collector configuration.
type Config struct {
	// Namespace prefixes every metric name. Defaults to "srt".
	Namespace string

	// ConstLabels are attached to every metric, alongside the socket label.
	ConstLabels prometheus.Labels
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) { c.Namespace = ns }
}

// WithConstLabels attaches labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}

// Collector converts statistics snapshots to Prometheus metrics on scrape.
// Snapshots are taken without clearing, so interval counters keep their
// engine-side meaning for other readers.
type Collector struct {
	source StatsSource

	pktSentTotal  *prometheus.Desc
	pktRecvTotal  *prometheus.Desc
	byteSentTotal *prometheus.Desc
	byteRecvTotal *prometheus.Desc
	sendRate      *prometheus.Desc
	recvRate      *prometheus.Desc
	rtt           *prometheus.Desc
	bandwidth     *prometheus.Desc
	flightSize    *prometheus.Desc
	flowWindow    *prometheus.Desc
	availSndBuf   *prometheus.Desc
	availRcvBuf   *prometheus.Desc
	uptime        *prometheus.Desc
}

// NewCollector builds a collector for one socket's statistics.
func NewCollector(source StatsSource, opts ...Option) *Collector {
	cfg := Config{Namespace: "srt"}
	for _, opt := range opts {
		opt(&cfg)
	}
	ns := cfg.Namespace
	labels := []string{"socket"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(ns, "", name), help, labels, cfg.ConstLabels)
	}
	return &Collector{
		source:        source,
		pktSentTotal:  desc("packets_sent_total", "Data packets sent since the socket was created."),
		pktRecvTotal:  desc("packets_received_total", "Data packets received since the socket was created."),
		byteSentTotal: desc("bytes_sent_total", "Payload bytes sent since the socket was created."),
		byteRecvTotal: desc("bytes_received_total", "Payload bytes received since the socket was created."),
		sendRate:      desc("send_rate_mbps", "Sending rate over the current interval, in Mbps."),
		recvRate:      desc("receive_rate_mbps", "Receiving rate over the current interval, in Mbps."),
		rtt:           desc("rtt_milliseconds", "Smoothed round-trip time estimate."),
		bandwidth:     desc("bandwidth_mbps", "Estimated link bandwidth, in Mbps."),
		flightSize:    desc("packets_in_flight", "Packets sent but not yet acknowledged."),
		flowWindow:    desc("flow_window_packets", "Flow control window size in packets."),
		availSndBuf:   desc("send_buffer_available_bytes", "Free space in the send buffer."),
		availRcvBuf:   desc("receive_buffer_available_bytes", "Free space in the receive buffer."),
		uptime:        desc("uptime_milliseconds", "Time since the socket was created."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pktSentTotal
	ch <- c.pktRecvTotal
	ch <- c.byteSentTotal
	ch <- c.byteRecvTotal
	ch <- c.sendRate
	ch <- c.recvRate
	ch <- c.rtt
	ch <- c.bandwidth
	ch <- c.flightSize
	ch <- c.flowWindow
	ch <- c.availSndBuf
	ch <- c.availRcvBuf
	ch <- c.uptime
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.source.Bistats(false)
	if err != nil {
		logging.Debugf("srtmetrics: snapshot failed: %v", err)
		return
	}
	sock := strconv.FormatInt(int64(c.source.ID()), 10)
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, sock)
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, sock)
	}
	counter(c.pktSentTotal, float64(stats.PktSentTotal))
	counter(c.pktRecvTotal, float64(stats.PktRecvTotal))
	counter(c.byteSentTotal, float64(stats.ByteSentTotal))
	counter(c.byteRecvTotal, float64(stats.ByteRecvTotal))
	gauge(c.sendRate, stats.MbpsSendRate)
	gauge(c.recvRate, stats.MbpsRecvRate)
	gauge(c.rtt, stats.MsRTT)
	gauge(c.bandwidth, stats.MbpsBandwidth)
	gauge(c.flightSize, float64(stats.PktFlightSize))
	gauge(c.flowWindow, float64(stats.PktFlowWindow))
	gauge(c.availSndBuf, float64(stats.ByteAvailSndBuf))
	gauge(c.availRcvBuf, float64(stats.ByteAvailRcvBuf))
	gauge(c.uptime, float64(stats.MsTimeStamp))
}
