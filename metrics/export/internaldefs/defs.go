package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter of audit events lost to a full buffer.
const AuditDroppedName = "gosession_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// CounterDefs lists every counter in export order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricSessionCreated, Name: "gosession_session_created_total", Help: "Session ids reserved with seeded data."},
	{ID: goSession.MetricIDCollision, Name: "gosession_id_collision_total", Help: "Candidate session ids rejected because the key existed."},
	{ID: goSession.MetricSessionLoaded, Name: "gosession_session_loaded_total", Help: "Reads that found stored session data."},
	{ID: goSession.MetricSessionMiss, Name: "gosession_session_miss_total", Help: "Reads that found nothing and issued a new id."},
	{ID: goSession.MetricLegacyLookup, Name: "gosession_legacy_lookup_total", Help: "Secure-scheme reads served from a legacy public key."},
	{ID: goSession.MetricSessionSkipped, Name: "gosession_session_skipped_total", Help: "Reads bypassed by the skip option."},
	{ID: goSession.MetricWriteDirect, Name: "gosession_write_direct_total", Help: "Direct session writes."},
	{ID: goSession.MetricWriteTransactional, Name: "gosession_write_transactional_total", Help: "Committed transactional session writes."},
	{ID: goSession.MetricCommitConflict, Name: "gosession_commit_conflict_total", Help: "Transactional commits aborted by a concurrent writer and retried."},
	{ID: goSession.MetricCommitExhausted, Name: "gosession_commit_exhausted_total", Help: "Transactional writes that ran out of commit attempts."},
	{ID: goSession.MetricSessionDeleted, Name: "gosession_session_deleted_total", Help: "Session delete operations."},
	{ID: goSession.MetricStoreUnreachable, Name: "gosession_store_unreachable_total", Help: "Operations answered with a default because Redis refused the connection."},
}

// HistogramDefs lists every histogram in export order.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricCommitLatency, Name: "gosession_commit_latency_seconds", Help: "Transactional write latency histogram."},
}

// HistogramBounds are the upper bounds of the eight latency buckets in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a snapshot histogram into a fixed array, padding
// missing buckets with zero.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
