package block

import (
	"time"

	timestamppb "google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp is the enclave-measured wall-clock moment a block was built,
// carried as seconds + milliseconds for the canonical preimage (spec.md
// §3). Internally it wraps *timestamppb.Timestamp, the same wire type the
// teacher's pkg/core_types entities stamp onto CreatedAt/UpdatedAt, rather
// than a bare time.Time.
type Timestamp struct {
	pb *timestamppb.Timestamp
}

// Now captures the current wall-clock time. No monotonicity across blocks
// is promised or enforced (spec.md §9's "Timestamp trust" note).
func Now() Timestamp {
	return Timestamp{pb: timestamppb.New(time.Now())}
}

// NewTimestamp builds a Timestamp from explicit seconds/milliseconds,
// used when reconstructing a block read back from storage or the wire.
func NewTimestamp(sec int64, millis int32) Timestamp {
	return Timestamp{pb: &timestamppb.Timestamp{Seconds: sec, Nanos: millis * 1_000_000}}
}

// Seconds returns the Unix-epoch second component.
func (t Timestamp) Seconds() int64 {
	if t.pb == nil {
		return 0
	}
	return t.pb.GetSeconds()
}

// Millis returns the sub-second millisecond component (0-999).
func (t Timestamp) Millis() int32 {
	if t.pb == nil {
		return 0
	}
	return t.pb.GetNanos() / 1_000_000
}

// AsTime returns the standard library time.Time equivalent.
func (t Timestamp) AsTime() time.Time {
	if t.pb == nil {
		return time.Time{}
	}
	return t.pb.AsTime()
}
