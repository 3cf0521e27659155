package tensor

import "sync/atomic"

// UniqueID is an opaque, totally-ordered token identifying a logical tensor
// quantity for gradient accumulation. Two tensors sharing a UniqueID are the
// same quantity even when their storages differ (e.g. a traced copy and its
// original). IDs are never reused within a process.
type UniqueID uint64

// uniqueIDCounter is the only intentional piece of process-wide mutable
// state in the core. It is monotonic for the lifetime of the process and
// has no teardown.
var uniqueIDCounter atomic.Uint64

// NextUniqueID returns a UniqueID distinct from every previously returned
// value in this process. Safe for concurrent use.
func NextUniqueID() UniqueID {
	return UniqueID(uniqueIDCounter.Add(1))
}
