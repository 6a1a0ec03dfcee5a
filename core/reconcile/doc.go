// Package reconcile links externally supplied targets to rows of the
// reference dataset.
//
// # Architecture
//
// 1. Registry: holds every Target, the normalized SearchKeys derived from it,
//    and its Resolution. It is the only mutable state of a match run and is
//    guarded by a single RWMutex.
//
// 2. Cascade: consumes reference chunks one at a time. For each chunk it
//    builds an in-memory index (normalized license to first row, normalized
//    name pair to rows) and walks the targets that can still change:
//
//	LICENSE   any normalized license equals a row license  -> CONFIRMED
//	NAME+CONTACT  same first+last name and a shared phone  -> HIGH
//	NAME_ONLY     same first+last name                     -> MEDIUM
//
//    The first tier that finds a row wins. The index lives only as long as
//    the chunk, so memory stays bounded by chunk size.
//
// 3. Summary: aggregate counts over the registry.
//
// # Resolution policy
//
// Under FirstMatch (the default) the earliest chunk that produces any match
// settles a target for good, even if a later chunk would have produced a
// stronger one. BestMatch lets a strictly stronger tier replace a weaker one
// and treats only CONFIRMED targets as finished.
//
// # Usage Example
//
//	reg := reconcile.NewRegistry(reconcile.FirstMatch, normalize.NewLicenseNormalizer())
//	_ = reg.Register(targets...)
//	cascade := reconcile.NewCascade(reg, logger)
//	for each chunk {
//	    _ = cascade.Consume(ctx, chunk)
//	    if cascade.Done() {
//	        break
//	    }
//	}
//	results := reg.Results()
package reconcile
