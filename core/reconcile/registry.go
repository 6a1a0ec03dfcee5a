package reconcile

import (
	"fmt"
	"iter"
	"sync"

	"npi-linker/core/normalize"
	"npi-linker/core/reference"
)

type record struct {
	target Target
	keys   SearchKeys
	res    Resolution
}

// Registry holds every target with its search keys and resolution. All
// methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	policy   Policy
	licenses normalize.LicenseNormalizer
	records  []*record
	byID     map[string]*record
}

// NewRegistry returns an empty registry using policy and the given license
// normalizer for target keys.
func NewRegistry(policy Policy, licenses normalize.LicenseNormalizer) *Registry {
	if policy == "" {
		policy = FirstMatch
	}
	return &Registry{
		policy:   policy,
		licenses: licenses,
		byID:     make(map[string]*record),
	}
}

// Policy returns the resolution policy.
func (r *Registry) Policy() Policy {
	return r.policy
}

// LicenseNormalizer returns the normalizer used for target keys. The cascade
// uses the same one for reference rows.
func (r *Registry) LicenseNormalizer() normalize.LicenseNormalizer {
	return r.licenses
}

// Register adds targets in order. IDs must be unique across the registry;
// on a duplicate nothing from this call is registered.
func (r *Registry) Register(targets ...Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if _, dup := r.byID[t.ID]; dup {
			return fmt.Errorf("duplicate target id %q", t.ID)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate target id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	for _, t := range targets {
		rec := &record{
			target: t,
			keys:   r.searchKeys(t),
			res:    Resolution{Confidence: None},
		}
		r.records = append(r.records, rec)
		r.byID[t.ID] = rec
	}
	return nil
}

func (r *Registry) searchKeys(t Target) SearchKeys {
	keys := SearchKeys{
		FirstName: normalize.Name(t.FirstName),
		LastName:  normalize.Name(t.LastName),
	}

	seenLicense := make(map[string]struct{})
	for _, l := range t.Licenses {
		n := r.licenses.Normalize(l.Number)
		if n == "" {
			continue
		}
		if _, ok := seenLicense[n]; ok {
			continue
		}
		seenLicense[n] = struct{}{}
		keys.Licenses = append(keys.Licenses, LicenseKey{Normalized: n, Original: l.Number})
	}

	seenPhone := make(map[string]struct{})
	for _, raw := range t.Phones {
		p := normalize.Phone(raw)
		if p == "" {
			continue
		}
		if _, ok := seenPhone[p]; ok {
			continue
		}
		seenPhone[p] = struct{}{}
		keys.Phones = append(keys.Phones, p)
	}
	return keys
}

// open reports whether a record can still change. Callers hold the lock.
func (r *Registry) open(rec *record) bool {
	if r.policy == BestMatch {
		return rec.res.Confidence != Confirmed
	}
	return !rec.res.Resolved
}

// Unresolved yields the entries that can still change, in registration
// order. The lock is held only while each entry is read, so MarkResolved may
// be called from inside the loop. Targets registered during iteration are
// not visited.
func (r *Registry) Unresolved() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		r.mu.RLock()
		n := len(r.records)
		r.mu.RUnlock()

		for i := 0; i < n; i++ {
			r.mu.RLock()
			rec := r.records[i]
			open := r.open(rec)
			entry := Entry{ID: rec.target.ID, Keys: rec.keys, Current: rec.res.Confidence}
			r.mu.RUnlock()

			if !open {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// MarkResolved records a match. It returns false when the target is unknown,
// confidence is None, or the policy keeps the existing resolution.
func (r *Registry) MarkResolved(id string, confidence Confidence, method string, profile *reference.Profile) bool {
	if confidence == None {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return false
	}
	switch r.policy {
	case BestMatch:
		if !confidence.Stronger(rec.res.Confidence) {
			return false
		}
	default:
		if rec.res.Resolved {
			return false
		}
	}

	rec.res = Resolution{
		Resolved:   true,
		Confidence: confidence,
		Method:     method,
		Profile:    profile,
	}
	return true
}

// AllResolved reports whether no registered target can change any more.
// It is true for an empty registry.
func (r *Registry) AllResolved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if r.open(rec) {
			return false
		}
	}
	return true
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Resolution returns the current resolution of one target.
func (r *Registry) Resolution(id string) (Resolution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return Resolution{}, false
	}
	return rec.res, true
}

// Results returns every target with its resolution in registration order.
func (r *Registry) Results() []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Result, len(r.records))
	for i, rec := range r.records {
		out[i] = Result{Target: rec.target, Resolution: rec.res}
	}
	return out
}

// Summary aggregates the current resolutions.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Summary
	for _, rec := range r.records {
		s.add(rec)
	}
	return s
}
