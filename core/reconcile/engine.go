package reconcile

import (
	"context"
	"sync/atomic"

	"npi-linker/core/reference"

	"go.uber.org/zap"
)

// TierCounts counts resolutions recorded by the cascade per tier.
type TierCounts struct {
	License     int64 `json:"license"`
	NameContact int64 `json:"name_contact"`
	NameOnly    int64 `json:"name_only"`
}

// Cascade links reference chunks to the targets of a Registry. It applies
// the tiers in order (license, name plus phone, name only) and stops at the
// first tier that finds a row for a target.
type Cascade struct {
	registry *Registry
	logger   *zap.Logger

	license     atomic.Int64
	nameContact atomic.Int64
	nameOnly    atomic.Int64

	onResolve func(id string, res Resolution)
}

// NewCascade wires a cascade to registry.
func NewCascade(registry *Registry, logger *zap.Logger) *Cascade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cascade{registry: registry, logger: logger}
}

// OnResolve registers a callback invoked after every accepted resolution.
// It must be set before the first Consume.
func (c *Cascade) OnResolve(fn func(id string, res Resolution)) {
	c.onResolve = fn
}

// Consume matches one chunk against every target that can still change.
// Rows never produce side effects beyond the registry.
func (c *Cascade) Consume(_ context.Context, chunk *reference.Chunk) error {
	if chunk == nil || len(chunk.Rows) == 0 {
		return nil
	}

	idx := buildIndex(chunk.Rows, c.registry.LicenseNormalizer())
	var accepted int
	for entry := range c.registry.Unresolved() {
		pos, confidence, method, ok := c.evaluate(entry.Keys, chunk.Rows, idx)
		if !ok || !confidence.Stronger(entry.Current) {
			continue
		}

		profile := reference.Extract(chunk.Rows[pos])
		if !c.registry.MarkResolved(entry.ID, confidence, method, &profile) {
			continue
		}
		accepted++

		switch confidence {
		case Confirmed:
			c.license.Add(1)
		case High:
			c.nameContact.Add(1)
		case Medium:
			c.nameOnly.Add(1)
		}
		c.logger.Debug("Target resolved",
			zap.String("target_id", entry.ID),
			zap.String("confidence", string(confidence)),
			zap.String("method", method),
			zap.String("npi", profile.NPI),
			zap.Int("chunk", chunk.Seq),
			zap.Int64("row", chunk.Offset+int64(pos)),
		)
		if c.onResolve != nil {
			res, _ := c.registry.Resolution(entry.ID)
			c.onResolve(entry.ID, res)
		}
	}

	if accepted > 0 {
		c.logger.Info("Chunk matched",
			zap.Int("chunk", chunk.Seq),
			zap.Int("resolved", accepted),
		)
	}
	return nil
}

// evaluate runs the tiers for one target over one chunk and returns the
// chosen row position.
func (c *Cascade) evaluate(keys SearchKeys, rows []reference.Row, idx *chunkIndex) (int, Confidence, string, bool) {
	best := -1
	var method string
	for _, lk := range keys.Licenses {
		pos, ok := idx.licenses[lk.Normalized]
		if ok && (best < 0 || pos < best) {
			best = pos
			method = MethodLicense(lk.Original)
		}
	}
	if best >= 0 {
		return best, Confirmed, method, true
	}

	if !keys.HasName() {
		return 0, None, "", false
	}
	candidates := idx.names[nameKey{first: keys.FirstName, last: keys.LastName}]
	if len(candidates) == 0 {
		return 0, None, "", false
	}

	if len(keys.Phones) > 0 {
		for _, pos := range candidates {
			if sharesPhone(keys.Phones, idx.rowPhones(rows, pos)) {
				return pos, High, MethodNameContact, true
			}
		}
	}
	return candidates[0], Medium, MethodNameOnly, true
}

func sharesPhone(target, row []string) bool {
	for _, t := range target {
		for _, r := range row {
			if t == r {
				return true
			}
		}
	}
	return false
}

// Done reports whether every target is final, so scanning can stop.
func (c *Cascade) Done() bool {
	return c.registry.AllResolved()
}

// Counts returns the per-tier resolution counters.
func (c *Cascade) Counts() TierCounts {
	return TierCounts{
		License:     c.license.Load(),
		NameContact: c.nameContact.Load(),
		NameOnly:    c.nameOnly.Load(),
	}
}
