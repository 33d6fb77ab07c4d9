package sync

import (
	"context"
	"fmt"

	"github.com/avielas/tripsync/internal/draft"
	"github.com/avielas/tripsync/internal/logging"
)

// Report summarizes one orchestrator run.
type Report struct {
	// Attempted is the number of dirty trips the run tried to flush.
	Attempted int
	// Succeeded counts trips whose every present draft committed.
	Succeeded int
	// StillDirty lists trips retained for the next cycle.
	StillDirty []string
	// Errors holds every per-section failure, in encounter order.
	Errors []error
}

// Clean reports whether the run left no trip dirty.
func (r Report) Clean() bool {
	return len(r.StillDirty) == 0
}

// Orchestrator flushes every dirty trip's drafts through the saver
// registry. Trips are processed sequentially; within a trip one section's
// failure never blocks a sibling section's attempt, but any failure keeps
// the whole trip dirty so the next cycle retries it in full. Dirtiness for
// the retry decision is trip-granular; section-level dirtiness is only
// consulted to enumerate custom sections.
type Orchestrator struct {
	drafts *draft.Store
	reg    *Registry
	log    logging.Logger
}

func NewOrchestrator(drafts *draft.Store, reg *Registry, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Orchestrator{drafts: drafts, reg: reg, log: log}
}

// Flush runs one sync cycle. The returned error covers only dirty-registry
// access failures; per-section commit failures land in the Report.
func (o *Orchestrator) Flush(ctx context.Context) (Report, error) {
	var report Report

	dirty, err := o.drafts.DirtyTrips()
	if err != nil {
		return report, fmt.Errorf("dirty registry read error: %w", err)
	}
	if len(dirty) == 0 {
		return report, nil
	}

	o.log.Debug(ctx, "flush started", "dirty_trips", len(dirty))

	var stillDirty []string
	for _, tripID := range dirty {
		report.Attempted++
		if !o.flushTrip(ctx, tripID, &report) {
			stillDirty = append(stillDirty, tripID)
			continue
		}
		report.Succeeded++

		// an edit that landed mid-flush leaves its draft key behind; keep
		// the trip dirty so the next cycle picks the new snapshot up
		remaining, err := o.drafts.HasDrafts(tripID)
		if err != nil {
			return report, fmt.Errorf("draft scan error: %w", err)
		}
		if remaining {
			stillDirty = append(stillDirty, tripID)
			continue
		}
		if err := o.drafts.UnmarkTripDirty(tripID); err != nil {
			return report, fmt.Errorf("dirty registry update error: %w", err)
		}
	}

	// trips marked dirty while the run executed must survive the rewrite
	current, err := o.drafts.DirtyTrips()
	if err != nil {
		return report, fmt.Errorf("dirty registry read error: %w", err)
	}
	seen := make(map[string]struct{}, len(stillDirty))
	for _, id := range stillDirty {
		seen[id] = struct{}{}
	}
	for _, id := range current {
		if _, ok := seen[id]; !ok {
			stillDirty = append(stillDirty, id)
		}
	}

	if err := o.drafts.SetDirtyTrips(stillDirty); err != nil {
		return report, fmt.Errorf("dirty registry rewrite error: %w", err)
	}
	report.StillDirty = stillDirty

	o.log.Info(ctx, "flush complete",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"still_dirty", len(report.StillDirty))

	return report, nil
}

// flushTrip attempts every present draft of one trip and reports whether
// all of them committed.
func (o *Orchestrator) flushTrip(ctx context.Context, tripID string, report *Report) bool {
	success := true

	fail := func(section string, err error) {
		success = false
		report.Errors = append(report.Errors, fmt.Errorf("trip %s section %s: %w", tripID, section, err))
		o.log.Warn(ctx, "section save failed", "trip_id", tripID, "section", section, "error", err)
	}

	for _, saver := range o.reg.Fixed() {
		kind := saver.Kind()
		items, ok, err := o.drafts.ReadSection(tripID, kind)
		if err != nil {
			fail(string(kind), err)
			continue
		}
		if !ok {
			continue
		}
		if err := saver.Save(ctx, tripID, items); err != nil {
			fail(string(kind), err)
		}
	}

	for _, saver := range o.reg.Scalars() {
		kind := saver.Kind()
		value, ok, err := o.drafts.ReadScalar(tripID, kind)
		if err != nil {
			fail(string(kind), err)
			continue
		}
		if !ok {
			continue
		}
		if err := saver.Save(ctx, tripID, value); err != nil {
			fail(string(kind), err)
		}
	}

	names, err := o.drafts.DirtySections(tripID)
	if err != nil {
		fail("custom", err)
		return success
	}
	for _, name := range names {
		items, ok, err := o.drafts.ReadCustomSection(tripID, name)
		if err != nil {
			fail(name, err)
			continue
		}
		if !ok {
			// recently-saved or dropped section, nothing to push
			continue
		}
		if err := o.reg.Custom().Save(ctx, tripID, name, items); err != nil {
			fail(name, err)
		}
	}

	return success
}
