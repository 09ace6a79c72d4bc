// README: Cron job that recomputes the A/B/C tier for every rider.
package profile

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Reclassifier periodically rederives each rider's tier from their current
// fitness metrics, so the coarse grouping tracks profile edits.
type Reclassifier struct {
	cron  *cron.Cron
	store *Store
	spec  string
}

func NewReclassifier(store *Store, spec string) *Reclassifier {
	return &Reclassifier{
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
		store: store,
		spec:  spec,
	}
}

// Start registers the job and runs one pass immediately so fresh deployments
// do not wait a full interval for tiers to populate.
func (r *Reclassifier) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.spec, func() { r.runPass(ctx) }); err != nil {
		return err
	}
	r.cron.Start()
	log.Printf("[reclassifier] cron started with spec %q", r.spec)

	go r.runPass(ctx)
	return nil
}

func (r *Reclassifier) Stop() {
	r.cron.Stop()
	log.Println("[reclassifier] cron stopped")
}

func (r *Reclassifier) runPass(ctx context.Context) {
	rows, err := r.store.ListFitness(ctx)
	if err != nil {
		log.Printf("[reclassifier] list fitness: %v", err)
		return
	}

	updated := 0
	for _, row := range rows {
		wkg, hasWkg := resolveRowWkg(row)
		next := ClassifyTier(row.AvgSpeedMph, wkg, hasWkg)
		if row.Tier != nil && *row.Tier == next {
			continue
		}
		if err := r.store.SetTier(ctx, row.ID, next); err != nil {
			log.Printf("[reclassifier] set tier for %s: %v", row.ID, err)
			continue
		}
		updated++
	}
	log.Printf("[reclassifier] pass complete, %d rider(s) reclassified", updated)
}

func resolveRowWkg(r FitnessRow) (float64, bool) {
	if r.FTPWkg != nil && *r.FTPWkg != 0 {
		return *r.FTPWkg, true
	}
	if r.FTPWatts != nil && *r.FTPWatts != 0 && r.WeightKg != nil && *r.WeightKg != 0 {
		return float64(*r.FTPWatts) / *r.WeightKg, true
	}
	return 0, false
}
