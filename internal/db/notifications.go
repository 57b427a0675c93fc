package db

import (
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaret/internal/model"
)

// PendingStore is the durable ledger of scheduled notification entries.
// Rows are keyed by the scheduler's deterministic ID, so re-inserting the
// same (date, event, kind) is an upsert rather than a duplicate.
type PendingStore struct {
	db *sqlx.DB
}

func NewPendingStore(database *sqlx.DB) *PendingStore {
	if database == nil {
		database = DB
	}
	return &PendingStore{db: database}
}

// inserts or replaces entries by their deterministic ID.
func (p *PendingStore) InsertEntries(entries []model.NotificationEntry) error {
	query := `
	INSERT INTO pending_notifications (id, domain, scheduled_at, kind, event_name, event_date, sound)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET scheduled_at = EXCLUDED.scheduled_at,
	    kind         = EXCLUDED.kind,
	    event_name   = EXCLUDED.event_name,
	    event_date   = EXCLUDED.event_date,
	    sound        = EXCLUDED.sound;
	`
	for _, e := range entries {
		if _, err := p.db.Exec(query,
			e.ID, e.Domain, e.ScheduledAt, int(e.Kind), e.EventName, e.EventDate, e.Sound,
		); err != nil {
			log.Error().Err(err).Int("id", e.ID).Msg("failed to insert pending notification")
			return err
		}
	}
	return nil
}

// lists entries for a domain, oldest first.
func (p *PendingStore) PendingByDomain(domain string) ([]model.NotificationEntry, error) {
	var entries []model.NotificationEntry
	err := p.db.Select(&entries, `
		SELECT id, domain, scheduled_at, kind, event_name, event_date, sound
		FROM pending_notifications
		WHERE domain = $1
		ORDER BY scheduled_at
		`, domain)
	if err != nil {
		log.Error().Err(err).Str("domain", domain).Msg("failed to list pending notifications")
		return nil, err
	}
	return entries, nil
}

// removes entries by ID.
func (p *PendingStore) CancelByIDs(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM pending_notifications WHERE id IN (?);`, ids)
	if err != nil {
		return err
	}
	if _, err := p.db.Exec(p.db.Rebind(query), args...); err != nil {
		log.Error().Err(err).Ints("ids", ids).Msg("failed to cancel pending notifications")
		return err
	}
	return nil
}

// drops entries whose scheduled time is long past; called opportunistically
// so the ledger does not grow without bound.
func (p *PendingStore) PruneDelivered(before time.Time) error {
	_, err := p.db.Exec(`DELETE FROM pending_notifications WHERE scheduled_at < $1;`, before)
	if err != nil {
		log.Error().Err(err).Msg("failed to prune delivered notifications")
	}
	return err
}
