// Package leaderboard derives the daily ranking from the persisted
// activity logs. The leaderboard is advisory: scans read many users'
// records without coordination, so an append landing mid-scan may or
// may not be reflected in that scan's result.
package leaderboard

import (
	"context"
	"sort"

	"github.com/grindhub/grind-practice-hub/internal/domain/practice"
	"github.com/grindhub/grind-practice-hub/pkg/logger"
)

// Row is one derived, ephemeral ranking entry, valid only for the
// instant it was computed.
type Row struct {
	UserID practice.UserID `json:"userId"`
	Count  int             `json:"count"`
}

// Aggregator scans all persisted logs and ranks users by entries
// logged on a given day.
type Aggregator struct {
	store practice.LogStore
	log   *logger.Logger
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(store practice.LogStore, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Default()
	}
	return &Aggregator{store: store, log: log.With(logger.Component("leaderboard"))}
}

// Compute loads every identity's log, counts its entries on the given
// date, drops zero counts, and sorts by count descending. Ties break
// by user ID ascending so the ranking is deterministic. An empty
// result is a valid outcome: nobody logged anything yet.
//
// A corrupted record fails only that identity: it is skipped with a
// warning rather than failing the whole scan, since the board is
// advisory and one bad record must not hide everyone else.
func (a *Aggregator) Compute(ctx context.Context, date string) ([]Row, error) {
	identities, err := a.store.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(identities))
	total := 0
	for _, id := range identities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		userLog, err := a.store.Load(ctx, id)
		if err != nil {
			a.log.Warn("skipping unreadable activity log",
				logger.UserID(id.String()), logger.Err(err))
			continue
		}
		count := userLog.CountOn(date)
		if count == 0 {
			continue
		}
		rows = append(rows, Row{UserID: id, Count: count})
		total += count
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].UserID < rows[j].UserID
	})

	a.log.Debug("leaderboard computed",
		logger.DateKey(date),
		logger.Int("users", len(rows)),
		logger.EntryCount(total),
	)

	return rows, nil
}
