package retention

import (
	"fmt"
	"log/slog"
	"time"

	"seasonsweep/internal/inventory"
	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
	"seasonsweep/internal/timespan"
)

const decisionType = "season_retention"

// Policy carries the configuration Decide applies.
type Policy struct {
	// ExemptTag, when set, protects every season of series carrying it.
	ExemptTag *inventory.Tag
	// RetainFor is the grace period after a season's last airing.
	RetainFor time.Duration
	// Matcher compares series titles with watch tracker titles. Nil means exact.
	Matcher TitleMatcher
	Logger  *slog.Logger
}

// Decide selects the seasons eligible for deletion at instant now. A season
// is eligible when its series is not exempt, it is fully watched, it is not
// airing, its last airing is older than RetainFor, and it has data on disk.
// Malformed inventories are rejected before any decision is made.
func Decide(series []inventory.Series, watched inventory.WatchedSet, policy Policy, now time.Time) (Decision, error) {
	if policy.RetainFor < 0 {
		return Decision{}, services.Wrap(services.ErrValidation, "retention", "decide",
			fmt.Sprintf("negative retain duration %s", policy.RetainFor), nil)
	}
	if err := inventory.Validate(series); err != nil {
		return Decision{}, services.Wrap(services.ErrValidation, "retention", "validate inventory", "", err)
	}

	logger := policy.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	index := newWatchedIndex(watched, policy.Matcher)
	decision := Decision{Skipped: make(map[Reason]int, len(Reasons()))}

	for _, s := range series {
		seriesLogger := logger.With(logging.String(logging.FieldSeries, s.Title), logging.Int(logging.FieldSeriesID, s.ID))
		if policy.ExemptTag != nil && s.HasTag(policy.ExemptTag.ID) {
			seriesLogger.Debug("skipping series, exemption tag present",
				logging.Args(append(logging.DecisionAttrs(decisionType, "skip", string(ReasonExempt)),
					logging.String("tag", policy.ExemptTag.Label))...)...)
			decision.Skipped[ReasonExempt] += len(s.Seasons)
			continue
		}

		var selected []inventory.Season
		for _, season := range s.Seasons {
			reason, attrs := evaluate(s, season, index, policy.RetainFor, now)
			if reason == "" {
				selected = append(selected, season)
				continue
			}
			decision.Skipped[reason]++
			logSkip(seriesLogger, season, reason, attrs)
		}
		if len(selected) > 0 {
			decision.Entries = append(decision.Entries, Entry{Series: s, Seasons: selected})
		}
	}
	return decision, nil
}

// evaluate applies the per-season checks in order. An empty reason means the
// season is eligible.
func evaluate(s inventory.Series, season inventory.Season, index watchedIndex, retain time.Duration, now time.Time) (Reason, []logging.Attr) {
	if !index.contains(s.Title, season.Label()) {
		return ReasonUnwatched, nil
	}

	stats := season.Stats
	if stats.NextAiring != nil {
		return ReasonAiring, nil
	}

	if stats.PreviousAiring == nil {
		return ReasonNeverAired, nil
	}
	deadline := stats.PreviousAiring.Add(retain)
	if !deadline.Before(now) {
		age := now.Sub(*stats.PreviousAiring)
		return ReasonTooYoung, []logging.Attr{
			logging.String("age", timespan.Format(age)),
			logging.String("remaining", timespan.Format(deadline.Sub(now))),
			logging.String("desired", timespan.Format(retain)),
		}
	}

	if stats.SizeOnDisk == 0 {
		return ReasonEmptyOnDisk, nil
	}
	return "", nil
}

func logSkip(logger *slog.Logger, season inventory.Season, reason Reason, extra []logging.Attr) {
	attrs := append([]logging.Attr{logging.Int(logging.FieldSeason, season.Number)},
		logging.DecisionAttrs(decisionType, "skip", string(reason))...)
	attrs = append(attrs, extra...)

	switch reason {
	case ReasonUnwatched:
		logger.Debug("skipping season, unwatched", logging.Args(attrs...)...)
	case ReasonAiring:
		// Seasons announced but never aired are not worth an info line.
		if season.Stats.PreviousAiring != nil {
			logger.Info("skipping season, still airing", logging.Args(attrs...)...)
		}
	case ReasonTooYoung:
		logger.Info("skipping season, not old enough", logging.Args(attrs...)...)
	case ReasonEmptyOnDisk:
		logger.Debug("skipping season, nothing on disk", logging.Args(attrs...)...)
	}
}
