package sonarr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
)

// resource is anything addressable by a Sonarr ID. Writes go through it so
// only the ID is interpreted; the body is passed through untouched.
type resource interface {
	resourceID() int
	json.Marshaler
}

// rawSeries is a series document kept as raw JSON fields so that fields this
// client does not model survive a read-modify-write.
type rawSeries struct {
	id     int
	fields map[string]json.RawMessage
}

func (r *rawSeries) resourceID() int { return r.id }

func (r *rawSeries) MarshalJSON() ([]byte, error) { return json.Marshal(r.fields) }

var monitoredFalse = json.RawMessage("false")

// setSeasonUnmonitored flips one season's monitored flag. It reports
// whether the season was found and whether the document changed.
func (r *rawSeries) setSeasonUnmonitored(number int) (found, changed bool, err error) {
	rawSeasons, ok := r.fields["seasons"]
	if !ok {
		return false, false, nil
	}
	var seasons []map[string]json.RawMessage
	if err := json.Unmarshal(rawSeasons, &seasons); err != nil {
		return false, false, fmt.Errorf("decode seasons: %w", err)
	}
	for i, season := range seasons {
		var seasonNumber int
		if err := json.Unmarshal(season["seasonNumber"], &seasonNumber); err != nil {
			continue
		}
		if seasonNumber != number {
			continue
		}
		var monitored bool
		if raw, ok := season["monitored"]; ok {
			if err := json.Unmarshal(raw, &monitored); err != nil {
				return true, false, fmt.Errorf("decode monitored flag: %w", err)
			}
		}
		if !monitored {
			return true, false, nil
		}
		seasons[i]["monitored"] = monitoredFalse
		encoded, err := json.Marshal(seasons)
		if err != nil {
			return true, false, fmt.Errorf("encode seasons: %w", err)
		}
		r.fields["seasons"] = encoded
		return true, true, nil
	}
	return false, false, nil
}

func (c *Client) fetchRawSeries(ctx context.Context, seriesID int) (*rawSeries, error) {
	fields := make(map[string]json.RawMessage)
	if err := c.do(ctx, "fetch series", http.MethodGet, "series/"+strconv.Itoa(seriesID), nil, nil, &fields); err != nil {
		return nil, err
	}
	return &rawSeries{id: seriesID, fields: fields}, nil
}

func (c *Client) putSeries(ctx context.Context, r resource) error {
	body, err := r.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode series: %w", err)
	}
	return c.do(ctx, "update series", http.MethodPut, "series/"+strconv.Itoa(r.resourceID()), nil, json.RawMessage(body), nil)
}

// UnmonitorSeason stops Sonarr from re-downloading a season. Only the
// season's monitored flag changes; an already unmonitored season is left
// alone without a write.
func (c *Client) UnmonitorSeason(ctx context.Context, seriesID, seasonNumber int) error {
	series, err := c.fetchRawSeries(ctx, seriesID)
	if err != nil {
		return err
	}
	found, changed, err := series.setSeasonUnmonitored(seasonNumber)
	if err != nil {
		return services.Wrap(services.ErrExternal, serviceName, "unmonitor season", "malformed series document", err)
	}
	if !found {
		c.logger.Warn("season not present in series document",
			logging.Int(logging.FieldSeriesID, seriesID),
			logging.Int(logging.FieldSeason, seasonNumber),
			logging.String(logging.FieldEventType, "unmonitor_missing_season"),
			logging.String(logging.FieldErrorHint, "the series may have been edited since the sweep started"),
		)
		return nil
	}
	if !changed {
		return nil
	}
	return c.putSeries(ctx, series)
}
