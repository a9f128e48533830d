package inventory

import (
	"errors"
	"fmt"
)

// Validate rejects inventories the retention engine cannot reason about:
// duplicate series IDs, duplicate season numbers within a series, or negative
// season numbers. Every problem found is reported.
func Validate(series []Series) error {
	var errs []error
	seenSeries := make(map[int]string, len(series))
	for _, s := range series {
		if prev, ok := seenSeries[s.ID]; ok {
			errs = append(errs, fmt.Errorf("series %q: id %d already used by %q", s.Title, s.ID, prev))
		} else {
			seenSeries[s.ID] = s.Title
		}
		seenSeasons := make(map[int]struct{}, len(s.Seasons))
		for _, season := range s.Seasons {
			if season.Number < 0 {
				errs = append(errs, fmt.Errorf("series %q: negative season number %d", s.Title, season.Number))
				continue
			}
			if _, ok := seenSeasons[season.Number]; ok {
				errs = append(errs, fmt.Errorf("series %q: duplicate season %d", s.Title, season.Number))
				continue
			}
			seenSeasons[season.Number] = struct{}{}
		}
	}
	return errors.Join(errs...)
}
