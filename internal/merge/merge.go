// Package merge collapses per-source game observations into one canonical
// game per real-world event. Sources disagree on team spellings and exact
// kickoff times, so grouping uses a fuzzy key rather than the source game id.
package merge

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Result carries the merged games plus counters for one merge pass. Markets
// and Odds are the flat deduplicated views of the same data, for callers that
// persist per table rather than per game.
type Result struct {
	Games   []*models.Game
	Markets []*models.Market
	Odds    []*models.Odds

	// SourceGames is the input count, MergedGroups the number of canonical
	// games built from more than one source, Unkeyed the games dropped
	// because no fuzzy key could be built.
	SourceGames  int
	MergedGroups int
	Unkeyed      int
}

// Merge folds the input into canonical games. Inputs are never mutated; every
// output game, market and odds record is a fresh value. The first source seen
// for a group supplies the canonical identity (teams, start time, game id),
// and markets from later sources are re-parented onto it. Output preserves
// first-seen order.
func Merge(games []*models.Game) *Result {
	res := &Result{SourceGames: len(games)}

	groups := make(map[string][]*models.Game)
	var order []string
	for _, g := range games {
		key, ok := fuzzyKey(g)
		if !ok {
			res.Unkeyed++
			metrics.GamesUnkeyed.Inc()
			slog.Warn("Game has no usable merge key, dropping",
				"bookmaker", g.Bookmaker, "raw_event_id", g.RawEventID)
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], g)
	}

	for _, key := range order {
		group := groups[key]
		merged := mergeGroup(group)
		res.Games = append(res.Games, merged)
		for _, m := range merged.Markets {
			res.Markets = append(res.Markets, m)
			res.Odds = append(res.Odds, m.Odds...)
		}
		if len(group) > 1 {
			res.MergedGroups++
			metrics.GamesMerged.Inc()
			slog.Debug("Merged cross-source game",
				"game_id", merged.GameID, "sources", len(group))
		}
	}
	return res
}

// fuzzyKey builds the grouping key: sport, league, the canonical team pair in
// lexical order and the start date. Team order is sorted so home/away swaps
// between sources still land in the same group.
func fuzzyKey(g *models.Game) (string, bool) {
	home := g.HomeTeam.CanonicalName
	away := g.AwayTeam.CanonicalName
	if home == "" || away == "" || g.StartTimeUTC.IsZero() {
		return "", false
	}
	pair := []string{home, away}
	sort.Strings(pair)
	return strings.Join([]string{
		g.Sport.String(),
		g.League.String(),
		pair[0],
		pair[1],
		g.StartTimeUTC.UTC().Format("20060102"),
	}, "|"), true
}

// mergeGroup builds the canonical game for one group. The canonical game id
// comes from the first source; market ids are re-derived from it so the same
// market seen by different sources collapses to one record.
func mergeGroup(group []*models.Game) *models.Game {
	first := group[0]
	merged := &models.Game{
		Sport:          first.Sport,
		League:         first.League,
		StartTimeUTC:   first.StartTimeUTC,
		HomeTeam:       first.HomeTeam,
		AwayTeam:       first.AwayTeam,
		Bookmaker:      first.Bookmaker,
		RawEventID:     first.RawEventID,
		GameID:         first.GameID,
		LastUpdatedUTC: first.LastUpdatedUTC,
	}

	marketByID := make(map[string]*models.Market)
	var marketOrder []string
	oddsByKey := make(map[string]map[string]*models.Odds)

	for _, src := range group {
		if src.LastUpdatedUTC.After(merged.LastUpdatedUTC) {
			merged.LastUpdatedUTC = src.LastUpdatedUTC
		}
		for _, m := range src.Markets {
			id := models.MarketIDFor(merged.GameID, m.MarketType, m.Line)
			target, ok := marketByID[id]
			if !ok {
				target = &models.Market{
					GameID:        merged.GameID,
					MarketType:    m.MarketType,
					Period:        m.Period,
					Line:          m.Line,
					RawMarketName: m.RawMarketName,
					MarketID:      id,
				}
				marketByID[id] = target
				marketOrder = append(marketOrder, id)
				oddsByKey[id] = make(map[string]*models.Odds)
			}
			for _, o := range m.Odds {
				folded := reparentOdds(o, id)
				key := folded.Key()
				prev, seen := oddsByKey[id][key]
				if seen && !folded.TimestampCollected.After(prev.TimestampCollected) {
					continue
				}
				oddsByKey[id][key] = folded
			}
		}
	}

	for _, id := range marketOrder {
		market := marketByID[id]
		keys := make([]string, 0, len(oddsByKey[id]))
		for k := range oddsByKey[id] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			market.Odds = append(market.Odds, oddsByKey[id][k])
		}
		merged.Markets = append(merged.Markets, market)
	}
	return merged
}

// reparentOdds copies one odds record under a re-derived market id.
func reparentOdds(o *models.Odds, marketID string) *models.Odds {
	clone := *o
	clone.MarketID = marketID
	return &clone
}

// BookmakersSeen lists the distinct bookmakers pricing any market of the
// game, in a stable order. Useful for EV calculations and logging.
func BookmakersSeen(g *models.Game) []enums.Bookmaker {
	seen := make(map[enums.Bookmaker]bool)
	var out []enums.Bookmaker
	for _, m := range g.Markets {
		for _, o := range m.Odds {
			if !seen[o.Bookmaker] {
				seen[o.Bookmaker] = true
				out = append(out, o.Bookmaker)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
