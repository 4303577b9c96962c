package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mbelyaev/betfeed/internal/pkg/config"
	"github.com/mbelyaev/betfeed/internal/pkg/enums"
	"github.com/mbelyaev/betfeed/internal/pkg/metrics"
	"github.com/mbelyaev/betfeed/internal/pkg/models"
)

// Ensure PostgresStorage implements both storage roles
var (
	_ Upserter       = (*PostgresStorage)(nil)
	_ UpcomingReader = (*PostgresStorage)(nil)
)

// PostgresStorage is the durable store for canonical games, markets and odds.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens the connection, verifies it and ensures the
// schema exists.
func NewPostgresStorage(cfg *config.PostgresConfig) (*PostgresStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL storage initialized successfully")
	return s, nil
}

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS teams (
		team_id VARCHAR(200) PRIMARY KEY,
		raw_name VARCHAR(500) NOT NULL,
		canonical_name VARCHAR(500) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS games (
		game_id VARCHAR(200) PRIMARY KEY,
		sport VARCHAR(50) NOT NULL,
		league VARCHAR(50) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		home_team_id VARCHAR(200) NOT NULL REFERENCES teams(team_id),
		away_team_id VARCHAR(200) NOT NULL REFERENCES teams(team_id),
		bookmaker VARCHAR(100) NOT NULL,
		raw_event_id VARCHAR(200) NOT NULL,
		last_updated TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS markets (
		market_id VARCHAR(200) PRIMARY KEY,
		game_id VARCHAR(200) NOT NULL REFERENCES games(game_id),
		market_type VARCHAR(50) NOT NULL,
		period VARCHAR(50) NOT NULL,
		line DECIMAL(10, 4),
		raw_market_name VARCHAR(500) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS odds (
		id SERIAL PRIMARY KEY,
		outcome_key VARCHAR(600) NOT NULL UNIQUE,
		market_id VARCHAR(200) NOT NULL REFERENCES markets(market_id),
		bookmaker VARCHAR(100) NOT NULL,
		side VARCHAR(20) NOT NULL,
		points DECIMAL(10, 4),
		line DECIMAL(10, 4),
		decimal_odds DECIMAL(10, 4) NOT NULL,
		american_odds INTEGER NOT NULL,
		collected_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_games_start_time ON games(start_time);
	CREATE INDEX IF NOT EXISTS idx_markets_game_id ON markets(game_id);
	CREATE INDEX IF NOT EXISTS idx_odds_market_id ON odds(market_id);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// UpsertGames writes one merged batch inside a single transaction. Rows are
// keyed by canonical ids; odds rows by the outcome key with a freshness
// guard, so a stale re-delivery never overwrites a newer price.
func (s *PostgresStorage) UpsertGames(ctx context.Context, games []*models.Game) error {
	recs := Flatten(games)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.upsertTeams(ctx, tx, recs.Teams); err != nil {
		return err
	}
	if err := s.upsertGameRows(ctx, tx, recs.Games); err != nil {
		return err
	}
	if err := s.upsertMarkets(ctx, tx, recs.Markets); err != nil {
		return err
	}
	if err := s.upsertOdds(ctx, tx, recs.Odds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	metrics.RecordsUpserted.WithLabelValues("teams").Add(float64(len(recs.Teams)))
	metrics.RecordsUpserted.WithLabelValues("games").Add(float64(len(recs.Games)))
	metrics.RecordsUpserted.WithLabelValues("markets").Add(float64(len(recs.Markets)))
	metrics.RecordsUpserted.WithLabelValues("odds").Add(float64(len(recs.Odds)))

	slog.Info("Persisted merged batch",
		"games", len(recs.Games), "markets", len(recs.Markets), "odds", len(recs.Odds))
	return nil
}

func (s *PostgresStorage) upsertTeams(ctx context.Context, tx *sql.Tx, teams []TeamRecord) error {
	query := `
	INSERT INTO teams (team_id, raw_name, canonical_name)
	VALUES ($1, $2, $3)
	ON CONFLICT (team_id) DO UPDATE SET
		raw_name = EXCLUDED.raw_name,
		canonical_name = EXCLUDED.canonical_name
	`
	for _, t := range teams {
		if _, err := tx.ExecContext(ctx, query, t.TeamID, t.RawName, t.CanonicalName); err != nil {
			return fmt.Errorf("failed to upsert team %s: %w", t.TeamID, err)
		}
	}
	return nil
}

func (s *PostgresStorage) upsertGameRows(ctx context.Context, tx *sql.Tx, games []GameRecord) error {
	query := `
	INSERT INTO games (
		game_id, sport, league, start_time,
		home_team_id, away_team_id, bookmaker, raw_event_id, last_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (game_id) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		bookmaker = EXCLUDED.bookmaker,
		raw_event_id = EXCLUDED.raw_event_id,
		last_updated = EXCLUDED.last_updated
	`
	for _, g := range games {
		if _, err := tx.ExecContext(ctx, query,
			g.GameID, g.Sport, g.League, g.StartTimeUTC,
			g.HomeTeamID, g.AwayTeamID, g.Bookmaker, g.RawEventID, g.LastUpdatedUTC,
		); err != nil {
			return fmt.Errorf("failed to upsert game %s: %w", g.GameID, err)
		}
	}
	return nil
}

func (s *PostgresStorage) upsertMarkets(ctx context.Context, tx *sql.Tx, markets []MarketRecord) error {
	query := `
	INSERT INTO markets (market_id, game_id, market_type, period, line, raw_market_name)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (market_id) DO UPDATE SET
		line = EXCLUDED.line,
		raw_market_name = EXCLUDED.raw_market_name
	`
	for _, m := range markets {
		if _, err := tx.ExecContext(ctx, query,
			m.MarketID, m.GameID, m.MarketType, m.Period, m.Line, m.RawMarketName,
		); err != nil {
			return fmt.Errorf("failed to upsert market %s: %w", m.MarketID, err)
		}
	}
	return nil
}

func (s *PostgresStorage) upsertOdds(ctx context.Context, tx *sql.Tx, odds []OddsRecord) error {
	query := `
	INSERT INTO odds (
		outcome_key, market_id, bookmaker, side,
		points, line, decimal_odds, american_odds, collected_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (outcome_key) DO UPDATE SET
		decimal_odds = EXCLUDED.decimal_odds,
		american_odds = EXCLUDED.american_odds,
		collected_at = EXCLUDED.collected_at
	WHERE odds.collected_at <= EXCLUDED.collected_at
	`
	for _, o := range odds {
		if _, err := tx.ExecContext(ctx, query,
			outcomeKey(o), o.MarketID, o.Bookmaker, o.Side,
			o.Points, o.Line, o.DecimalOdds, o.AmericanOdds, o.TimestampCollected,
		); err != nil {
			return fmt.Errorf("failed to upsert odds for market %s: %w", o.MarketID, err)
		}
	}
	return nil
}

// outcomeKey mirrors the in-memory odds identity so database rows collapse
// along the same boundaries as the merge engine.
func outcomeKey(o OddsRecord) string {
	parts := []string{o.MarketID, o.Bookmaker, o.Side, "", ""}
	if o.Points != nil {
		parts[3] = fmt.Sprintf("%g", *o.Points)
	}
	if o.Line != nil {
		parts[4] = fmt.Sprintf("%g", *o.Line)
	}
	return strings.Join(parts, "|")
}

// GetUpcomingGames loads persisted games starting inside [from, from+hours)
// with their markets and odds reassembled.
func (s *PostgresStorage) GetUpcomingGames(ctx context.Context, from time.Time, hoursAhead int) ([]*models.Game, error) {
	until := from.Add(time.Duration(hoursAhead) * time.Hour)

	gameQuery := `
	SELECT g.game_id, g.sport, g.league, g.start_time,
	       g.bookmaker, g.raw_event_id, g.last_updated,
	       ht.team_id, ht.raw_name, ht.canonical_name,
	       aw.team_id, aw.raw_name, aw.canonical_name
	FROM games g
	JOIN teams ht ON ht.team_id = g.home_team_id
	JOIN teams aw ON aw.team_id = g.away_team_id
	WHERE g.start_time >= $1 AND g.start_time < $2
	ORDER BY g.start_time
	`
	rows, err := s.db.QueryContext(ctx, gameQuery, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	byID := make(map[string]*models.Game)
	for rows.Next() {
		g := &models.Game{}
		var sport, league, bookmaker string
		if err := rows.Scan(
			&g.GameID, &sport, &league, &g.StartTimeUTC,
			&bookmaker, &g.RawEventID, &g.LastUpdatedUTC,
			&g.HomeTeam.TeamID, &g.HomeTeam.RawName, &g.HomeTeam.CanonicalName,
			&g.AwayTeam.TeamID, &g.AwayTeam.RawName, &g.AwayTeam.CanonicalName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		g.Sport = enums.Sport(sport)
		g.League = enums.League(league)
		g.Bookmaker = enums.Bookmaker(bookmaker)
		g.StartTimeUTC = g.StartTimeUTC.UTC()
		g.LastUpdatedUTC = g.LastUpdatedUTC.UTC()
		games = append(games, g)
		byID[g.GameID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rows: %w", err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	if err := s.loadMarkets(ctx, byID, from, until); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *PostgresStorage) loadMarkets(ctx context.Context, games map[string]*models.Game, from, until time.Time) error {
	marketQuery := `
	SELECT m.market_id, m.game_id, m.market_type, m.period, m.line, m.raw_market_name,
	       o.bookmaker, o.side, o.points, o.line, o.decimal_odds, o.american_odds, o.collected_at
	FROM markets m
	JOIN games g ON g.game_id = m.game_id
	LEFT JOIN odds o ON o.market_id = m.market_id
	WHERE g.start_time >= $1 AND g.start_time < $2
	ORDER BY m.market_id
	`
	rows, err := s.db.QueryContext(ctx, marketQuery, from, until)
	if err != nil {
		return fmt.Errorf("failed to query markets: %w", err)
	}
	defer rows.Close()

	marketByID := make(map[string]*models.Market)
	for rows.Next() {
		var (
			marketID, gameID, marketType, period, rawName string
			marketLine                                    sql.NullFloat64

			bookmaker, side       sql.NullString
			points, line, decOdds sql.NullFloat64
			american              sql.NullInt64
			collectedAt           sql.NullTime
		)
		if err := rows.Scan(
			&marketID, &gameID, &marketType, &period, &marketLine, &rawName,
			&bookmaker, &side, &points, &line, &decOdds, &american, &collectedAt,
		); err != nil {
			return fmt.Errorf("failed to scan market row: %w", err)
		}

		game, ok := games[gameID]
		if !ok {
			continue
		}
		market, ok := marketByID[marketID]
		if !ok {
			market = &models.Market{
				GameID:        gameID,
				MarketType:    enums.MarketType(marketType),
				Period:        enums.Period(period),
				Line:          nullDecimal(marketLine),
				RawMarketName: rawName,
				MarketID:      marketID,
			}
			marketByID[marketID] = market
			game.Markets = append(game.Markets, market)
		}

		if !bookmaker.Valid {
			continue // market without odds rows
		}
		market.Odds = append(market.Odds, &models.Odds{
			MarketID:           marketID,
			Bookmaker:          enums.Bookmaker(bookmaker.String),
			Side:               enums.MarketSide(side.String),
			Points:             nullDecimal(points),
			Line:               nullDecimal(line),
			DecimalOdds:        decimal.NewFromFloat(decOdds.Float64),
			AmericanOdds:       int(american.Int64),
			TimestampCollected: collectedAt.Time.UTC(),
		})
	}
	return rows.Err()
}

func nullDecimal(f sql.NullFloat64) *decimal.Decimal {
	if !f.Valid {
		return nil
	}
	d := decimal.NewFromFloat(f.Float64)
	return &d
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
