package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"userstore-etl/internal/domains/person"
	"userstore-etl/pkg/cache"
	"userstore-etl/pkg/database"
)

const countryCacheTTL = 24 * time.Hour

// querier is the slice of pgx.Tx the record walk needs. Kept narrow so
// the walk can be exercised without a live database.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// outcome is the terminal state of one record's load attempt. Every
// record walks pending -> (validated | rejected) -> (committed | rolled back).
type outcome int

const (
	outcomeLoaded   outcome = iota // committed
	outcomeSkipped                 // duplicate detected, rolled back (reads only)
	outcomeRejected                // failed validation, never reached the database
	outcomeFailed                  // write error, rolled back
)

func (o outcome) String() string {
	switch o {
	case outcomeLoaded:
		return "loaded"
	case outcomeSkipped:
		return "skipped"
	case outcomeRejected:
		return "rejected"
	case outcomeFailed:
		return "failed"
	}
	return "unknown"
}

type postgresRepository struct {
	cache cache.Cache

	// Connection seams. Production wires these to the pool; keeping them
	// as funcs lets the batch walk run against fakes.
	ping  func(ctx context.Context) error
	runTx func(ctx context.Context, fn func(q querier) error) error
}

// NewPostgresRepository returns a person.Repository backed by PostgreSQL.
// The cache holds country name -> id lookups; pass cache.NewNoop() when
// Redis is not configured.
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) person.Repository {
	return &postgresRepository{
		cache: c,
		ping:  pool.Ping,
		runTx: func(ctx context.Context, fn func(q querier) error) error {
			return database.WithTransaction(ctx, pool, func(tx pgx.Tx) error {
				return fn(tx)
			})
		},
	}
}

// Load persists people one record at a time, each in its own
// transaction. Duplicates and per-record failures are logged and
// counted but never abort the batch.
func (r *postgresRepository) Load(ctx context.Context, people []person.Person) (int, error) {
	if err := r.ping(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", person.ErrDatabaseUnavailable, err)
	}

	loaded := 0
	for _, p := range people {
		out, err := r.loadOne(ctx, p)
		switch out {
		case outcomeLoaded:
			loaded++
			log.Info().Str("uuid", p.UUID).Str("email", p.Email).Msg("Person loaded")
		case outcomeSkipped:
			log.Info().Str("uuid", p.UUID).Str("email", p.Email).Err(err).Msg("Duplicate, skipping")
		case outcomeRejected:
			log.Warn().Str("uuid", p.UUID).Err(err).Msg("Record rejected")
		case outcomeFailed:
			log.Error().Str("uuid", p.UUID).Err(err).Msg("Record rolled back")
		}
	}

	log.Info().Int("loaded", loaded).Int("total", len(people)).Msg("Load complete")
	return loaded, nil
}

func (r *postgresRepository) loadOne(ctx context.Context, p person.Person) (outcome, error) {
	if err := p.Validate(); err != nil {
		return outcomeRejected, err
	}

	cachedID := r.countryFromCache(ctx, p.Country)

	out, err := r.commitOne(ctx, p, cachedID)
	if out == outcomeFailed && cachedID != "" {
		// A cached id that outlived the row it points at fails the
		// location FK on every record of that country. Drop the key and
		// retry once with an in-transaction lookup.
		log.Warn().Err(err).Str("country", p.Country).Msg("Cached country id rejected, invalidating")
		r.invalidateCountry(ctx, p.Country)
		out, err = r.commitOne(ctx, p, "")
	}
	return out, err
}

// commitOne runs one record's transaction. countryID is the cache hint;
// empty resolves the country inside the transaction.
func (r *postgresRepository) commitOne(ctx context.Context, p person.Person, cachedID string) (outcome, error) {
	var countryID string
	err := r.runTx(ctx, func(q querier) error {
		var err error
		countryID, err = insertPerson(ctx, q, p, cachedID, time.Now().UTC())
		return err
	})

	switch {
	case err == nil:
		if cachedID == "" {
			r.cacheCountry(ctx, p.Country, countryID)
		}
		return outcomeLoaded, nil
	case errors.Is(err, person.ErrDuplicateDNI), errors.Is(err, person.ErrEmailExists):
		return outcomeSkipped, err
	default:
		return outcomeFailed, err
	}
}

// insertPerson runs the duplicate checks and the four inserts for one
// record. countryID is a cache hint; empty means resolve inside the
// transaction. Returns the resolved country id.
//
// Duplicate government ids are matched on the combined (name, value)
// pair, never on either column alone.
func insertPerson(ctx context.Context, q querier, p person.Person, countryID string, now time.Time) (string, error) {
	var one int

	err := q.QueryRow(ctx,
		`SELECT 1 FROM dni WHERE name = $1 AND value = $2`,
		p.DNIName, p.DNIValue,
	).Scan(&one)
	if err == nil {
		return "", person.ErrDuplicateDNI
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("dni lookup: %w", err)
	}

	err = q.QueryRow(ctx,
		`SELECT 1 FROM users WHERE email = $1`,
		p.Email,
	).Scan(&one)
	if err == nil {
		return "", person.ErrEmailExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("email lookup: %w", err)
	}

	// Uniqueness was pre-checked; ON CONFLICT guards the primary key anyway.
	_, err = q.Exec(ctx, `
		INSERT INTO users (id, title, first_name, last_name, gender, email, dob, generation, nat, phone, cell)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		p.UUID, p.Title, p.FirstName, p.LastName, p.Gender, p.Email,
		p.DOB, p.Generation, p.Nat, p.Phone, p.Cell,
	)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}

	if countryID == "" {
		err = q.QueryRow(ctx,
			`SELECT id FROM country WHERE name = $1`,
			p.Country,
		).Scan(&countryID)
		if errors.Is(err, pgx.ErrNoRows) {
			countryID = uuid.New().String()
			if _, err := q.Exec(ctx,
				`INSERT INTO country (id, name) VALUES ($1, $2)`,
				countryID, p.Country,
			); err != nil {
				return "", fmt.Errorf("insert country: %w", err)
			}
			log.Info().Str("country", p.Country).Str("id", countryID).Msg("Country inserted")
		} else if err != nil {
			return "", fmt.Errorf("country lookup: %w", err)
		}
	}

	_, err = q.Exec(ctx, `
		INSERT INTO location (id, country_id, user_id, state, city, street_number, street_name, postcode,
			coord_latitude, coord_longitude, timezone_offset, timezone_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.New().String(), countryID, p.UUID, p.State, p.City, p.StreetNumber, p.StreetName,
		p.Postcode, p.Latitude, p.Longitude, p.TimezoneOffset, p.TimezoneDescription,
	)
	if err != nil {
		return "", fmt.Errorf("insert location: %w", err)
	}

	_, err = q.Exec(ctx,
		`INSERT INTO dni (id, user_id, name, value) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), p.UUID, p.DNIName, p.DNIValue,
	)
	if err != nil {
		return "", fmt.Errorf("insert dni: %w", err)
	}

	// date is the load timestamp, not the source registration date.
	_, err = q.Exec(ctx,
		`INSERT INTO registers (id, user_id, date, age) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), p.UUID, now, p.Age,
	)
	if err != nil {
		return "", fmt.Errorf("insert register: %w", err)
	}

	return countryID, nil
}

func countryCacheKey(name string) string {
	return "country:" + name
}

func (r *postgresRepository) countryFromCache(ctx context.Context, name string) string {
	var id string
	found, err := r.cache.Get(ctx, countryCacheKey(name), &id)
	if err != nil {
		log.Warn().Err(err).Str("country", name).Msg("Country cache read failed")
		return ""
	}
	if !found {
		return ""
	}
	return id
}

// cacheCountry runs only after a successful commit so a rolled-back
// insert can never leave a stale id behind.
func (r *postgresRepository) cacheCountry(ctx context.Context, name, id string) {
	if err := r.cache.Set(ctx, countryCacheKey(name), id, countryCacheTTL); err != nil {
		log.Warn().Err(err).Str("country", name).Msg("Country cache write failed")
	}
}

func (r *postgresRepository) invalidateCountry(ctx context.Context, name string) {
	if err := r.cache.Delete(ctx, countryCacheKey(name)); err != nil {
		log.Warn().Err(err).Str("country", name).Msg("Country cache invalidation failed")
	}
}
