package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"countries/internal/country/models"
	"countries/pkg/platform/sentinel"
)

// dialect captures the few differences between the SQL backends.
type dialect struct {
	name              string
	schema            string
	positional        bool // $1-style placeholders instead of ?
	isUniqueViolation func(error) bool
}

// SQLStore persists countries through database/sql. Construct it with
// NewPostgres or NewSQLite.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

const countryColumns = `id, name, continent, capital, population, area, currency, language`

// Migrate creates the countries table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("migrate %s countries schema: %w", s.dialect.name, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]*models.Country, error) {
	return s.query(ctx, "list countries",
		`SELECT `+countryColumns+` FROM countries ORDER BY continent, name`)
}

func (s *SQLStore) FindByID(ctx context.Context, id int64) (*models.Country, error) {
	return s.queryOne(ctx, "find country by id",
		`SELECT `+countryColumns+` FROM countries WHERE id = ?`, id)
}

func (s *SQLStore) FindByName(ctx context.Context, name string) (*models.Country, error) {
	return s.queryOne(ctx, "find country by name",
		`SELECT `+countryColumns+` FROM countries WHERE name = ?`, name)
}

func (s *SQLStore) ListByContinent(ctx context.Context, continent models.Continent) ([]*models.Country, error) {
	return s.query(ctx, "list countries by continent",
		`SELECT `+countryColumns+` FROM countries WHERE LOWER(continent) = LOWER(?) ORDER BY name`,
		string(continent))
}

func (s *SQLStore) SearchByName(ctx context.Context, query string) ([]*models.Country, error) {
	return s.query(ctx, "search countries by name",
		`SELECT `+countryColumns+` FROM countries WHERE LOWER(name) LIKE ? ESCAPE '\' ORDER BY name`,
		containsPattern(query))
}

func (s *SQLStore) SearchByContinent(ctx context.Context, query string) ([]*models.Country, error) {
	return s.query(ctx, "search countries by continent",
		`SELECT `+countryColumns+` FROM countries WHERE LOWER(continent) LIKE ? ESCAPE '\' ORDER BY name`,
		containsPattern(query))
}

func (s *SQLStore) PopulationGreaterThan(ctx context.Context, population int64) ([]*models.Country, error) {
	return s.query(ctx, "list countries by population",
		`SELECT `+countryColumns+` FROM countries WHERE population > ? ORDER BY population DESC`,
		population)
}

// Create inserts c and sets its generated ID.
func (s *SQLStore) Create(ctx context.Context, c *models.Country) error {
	query := s.rebind(`
		INSERT INTO countries (name, continent, capital, population, area, currency, language)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := s.db.QueryRowContext(ctx, query,
		c.Name, string(c.Continent), c.Capital, c.Population, c.Area, c.Currency, c.Language,
	).Scan(&c.ID)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create country: %w", err)
	}
	return nil
}

func (s *SQLStore) Update(ctx context.Context, c *models.Country) error {
	query := s.rebind(`
		UPDATE countries
		SET name = ?, continent = ?, capital = ?, population = ?, area = ?, currency = ?, language = ?
		WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		c.Name, string(c.Continent), c.Capital, c.Population, c.Area, c.Currency, c.Language, c.ID,
	)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update country: %w", err)
	}
	return requireAffected(res, "update country")
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM countries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete country: %w", err)
	}
	return requireAffected(res, "delete country")
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return n, nil
}

func (s *SQLStore) Continents(ctx context.Context) ([]models.Continent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT continent FROM countries ORDER BY continent`)
	if err != nil {
		return nil, fmt.Errorf("list continents: %w", err)
	}
	defer rows.Close()

	var out []models.Continent
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan continent: %w", err)
		}
		out = append(out, models.Continent(c))
	}
	return out, rows.Err()
}

func (s *SQLStore) CountByContinent(ctx context.Context) ([]models.ContinentCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT continent, COUNT(*) AS n
		FROM countries
		GROUP BY continent
		ORDER BY n DESC, continent`)
	if err != nil {
		return nil, fmt.Errorf("count countries by continent: %w", err)
	}
	defer rows.Close()

	var out []models.ContinentCount
	for rows.Next() {
		var cc models.ContinentCount
		var continent string
		if err := rows.Scan(&continent, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan continent count: %w", err)
		}
		cc.Continent = models.Continent(continent)
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Country, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*models.Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *SQLStore) queryOne(ctx context.Context, op, query string, args ...any) (*models.Country, error) {
	c, err := scanCountry(s.db.QueryRowContext(ctx, s.rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// rebind rewrites ? placeholders for dialects that need $n.
func (s *SQLStore) rebind(query string) string {
	if !s.dialect.positional {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCountry(row scanner) (*models.Country, error) {
	var (
		c          models.Country
		continent  string
		capital    sql.NullString
		population sql.NullInt64
		area       sql.NullFloat64
		currency   sql.NullString
		language   sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &continent, &capital, &population, &area, &currency, &language); err != nil {
		return nil, err
	}
	c.Continent = models.Continent(continent)
	if capital.Valid {
		c.Capital = &capital.String
	}
	if population.Valid {
		c.Population = &population.Int64
	}
	if area.Valid {
		c.Area = &area.Float64
	}
	if currency.Valid {
		c.Currency = &currency.String
	}
	if language.Valid {
		c.Language = &language.String
	}
	return &c, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// containsPattern builds a lower-cased LIKE pattern with wildcards escaped.
func containsPattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(query)) + "%"
}
