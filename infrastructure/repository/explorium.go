package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
)

const (
	exploriumTable       = "explorium"
	exploriumEventsTable = "explorium_events"
)

// Colunas com cast para texto aceitam tanto numeric quanto text na origem
var companyColumns = []string{
	"business_id",
	"name",
	"domain",
	"website",
	"business_description",
	"company_description",
	"logo",
	"score::text",
	"industry",
	"region",
	"country_name",
	"number_of_employees_range",
	"company_size",
	"founded_year::text",
	"main_products_services",
	`"linkedin-url"`,
}

var eventColumns = []string{
	"event_id",
	"event_name",
	"event_time",
	"data::text",
	"exa_id",
}

//go:generate mockgen -source=explorium.go -destination=mocks/explorium_mock.go -package=mocks
type ExploriumRepository interface {
	ListCompanies(ctx context.Context) ([]*domain.ExploriumCompany, error)
	ListEventsByExaID(ctx context.Context, exaID string) ([]*domain.ExploriumEventRow, error)
}

type exploriumRepository struct {
	conn postgres.Queryer
}

func NewExploriumRepository(conn postgres.Queryer) ExploriumRepository {
	return &exploriumRepository{
		conn: conn,
	}
}

func listCompaniesQuery() (string, []interface{}, error) {
	return squirrel.
		Select(companyColumns...).
		From(exploriumTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func listEventsQuery(exaID string) (string, []interface{}, error) {
	return squirrel.
		Select(eventColumns...).
		From(exploriumEventsTable).
		Where(squirrel.Eq{"exa_id": exaID}).
		OrderBy("event_time DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (r *exploriumRepository) ListCompanies(ctx context.Context) ([]*domain.ExploriumCompany, error) {
	query, args, err := listCompaniesQuery()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDatabaseError(err, "failed to query explorium")
	}
	defer rows.Close()

	companies := make([]*domain.ExploriumCompany, 0)
	for rows.Next() {
		company, err := deserializeCompany(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao deserializar empresa")
		}

		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDatabaseError(err, "erro ao iterar sobre os resultados")
	}

	return companies, nil
}

func (r *exploriumRepository) ListEventsByExaID(ctx context.Context, exaID string) ([]*domain.ExploriumEventRow, error) {
	query, args, err := listEventsQuery(exaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapDatabaseError(err, "failed to query explorium_events")
	}
	defer rows.Close()

	events := make([]*domain.ExploriumEventRow, 0)
	for rows.Next() {
		var (
			eventName sql.NullString
			eventTime sql.NullTime
			data      sql.NullString
			rowExaID  sql.NullString
			event     domain.ExploriumEventRow
		)

		if err := rows.Scan(&event.EventID, &eventName, &eventTime, &data, &rowExaID); err != nil {
			return nil, errors.Wrap(err, "erro ao deserializar evento")
		}

		event.EventName = eventName.String
		event.EventTime = eventTime.Time
		event.ExaID = rowExaID.String
		if data.Valid {
			event.Data = []byte(data.String)
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDatabaseError(err, "erro ao iterar sobre os resultados")
	}

	return events, nil
}

func deserializeCompany(rows *sql.Rows) (*domain.ExploriumCompany, error) {
	var (
		businessID, name, domainName, website, businessDescription sql.NullString
		companyDescription, logo, score, industry, region          sql.NullString
		countryName, employeesRange, companySize, foundedYear      sql.NullString
		mainProducts, linkedin                                     sql.NullString
	)

	if err := rows.Scan(
		&businessID,
		&name,
		&domainName,
		&website,
		&businessDescription,
		&companyDescription,
		&logo,
		&score,
		&industry,
		&region,
		&countryName,
		&employeesRange,
		&companySize,
		&foundedYear,
		&mainProducts,
		&linkedin,
	); err != nil {
		return nil, err
	}

	return &domain.ExploriumCompany{
		BusinessID:           businessID.String,
		Name:                 nullableString(name),
		Domain:               nullableString(domainName),
		Website:              nullableString(website),
		BusinessDescription:  nullableString(businessDescription),
		CompanyDescription:   nullableString(companyDescription),
		Logo:                 nullableString(logo),
		Score:                nullableFloat(score),
		Industry:             nullableString(industry),
		Region:               nullableString(region),
		CountryName:          nullableString(countryName),
		EmployeesRange:       nullableString(employeesRange),
		CompanySize:          nullableString(companySize),
		FoundedYear:          nullableInt(foundedYear),
		MainProductsServices: nullableString(mainProducts),
		LinkedinURL:          nullableString(linkedin),
	}, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullableFloat(s sql.NullString) *float64 {
	if !s.Valid {
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s.String), 64)
	if err != nil {
		return nil
	}
	return &f
}

func nullableInt(s sql.NullString) *int {
	f := nullableFloat(s)
	if f == nil {
		return nil
	}

	i := int(*f)
	return &i
}

func wrapDatabaseError(err error, message string) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return errors.Wrapf(pqErr, "%s (code: %s)", message, pqErr.Code)
	}
	return errors.Wrap(err, message)
}
