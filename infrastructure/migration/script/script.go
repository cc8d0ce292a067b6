package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/pkg/log"
	"github.com/vfg2006/icp-dashboard-api/pkg/utils"
)

// Esquema mínimo das tabelas lidas pela API, para desenvolvimento local
const schema = `
CREATE TABLE IF NOT EXISTS explorium (
	business_id TEXT PRIMARY KEY,
	name TEXT,
	domain TEXT,
	website TEXT,
	business_description TEXT,
	company_description TEXT,
	logo TEXT,
	score NUMERIC,
	industry TEXT,
	region TEXT,
	country_name TEXT,
	number_of_employees_range TEXT,
	company_size TEXT,
	founded_year INTEGER,
	main_products_services TEXT,
	"linkedin-url" TEXT
);

CREATE TABLE IF NOT EXISTS explorium_events (
	event_id TEXT PRIMARY KEY,
	event_name TEXT NOT NULL,
	event_time TIMESTAMPTZ NOT NULL,
	data JSONB,
	exa_id TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS explorium_events_exa_id_idx ON explorium_events (exa_id, event_time DESC);
`

type seedCompany struct {
	Name        string
	Domain      string
	Description string
	Score       float64
	Industry    string
	Region      string
	Country     string
	Employees   string
	FoundedYear int
	LinkedinURL string
}

var sampleCompanies = []seedCompany{
	{"Acme Analytics", "acme-analytics.io", "Product analytics for B2B SaaS teams.", 91, "Software", "California", "United States", "51-200", 2015, "linkedin.com/company/acme-analytics"},
	{"Northwind Logistics", "northwind.example", "Freight visibility platform.", 72, "Logistics", "Ontario", "Canada", "201-500", 2009, ""},
	{"Globex Health", "globex.health", "", 48, "Healthcare", "", "Germany", "1,001-5,000", 1998, ""},
	{"Initech", "", "Enterprise workflow tooling.", 0, "", "", "", "", 0, ""},
}

var sampleEvents = []string{"new_funding_round", "hiring_in_engineering", "new_product_launch"}

func buildCompanyInsert(id string, c seedCompany) squirrel.InsertBuilder {
	return squirrel.
		Insert("explorium").
		Columns(
			"business_id", "name", "domain", "website", "business_description",
			"score", "industry", "region", "country_name", "number_of_employees_range",
			"founded_year", `"linkedin-url"`,
		).
		Values(
			id, c.Name, nullIfEmpty(c.Domain), nullIfEmpty(c.Domain), nullIfEmpty(c.Description),
			nullIfZero(c.Score), nullIfEmpty(c.Industry), nullIfEmpty(c.Region), nullIfEmpty(c.Country), nullIfEmpty(c.Employees),
			nullIfZero(float64(c.FoundedYear)), nullIfEmpty(c.LinkedinURL),
		).
		Suffix("ON CONFLICT (business_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
}

func buildEventInsert(id, exaID, name string, at time.Time, data string) squirrel.InsertBuilder {
	return squirrel.
		Insert("explorium_events").
		Columns("event_id", "event_name", "event_time", "data", "exa_id").
		Values(id, name, at, data, exaID).
		Suffix("ON CONFLICT (event_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullIfZero(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}

func seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("erro ao criar tabelas: %w", err)
	}

	now := time.Now()
	for i, company := range sampleCompanies {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}

		if _, err := buildCompanyInsert(id, company).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("erro ao inserir empresa %s: %w", company.Name, err)
		}

		for j, name := range sampleEvents {
			eventID, err := utils.GenerateID()
			if err != nil {
				return err
			}

			// alterna entre payload objeto e string JSON codificada, como chega da origem
			data := fmt.Sprintf(`{"source":"seed","rank":%d}`, j)
			if (i+j)%2 == 1 {
				data = fmt.Sprintf(`%q`, data)
			}

			at := now.Add(-time.Duration(i*24+j*6) * time.Hour)
			if _, err := buildEventInsert(eventID, id, name, at, data).RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("erro ao inserir evento %s: %w", name, err)
			}
		}

		logrus.WithFields(logrus.Fields{"business_id": id, "name": company.Name}).Info("Empresa inserida")
	}

	return tx.Commit()
}

func main() {
	dryRun := flag.Bool("dry-run", false, "apenas imprime o esquema")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Configure(cfg.App.LogLevel)

	if *dryRun {
		fmt.Print(schema)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir conexão com o banco")
	}
	defer db.Close()

	logrus.Info("Iniciando seed das tabelas explorium")
	startTime := time.Now()

	if err := seed(ctx, db); err != nil {
		logrus.WithError(err).Fatal("Erro no seed")
	}

	logrus.WithField("elapsed", time.Since(startTime).String()).Info("Seed concluído")
}
