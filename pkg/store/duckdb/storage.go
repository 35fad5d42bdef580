package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const InMemory = ":memory:"

const CasesTableSchema = `
	CREATE TABLE IF NOT EXISTS cases (
		idx INTEGER PRIMARY KEY,
		new_released DOUBLE NOT NULL,
		new_deceased DOUBLE NOT NULL,
		acc_released DOUBLE NOT NULL,
		acc_deceased DOUBLE NOT NULL
	);
`
const PatientsTableSchema = `
	CREATE TABLE IF NOT EXISTS patients (
		idx INTEGER PRIMARY KEY,
		gender VARCHAR NOT NULL,
		age INTEGER NOT NULL,
		current_state VARCHAR NOT NULL
	);
`

var bootQueries = []string{
	CasesTableSchema,
	PatientsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	path := settings.DbPath
	if path == "" {
		path = InMemory
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", path), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
