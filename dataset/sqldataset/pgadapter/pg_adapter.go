/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
	"github.com/pbanos/herbarium/dataset/sqldataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres database")
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (a *adapter) ColumnType(f feature.Feature) string {
	if _, ok := f.(*feature.ContinuousFeature); ok {
		return "DOUBLE PRECISION"
	}
	return "TEXT"
}

func (a *adapter) IDColumnDefinition() string {
	return "SERIAL PRIMARY KEY"
}

func (a *adapter) ListColumnsQuery() string {
	return fmt.Sprintf(`SELECT column_name FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = '%s'
		ORDER BY ordinal_position`, sqldataset.TableName)
}

func (a *adapter) Close() error {
	return a.db.Close()
}
