/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/herbarium/dataset/sqldataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite3 database %s", path)
	}
	return &adapter{db}, nil
}

func (a *adapter) DB() *sql.DB {
	return a.db
}

func (a *adapter) Placeholder(int) string {
	return "?"
}

func (a *adapter) ColumnType(f feature.Feature) string {
	if _, ok := f.(*feature.ContinuousFeature); ok {
		return "REAL"
	}
	return "TEXT"
}

func (a *adapter) IDColumnDefinition() string {
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func (a *adapter) ListColumnsQuery() string {
	return fmt.Sprintf(`SELECT name FROM pragma_table_info('%s') ORDER BY cid`, sqldataset.TableName)
}

func (a *adapter) Close() error {
	return a.db.Close()
}
