/*
Package sqldataset reads and writes datasets from and to SQL databases.

A dataset is stored on a single table named samples, with one column per
feature and an autoincremented id column keeping the order of the samples.
Continuous features are stored on floating point columns and any other
feature on text columns, so that discrete values are readable without
joins. Database specifics are provided by an Adapter.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

const (
	// TableName is the name of the table holding the samples.
	TableName = "samples"
	// IDColumn is the name of the column keeping the order of samples.
	IDColumn = "id"
	/*
		MaxSampleInsertionsPerStatement is the maximum number
		of samples that are allowed to be added with a single
		insert command by Write.
		Trying to add more will result in making more insertion commands
	*/
	MaxSampleInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the database specific pieces needed
to read and write datasets on an SQL database.
*/
type Adapter interface {
	// DB returns the database handle.
	DB() *sql.DB
	// Placeholder returns the placeholder for the n-th (1-based)
	// parameter of a statement.
	Placeholder(n int) string
	// ColumnType returns the column type for values of the feature.
	ColumnType(feature.Feature) string
	// IDColumnDefinition returns the type and constraints of the id column.
	IDColumnDefinition() string
	// ListColumnsQuery returns a query listing the names of the columns
	// of the samples table in order.
	ListColumnsQuery() string
	// Close releases the database handle.
	Close() error
}

/*
ColumnName takes a feature name and returns the name of the column for
it or an error if the feature name cannot be used as a column name.
*/
func ColumnName(featureName string) (string, error) {
	if featureName == IDColumn {
		return "", errors.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", errors.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

/*
Read takes a context, an Adapter, a relation name and a slice of features
and returns a dataset with the samples of the samples table in id order.
Columns named like one of the given features get that feature, any other
column is read as a feature.StringFeature.
*/
func Read(ctx context.Context, a Adapter, relation string, features []feature.Feature) (*dataset.Dataset, error) {
	columns, err := listColumns(ctx, a)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, errors.Errorf("table %s does not exist or has no feature columns", TableName)
	}
	byName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}
	columnFeatures := make([]feature.Feature, len(columns))
	for i, c := range columns {
		f, ok := byName[c]
		if !ok {
			f = feature.NewStringFeature(c)
		}
		columnFeatures[i] = f
	}
	d, err := dataset.New(relation, columnFeatures)
	if err != nil {
		return nil, err
	}
	err = IterateOnSamples(ctx, a, columnFeatures, func(i int, values []interface{}) (bool, error) {
		_, err := d.Add(values)
		return true, errors.Wrapf(err, "adding sample %d", i+1)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
IterateOnSamples takes a context, an Adapter, a slice of features and a
lambda function. It queries the samples table for the columns of the
features in id order and calls the lambda function with the index and
values of every sample. If the lambda function returns true, it will
continue processing the next sample, otherwise it will stop.
*/
func IterateOnSamples(ctx context.Context, a Adapter, features []feature.Feature, lambda func(int, []interface{}) (bool, error)) error {
	query, err := selectStatement(features)
	if err != nil {
		return err
	}
	rows, err := a.DB().QueryContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "querying samples")
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		continuousValues := make([]sql.NullFloat64, len(features))
		textValues := make([]sql.NullString, len(features))
		dest := make([]interface{}, len(features))
		for i, f := range features {
			if _, ok := f.(*feature.ContinuousFeature); ok {
				dest[i] = &continuousValues[i]
			} else {
				dest[i] = &textValues[i]
			}
		}
		if err = rows.Scan(dest...); err != nil {
			return errors.Wrapf(err, "scanning sample %d", j+1)
		}
		values := make([]interface{}, len(features))
		for i := range features {
			if continuousValues[i].Valid {
				values[i] = continuousValues[i].Float64
			}
			if textValues[i].Valid {
				values[i] = textValues[i].String
			}
		}
		ok, err := lambda(j, values)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	if err = rows.Err(); err != nil {
		return err
	}
	return rows.Close()
}

/*
Write takes a context, an Adapter and a dataset and replaces the samples
table with one holding the dataset. The whole replacement happens on a
single transaction, so a failure leaves the previous table untouched.
*/
func Write(ctx context.Context, a Adapter, d *dataset.Dataset) (err error) {
	if len(d.Features()) == 0 {
		return errors.New("no features to store")
	}
	createStmt, err := createTableStatement(a, d.Features())
	if err != nil {
		return err
	}
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, TableName)); err != nil {
		return errors.Wrapf(err, "dropping %s table", TableName)
	}
	if _, err = tx.ExecContext(ctx, createStmt); err != nil {
		return errors.Wrapf(err, "creating %s table", TableName)
	}
	if _, err = addSamples(ctx, tx, a, d); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func addSamples(ctx context.Context, tx *sql.Tx, a Adapter, d *dataset.Dataset) (int, error) {
	var (
		chunkStart = 0
		chunkEnd   = MaxSampleInsertionsPerStatement
		samples    = d.Samples()
	)
	if len(samples) == 0 {
		return 0, nil
	}
	if len(samples) >= MaxSampleInsertionsPerStatement {
		stmt, err := insertStatement(a, d.Features(), MaxSampleInsertionsPerStatement)
		if err != nil {
			return 0, err
		}
		insertStmt, err := tx.PrepareContext(ctx, stmt)
		if err != nil {
			return 0, errors.Wrapf(err, "preparing insert command for %d samples", MaxSampleInsertionsPerStatement)
		}
		defer insertStmt.Close()
		for c := 0; c < len(samples)/MaxSampleInsertionsPerStatement; c++ {
			_, err = insertStmt.ExecContext(ctx, flatten(samples[chunkStart:chunkEnd])...)
			if err != nil {
				return chunkStart, errors.Wrapf(err, "inserting the %dth %d samples", c+1, MaxSampleInsertionsPerStatement)
			}
			chunkStart += MaxSampleInsertionsPerStatement
			chunkEnd += MaxSampleInsertionsPerStatement
		}
	}
	lastSamples := samples[chunkStart:]
	if len(lastSamples) > 0 {
		stmt, err := insertStatement(a, d.Features(), len(lastSamples))
		if err != nil {
			return chunkStart, err
		}
		if _, err = tx.ExecContext(ctx, stmt, flatten(lastSamples)...); err != nil {
			return chunkStart, errors.Wrapf(err, "inserting the last %d samples", len(lastSamples))
		}
	}
	return len(samples), nil
}

func flatten(samples []*dataset.Sample) []interface{} {
	var values []interface{}
	for _, s := range samples {
		values = append(values, s.Values()...)
	}
	return values
}

func listColumns(ctx context.Context, a Adapter) ([]string, error) {
	rows, err := a.DB().QueryContext(ctx, a.ListColumnsQuery())
	if err != nil {
		return nil, errors.Wrapf(err, "listing columns of %s table", TableName)
	}
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var c string
		if err = rows.Scan(&c); err != nil {
			return nil, err
		}
		if c != IDColumn {
			columns = append(columns, c)
		}
	}
	return columns, rows.Err()
}

func quotedColumns(features []feature.Feature) ([]string, error) {
	columns := make([]string, len(features))
	for i, f := range features {
		c, err := ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		columns[i] = `"` + c + `"`
	}
	return columns, nil
}

func selectStatement(features []feature.Feature) (string, error) {
	columns, err := quotedColumns(features)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT %s FROM %s ORDER BY "%s"`, strings.Join(columns, ", "), TableName, IDColumn), nil
}

func createTableStatement(a Adapter, features []feature.Feature) (string, error) {
	columns, err := quotedColumns(features)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `CREATE TABLE %s ("%s" %s`, TableName, IDColumn, a.IDColumnDefinition())
	for i, c := range columns {
		fmt.Fprintf(&buf, ", %s %s NULL", c, a.ColumnType(features[i]))
	}
	buf.WriteString(")")
	return buf.String(), nil
}

func insertStatement(a Adapter, features []feature.Feature, n int) (string, error) {
	columns, err := quotedColumns(features)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "INSERT INTO %s (%s) VALUES ", TableName, strings.Join(columns, ", "))
	p := 1
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.Placeholder(p))
			p++
		}
		buf.WriteString(")")
	}
	return buf.String(), nil
}
