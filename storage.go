package herbarium

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/dataset/arff"
	"github.com/pbanos/herbarium/dataset/csv"
	"github.com/pbanos/herbarium/dataset/mongodataset"
	"github.com/pbanos/herbarium/dataset/sqldataset"
	"github.com/pbanos/herbarium/dataset/sqldataset/pgadapter"
	"github.com/pbanos/herbarium/dataset/sqldataset/sqlite3adapter"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Format identifies the storage a dataset location refers to.
type Format int

// Formats recognized by FormatOf
const (
	ARFF Format = iota
	CSV
	SQLite
	PostgreSQL
	MongoDB
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case SQLite:
		return "sqlite3"
	case PostgreSQL:
		return "postgresql"
	case MongoDB:
		return "mongodb"
	}
	return "arff"
}

/*
FormatOf returns the format of a dataset location:
  - postgres:// and postgresql:// URLs are PostgreSQL databases,
  - mongodb:// URLs are MongoDB databases,
  - paths ending in .db, .sqlite or .sqlite3 are SQLite databases,
  - paths ending in .csv are CSV files,
  - anything else is an ARFF file.
*/
func FormatOf(location string) Format {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return PostgreSQL
	case strings.HasPrefix(lower, "mongodb://"):
		return MongoDB
	}
	switch filepath.Ext(lower) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	case ".csv":
		return CSV
	}
	return ARFF
}

// DisplayLocation returns the location with any URL password masked.
func DisplayLocation(location string) string {
	switch FormatOf(location) {
	case PostgreSQL, MongoDB:
		u, err := url.Parse(location)
		if err == nil {
			return u.Redacted()
		}
	}
	return location
}

/*
ReadDataset takes a context, a filesystem, a location and the schema of the
classifier that will label the dataset, and returns the dataset read from
the location in the format FormatOf picks for it.

ARFF files declare the types of their attributes and their last attribute is
the class. For the other formats, columns named like a feature of the schema
get that feature, other columns are read as strings, and the column named
like the schema label is the class; it is appended with missing values when
absent.

Databases are reached directly and not through the filesystem, except for
SQLite files, whose existence is checked on it first.

Any failure is returned as a *DatasetReadError.
*/
func ReadDataset(ctx context.Context, fs afero.Fs, location string, schema *classifier.Schema) (*dataset.Dataset, error) {
	ds, err := readDataset(ctx, fs, location, schema)
	if err != nil {
		return nil, &DatasetReadError{Path: DisplayLocation(location), Err: err}
	}
	return ds, nil
}

func readDataset(ctx context.Context, fs afero.Fs, location string, schema *classifier.Schema) (*dataset.Dataset, error) {
	format := FormatOf(location)
	if format == ARFF {
		f, err := fs.Open(location)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return arff.Read(f)
	}
	var ds *dataset.Dataset
	var err error
	switch format {
	case CSV:
		var f afero.File
		f, err = fs.Open(location)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ds, err = csv.Read(f, schema.Relation, schema.AllFeatures())
	case SQLite:
		var exists bool
		exists, err = afero.Exists(fs, location)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.Errorf("database file %s does not exist", location)
		}
		ds, err = readSQL(ctx, location, sqlite3adapter.New, schema)
	case PostgreSQL:
		ds, err = readSQL(ctx, location, pgadapter.New, schema)
	case MongoDB:
		ds, err = readMongo(ctx, location, schema)
	}
	if err != nil {
		return nil, err
	}
	if err = ds.SetClassFeature(schema.Label); err != nil {
		return nil, err
	}
	return ds, nil
}

func readSQL(ctx context.Context, location string, open func(string) (sqldataset.Adapter, error), schema *classifier.Schema) (*dataset.Dataset, error) {
	a, err := open(location)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return sqldataset.Read(ctx, a, schema.Relation, schema.AllFeatures())
}

func readMongo(ctx context.Context, location string, schema *classifier.Schema) (*dataset.Dataset, error) {
	session, err := mongodataset.Dial(location)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return mongodataset.Read(ctx, session, schema.Relation, schema.AllFeatures())
}

/*
WriteDataset takes a context, a filesystem, a dataset and a location and
writes the dataset onto the location in the format FormatOf picks for it.

Files are written onto a temporary file on the same directory that is
renamed to the location once complete, so a failed write leaves no partial
output behind. Database outputs replace the samples table or collection.

Any failure is returned as a *DatasetWriteError.
*/
func WriteDataset(ctx context.Context, fs afero.Fs, ds *dataset.Dataset, location string) error {
	if err := writeDataset(ctx, fs, ds, location); err != nil {
		return &DatasetWriteError{Path: DisplayLocation(location), Err: err}
	}
	return nil
}

func writeDataset(ctx context.Context, fs afero.Fs, ds *dataset.Dataset, location string) error {
	switch FormatOf(location) {
	case CSV:
		return writeFile(fs, location, func(w io.Writer) error { return csv.Write(w, ds) })
	case SQLite:
		return writeSQL(ctx, location, sqlite3adapter.New, ds)
	case PostgreSQL:
		return writeSQL(ctx, location, pgadapter.New, ds)
	case MongoDB:
		session, err := mongodataset.Dial(location)
		if err != nil {
			return err
		}
		defer session.Close()
		return mongodataset.Write(ctx, session, ds)
	}
	return writeFile(fs, location, func(w io.Writer) error { return arff.Write(w, ds) })
}

func writeSQL(ctx context.Context, location string, open func(string) (sqldataset.Adapter, error), ds *dataset.Dataset) (err error) {
	a, err := open(location)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return sqldataset.Write(ctx, a, ds)
}

func writeFile(fs afero.Fs, location string, encode func(io.Writer) error) (err error) {
	buf := &bytes.Buffer{}
	if err = encode(buf); err != nil {
		return err
	}
	dir, base := filepath.Split(location)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fs, dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			fs.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return fs.Rename(tmp.Name(), location)
}

// PrintDataset writes the dataset onto w in ARFF format.
func PrintDataset(w io.Writer, ds *dataset.Dataset) error {
	return arff.Write(w, ds)
}
