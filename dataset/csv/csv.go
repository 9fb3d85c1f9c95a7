/*
Package csv reads and writes datasets as CSV content whose first row names
the features of the columns.
*/
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

// MissingValue is the cell content for undefined values. Empty cells are
// also read as undefined, so the strings "" and "?" do not survive a round
// trip: both come back as undefined values.
const MissingValue = "?"

/*
Read takes an io.Reader for a CSV stream, a relation name and a slice of
features and returns a dataset with the samples parsed from the reader.

The header or first row of the CSV content names the column features. Columns
named like one of the given features get that feature, any other column is
read as a feature.StringFeature. The rest of the rows should consist of valid
values for the features and/or the '?' string to indicate an undefined value.
*/
func Read(reader io.Reader, relation string, features []feature.Feature) (*dataset.Dataset, error) {
	var d *dataset.Dataset
	err := ReadBySample(reader, features, func(i int, header []feature.Feature, values []interface{}) (bool, error) {
		if d == nil {
			var err error
			d, err = dataset.New(relation, header)
			if err != nil {
				return false, err
			}
		}
		if values == nil {
			return true, nil
		}
		_, err := d.Add(values)
		return true, errors.Wrapf(err, "adding sample %d", i+1)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, a slice of features and a
lambda function. It parses the header and then every sample from the reader
and calls the lambda function with the index of the sample, the features of
the columns and the values of the sample. The lambda is called once with nil
values right after the header is parsed. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. An error
is returned if something goes wrong when reading the content or parsing a
sample.
*/
func ReadBySample(reader io.Reader, features []feature.Feature, lambda func(int, []feature.Feature, []interface{}) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	columns := parseFeaturesFromCSVHeader(header, featureSliceToMap(features))
	ok, err := lambda(-1, columns, nil)
	if err != nil || !ok {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading body")
		}
		values, err := parseSampleFromCSVRow(row, columns)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, columns, values)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
Write takes an io.Writer and a dataset and dumps the dataset onto the writer
in CSV format, with a header row naming the features. It returns an error if
something went wrong when writing.
*/
func Write(writer io.Writer, d *dataset.Dataset) error {
	w := csv.NewWriter(writer)
	record := make([]string, len(d.Features()))
	for i, f := range d.Features() {
		record[i] = f.Name()
	}
	if err := w.Write(record); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for n, s := range d.Samples() {
		for j, v := range s.Values() {
			switch v := v.(type) {
			case nil:
				record[j] = MissingValue
			case string:
				// an empty single cell row would be written as a blank
				// line, which readers skip
				if v == "" {
					v = MissingValue
				}
				record[j] = v
			case float64:
				record[j] = strconv.FormatFloat(v, 'g', -1, 64)
			default:
				record[j] = fmt.Sprintf("%v", v)
			}
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "writing CSV row for sample %d", n+1)
		}
	}
	w.Flush()
	return w.Error()
}

func parseFeaturesFromCSVHeader(header []string, features map[string]feature.Feature) []feature.Feature {
	columns := make([]feature.Feature, len(header))
	for i, name := range header {
		f, ok := features[name]
		if !ok {
			f = feature.NewStringFeature(name)
		}
		columns[i] = f
	}
	return columns
}

func parseSampleFromCSVRow(row []string, columns []feature.Feature) ([]interface{}, error) {
	if len(row) != len(columns) {
		return nil, errors.Errorf("row has %d values, expected %d", len(row), len(columns))
	}
	values := make([]interface{}, len(columns))
	for i, f := range columns {
		v := row[i]
		if v == MissingValue || v == "" {
			continue
		}
		var value interface{} = v
		if _, ok := f.(*feature.ContinuousFeature); ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "converting %s to float64", v)
			}
			value = x
		}
		if ok, err := f.Valid(value); !ok {
			return nil, errors.Wrapf(err, "invalid value %v of type %T for feature %s", value, value, f.Name())
		}
		values[i] = value
	}
	return values, nil
}

func featureSliceToMap(features []feature.Feature) map[string]feature.Feature {
	result := make(map[string]feature.Feature)
	for _, f := range features {
		result[f.Name()] = f
	}
	return result
}
