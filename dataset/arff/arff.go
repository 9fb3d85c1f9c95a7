/*
Package arff reads and writes datasets in the attribute-relation file
format: a header declaring the relation and its typed attributes followed
by a @data section with one sample per line.

Numeric, string and nominal attributes are supported, on dense and sparse
rows. The last attribute of a file read is taken as its class.
*/
package arff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
)

// MissingValue is the token for a missing value on data rows.
const MissingValue = "?"

const maxLineLength = 16 * 1024 * 1024

type reader struct {
	relation  string
	features  []feature.Feature
	names     map[string]bool
	ds        *dataset.Dataset
	inData    bool
	hasHeader bool
}

/*
Read takes an io.Reader with ARFF content and returns the dataset it
holds, with its last attribute as the class. Errors report the line
of the content where they were found.
*/
func Read(r io.Reader) (*dataset.Dataset, error) {
	rd := &reader{names: make(map[string]bool)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineLength)
	n := 0
	for sc.Scan() {
		n++
		l := &lexer{line: sc.Text()}
		if l.done() {
			continue
		}
		var err error
		if rd.inData {
			err = rd.readRow(l)
		} else {
			err = rd.readDeclaration(l)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "line %d", n+1)
	}
	if !rd.inData {
		return nil, errors.Errorf("line %d: no @data section found", n)
	}
	return rd.ds, nil
}

func (rd *reader) readDeclaration(l *lexer) error {
	keyword, _, err := l.word()
	if err != nil {
		return err
	}
	switch strings.ToLower(keyword) {
	case "@relation":
		if rd.hasHeader {
			return errors.New("duplicate @relation declaration")
		}
		rd.relation, _, err = l.word()
		if err != nil {
			return errors.Wrap(err, "reading relation name")
		}
		rd.hasHeader = true
	case "@attribute":
		if !rd.hasHeader {
			return errors.New("@attribute declared before @relation")
		}
		f, err := readAttribute(l)
		if err != nil {
			return err
		}
		if rd.names[f.Name()] {
			return errors.Errorf("duplicate attribute %s", f.Name())
		}
		rd.names[f.Name()] = true
		rd.features = append(rd.features, f)
	case "@data":
		if !rd.hasHeader {
			return errors.New("@data declared before @relation")
		}
		if len(rd.features) == 0 {
			return errors.New("no attributes declared before @data")
		}
		rd.ds, err = dataset.New(rd.relation, rd.features)
		if err != nil {
			return err
		}
		if err = rd.ds.SetClassIndex(len(rd.features) - 1); err != nil {
			return err
		}
		rd.inData = true
	default:
		return errors.Errorf("unknown declaration %s", keyword)
	}
	if !l.done() {
		return l.unexpected("end of line")
	}
	return nil
}

func readAttribute(l *lexer) (feature.Feature, error) {
	name, _, err := l.word()
	if err != nil {
		return nil, errors.Wrap(err, "reading attribute name")
	}
	if l.accept('{') {
		values, err := readNominalValues(l)
		if err != nil {
			return nil, errors.Wrapf(err, "reading values of nominal attribute %s", name)
		}
		return feature.NewDiscreteFeature(name, values), nil
	}
	t, _, err := l.word()
	if err != nil {
		return nil, errors.Wrapf(err, "reading type of attribute %s", name)
	}
	switch strings.ToLower(t) {
	case "numeric", "real", "integer":
		return feature.NewContinuousFeature(name), nil
	case "string":
		return feature.NewStringFeature(name), nil
	case "date", "relational":
		return nil, errors.Errorf("attribute %s has unsupported type %s", name, t)
	}
	return nil, errors.Errorf("attribute %s has unknown type %s", name, t)
}

func readNominalValues(l *lexer) ([]string, error) {
	var values []string
	seen := make(map[string]bool)
	if l.accept('}') {
		return nil, errors.New("no values declared")
	}
	for {
		v, _, err := l.word()
		if err != nil {
			return nil, err
		}
		if seen[v] {
			return nil, errors.Errorf("duplicate value %s", v)
		}
		seen[v] = true
		values = append(values, v)
		if l.accept('}') {
			return values, nil
		}
		if err = l.expect(','); err != nil {
			return nil, err
		}
	}
}

func (rd *reader) readRow(l *lexer) error {
	var values []interface{}
	var err error
	if l.accept('{') {
		values, err = rd.readSparseRow(l)
	} else {
		values, err = rd.readDenseRow(l)
	}
	if err != nil {
		return err
	}
	if !l.done() {
		return l.unexpected("end of line")
	}
	_, err = rd.ds.Add(values)
	return err
}

func (rd *reader) readDenseRow(l *lexer) ([]interface{}, error) {
	values := make([]interface{}, len(rd.features))
	for i, f := range rd.features {
		if i > 0 {
			if err := l.expect(','); err != nil {
				return nil, errors.Wrapf(err, "row has %d values, expected %d", i, len(rd.features))
			}
		}
		tok, quoted, err := l.word()
		if err != nil {
			return nil, errors.Wrapf(err, "reading value for %s", f.Name())
		}
		if values[i], err = parseValue(f, tok, quoted); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (rd *reader) readSparseRow(l *lexer) ([]interface{}, error) {
	values := make([]interface{}, len(rd.features))
	for i, f := range rd.features {
		switch f := f.(type) {
		case *feature.ContinuousFeature:
			values[i] = 0.0
		case *feature.DiscreteFeature:
			values[i] = f.AvailableValues()[0]
		}
	}
	if l.accept('}') {
		return values, nil
	}
	for {
		tok, _, err := l.word()
		if err != nil {
			return nil, errors.Wrap(err, "reading sparse index")
		}
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 || i >= len(rd.features) {
			return nil, errors.Errorf("invalid sparse index %s", tok)
		}
		tok, quoted, err := l.word()
		if err != nil {
			return nil, errors.Wrapf(err, "reading value for %s", rd.features[i].Name())
		}
		if values[i], err = parseValue(rd.features[i], tok, quoted); err != nil {
			return nil, err
		}
		if l.accept('}') {
			return values, nil
		}
		if err = l.expect(','); err != nil {
			return nil, err
		}
	}
}

func parseValue(f feature.Feature, tok string, quoted bool) (interface{}, error) {
	if tok == MissingValue && !quoted {
		return nil, nil
	}
	var v interface{} = tok
	if _, ok := f.(*feature.ContinuousFeature); ok {
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Errorf("numeric attribute %s got %q", f.Name(), tok)
		}
		v = x
	}
	if ok, err := f.Valid(v); !ok {
		return nil, err
	}
	return v, nil
}

/*
Write takes an io.Writer and a dataset and writes the dataset onto the
writer in ARFF format. Every feature is declared with the type it was read
with and missing values are written as '?'.
*/
func Write(w io.Writer, d *dataset.Dataset) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "@relation %s\n\n", Quote(d.Relation()))
	for _, f := range d.Features() {
		t, err := attributeType(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "@attribute %s %s\n", Quote(f.Name()), t)
	}
	bw.WriteString("\n@data\n")
	for _, s := range d.Samples() {
		for i, v := range s.Values() {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(FormatValue(v))
		}
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "writing ARFF")
}

// FormatValue returns the ARFF token for a value of a sample.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return MissingValue
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return Quote(v)
	}
	return Quote(fmt.Sprintf("%v", v))
}

func attributeType(f feature.Feature) (string, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		return "numeric", nil
	case *feature.StringFeature:
		return "string", nil
	case *feature.DiscreteFeature:
		values := make([]string, len(f.AvailableValues()))
		for i, v := range f.AvailableValues() {
			values[i] = Quote(v)
		}
		return "{" + strings.Join(values, ",") + "}", nil
	}
	return "", errors.Errorf("cannot declare feature %s of type %T", f.Name(), f)
}
