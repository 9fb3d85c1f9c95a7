/*
Package mongodataset reads and writes datasets from and to a MongoDB
database, storing every sample as a document of the samples collection.
Documents keep their fields in feature order and have sequential ids
keeping the order of the samples. Missing values are left out of the
documents.
*/
package mongodataset

import (
	"context"
	"strings"
	"time"

	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/pkg/errors"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
	idField               = "_id"
	dialTimeout           = 10 * time.Second
)

/*
Dial takes a MongoDB connection URL and returns a session on it. The
database named on the URL is the one datasets are read from and written to.
*/
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.DialWithTimeout(url, dialTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	return session, nil
}

/*
Read takes a context, a MongoDB session, a relation name and a slice of
features and returns a dataset with the documents of the samples collection
in id order. Fields named like one of the given features get that feature,
any other field is read as a feature.StringFeature.
*/
func Read(ctx context.Context, session *mgo.Session, relation string, features []feature.Feature) (*dataset.Dataset, error) {
	var docs []bson.D
	iter := samplesCollection(session).Find(nil).Sort(idField).Iter()
	var doc bson.D
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		docs = append(docs, doc)
		doc = nil
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrap(err, "reading samples")
	}
	return datasetFromDocuments(relation, features, docs)
}

/*
Write takes a context, a MongoDB session and a dataset and replaces the
samples collection with one holding the samples of the dataset.

Samples are inserted on a staging collection that is renamed over the
samples collection once complete, and dropped if anything fails before, so
a failed write leaves the samples collection as it was.
*/
func Write(ctx context.Context, session *mgo.Session, d *dataset.Dataset) (err error) {
	for _, f := range d.Features() {
		if err := validFieldName(f.Name()); err != nil {
			return err
		}
	}
	db := session.DB("")
	staging := db.C(stagingCollectionName())
	defer func() {
		if err != nil {
			if derr := staging.DropCollection(); derr != nil && !isNamespaceNotFound(derr) {
				err = errors.WithMessagef(err, "dropping staging collection %s: %v", staging.Name, derr)
			}
		}
	}()
	if err = staging.Create(&mgo.CollectionInfo{}); err != nil {
		return errors.Wrap(err, "creating staging collection")
	}
	docs := make([]interface{}, 0, d.Len())
	for i, s := range d.Samples() {
		docs = append(docs, documentFor(i, d.Features(), s))
	}
	for start := 0; start < len(docs); start += maxDocumentsPerInsert {
		if err = ctx.Err(); err != nil {
			return err
		}
		end := start + maxDocumentsPerInsert
		if end > len(docs) {
			end = len(docs)
		}
		if err = staging.Insert(docs[start:end]...); err != nil {
			return errors.Wrapf(err, "inserting samples %d to %d", start+1, end)
		}
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = session.Run(renameCommand(db.Name, staging.Name, samplesCollectionName), nil); err != nil {
		return errors.Wrap(err, "replacing samples collection")
	}
	return nil
}

func stagingCollectionName() string {
	return samplesCollectionName + ".staging." + bson.NewObjectId().Hex()
}

// renameCommand returns the admin command that renames collection from
// into collection to of database db, dropping any previous to collection.
func renameCommand(db, from, to string) bson.D {
	return bson.D{
		{Name: "renameCollection", Value: db + "." + from},
		{Name: "to", Value: db + "." + to},
		{Name: "dropTarget", Value: true},
	}
}

const maxDocumentsPerInsert = 1000

func documentFor(i int, features []feature.Feature, s *dataset.Sample) bson.D {
	doc := bson.D{{Name: idField, Value: i}}
	for j, f := range features {
		if v := s.Value(j); v != nil {
			doc = append(doc, bson.DocElem{Name: f.Name(), Value: v})
		}
	}
	return doc
}

func datasetFromDocuments(relation string, features []feature.Feature, docs []bson.D) (*dataset.Dataset, error) {
	byName := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name()] = f
	}
	var columns []feature.Feature
	index := make(map[string]int)
	for _, doc := range docs {
		for _, e := range doc {
			if _, ok := index[e.Name]; ok || e.Name == idField {
				continue
			}
			f, ok := byName[e.Name]
			if !ok {
				f = feature.NewStringFeature(e.Name)
			}
			index[e.Name] = len(columns)
			columns = append(columns, f)
		}
	}
	d, err := dataset.New(relation, columns)
	if err != nil {
		return nil, err
	}
	for n, doc := range docs {
		values := make([]interface{}, len(columns))
		for _, e := range doc {
			i, ok := index[e.Name]
			if !ok {
				continue
			}
			if values[i], err = convertValue(columns[i], e.Value); err != nil {
				return nil, errors.Wrapf(err, "reading sample %d", n+1)
			}
		}
		if _, err = d.Add(values); err != nil {
			return nil, errors.Wrapf(err, "reading sample %d", n+1)
		}
	}
	return d, nil
}

func convertValue(f feature.Feature, v interface{}) (interface{}, error) {
	if _, ok := f.(*feature.ContinuousFeature); !ok {
		return v, nil
	}
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return v, nil
}

func validFieldName(name string) error {
	if name == idField {
		return errors.Errorf("invalid feature name %q: reserved collection field", idField)
	}
	if strings.ContainsAny(name, ".$") {
		return errors.Errorf("invalid feature name %q: contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}

func isNamespaceNotFound(err error) bool {
	return strings.Contains(err.Error(), "ns not found")
}

func samplesCollection(session *mgo.Session) *mgo.Collection {
	return session.DB("").C(samplesCollectionName)
}
