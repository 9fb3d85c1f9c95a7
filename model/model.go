/*
Package model loads the pre-trained classifier a herbarium binary applies.

A model is described by a YAML bundle manifest that names the classifier
kind, the relation it was trained on, its features and label, and a
parameters file, relative to the manifest, holding the trained values:

	name: SimpleLogistic
	version: "0.3.0"
	kind: logistic
	relation: iris
	label: class
	parameters: simple_logistic.json
	features:
	  sepallength: continuous
	  class: [Iris-setosa, Iris-versicolor, Iris-virginica]

The bundle compiled into the binary is loaded with Embedded.
*/
package model

import (
	"context"
	"embed"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pbanos/herbarium"
	"github.com/pbanos/herbarium/classifier"
	"github.com/pbanos/herbarium/classifier/logistic"
	"github.com/pbanos/herbarium/feature"
	featureyaml "github.com/pbanos/herbarium/feature/yaml"
	"github.com/pbanos/herbarium/tree"
	treejson "github.com/pbanos/herbarium/tree/json"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// EmbeddedResource is the path of the manifest of the embedded bundle.
const EmbeddedResource = "assets/simple_logistic.yml"

//go:embed assets
var assets embed.FS

// Decoder builds a classifier for a schema from its encoded parameters.
type Decoder func(ctx context.Context, schema *classifier.Schema, r io.Reader) (classifier.Classifier, error)

var decoders = map[string]Decoder{
	"logistic": decodeLogistic,
	"tree":     decodeTree,
}

// Kinds returns the classifier kinds a manifest may declare, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Bundle is a loaded model: its metadata and its classifier.
type Bundle struct {
	Name       string
	Version    string
	Kind       string
	Relation   string
	Schema     *classifier.Schema
	Classifier classifier.Classifier
}

type manifest struct {
	Name       string        `yaml:"name"`
	Version    string        `yaml:"version"`
	Kind       string        `yaml:"kind"`
	Relation   string        `yaml:"relation"`
	Label      string        `yaml:"label"`
	Parameters string        `yaml:"parameters"`
	Features   yaml.MapSlice `yaml:"features"`
}

// Embedded loads the bundle compiled into the binary.
func Embedded() (*Bundle, error) {
	return Load(afero.FromIOFS{FS: assets}, EmbeddedResource)
}

/*
Load takes a filesystem and the path of a bundle manifest on it and returns
the bundle it describes. Any failure is returned as a
*herbarium.ModelLoadError.
*/
func Load(fs afero.Fs, p string) (*Bundle, error) {
	b, err := load(fs, p)
	if err != nil {
		return nil, &herbarium.ModelLoadError{Resource: p, Err: err}
	}
	return b, nil
}

func load(fs afero.Fs, p string) (*Bundle, error) {
	content, err := afero.ReadFile(fs, p)
	if err != nil {
		return nil, err
	}
	m := &manifest{}
	if err = yaml.Unmarshal(content, m); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	decode, ok := decoders[m.Kind]
	if !ok {
		return nil, errors.Errorf("unknown classifier kind %q, expected one of %s", m.Kind, strings.Join(Kinds(), ", "))
	}
	schema, err := m.schema()
	if err != nil {
		return nil, err
	}
	if m.Parameters == "" {
		return nil, errors.New("manifest names no parameters file")
	}
	pp := path.Join(path.Dir(filepath.ToSlash(p)), m.Parameters)
	f, err := fs.Open(filepath.FromSlash(pp))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := decode(context.Background(), schema, f)
	if err != nil {
		return nil, errors.WithMessagef(err, "loading parameters %s", pp)
	}
	return &Bundle{
		Name:       m.Name,
		Version:    m.Version,
		Kind:       m.Kind,
		Relation:   m.Relation,
		Schema:     schema,
		Classifier: c,
	}, nil
}

func (m *manifest) schema() (*classifier.Schema, error) {
	if m.Features == nil {
		return nil, errors.New("manifest declares no features")
	}
	features, err := featureyaml.ParseFeatures(m.Features)
	if err != nil {
		return nil, err
	}
	schema := &classifier.Schema{Relation: m.Relation}
	for _, f := range features {
		if f.Name() != m.Label {
			schema.Features = append(schema.Features, f)
			continue
		}
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			return nil, errors.Errorf("label %s is not a discrete feature", m.Label)
		}
		schema.Label = df
	}
	if schema.Label == nil {
		return nil, errors.Errorf("label %q is not a declared feature", m.Label)
	}
	return schema, nil
}

func decodeLogistic(_ context.Context, schema *classifier.Schema, r io.Reader) (classifier.Classifier, error) {
	return logistic.Decode(schema, r)
}

func decodeTree(ctx context.Context, schema *classifier.Schema, r io.Reader) (classifier.Classifier, error) {
	features := schema.AllFeatures()
	t, err := treejson.ReadJSONTree(ctx, r, treejson.NewNodeEncodeDecoder(features), features)
	if err != nil {
		return nil, err
	}
	return tree.NewClassifier(t, schema)
}

// Describe writes a human readable description of the bundle onto w.
func (b *Bundle) Describe(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Model:    %s %s\n", b.Name, b.Version)
	fmt.Fprintf(&sb, "Kind:     %s\n", b.Kind)
	fmt.Fprintf(&sb, "Relation: %s\n", b.Relation)
	sb.WriteString("Features:\n")
	for _, f := range b.Schema.Features {
		fmt.Fprintf(&sb, "  %s: %s\n", f.Name(), kindOf(f))
	}
	fmt.Fprintf(&sb, "Label:    %s {%s}\n", b.Schema.Label.Name(), strings.Join(b.Schema.Labels(), ", "))
	_, err := io.WriteString(w, sb.String())
	return err
}

func kindOf(f feature.Feature) string {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		return featureyaml.ContinuousType
	case *feature.DiscreteFeature:
		return "{" + strings.Join(f.AvailableValues(), ", ") + "}"
	}
	return "string"
}
