package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/herbarium/feature"
	"github.com/pbanos/herbarium/tree"
	"github.com/pkg/errors"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
a NodeEncodeDecoder and an io.Writer and serializes the given tree
as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "rootID": a string with the ID of the node at the root of the tree
  - "label": a string with the name of the feature the tree predicts
  - "nodes": an array containing the nodes that can be traversed on the tree
    serialized by the given NodeEncodeDecoder.

An error is returned if the tree cannot be traversed, serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, w io.Writer) error {
	err := marshalJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		err := writeNode(i, n, ned, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
ReadJSONTree takes a context.Context, an io.Reader, a NodeEncodeDecoder
and the features the tree refers to, and returns the tree unmarshalled from
the contents of the io.Reader onto an in-memory node store.
The JSON is expected to have the format written by WriteJSONTree. An error
is returned if the JSON cannot be read or unmarshalled, if the label is not
one of the features, or if a node referenced on the tree is missing.
*/
func ReadJSONTree(ctx context.Context, r io.Reader, ned NodeEncodeDecoder, features []feature.Feature) (*tree.Tree, error) {
	jt := &struct {
		RootID string             `json:"rootID"`
		Label  string             `json:"label"`
		Nodes  []*json.RawMessage `json:"nodes"`
	}{}
	if err := json.NewDecoder(r).Decode(jt); err != nil {
		return nil, errors.Wrap(err, "decoding tree")
	}
	var label feature.Feature
	for _, f := range features {
		if f.Name() == jt.Label {
			label = f
			break
		}
	}
	if label == nil {
		return nil, errors.Errorf("unknown label feature %q", jt.Label)
	}
	if jt.RootID == "" {
		return nil, errors.New("no root node id available")
	}
	t := tree.New(jt.RootID, tree.NewMemoryNodeStore(), label)
	for _, jn := range jt.Nodes {
		if jn == nil {
			return nil, errors.New("null node")
		}
		n, err := ned.Decode(*jn)
		if err != nil {
			return nil, err
		}
		if err = t.Store(ctx, n); err != nil {
			return nil, err
		}
	}
	count := 0
	err := t.Traverse(ctx, false, func(context.Context, *tree.Node) error {
		count++
		if count > len(jt.Nodes) {
			return errors.New("tree nodes form a cycle")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if count != len(jt.Nodes) {
		return nil, errors.Errorf("%d of %d nodes are not reachable from root", len(jt.Nodes)-count, len(jt.Nodes))
	}
	return t, nil
}

func marshalJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jrootID, err := json.Marshal(t.RootID)
	if err != nil {
		return err
	}
	jFeatureName, err := json.Marshal(t.Label.Name())
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"rootID":%s,"label":%s,"nodes":[`, jrootID, jFeatureName)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		if _, err := w.Write([]byte(",")); err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}
