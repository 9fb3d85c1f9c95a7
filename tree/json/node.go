/*
Package json reads and writes decision trees as JSON documents.
*/
package json

import (
	"encoding/json"

	"github.com/pbanos/herbarium/feature"
	featurejson "github.com/pbanos/herbarium/feature/json"
	"github.com/pbanos/herbarium/tree"
	"github.com/pkg/errors"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	//and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	featurejson.CriteriaEncodeDecoder
	features []feature.Feature
}

type node struct {
	ID               string           `json:"id"`
	ParentID         string           `json:"pId,omitempty"`
	SubtreeIDs       []string         `json:"stIds,omitempty"`
	FeatureCriterion *json.RawMessage `json:"c,omitempty"`
	SubtreeFeature   string           `json:"f,omitempty"`
	Prediction       *json.RawMessage `json:"pred,omitempty"`
}

type jsonPrediction struct {
	Probabilities map[string]float64 `json:"probs,omitempty"`
	Weight        int                `json:"w,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder for nodes whose criteria
and subtree features refer to the given features. Criteria are encoded
with the feature/json package.
*/
func NewNodeEncodeDecoder(features []feature.Feature) NodeEncodeDecoder {
	return &nodeEncodeDecoder{featurejson.NewCriteriaEncodeDecoder(features), features}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:       n.ID,
		ParentID: n.ParentID,
	}
	if len(n.SubtreeIDs) > 0 {
		jn.SubtreeIDs = n.SubtreeIDs
	}
	if n.FeatureCriterion != nil {
		fc, err := ned.CriteriaEncodeDecoder.Encode(n.FeatureCriterion)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding criterion of node %v", n.ID)
		}
		rfc := json.RawMessage(fc)
		jn.FeatureCriterion = &rfc
	}
	if n.Prediction != nil {
		p, err := json.Marshal(&jsonPrediction{Probabilities: n.Prediction.Probabilities(), Weight: n.Prediction.Weight()})
		if err != nil {
			return nil, err
		}
		rp := json.RawMessage(p)
		jn.Prediction = &rp
	}
	if n.SubtreeFeature != nil {
		jn.SubtreeFeature = n.SubtreeFeature.Name()
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	if jn.ID == "" {
		return nil, errors.New("unmarshalling node: missing id")
	}
	n := &tree.Node{ID: jn.ID, ParentID: jn.ParentID}
	if jn.FeatureCriterion != nil {
		n.FeatureCriterion, err = ned.CriteriaEncodeDecoder.Decode(*jn.FeatureCriterion)
		if err != nil {
			return nil, errors.Wrapf(err, "unmarshalling node %v", n.ID)
		}
	}
	if jn.Prediction != nil {
		n.Prediction, err = UnmarshalJSONPrediction(*jn.Prediction)
		if err != nil {
			return nil, errors.Wrapf(err, "unmarshalling node %v", n.ID)
		}
	}
	if len(jn.SubtreeIDs) > 0 {
		n.SubtreeIDs = jn.SubtreeIDs
	}
	if jn.SubtreeFeature != "" {
		for _, f := range ned.features {
			if f.Name() == jn.SubtreeFeature {
				n.SubtreeFeature = f
				break
			}
		}
		if n.SubtreeFeature == nil {
			return nil, errors.Errorf("unmarshalling node %v: unknown feature %v", n.ID, jn.SubtreeFeature)
		}
	}
	return n, nil
}

/*
UnmarshalJSONPrediction takes a slice of bytes and returns
a pointer to a new tree.Prediction with the data from the slice
unmarshalled into it or an error. The slice of bytes is expected
to contain a JSON object with the following fields:
  - "probs": a JSON object with string keys (values) and
    numeric (float64) values (probability of that value)
  - "w": a number (integer) corresponding to the number of
    samples in the dataset from which the prediction was made.
*/
func UnmarshalJSONPrediction(b []byte) (*tree.Prediction, error) {
	jp := &jsonPrediction{}
	err := json.Unmarshal(b, jp)
	if err != nil {
		return nil, err
	}
	return tree.NewPrediction(jp.Probabilities, jp.Weight), nil
}
