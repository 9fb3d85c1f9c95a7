package sqlite3adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pbanos/herbarium/dataset"
	"github.com/pbanos/herbarium/dataset/sqldataset"
	"github.com/pbanos/herbarium/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	length := feature.NewContinuousFeature("petallength")
	class := feature.NewDiscreteFeature("class", []string{"setosa", "virginica"})
	d, err := dataset.New("iris", []feature.Feature{feature.NewStringFeature("note"), length, class})
	require.NoError(t, err)
	for i := 0; i < 23; i++ {
		var v interface{} = float64(i) + 0.5
		if i%7 == 3 {
			v = nil
		}
		_, err = d.Add([]interface{}{fmt.Sprintf("n%d", i), v, class.AvailableValues()[i%2]})
		require.NoError(t, err)
	}

	a, err := New(filepath.Join(t.TempDir(), "iris.db"))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, sqldataset.Write(ctx, a, d))
	// a second write replaces the table
	require.NoError(t, sqldataset.Write(ctx, a, d))

	r, err := sqldataset.Read(ctx, a, "iris", []feature.Feature{length, class})
	require.NoError(t, err)
	assert.Equal(t, "iris", r.Relation())
	require.Len(t, r.Features(), 3)
	assert.IsType(t, &feature.StringFeature{}, r.Feature(0))
	assert.Same(t, length, r.Feature(1))
	assert.Same(t, class, r.Feature(2))
	require.Equal(t, d.Len(), r.Len())
	for i, s := range d.Samples() {
		assert.Equal(t, s.Values(), r.Sample(i).Values())
	}
}

func TestReadMissingTable(t *testing.T) {
	a, err := New(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer a.Close()
	_, err = sqldataset.Read(context.Background(), a, "iris", nil)
	assert.Error(t, err)
}

func TestReadRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	a, err := New(filepath.Join(t.TempDir(), "bad.db"))
	require.NoError(t, err)
	defer a.Close()
	d, err := dataset.New("r", []feature.Feature{feature.NewStringFeature("class")})
	require.NoError(t, err)
	_, err = d.Add([]interface{}{"versicolor"})
	require.NoError(t, err)
	require.NoError(t, sqldataset.Write(ctx, a, d))

	_, err = sqldataset.Read(ctx, a, "r", []feature.Feature{feature.NewDiscreteFeature("class", []string{"setosa"})})
	assert.Error(t, err)
}
