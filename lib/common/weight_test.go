package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/errors"
)

func TestWeightAddSub(t *testing.T) {
	w := Weight(100)

	n, err := w.Add(Weight(55))
	require.Nil(t, err)
	require.Equal(t, Weight(155), n)

	n, err = n.Sub(Weight(155))
	require.Nil(t, err)
	require.True(t, n.IsZero())
}

func TestWeightOverflow(t *testing.T) {
	_, err := MaximumWeight.Add(Weight(1))
	require.Equal(t, errors.WeightOverflow, err)

	_, err = Weight(1).Sub(Weight(2))
	require.Equal(t, errors.WeightOverflow, err)
}

func TestWeightFromString(t *testing.T) {
	w, err := WeightFromString("42")
	require.Nil(t, err)
	require.Equal(t, Weight(42), w)

	_, err = WeightFromString("-1")
	require.NotNil(t, err)

	_, err = WeightFromString("99999999999999999999")
	require.NotNil(t, err)
}
