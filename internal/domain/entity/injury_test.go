package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInjuryRecord_ConfidenceLabel(t *testing.T) {
	require.Equal(t, "89.0%", InjuryRecord{Confidence: 0.89}.ConfidenceLabel())
	require.Equal(t, "99.0%", InjuryRecord{Confidence: 0.99}.ConfidenceLabel())
	require.Equal(t, "12.3%", InjuryRecord{Confidence: 0.1234}.ConfidenceLabel())
}

func TestInjuryRecord_IsZero(t *testing.T) {
	require.True(t, InjuryRecord{}.IsZero())
	require.False(t, InjuryRecord{Code: "T07"}.IsZero())
}

func TestTensor_ReleaseOnce(t *testing.T) {
	calls := 0
	tensor := NewTensor(2, 2, 3, make([]float32, 12), nil, func(*Tensor) { calls++ })
	require.Equal(t, []int{1, 2, 2, 3}, tensor.Shape())

	tensor.Release()
	tensor.Release()
	require.Equal(t, 1, calls)
	require.Nil(t, tensor.Data)

	var nilTensor *Tensor
	require.NotPanics(t, nilTensor.Release)
}
