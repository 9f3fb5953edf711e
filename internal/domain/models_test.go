package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassificationWinProbability(t *testing.T) {
	tests := []struct {
		classification Classification
		want           int
	}{
		{ClassificationC, 100},
		{ClassificationS, 90},
		{ClassificationDVF, 75},
		{ClassificationDF, 50},
		{ClassificationQ, 25},
		{ClassificationA, 10},
		{Classification("X"), 0},
		{Classification(""), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.classification.WinProbability(), string(tt.classification))
	}
}

func TestClassificationIsValid(t *testing.T) {
	for _, c := range []Classification{ClassificationC, ClassificationS, ClassificationDVF, ClassificationDF, ClassificationQ, ClassificationA} {
		assert.True(t, c.IsValid(), string(c))
	}
	assert.False(t, Classification("B").IsValid())
	assert.False(t, Classification("c").IsValid())
	assert.False(t, Classification("").IsValid())
}

func TestEmployeeFullName(t *testing.T) {
	e := Employee{FirstName: "Dana", LastName: "Reyes"}
	assert.Equal(t, "Dana Reyes", e.FullName())

	single := Employee{FirstName: "Dana"}
	assert.Equal(t, "Dana", single.FullName())
}
