package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextProjectCode(t *testing.T) {
	seq := NewCodeSequencer(0)

	assert.Equal(t, "ACM001", seq.NextProjectCode("ACM"))
	assert.Equal(t, "ACM002", seq.NextProjectCode("acm"))
	assert.Equal(t, "NBF001", seq.NextProjectCode("NBF"))
	// Blank prefixes fall back to PRJ.
	assert.Equal(t, "PRJ001", seq.NextProjectCode("  "))
}

func TestObserveProjectCode(t *testing.T) {
	seq := NewCodeSequencer(0)
	seq.ObserveProjectCode("ACM012")
	seq.ObserveProjectCode("ACM007")

	assert.Equal(t, "ACM013", seq.NextProjectCode("ACM"))
}

func TestNextInternalCode(t *testing.T) {
	seq := NewCodeSequencer(0)
	seq.ObserveProjectCode("INT3")

	assert.Equal(t, "INT4", seq.NextInternalCode())
	assert.Equal(t, "INT5", seq.NextInternalCode())
}

func TestNextEmployeeCode(t *testing.T) {
	seq := NewCodeSequencer(10000)
	assert.Equal(t, "E10001", seq.NextEmployeeCode())

	seq.ObserveEmployeeCode("E10234")
	assert.Equal(t, "E10235", seq.NextEmployeeCode())
}

func TestObserveIgnoresMalformedCodes(t *testing.T) {
	seq := NewCodeSequencer(0)
	seq.ObserveProjectCode("")
	seq.ObserveProjectCode("12345")
	seq.ObserveProjectCode("NOCODE")
	seq.ObserveEmployeeCode("ACM001")

	assert.Equal(t, "ACM001", seq.NextProjectCode("ACM"))
	assert.Equal(t, "E1", seq.NextEmployeeCode())
}

func TestSplitCode(t *testing.T) {
	prefix, num, ok := splitCode("acm042")
	assert.True(t, ok)
	assert.Equal(t, "ACM", prefix)
	assert.Equal(t, 42, num)

	_, _, ok = splitCode("042")
	assert.False(t, ok)
	_, _, ok = splitCode("ACM")
	assert.False(t, ok)
}
