package avrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNameSplitsDottedName(t *testing.T) {
	n, err := NewName("com.example.Foo", "ignored", "enclosing")
	require.NoError(t, err)
	assert.Equal(t, "Foo", n.Name)
	assert.Equal(t, "com.example", n.Namespace)
	assert.Equal(t, "com.example.Foo", n.FullName())
}

func TestNewNameFallsBackToEnclosingNamespace(t *testing.T) {
	n, err := NewName("Foo", "", "com.enclosing")
	require.NoError(t, err)
	assert.Equal(t, "com.enclosing", n.Namespace)
}

func TestNewNameRejectsInvalidSimpleName(t *testing.T) {
	_, err := NewName("9Foo", "", "")
	assert.Error(t, err)

	_, err = NewName("Foo", "bad.9ns", "")
	assert.Error(t, err)
}

func TestQualifyAgainstEnclosingNamespace(t *testing.T) {
	assert.Equal(t, "com.example.Bar", qualify("Bar", "com.example"))
	assert.Equal(t, "other.Bar", qualify("other.Bar", "com.example"))
	assert.Equal(t, "Bar", qualify("Bar", ""))
}
