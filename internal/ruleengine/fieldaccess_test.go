package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nested struct {
	Inner struct {
		Name string
	}
	Tags []string
	Meta map[string]string
}

func TestResolveField_StructDotPath(t *testing.T) {
	var v nested
	v.Inner.Name = "hello"
	assert.Equal(t, "hello", ResolveField(v, "Inner.Name"))
}

func TestResolveField_MissingStructFieldIsNil(t *testing.T) {
	v := nested{}
	assert.Nil(t, ResolveField(v, "DoesNotExist"))
}

func TestResolveField_MapLookup(t *testing.T) {
	v := nested{Meta: map[string]string{"owner": "root"}}
	assert.Equal(t, "root", ResolveField(v, "Meta.owner"))
	assert.Nil(t, ResolveField(v, "Meta.missing"))
}

func TestResolveField_SliceIndex(t *testing.T) {
	v := nested{Tags: []string{"a", "b", "c"}}
	assert.Equal(t, "b", ResolveField(v, "Tags.1"))
	assert.Nil(t, ResolveField(v, "Tags.99"))
	assert.Nil(t, ResolveField(v, "Tags.notanindex"))
}

func TestResolveField_EmptyPathReturnsSelf(t *testing.T) {
	v := nested{}
	assert.Equal(t, v, ResolveField(v, ""))
}

func TestResolveField_NilShortCircuits(t *testing.T) {
	assert.Nil(t, ResolveField(nil, "Anything.Deep"))

	var p *nested
	assert.Nil(t, ResolveField(p, "Inner.Name"))
}

func TestResolveField_PointerAndInterfaceAreTransparent(t *testing.T) {
	v := &nested{}
	v.Inner.Name = "x"
	assert.Equal(t, "x", ResolveField(v, "Inner.Name"))

	var asAny any = v
	assert.Equal(t, "x", ResolveField(asAny, "Inner.Name"))
}

func TestResolveField_ScalarDescendIsNilNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Nil(t, ResolveField(42, "anything"))
	})
}
