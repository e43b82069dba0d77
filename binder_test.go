package mclang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeArgSetter struct {
	values map[int]any
	err    error
}

func newFakeArgSetter() *fakeArgSetter {
	return &fakeArgSetter{values: make(map[int]any)}
}

func (s *fakeArgSetter) SetArg(index int, value any) error {
	if s.err != nil {
		return s.err
	}
	s.values[index] = value
	return nil
}

func TestBindPushesArgumentDedupedByIdentity(t *testing.T) {
	a := Arg(int32(5))
	tree := Add(a, a)

	setter := newFakeArgSetter()
	require.NoError(t, Bind(tree, setter))
	require.Equal(t, map[int]any{0: int32(5)}, setter.values)
}

func TestBindOrderMatchesSignatureOrder(t *testing.T) {
	a := Arg(int32(1))
	b := Arg(int32(2))
	tree := Add(a, b)

	setter := newFakeArgSetter()
	require.NoError(t, Bind(tree, setter))
	require.Equal(t, int32(1), setter.values[0])
	require.Equal(t, int32(2), setter.values[1])
}

type firstCallFailsSetter struct {
	calls int
	err   error
}

func (s *firstCallFailsSetter) SetArg(index int, value any) error {
	s.calls++
	if s.calls == 1 {
		return s.err
	}
	return nil
}

func TestBindStopsIssuingCallsAfterFirstError(t *testing.T) {
	wantErr := newTypeError("boom")
	a := Arg(int32(1))
	b := Arg(int32(2))
	tree := Add(a, b)

	setter := &firstCallFailsSetter{err: wantErr}
	err := Bind(tree, setter)
	require.Equal(t, wantErr, err)
	require.Equal(t, 1, setter.calls, "Binder must not issue further SetArg calls once one has failed")
}
