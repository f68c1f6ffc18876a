// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novachain/nova/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key any) (any, bool, error) {
		v, r := src[key.(string)]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", []any{"bar", true, nil}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", []any{"baz", true, nil}},
		{func() {}, 2, "foo", "baz1", "foo", []any{"baz1", true, nil}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", []any{"qux", true, nil}},
		{func() { sm.Pop() }, 2, "", "", "foo", []any{"baz1", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", []any{"bar", true, nil}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(sm.Depth(), test.depth)
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(M(sm.Get(test.getKey)), test.getReturn)
		}
	}
}

func TestRepeatedPutThenPop(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(_ any) (any, bool, error) {
		return "src", true, nil
	})

	cp := sm.Push()
	sm.Put("k", 1)
	sm.Put("k", 2)
	assert.Equal(M(sm.Get("k")), []any{2, true, nil})

	sm.PopTo(cp)
	assert.Equal(M(sm.Get("k")), []any{"src", true, nil})

	// the key is usable again after the revert
	sm.Push()
	sm.Put("k", 3)
	assert.Equal(M(sm.Get("k")), []any{3, true, nil})
	sm.Pop()
	assert.Equal(M(sm.Get("k")), []any{"src", true, nil})
}

func TestRepeatedPutAcrossLevels(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(_ any) (any, bool, error) {
		return nil, false, nil
	})

	sm.Push()
	sm.Put("k", 1)
	sm.Put("k", 2)
	sm.Push()
	sm.Put("k", 3)
	sm.Put("k", 4)
	assert.Equal(M(sm.Get("k")), []any{4, true, nil})

	sm.Pop()
	assert.Equal(M(sm.Get("k")), []any{2, true, nil})
	sm.Pop()
	assert.Equal(M(sm.Get("k")), []any{nil, false, nil})
}

func TestJournal(t *testing.T) {
	sm := stackedmap.New(func(_ any) (any, bool, error) {
		return nil, false, nil
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a1", "b1"},
		{"a2", "b2"},
	}

	for _, kv := range kvs {
		sm.Push()
		sm.Put(kv.k, kv.v)
	}

	i := 0
	sm.Journal(func(k, v any) bool {
		assert.Equal(t, kvs[i].k, k)
		assert.Equal(t, kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(t, len(kvs), i)

	// early termination
	n := 0
	sm.Journal(func(_, _ any) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)

	// popped levels drop out of the journal
	sm.Pop()
	n = 0
	sm.Journal(func(_, _ any) bool {
		n++
		return true
	})
	assert.Equal(t, 2, n)
}
