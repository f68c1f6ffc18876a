// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides logical bucket for kv store.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			return src.Get(b.makeKey(key))
		},
		func(key []byte) (bool, error) {
			return src.Has(b.makeKey(key))
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			return src.Put(b.makeKey(key), val)
		},
		func(key []byte) error {
			return src.Delete(b.makeKey(key))
		},
	}
}

// NewRange creates the key range of the bucket limited by the given prefix.
func (b Bucket) NewRange(prefix []byte) Range {
	r := util.BytesPrefix(b.makeKey(prefix))
	return Range{Start: r.Start, Limit: r.Limit}
}

func (b Bucket) makeKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}
