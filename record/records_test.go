// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/record"
)

// every persisted record type with representative field values
func sampleRecords() []record.Record {
	return []record.Record{
		&record.UserRecord{
			Id:   7,
			Name: "alice",
		},
		&record.ShopRecord{
			Id:      12,
			Name:    "corner store",
			Address: "1 main street",
		},
		&record.ArticleRecord{
			Id:   90,
			Name: "flour",
			Unit: "kg",
		},
		&record.ItemRecord{
			Id:        41,
			ArticleId: 90,
			Amount:    3,
			Checked:   true,
		},
		&record.ListRecord{
			Id:     33,
			Name:   "weekend",
			ShopId: 12,
			Items:  []uint64{41, 42, 300},
		},
		&record.LoginRecord{
			Username: "alice",
			UserId:   7,
			Salt:     bytes.Repeat([]byte{0x5a}, record.SaltLength),
			Hash:     bytes.Repeat([]byte{0xa5}, record.HashLength),
		},
		&record.AccessRecord{
			Owner:   7,
			Allowed: []uint64{9, 9, 15},
		},
		&record.OwnedIndexRecord{
			Lists: []record.OwnedList{
				{Kind: record.List, Ids: []uint64{33}},
				{Kind: record.Item, Ids: []uint64{41, 42, 300}},
			},
		},
		&record.SessionRecord{
			UserId:       7,
			TimeToLogout: 1700000000,
			State: map[string]string{
				"theme": "dark",
				"page":  "lists",
			},
		},
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	ctx := record.NewContext()

	for i, r := range sampleRecords() {
		packed, err := r.Pack(ctx)
		assert.Nil(t, err, "%d: pack", i)

		// context scratch is reused, persist a copy like a
		// database write would
		stored := make(record.Packed, len(packed))
		copy(stored, packed)

		back, err := stored.Unpack(ctx)
		assert.Nil(t, err, "%d: unpack", i)
		assert.Equal(t, r, back, "%d: round trip", i)

		back, err = stored.UnpackTrusted(ctx)
		assert.Nil(t, err, "%d: unpack trusted", i)
		assert.Equal(t, r, back, "%d: trusted round trip", i)
	}
}

func TestPackWithNilContext(t *testing.T) {
	user := &record.UserRecord{Id: 1, Name: "bob"}

	packed, err := user.Pack(nil)
	assert.Nil(t, err, "pack")

	back, err := packed.Unpack(nil)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, user, back, "round trip")
}

func TestPackDeterministic(t *testing.T) {
	session := &record.SessionRecord{
		TimeToLogout: 99,
		State: map[string]string{
			"a": "1", "b": "2", "c": "3", "d": "4",
		},
	}

	first, err := session.Pack(nil)
	assert.Nil(t, err, "first pack")
	for i := 0; i < 10; i += 1 {
		again, err := session.Pack(nil)
		assert.Nil(t, err, "%d: pack", i)
		assert.Equal(t, first, again, "%d: deterministic", i)
	}
}

func TestPackRejectsOversizeFields(t *testing.T) {
	long := strings.Repeat("x", 2000)

	_, err := (&record.UserRecord{Id: 1, Name: long}).Pack(nil)
	assert.Equal(t, fault.ErrNameTooLong, err, "user name")

	_, err = (&record.ShopRecord{Id: 1, Name: "ok", Address: long}).Pack(nil)
	assert.Equal(t, fault.ErrNameTooLong, err, "shop address")

	_, err = (&record.ListRecord{
		Id:    1,
		Name:  "ok",
		Items: make([]uint64, 10000),
	}).Pack(nil)
	assert.Equal(t, fault.ErrSequenceTooLong, err, "list items")

	_, err = (&record.LoginRecord{
		Username: "alice",
		UserId:   1,
		Salt:     []byte{1, 2, 3},
		Hash:     bytes.Repeat([]byte{0}, record.HashLength),
	}).Pack(nil)
	assert.Equal(t, fault.ErrKeyLength, err, "login salt")

	_, err = (&record.LoginRecord{
		Username: "",
		UserId:   1,
		Salt:     bytes.Repeat([]byte{0}, record.SaltLength),
		Hash:     bytes.Repeat([]byte{0}, record.HashLength),
	}).Pack(nil)
	assert.Equal(t, fault.ErrUsernameLength, err, "empty username")
}

func TestUnpackRejectsMalformed(t *testing.T) {
	user := &record.UserRecord{Id: 5, Name: "carol"}
	good, err := user.Pack(nil)
	assert.Nil(t, err, "pack")

	items := []struct {
		name   string
		packed record.Packed
	}{
		{"empty", record.Packed{}},
		{"unknown tag", record.Packed{0x7f}},
		{"null tag", record.Packed{0x00}},
		{"truncated", good[:len(good)-2]},
		{"trailing garbage", append(append(record.Packed{}, good...), 0x00)},
		{"length past end", record.Packed{byte(1), 5, 200, 'h', 'i'}},
	}

	for i, item := range items {
		_, err := item.packed.Unpack(nil)
		assert.NotNil(t, err, "%d: %s accepted", i, item.name)
	}
}

func TestUnpackRejectsBadBool(t *testing.T) {
	item := &record.ItemRecord{Id: 1, ArticleId: 2, Amount: 3, Checked: true}
	packed, err := item.Pack(nil)
	assert.Nil(t, err, "pack")

	// flag is the final byte
	packed[len(packed)-1] = 7
	_, err = packed.Unpack(nil)
	assert.Equal(t, fault.ErrNotRecordPack, err)
}

func TestUnpackTrustedRecoversFromCorruptBytes(t *testing.T) {
	list := &record.ListRecord{Id: 1, Name: "n", Items: []uint64{1, 2}}
	packed, err := list.Pack(nil)
	assert.Nil(t, err, "pack")

	for cut := 1; cut < len(packed); cut += 1 {
		_, err := packed[:cut].UnpackTrusted(nil)
		assert.NotNil(t, err, "cut %d accepted", cut)
	}
}

func TestEncodeDecodeBothModes(t *testing.T) {
	ctx := record.NewContext()

	items := []struct {
		kind record.Kind
		r    record.Record
	}{
		{record.User, &record.UserRecord{Id: 7, Name: "alice"}},
		{record.Shop, &record.ShopRecord{Id: 12, Name: "corner store", Address: "1 main street"}},
		{record.Article, &record.ArticleRecord{Id: 90, Name: "flour", Unit: "kg"}},
		{record.Item, &record.ItemRecord{Id: 41, ArticleId: 90, Amount: 3, Checked: true}},
		{record.List, &record.ListRecord{Id: 33, Name: "weekend", ShopId: 12, Items: []uint64{41}}},
	}

	for _, mode := range []record.Mode{record.Binary, record.Structured} {
		for i, item := range items {
			data, err := record.Encode(mode, item.r, ctx)
			assert.Nil(t, err, "%s %d: encode", mode, i)

			stored := make([]byte, len(data))
			copy(stored, data)

			back, err := record.Decode(mode, item.kind, stored, ctx)
			assert.Nil(t, err, "%s %d: decode", mode, i)
			assert.Equal(t, item.r, back, "%s %d: round trip", mode, i)
		}
	}
}

func TestDecodeWrongKind(t *testing.T) {
	shop := &record.ShopRecord{Id: 1, Name: "s", Address: "a"}
	data, err := record.Encode(record.Binary, shop, nil)
	assert.Nil(t, err, "encode")

	_, err = record.Decode(record.Binary, record.User, data, nil)
	assert.Equal(t, fault.ErrWrongRecordKind, err)
}

func TestParseMode(t *testing.T) {
	mode, err := record.ParseMode("binary")
	assert.Nil(t, err)
	assert.Equal(t, record.Binary, mode)

	mode, err = record.ParseMode("Structured")
	assert.Nil(t, err)
	assert.Equal(t, record.Structured, mode)

	_, err = record.ParseMode("yaml")
	assert.Equal(t, fault.ErrInvalidEncodingMode, err)
}

func TestAccessRecordIsAllowed(t *testing.T) {
	access := &record.AccessRecord{Owner: 7, Allowed: []uint64{9, 15}}

	assert.True(t, access.IsAllowed(7), "owner")
	assert.True(t, access.IsAllowed(9), "member")
	assert.True(t, access.IsAllowed(15), "member")
	assert.False(t, access.IsAllowed(8), "outsider")
}

func TestOwnedIndexAppend(t *testing.T) {
	index := &record.OwnedIndexRecord{}

	index.Append(record.List, 1)
	index.Append(record.Item, 10)
	index.Append(record.List, 2)

	l := index.ListFor(record.List)
	assert.NotNil(t, l, "list entry")
	assert.Equal(t, []uint64{1, 2}, l.Ids, "creation order")

	assert.Nil(t, index.ListFor(record.Shop), "absent kind")
}
