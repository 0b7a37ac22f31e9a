// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/util"
)

// Unpack - parse a packed record with full validation
//
// every length field is range checked before use, so this is safe on
// bytes from outside the database
func (record Packed) Unpack(ctx *Context) (Record, error) {
	return record.unpack(ctx, false)
}

// UnpackTrusted - parse a packed record written by this process
//
// skips the range checks for speed; corrupt input is caught by
// recover and reported as fault.ErrNotRecordPack
func (record Packed) UnpackTrusted(ctx *Context) (r Record, err error) {
	defer func() {
		if nil != recover() {
			r = nil
			err = fault.ErrNotRecordPack
		}
	}()
	return record.unpack(ctx, true)
}

type reader struct {
	buffer  Packed
	n       int
	trusted bool
}

func (rd *reader) uint64() (uint64, error) {
	value, count := util.FromVarint64(rd.buffer[rd.n:])
	if 0 == count {
		return 0, fault.ErrNotRecordPack
	}
	rd.n += count
	return value, nil
}

// a varint that is a length or element count, capped in
// validating mode
func (rd *reader) length(limit int) (int, error) {
	if rd.trusted {
		value, err := rd.uint64()
		return int(value), err
	}
	length, count := util.ClippedVarint64(rd.buffer[rd.n:], 0, limit)
	if 0 == count {
		return 0, fault.ErrNotRecordPack
	}
	rd.n += count
	return length, nil
}

func (rd *reader) str(limit int) (string, error) {
	length, err := rd.length(limit)
	if nil != err {
		return "", err
	}
	if !rd.trusted && rd.n+length > len(rd.buffer) {
		return "", fault.ErrNotRecordPack
	}
	s := string(rd.buffer[rd.n : rd.n+length])
	rd.n += length
	return s, nil
}

// a byte field of one exact size
func (rd *reader) bytes(size int) ([]byte, error) {
	length, err := rd.length(size)
	if nil != err {
		return nil, err
	}
	if size != length {
		return nil, fault.ErrNotRecordPack
	}
	if !rd.trusted && rd.n+length > len(rd.buffer) {
		return nil, fault.ErrNotRecordPack
	}
	data := make([]byte, length)
	copy(data, rd.buffer[rd.n:rd.n+length])
	rd.n += length
	return data, nil
}

func (rd *reader) boolean() (bool, error) {
	if rd.n >= len(rd.buffer) {
		return false, fault.ErrNotRecordPack
	}
	b := rd.buffer[rd.n]
	rd.n += 1
	if !rd.trusted && b > 1 {
		return false, fault.ErrNotRecordPack
	}
	return 0 != b, nil
}

func (rd *reader) ids(ctx *Context) ([]uint64, error) {
	count, err := rd.length(maxSequenceLength)
	if nil != err {
		return nil, err
	}
	staging := ctx.grabIds()
	for i := 0; i < count; i += 1 {
		id, err := rd.uint64()
		if nil != err {
			return nil, err
		}
		staging = append(staging, id)
	}
	ctx.keepIds(staging)
	result := make([]uint64, len(staging))
	copy(result, staging)
	return result, nil
}

func (record Packed) unpack(ctx *Context, trusted bool) (Record, error) {
	rd := &reader{
		buffer:  record,
		trusted: trusted,
	}

	tag, err := rd.uint64()
	if nil != err {
		return nil, err
	}

	var result Record

	switch tagType(tag) {

	case userTag:
		user := &UserRecord{}
		if user.Id, err = rd.uint64(); nil != err {
			return nil, err
		}
		if user.Name, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		result = user

	case shopTag:
		shop := &ShopRecord{}
		if shop.Id, err = rd.uint64(); nil != err {
			return nil, err
		}
		if shop.Name, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		if shop.Address, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		result = shop

	case articleTag:
		article := &ArticleRecord{}
		if article.Id, err = rd.uint64(); nil != err {
			return nil, err
		}
		if article.Name, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		if article.Unit, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		result = article

	case itemTag:
		item := &ItemRecord{}
		if item.Id, err = rd.uint64(); nil != err {
			return nil, err
		}
		if item.ArticleId, err = rd.uint64(); nil != err {
			return nil, err
		}
		if item.Amount, err = rd.uint64(); nil != err {
			return nil, err
		}
		if item.Checked, err = rd.boolean(); nil != err {
			return nil, err
		}
		result = item

	case listTag:
		list := &ListRecord{}
		if list.Id, err = rd.uint64(); nil != err {
			return nil, err
		}
		if list.Name, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		if list.ShopId, err = rd.uint64(); nil != err {
			return nil, err
		}
		if list.Items, err = rd.ids(ctx); nil != err {
			return nil, err
		}
		result = list

	case loginTag:
		login := &LoginRecord{}
		if login.Username, err = rd.str(maxNameLength); nil != err {
			return nil, err
		}
		if login.UserId, err = rd.uint64(); nil != err {
			return nil, err
		}
		if login.Salt, err = rd.bytes(SaltLength); nil != err {
			return nil, err
		}
		if login.Hash, err = rd.bytes(HashLength); nil != err {
			return nil, err
		}
		result = login

	case accessTag:
		access := &AccessRecord{}
		if access.Owner, err = rd.uint64(); nil != err {
			return nil, err
		}
		if access.Allowed, err = rd.ids(ctx); nil != err {
			return nil, err
		}
		result = access

	case ownedIndexTag:
		index := &OwnedIndexRecord{}
		count, err := rd.length(Count)
		if nil != err {
			return nil, err
		}
		if count > 0 {
			index.Lists = make([]OwnedList, count)
		}
		for i := 0; i < count; i += 1 {
			k, err := rd.uint64()
			if nil != err {
				return nil, err
			}
			kind, err := FromUint64(k)
			if nil != err {
				return nil, fault.ErrNotRecordPack
			}
			index.Lists[i].Kind = kind
			if index.Lists[i].Ids, err = rd.ids(ctx); nil != err {
				return nil, err
			}
		}
		result = index

	case sessionTag:
		session := &SessionRecord{}
		if session.UserId, err = rd.uint64(); nil != err {
			return nil, err
		}
		ttl, err := rd.uint64()
		if nil != err {
			return nil, err
		}
		session.TimeToLogout = int64(ttl)
		count, err := rd.length(maxStateEntries)
		if nil != err {
			return nil, err
		}
		session.State = make(map[string]string, count)
		for i := 0; i < count; i += 1 {
			key, err := rd.str(maxStateLength)
			if nil != err {
				return nil, err
			}
			value, err := rd.str(maxStateLength)
			if nil != err {
				return nil, err
			}
			session.State[key] = value
		}
		result = session

	default:
		return nil, fault.ErrNotRecordPack
	}

	if rd.n != len(record) {
		return nil, fault.ErrNotRecordPack
	}
	return result, nil
}
