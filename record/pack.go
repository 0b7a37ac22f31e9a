// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"sort"

	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/util"
)

// low level field append helpers

func appendUint64(buffer []byte, value uint64) []byte {
	return util.AppendVarint64(buffer, value)
}

func appendString(buffer []byte, s string) []byte {
	buffer = util.AppendVarint64(buffer, uint64(len(s)))
	return append(buffer, s...)
}

func appendBytes(buffer []byte, data []byte) []byte {
	buffer = util.AppendVarint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

func appendBool(buffer []byte, flag bool) []byte {
	b := byte(0)
	if flag {
		b = 1
	}
	return append(buffer, b)
}

func appendIds(buffer []byte, ids []uint64) []byte {
	buffer = util.AppendVarint64(buffer, uint64(len(ids)))
	for _, id := range ids {
		buffer = util.AppendVarint64(buffer, id)
	}
	return buffer
}

func checkName(s string) error {
	if len(s) > maxNameLength {
		return fault.ErrNameTooLong
	}
	return nil
}

// Pack - user: tag ++ id ++ name
func (user *UserRecord) Pack(ctx *Context) (Packed, error) {
	if err := checkName(user.Name); nil != err {
		return nil, err
	}

	message := appendUint64(ctx.grab(), uint64(userTag))
	message = appendUint64(message, user.Id)
	message = appendString(message, user.Name)
	ctx.keep(message)
	return message, nil
}

// Pack - shop: tag ++ id ++ name ++ address
func (shop *ShopRecord) Pack(ctx *Context) (Packed, error) {
	if err := checkName(shop.Name); nil != err {
		return nil, err
	}
	if err := checkName(shop.Address); nil != err {
		return nil, err
	}

	message := appendUint64(ctx.grab(), uint64(shopTag))
	message = appendUint64(message, shop.Id)
	message = appendString(message, shop.Name)
	message = appendString(message, shop.Address)
	ctx.keep(message)
	return message, nil
}

// Pack - article: tag ++ id ++ name ++ unit
func (article *ArticleRecord) Pack(ctx *Context) (Packed, error) {
	if err := checkName(article.Name); nil != err {
		return nil, err
	}
	if err := checkName(article.Unit); nil != err {
		return nil, err
	}

	message := appendUint64(ctx.grab(), uint64(articleTag))
	message = appendUint64(message, article.Id)
	message = appendString(message, article.Name)
	message = appendString(message, article.Unit)
	ctx.keep(message)
	return message, nil
}

// Pack - item: tag ++ id ++ article id ++ amount ++ checked
func (item *ItemRecord) Pack(ctx *Context) (Packed, error) {
	message := appendUint64(ctx.grab(), uint64(itemTag))
	message = appendUint64(message, item.Id)
	message = appendUint64(message, item.ArticleId)
	message = appendUint64(message, item.Amount)
	message = appendBool(message, item.Checked)
	ctx.keep(message)
	return message, nil
}

// Pack - list: tag ++ id ++ name ++ shop id ++ item ids
func (list *ListRecord) Pack(ctx *Context) (Packed, error) {
	if err := checkName(list.Name); nil != err {
		return nil, err
	}
	if len(list.Items) > maxSequenceLength {
		return nil, fault.ErrSequenceTooLong
	}

	message := appendUint64(ctx.grab(), uint64(listTag))
	message = appendUint64(message, list.Id)
	message = appendString(message, list.Name)
	message = appendUint64(message, list.ShopId)
	message = appendIds(message, list.Items)
	ctx.keep(message)
	return message, nil
}

// Pack - login: tag ++ username ++ user id ++ salt ++ hash
func (login *LoginRecord) Pack(ctx *Context) (Packed, error) {
	if 0 == len(login.Username) || len(login.Username) > maxNameLength {
		return nil, fault.ErrUsernameLength
	}
	if SaltLength != len(login.Salt) || HashLength != len(login.Hash) {
		return nil, fault.ErrKeyLength
	}

	message := appendUint64(ctx.grab(), uint64(loginTag))
	message = appendString(message, login.Username)
	message = appendUint64(message, login.UserId)
	message = appendBytes(message, login.Salt)
	message = appendBytes(message, login.Hash)
	ctx.keep(message)
	return message, nil
}

// Pack - access: tag ++ owner ++ allowed ids
func (access *AccessRecord) Pack(ctx *Context) (Packed, error) {
	if len(access.Allowed) > maxSequenceLength {
		return nil, fault.ErrSequenceTooLong
	}

	message := appendUint64(ctx.grab(), uint64(accessTag))
	message = appendUint64(message, access.Owner)
	message = appendIds(message, access.Allowed)
	ctx.keep(message)
	return message, nil
}

// Pack - owned index: tag ++ list count ++ (kind ++ ids)…
func (index *OwnedIndexRecord) Pack(ctx *Context) (Packed, error) {
	if len(index.Lists) > Count {
		return nil, fault.ErrSequenceTooLong
	}

	message := appendUint64(ctx.grab(), uint64(ownedIndexTag))
	message = appendUint64(message, uint64(len(index.Lists)))
	for _, l := range index.Lists {
		if l.Kind >= maximumKind {
			return nil, fault.ErrInvalidKind
		}
		if len(l.Ids) > maxSequenceLength {
			return nil, fault.ErrSequenceTooLong
		}
		message = appendUint64(message, l.Kind.Uint64())
		message = appendIds(message, l.Ids)
	}
	ctx.keep(message)
	return message, nil
}

// Pack - session: tag ++ user id ++ time to logout ++ entry count ++ (key ++ value)…
//
// entries are packed in sorted key order so the encoding is
// deterministic
func (session *SessionRecord) Pack(ctx *Context) (Packed, error) {
	if len(session.State) > maxStateEntries {
		return nil, fault.ErrSequenceTooLong
	}

	keys := make([]string, 0, len(session.State))
	for k := range session.State {
		if len(k) > maxStateLength || len(session.State[k]) > maxStateLength {
			return nil, fault.ErrNameTooLong
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	message := appendUint64(ctx.grab(), uint64(sessionTag))
	message = appendUint64(message, session.UserId)
	message = appendUint64(message, uint64(session.TimeToLogout))
	message = appendUint64(message, uint64(len(keys)))
	for _, k := range keys {
		message = appendString(message, k)
		message = appendString(message, session.State[k])
	}
	ctx.keep(message)
	return message, nil
}
