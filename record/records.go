// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// Packed - byte form of a record
type Packed []byte

// Record - generic record interface
type Record interface {
	Pack(ctx *Context) (Packed, error)
}

// record tags, the first varint of every packed record
//
// append only, never renumber: the values are persisted
type tagType uint64

const (
	nullTag tagType = iota
	userTag
	shopTag
	listTag
	itemTag
	articleTag
	loginTag
	accessTag
	ownedIndexTag
	sessionTag
)

// field limits enforced by the validating decode path
const (
	maxNameLength     = 1024 // bytes, any name/address/unit/username
	maxSequenceLength = 8192 // entries, any id sequence
	maxStateEntries   = 256  // entries, session state map
	maxStateLength    = 2048 // bytes, one session state key or value

	// login record hash parameters, fixed
	SaltLength = 16
	HashLength = 32
)

// UserRecord - an account able to own objects
type UserRecord struct {
	Id   uint64 `json:"id"`
	Name string `json:"name"`
}

// ShopRecord - a place shopping lists are bound to
type ShopRecord struct {
	Id      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ArticleRecord - a purchasable product description
type ArticleRecord struct {
	Id   uint64 `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// ItemRecord - one article on one list with an amount
type ItemRecord struct {
	Id        uint64 `json:"id"`
	ArticleId uint64 `json:"article_id"`
	Amount    uint64 `json:"amount"`
	Checked   bool   `json:"checked"`
}

// ListRecord - a shopping list, items referenced by id in order
type ListRecord struct {
	Id     uint64   `json:"id"`
	Name   string   `json:"name"`
	ShopId uint64   `json:"shop_id"`
	Items  []uint64 `json:"items"`
}

// FlatListRecord - a list with its items joined in, read-side only
//
// never persisted, so it has no tag and no Pack
type FlatListRecord struct {
	Id     uint64       `json:"id"`
	Name   string       `json:"name"`
	ShopId uint64       `json:"shop_id"`
	Items  []ItemRecord `json:"items"`
}

// LoginRecord - password verification data, keyed by username
type LoginRecord struct {
	Username string `json:"username"`
	UserId   uint64 `json:"user_id"`
	Salt     []byte `json:"-"`
	Hash     []byte `json:"-"`
}

// AccessRecord - per-object owner and allow-list
//
// keyed by the protected object's id; duplicates in Allowed are
// permitted and order is preserved
type AccessRecord struct {
	Owner   uint64   `json:"owner"`
	Allowed []uint64 `json:"allowed"`
}

// OwnedList - ids of one kind owned by a user, in creation order
type OwnedList struct {
	Kind Kind     `json:"kind"`
	Ids  []uint64 `json:"ids"`
}

// OwnedIndexRecord - per-user index of owned objects
//
// at most one OwnedList per kind
type OwnedIndexRecord struct {
	Lists []OwnedList `json:"lists"`
}

// SessionRecord - login session, keyed by its random token
type SessionRecord struct {
	UserId       uint64            `json:"user_id"`
	TimeToLogout int64             `json:"time_to_logout"` // epoch seconds
	State        map[string]string `json:"state"`
}

// IsAllowed - owner or member of the allow-list
func (access *AccessRecord) IsAllowed(userId uint64) bool {
	if userId == access.Owner {
		return true
	}
	for _, allowed := range access.Allowed {
		if userId == allowed {
			return true
		}
	}
	return false
}

// ListFor - find the owned list for a kind, nil if absent
func (index *OwnedIndexRecord) ListFor(kind Kind) *OwnedList {
	for i := range index.Lists {
		if kind == index.Lists[i].Kind {
			return &index.Lists[i]
		}
	}
	return nil
}

// Append - add an id to the owned list of a kind, creating the
// list entry on first use
func (index *OwnedIndexRecord) Append(kind Kind, id uint64) {
	l := index.ListFor(kind)
	if nil == l {
		index.Lists = append(index.Lists, OwnedList{
			Kind: kind,
			Ids:  []uint64{id},
		})
		return
	}
	l.Ids = append(l.Ids, id)
}
