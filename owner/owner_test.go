// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package owner_test

import (
	"os"
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/pantry-io/pantryd/acl"
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/owner"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
)

const (
	testingDirName   = "testing"
	databaseFileName = testingDirName + "/owner.leveldb"
)

func removeFiles() {
	os.RemoveAll(testingDirName)
}

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	_ = logger.Initialise(logging)
}

func TestMain(m *testing.M) {
	setupTestLogger()

	if err := storage.Initialise(databaseFileName); nil != err {
		logger.Panicf("storage initialise error: %s", err)
	}
	if err := table.Initialise(); nil != err {
		logger.Panicf("table initialise error: %s", err)
	}
	if err := acl.Initialise(); nil != err {
		logger.Panicf("acl initialise error: %s", err)
	}
	if err := owner.Initialise(); nil != err {
		logger.Panicf("owner initialise error: %s", err)
	}

	result := m.Run()

	owner.Finalise()
	acl.Finalise()
	table.Finalise()
	storage.Finalise()
	removeFiles()
	os.Exit(result)
}

func TestSequentialAppendOrder(t *testing.T) {
	userId := uint64(10)

	ids := []uint64{500, 501, 502, 503}
	for _, id := range ids {
		list := &record.ListRecord{Id: id, Name: "l"}
		err := owner.StoreListed(userId, id, list)
		assert.Nil(t, err, "store %d", id)
	}

	got, err := owner.ObjectList(userId, record.List)
	assert.Nil(t, err, "object list")
	assert.Equal(t, ids, got, "creation order preserved")
}

func TestObjectListAbsent(t *testing.T) {
	got, err := owner.ObjectList(0xdead, record.List)
	assert.Nil(t, err, "no index")
	assert.Equal(t, []uint64{}, got, "empty, not nil, not error")

	// index exists but has no entry for the kind
	userId := uint64(11)
	err = owner.StoreListed(userId, 510, &record.ListRecord{Id: 510})
	assert.Nil(t, err, "store")

	got, err = owner.ObjectList(userId, record.Shop)
	assert.Nil(t, err, "other kind")
	assert.Equal(t, []uint64{}, got, "empty for unused kind")
}

func TestKindsAreIndependent(t *testing.T) {
	userId := uint64(12)

	assert.Nil(t, owner.StoreListed(userId, 520, &record.ListRecord{Id: 520}), "list")
	assert.Nil(t, owner.StoreListed(userId, 521, &record.ItemRecord{Id: 521}), "item")
	assert.Nil(t, owner.StoreListed(userId, 522, &record.ListRecord{Id: 522}), "list")

	lists, err := owner.ObjectList(userId, record.List)
	assert.Nil(t, err, "lists")
	assert.Equal(t, []uint64{520, 522}, lists, "list ids")

	items, err := owner.ObjectList(userId, record.Item)
	assert.Nil(t, err, "items")
	assert.Equal(t, []uint64{521}, items, "item ids")

	index, err := owner.FullIndex(userId)
	assert.Nil(t, err, "full index")
	assert.Equal(t, 2, len(index.Lists), "two kinds")
}

func TestTwoUsersDoNotInterfere(t *testing.T) {
	userA := uint64(13)
	userB := uint64(14)

	var wg sync.WaitGroup
	for _, u := range []uint64{userA, userB} {
		wg.Add(1)
		go func(userId uint64) {
			defer wg.Done()
			for i := uint64(0); i < 50; i += 1 {
				id := userId*1000 + i
				err := owner.StoreListed(userId, id, &record.ItemRecord{Id: id})
				if nil != err {
					t.Errorf("user %d store %d: %s", userId, id, err)
					return
				}
			}
		}(u)
	}
	wg.Wait()

	for _, u := range []uint64{userA, userB} {
		got, err := owner.ObjectList(u, record.Item)
		assert.Nil(t, err, "user %d list", u)
		assert.Equal(t, 50, len(got), "user %d count", u)
		for i, id := range got {
			assert.Equal(t, u*1000+uint64(i), id, "user %d order", u)
		}
	}
}

func TestSameUserConcurrentAppends(t *testing.T) {
	userId := uint64(15)
	workers := 8
	each := 25

	var wg sync.WaitGroup
	for n := 0; n < workers; n += 1 {
		wg.Add(1)
		go func(n uint64) {
			defer wg.Done()
			for i := uint64(0); i < uint64(each); i += 1 {
				id := 2000 + n*uint64(each) + i
				err := owner.StoreListed(userId, id, &record.ArticleRecord{Id: id})
				if nil != err {
					t.Errorf("store %d: %s", id, err)
					return
				}
			}
		}(uint64(n))
	}
	wg.Wait()

	// every append survived, no id lost to a concurrent
	// read-modify-write
	got, err := owner.ObjectList(userId, record.Article)
	assert.Nil(t, err, "object list")
	assert.Equal(t, workers*each, len(got), "no lost appends")

	seen := make(map[uint64]bool, len(got))
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestStoreIsAtomic(t *testing.T) {
	userId := uint64(16)
	id := uint64(600)

	err := owner.StoreListed(userId, id, &record.ListRecord{Id: id, Name: "atomic"})
	assert.Nil(t, err, "store")

	got, err := owner.ObjectList(userId, record.List)
	assert.Nil(t, err, "object list")
	assert.Equal(t, []uint64{id}, got, "indexed")

	back, err := table.Tables.Lists.Get(id)
	assert.Nil(t, err, "object")
	assert.Equal(t, "atomic", back.Name, "object content")
}

func TestDanglingIndexEntryTolerated(t *testing.T) {
	userId := uint64(17)
	present := uint64(610)
	missing := uint64(611)

	err := owner.StoreListed(userId, present, &record.ItemRecord{Id: present})
	assert.Nil(t, err, "store")

	// inject an index entry with no object write, the crash legacy
	// of the old two-step protocol
	index, err := owner.FullIndex(userId)
	assert.Nil(t, err, "full index")
	index.Append(record.Item, missing)
	packed, err := index.Pack(nil)
	assert.Nil(t, err, "pack")
	err = storage.Pool.OwnerIndex.Put(storage.IDKey(userId), packed)
	assert.Nil(t, err, "raw put")

	// the listing still reports both ids
	got, err := owner.ObjectList(userId, record.Item)
	assert.Nil(t, err, "object list")
	assert.Equal(t, []uint64{present, missing}, got, "dangling id listed")

	// the follow-up fetch reports the hole
	_, err = table.Tables.Items.Get(missing)
	assert.Equal(t, fault.ErrRecordNotFound, err, "dangling object")
}

func TestCreateOwned(t *testing.T) {
	userId := uint64(18)
	id := uint64(620)

	err := owner.CreateOwned(userId, id, &record.ShopRecord{Id: id, Name: "shop"})
	assert.Nil(t, err, "create owned")

	assert.Nil(t, acl.Verify(id, userId), "owner access")
	assert.Equal(t, fault.ErrAccessDenied, acl.Verify(id, userId+1), "outsider")

	got, err := owner.ObjectList(userId, record.Shop)
	assert.Nil(t, err, "object list")
	assert.Equal(t, []uint64{id}, got, "indexed")
}

func TestCreateShared(t *testing.T) {
	userId := uint64(19)
	friend := uint64(20)
	listId := uint64(630)
	itemId := uint64(631)

	err := owner.CreateOwned(userId, listId, &record.ListRecord{Id: listId, Name: "shared"})
	assert.Nil(t, err, "create list")
	assert.Nil(t, acl.Allow(listId, friend), "allow friend")

	err = owner.CreateShared(userId, listId, itemId, &record.ItemRecord{Id: itemId})
	assert.Nil(t, err, "create item")

	// the item starts with the parent's allow-list snapshot
	assert.Nil(t, acl.Verify(itemId, userId), "owner")
	assert.Nil(t, acl.Verify(itemId, friend), "friend")

	// later parent changes never reach the snapshot
	assert.Nil(t, acl.Allow(listId, friend+100), "allow another")
	assert.Equal(t, fault.ErrAccessDenied, acl.Verify(itemId, friend+100), "snapshot")
}

func TestStoreUnlisted(t *testing.T) {
	id := uint64(640)

	err := owner.StoreUnlisted(id, &record.UserRecord{Id: id, Name: "nobody"})
	assert.Nil(t, err, "store unlisted")

	back, err := table.Tables.Users.Get(id)
	assert.Nil(t, err, "get")
	assert.Equal(t, id, back.Id, "content")
}

// a failed store must abort cleanly: the shared transaction is
// released for the next caller and no partial state is left behind
func TestStoreReleasesTransactionOnError(t *testing.T) {
	userId := uint64(21)
	taken := uint64(650)
	next := uint64(651)

	// a pre-existing access row makes the staged create fail
	assert.Nil(t, acl.Create(taken, userId), "access row")

	err := owner.CreateOwned(userId, taken, &record.ListRecord{Id: taken, Name: "clash"})
	assert.Equal(t, fault.ErrAccessAlreadyExists, err, "duplicate access row")

	// nothing of the failed store is visible
	got, err := owner.ObjectList(userId, record.List)
	assert.Nil(t, err, "object list")
	assert.Empty(t, got, "failed store must not be indexed")

	_, err = table.Tables.Lists.Get(taken)
	assert.Equal(t, fault.ErrRecordNotFound, err, "failed store must not write the object")

	// the very next store succeeds
	err = owner.StoreListed(userId, next, &record.ListRecord{Id: next, Name: "after"})
	assert.Nil(t, err, "store after failure")

	got, err = owner.ObjectList(userId, record.List)
	assert.Nil(t, err, "object list")
	assert.Equal(t, []uint64{next}, got, "index after recovery")
}
