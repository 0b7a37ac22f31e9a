// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/pantry-io/pantryd/storage/mocks"
)

const (
	accessDBName = "access-test.leveldb"
	defaultKey   = "key"
)

var defaultValue = []byte{'a'}

func newMockCache(t *testing.T) (*mocks.MockCache, *gomock.Controller) {
	ctl := gomock.NewController(t)
	return mocks.NewMockCache(ctl), ctl
}

func setupDummyMockCache(t *testing.T) (*mocks.MockCache, *gomock.Controller) {
	mockCache, ctl := newMockCache(t)

	mockCache.EXPECT().Get(gomock.Any()).Return([]byte{}, false).AnyTimes()
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mockCache.EXPECT().Clear().AnyTimes()

	return mockCache, ctl
}

func setupTestDataAccess(t *testing.T, cache Cache) (Access, *leveldb.DB) {
	db, err := leveldb.OpenFile(accessDBName, nil)
	if nil != err {
		t.Fatalf("open error: %s", err)
	}
	return newDA(db, new(leveldb.Batch), cache), db
}

func teardownTestDataAccess(db *leveldb.DB) {
	_ = db.Close()
	dirPath, _ := filepath.Abs(accessDBName)
	_ = os.RemoveAll(dirPath)
}

func TestBeginShouldErrorWhenAlreadyInTransaction(t *testing.T) {
	mc, ctl := setupDummyMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "first Begin should not error")

	err = da.Begin()
	assert.NotEqual(t, nil, err, "second Begin should return error")
}

func TestCommitReleasesTransaction(t *testing.T) {
	mc, ctl := setupDummyMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	assert.True(t, da.InUse(), "transaction should be in use after Begin")

	err = da.Commit()
	assert.Equal(t, nil, err, "Commit should not error")
	assert.False(t, da.InUse(), "transaction should be released after Commit")
}

func TestPutOnlyReachesCacheOnCommit(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	// staging must not touch the shared cache at all
	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	da.Put([]byte(defaultKey), defaultValue)

	// only the commit populates it
	mc.EXPECT().Set(dbPut, defaultKey, defaultValue).Times(1)
	err = da.Commit()
	assert.Equal(t, nil, err, "Commit should not error")
}

func TestDeleteOnlyReachesCacheOnCommit(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	da.Delete([]byte(defaultKey))

	mc.EXPECT().Set(dbDelete, defaultKey, []byte{}).Times(1)
	err = da.Commit()
	assert.Equal(t, nil, err, "Commit should not error")
}

func TestStagedValueInvisibleToPlainGet(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	mc.EXPECT().Get(defaultKey).Return([]byte{}, false).AnyTimes()

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	da.Put([]byte(defaultKey), defaultValue)

	// plain read bypasses the staged view
	_, err = da.Get([]byte(defaultKey))
	assert.Equal(t, leveldb.ErrNotFound, err, "plain Get must not see staged value")

	found, err := da.Has([]byte(defaultKey))
	assert.Equal(t, nil, err, "Has should not error")
	assert.False(t, found, "plain Has must not see staged value")

	// staged read observes it
	value, err := da.GetStaged([]byte(defaultKey))
	assert.Equal(t, nil, err, "GetStaged should not error")
	assert.Equal(t, defaultValue, value, "staged value mismatch")

	da.Abort()

	// nothing survives the abort
	_, err = da.GetStaged([]byte(defaultKey))
	assert.Equal(t, leveldb.ErrNotFound, err, "aborted value must be gone")
}

func TestStagedDeleteReadsAsGone(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	mc.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	mc.EXPECT().Get(defaultKey).Return([]byte{}, false).AnyTimes()

	err := da.PutNow([]byte(defaultKey), defaultValue)
	assert.Equal(t, nil, err, "PutNow should not error")

	err = da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	da.Delete([]byte(defaultKey))

	// the staged view must not fall through to the stored value
	_, err = da.GetStaged([]byte(defaultKey))
	assert.Equal(t, leveldb.ErrNotFound, err, "staged delete must read as not found")

	found, err := da.HasStaged([]byte(defaultKey))
	assert.Equal(t, nil, err, "HasStaged should not error")
	assert.False(t, found, "staged delete must read as absent")

	// the plain view still sees the committed value
	value, err := da.Get([]byte(defaultKey))
	assert.Equal(t, nil, err, "plain Get should not error")
	assert.Equal(t, defaultValue, value, "stored value must survive until commit")

	da.Abort()
}

func TestFailedCommitClearsCache(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")
	da.Put([]byte(defaultKey), defaultValue)

	// force the batch write to fail
	_ = db.Close()

	mc.EXPECT().Clear().Times(1)
	err = da.Commit()
	assert.NotEqual(t, nil, err, "Commit on a closed database must fail")
	assert.False(t, da.InUse(), "transaction must be released after a failed commit")
}

func TestGetPrefersCachedValue(t *testing.T) {
	mc, ctl := newMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	cached := []byte("cached")
	mc.EXPECT().Get(defaultKey).Return(cached, true).Times(1)

	value, err := da.Get([]byte(defaultKey))
	assert.Equal(t, nil, err, "Get should not error")
	assert.Equal(t, cached, value, "Get should return the cached value")
}

func TestStagedWriteOnlyStoredOnCommit(t *testing.T) {
	mc, ctl := setupDummyMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")

	da.Put([]byte(defaultKey), defaultValue)

	_, err = db.Get([]byte(defaultKey), nil)
	assert.Equal(t, leveldb.ErrNotFound, err, "staged write must not reach the database before commit")

	err = da.Commit()
	assert.Equal(t, nil, err, "Commit should not error")

	stored, err := db.Get([]byte(defaultKey), nil)
	assert.Equal(t, nil, err, "committed record should be stored")
	assert.Equal(t, defaultValue, stored, "committed record mismatch")
}

func TestAbortDiscardsStagedWrites(t *testing.T) {
	mc, ctl := setupDummyMockCache(t)
	defer ctl.Finish()
	da, db := setupTestDataAccess(t, mc)
	defer teardownTestDataAccess(db)

	err := da.Begin()
	assert.Equal(t, nil, err, "Begin should not error")

	da.Put([]byte(defaultKey), defaultValue)
	da.Abort()

	err = da.Commit()
	assert.Equal(t, nil, err, "empty Commit should not error")

	_, err = db.Get([]byte(defaultKey), nil)
	assert.Equal(t, leveldb.ErrNotFound, err, "aborted write must not be stored")
	assert.False(t, da.InUse(), "transaction should be released after Abort")
}
