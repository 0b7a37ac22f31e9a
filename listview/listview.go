// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listview - read side join of a list and its items
package listview

import (
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/table"
)

// Flatten - resolve a list's item ids into the items themselves
//
// item order follows the list; ids whose item is missing or
// unreadable are dropped without error, the hole policy for index
// entries left behind by interrupted writes
func Flatten(listId uint64) (*record.FlatListRecord, error) {
	list, err := table.Tables.Lists.Get(listId)
	if nil != err {
		return nil, err
	}

	flat := &record.FlatListRecord{
		Id:     list.Id,
		Name:   list.Name,
		ShopId: list.ShopId,
		Items:  make([]record.ItemRecord, 0, len(list.Items)),
	}

	for _, id := range list.Items {
		item, err := table.Tables.Items.Get(id)
		if nil != err {
			continue
		}
		flat.Items = append(flat.Items, *item)
	}
	return flat, nil
}
