// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/pantry-io/pantryd/acl"
	"github.com/pantry-io/pantryd/api/ratelimit"
	"github.com/pantry-io/pantryd/fault"
	"github.com/pantry-io/pantryd/listview"
	"github.com/pantry-io/pantryd/mode"
	"github.com/pantry-io/pantryd/owner"
	"github.com/pantry-io/pantryd/record"
	"github.com/pantry-io/pantryd/session"
	"github.com/pantry-io/pantryd/storage"
	"github.com/pantry-io/pantryd/table"
	"github.com/pantry-io/pantryd/users"
)

// session token request header
const tokenHeader = "X-Pantry-Token"

// the argument passed to the handlers
type apiHandler struct {
	log     *logger.L
	start   time.Time
	version string
	allow   map[string]map[string]struct{}
	limits  *ratelimit.PerClient
}

func (s *apiHandler) router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.root)
	mux.HandleFunc("/pantry/register", s.register)
	mux.HandleFunc("/pantry/login", s.login)
	mux.HandleFunc("/pantry/logout", s.logout)
	mux.HandleFunc("/pantry/details", s.details)
	mux.HandleFunc("/pantry/object", s.object)
	mux.HandleFunc("/pantry/allow", s.allowUser)
	mux.HandleFunc("/pantry/owned", s.owned)
	mux.HandleFunc("/pantry/list/flat", s.flatList)
	return mux
}

// this matches anything not matched and returns error
func (s *apiHandler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// common entry checks: rate limit and service mode
func (s *apiHandler) enter(w http.ResponseWriter, r *http.Request) bool {
	if err := ratelimit.Limit(s.limits.For(clientAddress(r))); nil != err {
		sendFault(w, s.log, err)
		return false
	}
	if mode.IsNot(mode.Normal) {
		sendServiceUnavailable(w)
		return false
	}
	return true
}

// resolve the session token to a user id, refreshing the session
func (s *apiHandler) authenticate(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	token := r.Header.Get(tokenHeader)
	if "" == token {
		sendUnauthorized(w)
		return 0, false
	}
	userId, err := session.Touch(token)
	if nil != err {
		sendUnauthorized(w)
		return 0, false
	}
	return userId, true
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST: create an account
func (s *apiHandler) register(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	var c credentials
	if err := decodeJSONBody(r, &c); nil != err {
		sendFault(w, s.log, err)
		return
	}

	userId, err := users.Register(c.Username, c.Password)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	sendReply(w, struct {
		UserId uint64 `json:"user_id"`
	}{UserId: userId})
}

// POST: exchange credentials for a session token
func (s *apiHandler) login(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	var c credentials
	if err := decodeJSONBody(r, &c); nil != err {
		sendFault(w, s.log, err)
		return
	}

	userId, err := users.Authenticate(c.Username, c.Password)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}
	token, err := session.Grant(userId)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	sendReply(w, struct {
		UserId uint64 `json:"user_id"`
		Token  string `json:"token"`
	}{UserId: userId, Token: token})
}

// POST: drop the caller's session
func (s *apiHandler) logout(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}

	token := r.Header.Get(tokenHeader)
	if "" == token {
		sendUnauthorized(w)
		return
	}
	if err := session.Revoke(token); nil != err {
		sendFault(w, s.log, err)
		return
	}
	sendReply(w, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

// object - create, fetch or replace one domain object
//
// query parameters:
//   kind=<list|item|article|shop|user>
//   id=<uint64>           [GET and PUT]
//   parent=<uint64>       [POST only: copy the parent's access row]
func (s *apiHandler) object(w http.ResponseWriter, r *http.Request) {
	if !s.enter(w, r) {
		return
	}
	userId, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	r.ParseForm()
	kind, err := kindParameter(r)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	switch r.Method {

	case http.MethodGet:
		id, err := uintParameter(r, "id")
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		if err := acl.Verify(id, userId); nil != err {
			sendFault(w, s.log, err)
			return
		}
		rows, err := table.Of(kind)
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		v, err := rows.GetRecord(id)
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		sendRecord(w, r, v)

	case http.MethodPost:
		v, err := readRecord(r, kind)
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		id, err := storage.NewID()
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		setRecordId(v, id)

		if parent := r.Form.Get("parent"); "" != parent {
			parentId, err := uintParameter(r, "parent")
			if nil != err {
				sendFault(w, s.log, err)
				return
			}
			if err := acl.Verify(parentId, userId); nil != err {
				sendFault(w, s.log, err)
				return
			}
			err = owner.CreateShared(userId, parentId, id, v)
			if nil != err {
				sendFault(w, s.log, err)
				return
			}
		} else {
			err = owner.CreateOwned(userId, id, v)
			if nil != err {
				sendFault(w, s.log, err)
				return
			}
		}

		sendReply(w, struct {
			Id uint64 `json:"id"`
		}{Id: id})

	case http.MethodPut:
		id, err := uintParameter(r, "id")
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		if err := acl.Verify(id, userId); nil != err {
			sendFault(w, s.log, err)
			return
		}
		v, err := readRecord(r, kind)
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		setRecordId(v, id)

		rows, err := table.Of(kind)
		if nil != err {
			sendFault(w, s.log, err)
			return
		}
		if err := rows.PutRecord(id, v); nil != err {
			sendFault(w, s.log, err)
			return
		}
		sendReply(w, struct {
			Id uint64 `json:"id"`
		}{Id: id})

	default:
		sendMethodNotAllowed(w)
	}
}

// POST: append a user to an object's allow-list
//
// query parameters:
//   id=<uint64>     [object]
//   user=<uint64>   [user to allow]
func (s *apiHandler) allowUser(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}
	userId, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	r.ParseForm()
	id, err := uintParameter(r, "id")
	if nil != err {
		sendFault(w, s.log, err)
		return
	}
	other, err := uintParameter(r, "user")
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	if err := acl.Verify(id, userId); nil != err {
		sendFault(w, s.log, err)
		return
	}
	if err := acl.Allow(id, other); nil != err {
		sendFault(w, s.log, err)
		return
	}
	sendReply(w, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

// GET: ids of objects of one kind owned by the caller
//
// query parameters:
//   kind=<list|item|article|shop|user>
func (s *apiHandler) owned(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}
	userId, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	r.ParseForm()
	kind, err := kindParameter(r)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	ids, err := owner.ObjectList(userId, kind)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}
	sendReply(w, struct {
		Kind record.Kind `json:"kind"`
		Ids  []uint64    `json:"ids"`
	}{Kind: kind, Ids: ids})
}

// GET: a list joined with its items
//
// query parameters:
//   id=<uint64>   [list]
func (s *apiHandler) flatList(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !s.enter(w, r) {
		return
	}
	userId, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	r.ParseForm()
	id, err := uintParameter(r, "id")
	if nil != err {
		sendFault(w, s.log, err)
		return
	}

	if err := acl.Verify(id, userId); nil != err {
		sendFault(w, s.log, err)
		return
	}
	flat, err := listview.Flatten(id)
	if nil != err {
		sendFault(w, s.log, err)
		return
	}
	sendReply(w, flat)
}

// GET: server state, restricted to the allow-list
func (s *apiHandler) details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if _, ok := s.allow["details"][clientAddress(r)]; !ok {
		s.log.Warnf("deny access: %q", r.RemoteAddr)
		sendForbidden(w)
		return
	}

	connectionCount.Increment()
	defer connectionCount.Decrement()

	type theReply struct {
		Chain       string `json:"chain"`
		Mode        string `json:"mode"`
		Connections uint64 `json:"connections"`
		Version     string `json:"version"`
		Uptime      string `json:"uptime"`
	}

	sendReply(w, theReply{
		Chain:       mode.ChainName(),
		Mode:        mode.String(),
		Connections: connectionCount.Uint64(),
		Version:     s.version,
		Uptime:      time.Since(s.start).String(),
	})
}

// parameter helpers

func clientAddress(r *http.Request) string {
	// SplitHostPort also unbrackets IPv6 addresses so the result
	// compares equal to the parsed allow-list entries
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		return r.RemoteAddr
	}
	return host
}

func kindParameter(r *http.Request) (record.Kind, error) {
	var kind record.Kind
	if err := kind.UnmarshalText([]byte(r.Form.Get("kind"))); nil != err {
		return kind, err
	}
	return kind, nil
}

func uintParameter(r *http.Request, name string) (uint64, error) {
	value, err := strconv.ParseUint(r.Form.Get(name), 10, 64)
	if nil != err {
		return 0, fault.InvalidError("invalid parameter: " + name)
	}
	return value, nil
}

// give a freshly created record its allocated id
func setRecordId(v record.Record, id uint64) {
	switch v := v.(type) {
	case *record.ListRecord:
		v.Id = id
	case *record.ItemRecord:
		v.Id = id
	case *record.ArticleRecord:
		v.Id = id
	case *record.ShopRecord:
		v.Id = id
	case *record.UserRecord:
		v.Id = id
	}
}
