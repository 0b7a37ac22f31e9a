// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2026 pantry.io
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package api - the HTTP boundary
//
// handlers authorize through acl and session, then delegate to the
// table, owner and listview packages; no business logic lives here.
// responses are encoded in the negotiated record mode and fault
// classes map onto HTTP status codes.
package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/pantry-io/pantryd/api/ratelimit"
	"github.com/pantry-io/pantryd/counter"
	"github.com/pantry-io/pantryd/fault"
)

// Configuration - api server configuration
type Configuration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
	RatePerSecond      float64             `gluamapper:"rate_per_second" json:"rate_per_second"`
	RateBurst          int                 `gluamapper:"rate_burst" json:"rate_burst"`
}

// rate limit defaults
const (
	defaultRatePerSecond = 25.0
	defaultRateBurst     = 50
)

// count of active connections, reported by the details endpoint
var connectionCount counter.Counter

// globals
type apiData struct {
	sync.RWMutex

	log     *logger.L
	servers []*http.Server

	initialised bool
}

var globalData apiData

// Initialise - start the api listeners
//
// every domain subsystem must already be initialised
func Initialise(configuration *Configuration, version string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("api")
	globalData.log = log
	log.Info("starting…")

	perSecond := configuration.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	burst := configuration.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	allow, err := parseAllow(configuration.Allow)
	if nil != err {
		return err
	}

	handler := &apiHandler{
		log:     log,
		start:   time.Now(),
		version: version,
		allow:   allow,
		limits:  ratelimit.NewPerClient(rate.Limit(perSecond), burst),
	}

	for _, listen := range configuration.Listen {
		log.Infof("listen: %s", listen)

		server := &http.Server{
			Addr:           listen,
			Handler:        handler.router(),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 16,
		}
		globalData.servers = append(globalData.servers, server)

		listener, err := net.Listen("tcp", listen)
		if nil != err {
			return err
		}
		go func(server *http.Server, listener net.Listener) {
			err := server.Serve(listener)
			if http.ErrServerClosed != err {
				log.Errorf("server: %s error: %s", server.Addr, err)
			}
		}(server, listener)
	}

	globalData.initialised = true
	return nil
}

// Finalise - stop the api listeners
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, server := range globalData.servers {
		_ = server.Shutdown(ctx)
	}
	globalData.servers = nil

	globalData.log.Flush()
	globalData.initialised = false
	return nil
}

// convert allow lists of CIDR/IP strings to a lookup table
func parseAllow(allow map[string][]string) (map[string]map[string]struct{}, error) {
	result := make(map[string]map[string]struct{}, len(allow))
	for endpoint, addresses := range allow {
		set := make(map[string]struct{}, len(addresses))
		for _, address := range addresses {
			if nil == net.ParseIP(address) {
				return nil, fault.InvalidError("invalid allow address: " + address)
			}
			set[address] = struct{}{}
		}
		result[endpoint] = set
	}
	return result, nil
}
