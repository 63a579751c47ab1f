// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package audit provides the event trail for admin authentication and GM
// command execution.
//
// # Overview
//
// The audit system provides:
//   - Structured event logging with typed event categories
//   - Asynchronous buffered writes for minimal latency impact
//   - Automatic retention policy enforcement with configurable cleanup
//   - Flexible querying with multi-dimensional filters
//
// # Event Types
//
// Authentication Events:
//   - auth.success: Successful admin login
//   - auth.failure: Rejected admin login (wrong password, locked out)
//   - auth.lockout: Admin login locked out after repeated failures
//   - auth.unlock: Lockout cleared
//
// GM Command Events:
//   - gm.command: A gm:command action was dispatched (session control,
//     score adjustment, video control, device reset, ...)
//
// # Architecture
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//	                     |                      |
//	                 Non-blocking           Background goroutine
//
// Events are buffered in a channel to avoid blocking the caller. A background
// goroutine drains the buffer and persists events to the store.
//
// # Usage Example
//
//	store := audit.NewMemoryStore(10000)
//	logger := audit.NewLogger(store, audit.DefaultConfig())
//	defer logger.Close()
//
//	logger.LogAuthSuccess(ctx, audit.Actor{ID: "admin", Type: "user"}, audit.SourceFromRequest(r), "jwt")
//	logger.LogAuthFailure(ctx, "admin", "admin", audit.SourceFromRequest(r), "invalid_password")
//
// Querying the trail:
//
//	events, err := logger.Query(ctx, audit.QueryFilter{
//	    Types:     []audit.EventType{audit.EventTypeAuthFailure},
//	    Limit:     100,
//	    OrderDesc: true,
//	})
package audit
