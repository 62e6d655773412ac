// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store maps the users and questions tables onto models types.
// Stores are built per request around a db.DBTX.
package store
