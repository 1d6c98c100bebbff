// Package txn runs multi-document writes inside a MongoDB transaction so
// cascading deletes and multi-row replacements apply atomically or not
// at all.
//
// Standalone mongod instances (common in development) do not support
// transactions. When the server rejects the transaction as unsupported,
// the callback is re-run without one; the write set is then only
// best-effort atomic. Production deployments run a replica set.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes that indicate transactions are unsupported on this
// topology rather than that the transaction failed.
const (
	codeTransactionNumbers    = 20 // "Transaction numbers are only allowed on..."
	codeCommandNotFound       = 51
	codeOperationNotSupported = 263
)

// WithTransaction executes fn within a transaction when the server
// supports one, and plainly otherwise. fn may be invoked more than once
// (the driver retries transient transaction errors), so it must be safe
// to re-run.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err means the server topology cannot
// run transactions (as opposed to a transaction that failed).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeTransactionNumbers, codeCommandNotFound, codeOperationNotSupported:
			return true
		}
		return strings.Contains(cmdErr.Message, "Transaction numbers are only allowed")
	}
	return false
}
