package kv

import (
	"context"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// decode a snappy-compressed value read from the db.
func decode(ctx context.Context, data []byte) ([]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.decode")
	defer span.End()

	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "snappy decode")
	}
	return out, nil
}

// encode a value for storage with snappy compression.
func encode(ctx context.Context, data []byte) ([]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.encode")
	defer span.End()

	if data == nil {
		return nil, errors.New("cannot encode nil value")
	}
	return snappy.Encode(nil, data), nil
}
