package props

import (
	"context"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Snapshots carry the raw encoded slots so a backup taken against one
// backend can be restored into another.
type snapshot struct {
	Version int               `cbor:"version"`
	Slots   map[string]string `cbor:"slots"`
}

const snapshotVersion = 1

// Snapshot writes a CBOR dump of every slot in the backend.
func Snapshot(ctx context.Context, backend Backend, w io.Writer) error {
	keys, err := backend.Keys(ctx)
	if err != nil {
		return err
	}

	dump := snapshot{
		Version: snapshotVersion,
		Slots:   make(map[string]string, len(keys)),
	}

	for _, key := range keys {
		value, err := backend.Load(ctx, key)
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}
		encoded, err := encodeValue(value)
		if err != nil {
			return err
		}
		dump.Slots[key] = encoded
	}

	data, err := cbor.Marshal(dump)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// Restore loads a CBOR dump into the backend. Any Store reading from the
// backend must Reload afterwards; restored slots bypass its cache.
func Restore(ctx context.Context, backend Backend, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var dump snapshot
	if err := cbor.Unmarshal(data, &dump); err != nil {
		return err
	}

	for key, encoded := range dump.Slots {
		value, err := decodeValue(encoded)
		if err != nil {
			return err
		}
		if err := backend.Store(ctx, key, value); err != nil {
			return err
		}
	}

	return nil
}
