package avltree

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind discriminates the modification families a batch can contain.
type Kind uint8

const (
	// KindInsert fails if key already exists.
	KindInsert Kind = iota
	// KindUpdate fails if key does not exist.
	KindUpdate
	// KindRemove fails if key does not exist.
	KindRemove
	// KindRemoveIfExists is a no-op (not a failure) if key does not exist.
	KindRemoveIfExists
	// KindUpdateLongBy adds Delta to the big-endian int64 stored at key,
	// inserting Delta itself (if non-negative) when the key is absent.
	KindUpdateLongBy
	// KindGeneric applies UpdateFn directly; used by callers that need
	// lookup-only or custom read-modify-write semantics.
	KindGeneric
)

// Action is the result an UpdateFunc reports for a single key.
type Action uint8

const (
	// NoOp means no change: valid for a lookup or a RemoveIfExists miss.
	NoOp Action = iota
	// Set means the value at the key becomes Result.Value (covers both
	// insert-when-absent and update-in-place).
	Set
	// Delete means the key's leaf should be removed from the tree.
	Delete
)

// UpdateResult is what an UpdateFunc returns for a given key.
type UpdateResult struct {
	Action Action
	Value  Value
}

// UpdateFunc is invoked with the key's current value (and whether it
// exists) and decides what should happen. It must be pure with respect to
// tree state: the tree is mutated only via the Action it reports.
type UpdateFunc func(old Value, exists bool) (UpdateResult, error)

// Modification describes one call to performOneModification.
type Modification struct {
	Kind     Kind
	Key      Key
	Value    Value
	Delta    int64
	UpdateFn UpdateFunc
}

// Sentinel errors surfaced by UpdateFunc implementations for the built-in
// modification kinds; these become ProverFailure on the prover side and
// ModificationInapplicable on the verifier side.
var (
	ErrDuplicateKey = errors.New("avltree: key already exists")
	ErrMissingKey   = errors.New("avltree: key does not exist")
	ErrOverflow     = errors.New("avltree: arithmetic overflow")
)

// Insert builds the Insert(k,v) modification: f(None)=Some(v),
// f(Some(_))=Err(DuplicateKey).
func Insert(key Key, value Value) Modification {
	return Modification{Kind: KindInsert, Key: key, Value: value, UpdateFn: func(_ Value, exists bool) (UpdateResult, error) {
		if exists {
			return UpdateResult{}, ErrDuplicateKey
		}
		return UpdateResult{Action: Set, Value: value}, nil
	}}
}

// Update builds the Update(k,v) modification: f(None)=Err(MissingKey),
// f(Some(_))=Some(v).
func Update(key Key, value Value) Modification {
	return Modification{Kind: KindUpdate, Key: key, Value: value, UpdateFn: func(_ Value, exists bool) (UpdateResult, error) {
		if !exists {
			return UpdateResult{}, ErrMissingKey
		}
		return UpdateResult{Action: Set, Value: value}, nil
	}}
}

// Remove builds the Remove(k) modification: f(None)=Err(MissingKey),
// f(Some(_))=delete.
func Remove(key Key) Modification {
	return Modification{Kind: KindRemove, Key: key, UpdateFn: func(_ Value, exists bool) (UpdateResult, error) {
		if !exists {
			return UpdateResult{}, ErrMissingKey
		}
		return UpdateResult{Action: Delete}, nil
	}}
}

// RemoveIfExists builds the RemoveIfExists(k) modification:
// f(None)=None, f(Some(_))=delete.
func RemoveIfExists(key Key) Modification {
	return Modification{Kind: KindRemoveIfExists, Key: key, UpdateFn: func(_ Value, exists bool) (UpdateResult, error) {
		if !exists {
			return UpdateResult{Action: NoOp}, nil
		}
		return UpdateResult{Action: Delete}, nil
	}}
}

// UpdateLongBy builds the UpdateLongBy(k, delta) modification. The stored
// value is interpreted as a big-endian signed int64: f(None)=Some(delta) if
// delta >= 0 else an error; f(Some(v))=Some(v+delta) iff the addition does
// not overflow.
func UpdateLongBy(key Key, delta int64) Modification {
	return Modification{Kind: KindUpdateLongBy, Key: key, Delta: delta, UpdateFn: func(old Value, exists bool) (UpdateResult, error) {
		if !exists {
			if delta < 0 {
				return UpdateResult{}, fmt.Errorf("avltree: negative delta on missing key: %w", ErrMissingKey)
			}
			return UpdateResult{Action: Set, Value: encodeInt64(delta)}, nil
		}
		if len(old) != 8 {
			return UpdateResult{}, fmt.Errorf("avltree: UpdateLongBy requires an 8-byte value, got %d", len(old))
		}
		cur := decodeInt64(old)
		sum := cur + delta
		if (delta > 0 && sum < cur) || (delta < 0 && sum > cur) {
			return UpdateResult{}, ErrOverflow
		}
		return UpdateResult{Action: Set, Value: encodeInt64(sum)}, nil
	}}
}

// Generic builds a KindGeneric modification applying fn directly.
func Generic(key Key, fn UpdateFunc) Modification {
	return Modification{Kind: KindGeneric, Key: key, UpdateFn: fn}
}

func encodeInt64(v int64) Value {
	b := make(Value, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func decodeInt64(v Value) int64 {
	return int64(binary.BigEndian.Uint64(v))
}
