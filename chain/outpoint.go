// Package chain holds the transaction level value types shared by wallets:
// the output point naming a previous transaction output.
package chain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/blockchaincommons/btckit/btcerr"
	"github.com/blockchaincommons/btckit/digest"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// NullIndex is the output index of the null output point, the
	// previous output referenced by coinbase inputs.
	NullIndex = wire.MaxPrevOutIndex

	// OutputPointSize is the length of a serialized output point: the
	// 32-byte hash followed by the little-endian 4-byte index.
	OutputPointSize = digest.Size + 4
)

// OutputPoint identifies a transaction output by the hash of its
// transaction and its index. It is a plain value: copies never share state.
//
// The zero value is the output at index 0 of the all-zero hash, which is a
// valid point. Use NewOutputPoint for the null point.
type OutputPoint struct {
	// Hash is the transaction hash in natural byte order.
	Hash digest.Digest

	// Index is the position of the output in the transaction.
	Index uint32
}

// NewOutputPoint returns the null output point: the zero hash and
// NullIndex.
func NewOutputPoint() OutputPoint {
	return OutputPoint{Index: NullIndex}
}

// NewOutputPointFrom returns the output point for hash and index.
func NewOutputPointFrom(hash digest.Digest, index uint32) OutputPoint {
	return OutputPoint{Hash: hash, Index: index}
}

// IsValid reports whether the point refers to an output, i.e. it is not the
// null point.
func (o OutputPoint) IsValid() bool {
	return !(o.Hash.IsZero() && o.Index == NullIndex)
}

// String returns the point with its hash in display order.
func (o OutputPoint) String() string {
	return fmt.Sprintf("OutputPoint(hash: %v, index: %d)", o.Hash,
		o.Index)
}

// ToWire converts the point to a wire.OutPoint.
func (o OutputPoint) ToWire() wire.OutPoint {
	return wire.OutPoint{Hash: o.Hash.Hash(), Index: o.Index}
}

// FromWire converts a wire.OutPoint.
func FromWire(op wire.OutPoint) OutputPoint {
	return OutputPoint{Hash: digest.FromHash(op.Hash), Index: op.Index}
}

// FromBytes decodes a 36-byte serialized point. Any other length fails
// with InvalidDataSize.
func FromBytes(b []byte) (OutputPoint, error) {
	var o OutputPoint
	if err := o.UnmarshalBinary(b); err != nil {
		return OutputPoint{}, err
	}

	return o, nil
}

// MarshalBinary returns the 36-byte serialization of the point.
func (o OutputPoint) MarshalBinary() ([]byte, error) {
	var b [OutputPointSize]byte
	o.put(b[:])

	return b[:], nil
}

// UnmarshalBinary decodes a 36-byte serialized point into o.
func (o *OutputPoint) UnmarshalBinary(b []byte) error {
	if len(b) != OutputPointSize {
		return btcerr.Errorf(
			"chain.OutputPoint.UnmarshalBinary",
			btcerr.InvalidDataSize, "got %d bytes, want %d", len(b),
			OutputPointSize,
		)
	}

	copy(o.Hash[:], b[:digest.Size])
	o.Index = binary.LittleEndian.Uint32(b[digest.Size:])

	return nil
}

func (o OutputPoint) put(b []byte) {
	copy(b[:digest.Size], o.Hash[:])
	binary.LittleEndian.PutUint32(b[digest.Size:], o.Index)
}

// Encode writes the serialized point to w.
func (o OutputPoint) Encode(w io.Writer) error {
	var b [OutputPointSize]byte
	o.put(b[:])

	_, err := w.Write(b[:])

	return err
}

// Decode reads a serialized point from r into o. A short read fails with
// InvalidDataSize and leaves o untouched.
func (o *OutputPoint) Decode(r io.Reader) error {
	var b [OutputPointSize]byte
	_, err := io.ReadFull(r, b[:])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return btcerr.Wrap(
			"chain.OutputPoint.Decode", btcerr.InvalidDataSize, err,
		)

	case err != nil:
		return err
	}

	if err := o.UnmarshalBinary(b[:]); err != nil {
		return err
	}

	log.Tracef("Decoded %v", o)

	return nil
}

// Record returns a fixed size TLV record of the given type for the point.
func (o *OutputPoint) Record(typ tlv.Type) tlv.Record {
	return tlv.MakeStaticRecord(
		typ, o, OutputPointSize, outputPointEncoder, outputPointDecoder,
	)
}

// outputPointEncoder is a TLV encoder for OutputPoint.
func outputPointEncoder(w io.Writer, val any, _ *[8]byte) error {
	if v, ok := val.(*OutputPoint); ok {
		return v.Encode(w)
	}

	return tlv.NewTypeForEncodingErr(val, "OutputPoint")
}

// outputPointDecoder is a TLV decoder for OutputPoint.
func outputPointDecoder(r io.Reader, val any, _ *[8]byte, l uint64) error {
	if v, ok := val.(*OutputPoint); ok && l == OutputPointSize {
		return v.Decode(r)
	}

	return tlv.NewTypeForDecodingErr(val, "OutputPoint", l, OutputPointSize)
}
