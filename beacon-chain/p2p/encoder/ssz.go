// Package encoder defines the wire encoding used on gossip topics and
// req/resp streams: SSZ bodies wrapped in snappy compression.
package encoder

import (
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	fastssz "github.com/prysmaticlabs/fastssz"
	"github.com/ralexstokes/nimbus-eth2/config/params"
)

var _ NetworkEncoding = (*SszNetworkEncoder)(nil)

// MaxGossipSize is the hard cap on an uncompressed gossip payload.
var MaxGossipSize = params.BeaconNetworkConfig().GossipMaxSize

// MaxChunkSize is the hard cap on an uncompressed req/resp chunk.
var MaxChunkSize = params.BeaconNetworkConfig().MaxChunkSize

// SszNetworkEncoder supports p2p networking encoding using SimpleSerialize
// with snappy compression (SSZ_snappy).
type SszNetworkEncoder struct{}

// ProtocolSuffixSSZSnappy is the last part of topic strings that identifies
// the encoding.
const ProtocolSuffixSSZSnappy = "ssz_snappy"

// EncodeGossip the proto gossip message to the io.Writer.
func (_ SszNetworkEncoder) EncodeGossip(w io.Writer, msg fastssz.Marshaler) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := msg.MarshalSSZ()
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal ssz")
	}
	if uint64(len(b)) > MaxGossipSize {
		return 0, errors.Errorf("gossip message exceeds max gossip size: %d bytes > %d bytes", len(b), MaxGossipSize)
	}
	b = snappy.Encode(nil /*dst*/, b)
	return w.Write(b)
}

// EncodeWithMaxLength the proto message to the io.Writer. This encoding
// prefixes the raw size of the message as a protobuf varint and then writes
// the snappy framed stream.
func (_ SszNetworkEncoder) EncodeWithMaxLength(w io.Writer, msg fastssz.Marshaler) (int, error) {
	if msg == nil {
		return 0, nil
	}
	b, err := msg.MarshalSSZ()
	if err != nil {
		return 0, errors.Wrap(err, "could not marshal ssz")
	}
	if uint64(len(b)) > MaxChunkSize {
		return 0, errors.Errorf("size of encoded message is %d which is larger than the provided max limit of %d", len(b), MaxChunkSize)
	}
	if err := writeVarint(w, uint64(len(b))); err != nil {
		return 0, err
	}
	return writeSnappyBuffer(w, b)
}

func doDecode(b []byte, to fastssz.Unmarshaler) error {
	return to.UnmarshalSSZ(b)
}

// DecodeGossip decodes the bytes to the protobuf gossip message provided.
func (_ SszNetworkEncoder) DecodeGossip(b []byte, to fastssz.Unmarshaler) error {
	size, err := snappy.DecodedLen(b)
	if err != nil {
		return errors.Wrap(err, "could not determine decoded length")
	}
	if uint64(size) > MaxGossipSize {
		return errors.Errorf("gossip message exceeds max gossip size: %d bytes > %d bytes", size, MaxGossipSize)
	}
	b, err = snappy.Decode(nil /*dst*/, b)
	if err != nil {
		return err
	}
	return doDecode(b, to)
}

// DecodeWithMaxLength the bytes from io.Reader to the protobuf message
// provided. This checks that the decoded message isn't larger than the
// provided max limit.
func (_ SszNetworkEncoder) DecodeWithMaxLength(r io.Reader, to fastssz.Unmarshaler) error {
	msgLen, err := readVarint(r)
	if err != nil {
		return err
	}
	if msgLen > MaxChunkSize {
		return errors.Errorf("remaining bytes %d are greater than the max length %d", msgLen, MaxChunkSize)
	}
	sr := newBufferedReader(r)
	defer bufReaderPool.Put(sr)

	buf := make([]byte, msgLen)
	if _, err := io.ReadFull(sr, buf); err != nil {
		return err
	}
	return doDecode(buf, to)
}

// ProtocolSuffix returns the appropriate suffix for protocol IDs.
func (_ SszNetworkEncoder) ProtocolSuffix() string {
	return "/" + ProtocolSuffixSSZSnappy
}

var bufWriterPool = new(sync.Pool)
var bufReaderPool = new(sync.Pool)

func newBufferedWriter(w io.Writer) *snappy.Writer {
	rawBufWriter := bufWriterPool.Get()
	if rawBufWriter == nil {
		return snappy.NewBufferedWriter(w)
	}
	bufW, ok := rawBufWriter.(*snappy.Writer)
	if !ok {
		return snappy.NewBufferedWriter(w)
	}
	bufW.Reset(w)
	return bufW
}

func newBufferedReader(r io.Reader) *snappy.Reader {
	rawBufReader := bufReaderPool.Get()
	if rawBufReader == nil {
		return snappy.NewReader(r)
	}
	bufR, ok := rawBufReader.(*snappy.Reader)
	if !ok {
		return snappy.NewReader(r)
	}
	bufR.Reset(r)
	return bufR
}

// writeSnappyBuffer writes a snappy frame-compressed copy of b to w.
func writeSnappyBuffer(w io.Writer, b []byte) (int, error) {
	bufWriter := newBufferedWriter(w)
	defer bufWriterPool.Put(bufWriter)
	num, err := bufWriter.Write(b)
	if err != nil {
		// Close the writer even when the write fails so that a subsequent
		// Reset does not flush stale frames into a fresh stream.
		if closeErr := bufWriter.Close(); closeErr != nil {
			return 0, fmt.Errorf("failed to close snappy buffered writer: %v: %w", closeErr, err)
		}
		return 0, err
	}
	return num, bufWriter.Close()
}

func writeVarint(w io.Writer, n uint64) error {
	var buf [10]byte
	i := 0
	for n >= 0x80 {
		buf[i] = byte(n) | 0x80
		n >>= 7
		i++
	}
	buf[i] = byte(n)
	_, err := w.Write(buf[:i+1])
	return err
}

func readVarint(r io.Reader) (uint64, error) {
	var out uint64
	var b [1]byte
	for shift := uint(0); shift < 64; shift += 7 {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		out |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return out, nil
		}
	}
	return 0, errors.New("varint overflows uint64")
}
