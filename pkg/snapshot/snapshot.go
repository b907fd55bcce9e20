// Package snapshot implements the collection transfer format used by the
// export/import endpoints: a small binary header followed by an
// lz4-compressed MessagePack payload.
package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danharrold/lessons-api/pkg/domain"
)

const (
	// Magic bytes to identify the snapshot format
	MagicBytes = "LSNP"
	// Current version
	FormatVersion = 1
	// File extension used in Content-Disposition headers
	FileExtension = ".lsnap"
)

// Header precedes the compressed payload. RawSize is the uncompressed
// payload length, so readers can size the decompression buffer exactly.
type Header struct {
	Magic   [4]byte // "LSNP"
	Version uint8   // Format version
	Flags   uint8   // Reserved for future use
	RawSize uint32  // Uncompressed payload size in bytes
}

// payload is the MessagePack body of a snapshot.
type payload struct {
	Collection string            `msgpack:"collection"`
	ExportedAt time.Time         `msgpack:"exportedAt"`
	Documents  []domain.Document `msgpack:"documents"`
}

// Encode writes a snapshot of the given documents to w. ObjectID
// identifiers are rendered as hex strings so the payload survives a trip
// through any MessagePack decoder.
func Encode(w io.Writer, coll string, docs []domain.Document) error {
	body := payload{
		Collection: coll,
		ExportedAt: time.Now().UTC(),
		Documents:  make([]domain.Document, 0, len(docs)),
	}
	for _, doc := range docs {
		body.Documents = append(body.Documents, normalizeID(doc))
	}

	raw, err := msgpack.Marshal(&body)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(raw, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if n == 0 {
		// Incompressible payload; store it as-is and flag it.
		compressed = raw
	} else {
		compressed = compressed[:n]
	}

	header := Header{
		Magic:   [4]byte{'L', 'S', 'N', 'P'},
		Version: FormatVersion,
		RawSize: uint32(len(raw)),
	}
	if n == 0 {
		header.Flags = flagUncompressed
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("failed to write snapshot body: %w", err)
	}
	return nil
}

const flagUncompressed = 1 << 0

// maxRawSize caps the decompression buffer a header can ask for. An lz4
// block cannot expand more than 255x, so anything beyond that bound (or
// beyond 256 MiB outright) is a corrupt or hostile header.
const (
	maxRawSize            = 256 << 20
	maxLZ4ExpansionFactor = 255
)

// Decode reads a snapshot from r and returns the recorded collection name
// and its documents.
func Decode(r io.Reader) (string, []domain.Document, error) {
	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return "", nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != MagicBytes {
		return "", nil, fmt.Errorf("invalid snapshot format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return "", nil, fmt.Errorf("unsupported snapshot version: %d", header.Version)
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	raw := compressed
	if header.Flags&flagUncompressed == 0 {
		if header.RawSize > maxRawSize ||
			uint64(header.RawSize) > uint64(len(compressed))*maxLZ4ExpansionFactor {
			return "", nil, fmt.Errorf("implausible snapshot size: header claims %d bytes for a %d byte body", header.RawSize, len(compressed))
		}
		raw = make([]byte, header.RawSize)
		n, err := lz4.UncompressBlock(compressed, raw)
		if err != nil {
			return "", nil, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
		raw = raw[:n]
	}

	var body payload
	if err := msgpack.Unmarshal(raw, &body); err != nil {
		return "", nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return body.Collection, body.Documents, nil
}

// normalizeID returns doc with an ObjectID "_id" replaced by its hex form.
func normalizeID(doc domain.Document) domain.Document {
	oid, ok := doc["_id"].(primitive.ObjectID)
	if !ok {
		return doc
	}

	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	out["_id"] = oid.Hex()
	return out
}
