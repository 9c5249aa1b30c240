// Package serialization encodes pipeline documents for export and import
// PRINCIPLES:
// - KISS: One Codec interface, several wire formats
// - A Format pairs a codec with an optional compression layer
// - Files carry their format in the extension (pipeline.json, pipeline.msgpack.zst)
package serialization

import (
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnknownFormat      = errors.New("unknown serialization format")
	ErrInvalidCiphertext  = errors.New("invalid ciphertext size")
	ErrUnknownCompression = errors.New("unknown compression")
)

// Codec turns values into bytes and back
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
}

// CompressionType represents compression algorithms
type CompressionType string

const (
	CompressionNone CompressionType = "none"
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
)

// SerializationConfig holds serialization settings
type SerializationConfig struct {
	Codec       Codec
	Compression CompressionType
	EncryptKey  []byte // AES-256 key (32 bytes)
}

// Serializer runs a value through codec, compression and encryption
type Serializer struct {
	config SerializationConfig
}

// NewSerializer creates a new serializer with configuration
func NewSerializer(config SerializationConfig) *Serializer {
	if config.Codec == nil {
		config.Codec = NewJSONCodec()
	}
	if config.Compression == "" {
		config.Compression = CompressionNone
	}
	return &Serializer{config: config}
}

// WithEncryption returns a copy of s that seals output with key
func (s *Serializer) WithEncryption(key []byte) *Serializer {
	cfg := s.config
	cfg.EncryptKey = append([]byte(nil), key...)
	return &Serializer{config: cfg}
}

// Name describes the format, e.g. "json" or "msgpack+zstd"
func (s *Serializer) Name() string {
	if s.config.Compression == CompressionNone {
		return s.config.Codec.Name()
	}
	return s.config.Codec.Name() + "+" + string(s.config.Compression)
}

// Extension returns the file extension matching the format
func (s *Serializer) Extension() string {
	ext := "." + s.config.Codec.Name()
	switch s.config.Compression {
	case CompressionGzip:
		ext += ".gz"
	case CompressionZstd:
		ext += ".zst"
	}
	return ext
}

// Serialize encodes, compresses, and encrypts data
func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}

	data, err = s.compress(data)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	if len(s.config.EncryptKey) > 0 {
		data, err = s.encrypt(data)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
	}

	return data, nil
}

// Deserialize decrypts, decompresses, and decodes data
func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	var err error

	if len(s.config.EncryptKey) > 0 {
		data, err = s.decrypt(data)
		if err != nil {
			return fmt.Errorf("decryption failed: %w", err)
		}
	}

	data, err = s.decompress(data)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("codec decoding failed: %w", err)
	}
	return nil
}

// Write serializes v to w
func (s *Serializer) Write(w io.Writer, v interface{}) error {
	data, err := s.Serialize(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read deserializes the whole of r into v
func (s *Serializer) Read(r io.Reader, v interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	return s.Deserialize(data, v)
}

func (s *Serializer) compress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		return compressGzip(data)
	case CompressionZstd:
		return compressZstd(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, s.config.Compression)
	}
}

func (s *Serializer) decompress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		return decompressGzip(data)
	case CompressionZstd:
		return decompressZstd(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, s.config.Compression)
	}
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}

// encrypt seals data with AES-GCM, prefixing the nonce
func (s *Serializer) encrypt(data []byte) ([]byte, error) {
	gcm, err := newGCM(s.config.EncryptKey)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

func (s *Serializer) decrypt(data []byte) ([]byte, error) {
	gcm, err := newGCM(s.config.EncryptKey)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrInvalidCiphertext
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// JSONCodec implements JSON serialization. A non-empty Indent pretty-prints,
// as the downloaded pipeline files are.
type JSONCodec struct {
	Indent string
}

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	if c.Indent != "" {
		return json.MarshalIndent(v, "", c.Indent)
	}
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string {
	return "json"
}

// MsgPackCodec implements MessagePack serialization. Struct fields use their
// json tags so both codecs share one set of field names.
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	dec.UseLooseInterfaceDecoding(true)
	return dec.Decode(v)
}

func (c *MsgPackCodec) Name() string {
	return "msgpack"
}

// NewJSONCodec creates a compact JSON codec
func NewJSONCodec() Codec {
	return &JSONCodec{}
}

// NewIndentedJSONCodec creates a JSON codec that indents with two spaces
func NewIndentedJSONCodec() Codec {
	return &JSONCodec{Indent: "  "}
}

// NewMsgPackCodec creates a new MessagePack codec
func NewMsgPackCodec() Codec {
	return &MsgPackCodec{}
}

// DefaultSerializer produces the pretty-printed JSON the browser editor
// downloads and uploads
func DefaultSerializer() *Serializer {
	return NewSerializer(SerializationConfig{
		Codec:       NewIndentedJSONCodec(),
		Compression: CompressionNone,
	})
}

// ParseFormat builds a serializer from a name such as "json", "msgpack" or
// "json+gzip"
func ParseFormat(name string) (*Serializer, error) {
	codecName, compression, _ := strings.Cut(strings.ToLower(strings.TrimSpace(name)), "+")

	var codec Codec
	switch codecName {
	case "json", "":
		codec = NewIndentedJSONCodec()
	case "msgpack", "mpk":
		codec = NewMsgPackCodec()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	comp := CompressionType(compression)
	switch comp {
	case "":
		comp = CompressionNone
	case "gz":
		comp = CompressionGzip
	case "zst":
		comp = CompressionZstd
	case CompressionNone, CompressionGzip, CompressionZstd:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return NewSerializer(SerializationConfig{Codec: codec, Compression: comp}), nil
}

// FormatForPath picks a serializer from a file name: an optional .gz or .zst
// suffix after a .json, .msgpack or .mpk extension
func FormatForPath(path string) (*Serializer, error) {
	base := strings.ToLower(filepath.Base(path))

	compression := ""
	switch ext := filepath.Ext(base); ext {
	case ".gz", ".zst":
		compression = "+" + strings.TrimPrefix(ext, ".")
		base = strings.TrimSuffix(base, ext)
	}

	codec := strings.TrimPrefix(filepath.Ext(base), ".")
	if codec == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	s, err := ParseFormat(codec + compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return s, nil
}
