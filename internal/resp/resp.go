// Package resp implements the RESP (Redis Serialization Protocol) frame
// model: a discriminated Frame value plus a decoding Reader and an
// encoding Writer. The storage core treats frames as opaque values
// except for bulk strings, whose payload it reads as text.
package resp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
)

var (
	// ErrInvalidProtocol indicates malformed RESP data.
	ErrInvalidProtocol = errors.New("resp: invalid RESP format")
	// ErrUnexpectedType indicates an unexpected RESP type.
	ErrUnexpectedType = errors.New("resp: unexpected type")
)

// RESP type constants.
const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

const (
	maxBulkStringLength = 512 * 1024 * 1024 // 512 MiB
	maxArrayLength      = 1_000_000
	defaultBufSize      = 64 * 1024 // 64 KiB read/write buffers
)

// Frame represents a single RESP protocol value. Exactly one shape is
// meaningful for a given Type: Str for simple/error/bulk strings, Num
// for integers, Array for arrays. Null marks the null bulk string or
// null array.
type Frame struct {
	Type  byte
	Str   string
	Num   int64
	Array []Frame
	Null  bool
}

// SimpleString builds a simple-string frame (+...).
func SimpleString(s string) Frame {
	return Frame{Type: TypeSimpleString, Str: s}
}

// ErrorFrame builds an error frame (-...).
func ErrorFrame(msg string) Frame {
	return Frame{Type: TypeError, Str: msg}
}

// Integer builds an integer frame (:...).
func Integer(n int64) Frame {
	return Frame{Type: TypeInteger, Num: n}
}

// BulkString builds a bulk-string frame carrying the given payload.
func BulkString(s string) Frame {
	return Frame{Type: TypeBulkString, Str: s}
}

// NullBulk builds the null bulk string ($-1).
func NullBulk() Frame {
	return Frame{Type: TypeBulkString, Null: true}
}

// NewArray builds an array frame from the given elements.
func NewArray(items ...Frame) Frame {
	if items == nil {
		items = []Frame{}
	}
	return Frame{Type: TypeArray, Array: items}
}

// IsBulk reports whether the frame is a non-null bulk string.
func (f Frame) IsBulk() bool {
	return f.Type == TypeBulkString && !f.Null
}

// Shared byte slices to avoid allocations on every write.
var (
	crlfBytes = []byte("\r\n")
	nullBytes = []byte("$-1\r\n")
	nullArray = []byte("*-1\r\n")
	errPrefix = []byte("-ERR ")
	okBytes   = []byte("+OK\r\n")
)

// intBufPool provides scratch buffers for integer formatting.
var intBufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 20) // max int64 is 19 digits + sign
		return &b
	},
}

// Reader decodes RESP frames from a stream.
type Reader struct {
	rd *bufio.Reader
}

// NewReader creates a new RESP Reader with an optimised buffer.
func NewReader(r io.Reader) *Reader {
	return &Reader{rd: bufio.NewReaderSize(r, defaultBufSize)}
}

// Buffered returns the number of bytes that can be read from the
// underlying buffer without issuing a syscall. This is used by the
// server to detect pipelined commands.
func (r *Reader) Buffered() int {
	return r.rd.Buffered()
}

// ReadFrame reads a single RESP frame from the stream.
func (r *Reader) ReadFrame() (Frame, error) {
	typeByte, err := r.rd.ReadByte()
	if err != nil {
		return Frame{}, err
	}

	switch typeByte {
	case TypeSimpleString:
		return r.readSimpleString()
	case TypeError:
		return r.readError()
	case TypeInteger:
		return r.readInteger()
	case TypeBulkString:
		return r.readBulkString()
	case TypeArray:
		return r.readArray()
	default:
		return Frame{}, fmt.Errorf("%w: unknown type %c", ErrInvalidProtocol, typeByte)
	}
}

// readLine reads a line until \r\n.
func (r *Reader) readLine() (string, error) {
	line, err := r.rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return "", ErrInvalidProtocol
	}
	return line[:len(line)-2], nil
}

func (r *Reader) readSimpleString() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: TypeSimpleString, Str: line}, nil
}

func (r *Reader) readError() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: TypeError, Str: line}, nil
}

func (r *Reader) readInteger() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	num, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: invalid integer", ErrInvalidProtocol)
	}
	return Frame{Type: TypeInteger, Num: num}, nil
}

func (r *Reader) readBulkString() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	length, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: invalid bulk string length", ErrInvalidProtocol)
	}

	// Null bulk string
	if length == -1 {
		return Frame{Type: TypeBulkString, Null: true}, nil
	}

	if length < 0 {
		return Frame{}, fmt.Errorf("%w: negative bulk string length", ErrInvalidProtocol)
	}
	if length > maxBulkStringLength {
		return Frame{}, fmt.Errorf("%w: bulk string too large", ErrInvalidProtocol)
	}

	// Read the data + \r\n
	data := make([]byte, length+2)
	_, err = io.ReadFull(r.rd, data)
	if err != nil {
		return Frame{}, err
	}

	if data[length] != '\r' || data[length+1] != '\n' {
		return Frame{}, ErrInvalidProtocol
	}

	return Frame{Type: TypeBulkString, Str: string(data[:length])}, nil
}

func (r *Reader) readArray() (Frame, error) {
	line, err := r.readLine()
	if err != nil {
		return Frame{}, err
	}
	count, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: invalid array length", ErrInvalidProtocol)
	}

	// Null array
	if count == -1 {
		return Frame{Type: TypeArray, Null: true}, nil
	}

	if count < 0 {
		return Frame{}, fmt.Errorf("%w: negative array length", ErrInvalidProtocol)
	}
	if count > maxArrayLength {
		return Frame{}, fmt.Errorf("%w: array too large", ErrInvalidProtocol)
	}

	array := make([]Frame, count)
	for i := int64(0); i < count; i++ {
		f, err := r.ReadFrame()
		if err != nil {
			return Frame{}, err
		}
		array[i] = f
	}

	return Frame{Type: TypeArray, Array: array}, nil
}

// Writer encodes RESP frames onto a stream.
// By default every Write* call flushes immediately (autoFlush=true).
// Call SetAutoFlush(false) before a pipeline batch, then Flush()
// once at the end, to amortise syscalls across many responses.
type Writer struct {
	wr        *bufio.Writer
	autoFlush bool
}

// NewWriter creates a new RESP Writer with an optimised buffer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{wr: bufio.NewWriterSize(w, defaultBufSize), autoFlush: true}
}

// SetAutoFlush controls whether each Write* call flushes automatically.
// Disable it for pipeline batches and call Flush() explicitly.
func (w *Writer) SetAutoFlush(on bool) { w.autoFlush = on }

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error { return w.wr.Flush() }

// flush conditionally flushes based on autoFlush setting.
func (w *Writer) flush() error {
	if w.autoFlush {
		return w.wr.Flush()
	}
	return nil
}

// writeTypedInt appends the integer n (with a preceding type byte) to
// the bufio.Writer using strconv.AppendInt instead of fmt.Fprintf.
func (w *Writer) writeTypedInt(prefix byte, n int64) error {
	if err := w.wr.WriteByte(prefix); err != nil {
		return err
	}
	bp := intBufPool.Get().(*[]byte)
	b := strconv.AppendInt((*bp)[:0], n, 10)
	_, err := w.wr.Write(b)
	*bp = b
	intBufPool.Put(bp)
	if err != nil {
		return err
	}
	_, err = w.wr.Write(crlfBytes)
	return err
}

// WriteFrame encodes a single frame. Arrays are encoded recursively.
func (w *Writer) WriteFrame(f Frame) error {
	if err := w.writeFrame(f); err != nil {
		return err
	}
	return w.flush()
}

func (w *Writer) writeFrame(f Frame) error {
	switch f.Type {
	case TypeSimpleString:
		if err := w.wr.WriteByte('+'); err != nil {
			return err
		}
		if _, err := w.wr.WriteString(f.Str); err != nil {
			return err
		}
		_, err := w.wr.Write(crlfBytes)
		return err
	case TypeError:
		if err := w.wr.WriteByte('-'); err != nil {
			return err
		}
		if _, err := w.wr.WriteString(f.Str); err != nil {
			return err
		}
		_, err := w.wr.Write(crlfBytes)
		return err
	case TypeInteger:
		return w.writeTypedInt(':', f.Num)
	case TypeBulkString:
		if f.Null {
			_, err := w.wr.Write(nullBytes)
			return err
		}
		if err := w.writeTypedInt('$', int64(len(f.Str))); err != nil {
			return err
		}
		if _, err := w.wr.WriteString(f.Str); err != nil {
			return err
		}
		_, err := w.wr.Write(crlfBytes)
		return err
	case TypeArray:
		if f.Null {
			_, err := w.wr.Write(nullArray)
			return err
		}
		if err := w.writeTypedInt('*', int64(len(f.Array))); err != nil {
			return err
		}
		for _, item := range f.Array {
			if err := w.writeFrame(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: cannot encode type %c", ErrUnexpectedType, f.Type)
	}
}

// WriteSimpleString writes a simple string response (+OK\r\n fast-path).
func (w *Writer) WriteSimpleString(s string) error {
	if s == "OK" {
		_, err := w.wr.Write(okBytes)
		if err != nil {
			return err
		}
		return w.flush()
	}
	if err := w.wr.WriteByte('+'); err != nil {
		return err
	}
	if _, err := w.wr.WriteString(s); err != nil {
		return err
	}
	if _, err := w.wr.Write(crlfBytes); err != nil {
		return err
	}
	return w.flush()
}

// WriteError writes an error response with the standard ERR prefix.
func (w *Writer) WriteError(msg string) error {
	if _, err := w.wr.Write(errPrefix); err != nil {
		return err
	}
	if _, err := w.wr.WriteString(msg); err != nil {
		return err
	}
	if _, err := w.wr.Write(crlfBytes); err != nil {
		return err
	}
	return w.flush()
}

// WriteInteger writes an integer response.
func (w *Writer) WriteInteger(n int64) error {
	if err := w.writeTypedInt(':', n); err != nil {
		return err
	}
	return w.flush()
}

// WriteBulkString writes a bulk string response.
func (w *Writer) WriteBulkString(s []byte) error {
	if err := w.writeTypedInt('$', int64(len(s))); err != nil {
		return err
	}
	if _, err := w.wr.Write(s); err != nil {
		return err
	}
	if _, err := w.wr.Write(crlfBytes); err != nil {
		return err
	}
	return w.flush()
}

// WriteNull writes a null bulk string response.
func (w *Writer) WriteNull() error {
	if _, err := w.wr.Write(nullBytes); err != nil {
		return err
	}
	return w.flush()
}

// WriteArray writes an array of bulk strings.
func (w *Writer) WriteArray(items [][]byte) error {
	if err := w.writeTypedInt('*', int64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.writeTypedInt('$', int64(len(item))); err != nil {
			return err
		}
		if _, err := w.wr.Write(item); err != nil {
			return err
		}
		if _, err := w.wr.Write(crlfBytes); err != nil {
			return err
		}
	}
	return w.flush()
}

// WriteStringArray writes an array of strings (avoids []byte conversion
// allocations).
func (w *Writer) WriteStringArray(items []string) error {
	if err := w.writeTypedInt('*', int64(len(items))); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.writeTypedInt('$', int64(len(item))); err != nil {
			return err
		}
		if _, err := w.wr.WriteString(item); err != nil {
			return err
		}
		if _, err := w.wr.Write(crlfBytes); err != nil {
			return err
		}
	}
	return w.flush()
}
