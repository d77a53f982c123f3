// Package remote implements the optional remote ARM-execution client
// (spec.md §4.10, §6): a length-prefixed TCP protocol for running
// compiled code on a device this process cannot natively execute on
// (e.g. fuzzing AArch64 from an x86-64 host). Wire format translated
// directly from original_source/src/code_exe_server_conn.rs's
// send_exe_and_input, keeping its exact field order and big-endian
// encoding; only the Rust-specific RefCell/TcpStream plumbing is
// replaced with an idiomatic Go net.Conn wrapper guarded by a mutex, in
// the style the teacher uses for its own network/DMX-channel (enet_test)
// helpers elsewhere in the codebase.
package remote

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
)

// msgTag is the single-byte message type every request starts with.
const msgTag = 0x66

// ReturnType packs the executed function's return shape exactly as
// code_exe_server_conn.rs documents it: bits 0-1 base type (signed int,
// unsigned int, float, poly), bits 2-4 ln2(bit size), bits 5-7
// ln2(simd count)+1 (0 for non-SIMD), bits 8-9 array count minus one.
type ReturnType uint32

const (
	BaseSignedInt   = 0
	BaseUnsignedInt = 1
	BaseFloat       = 2
	BasePoly        = 3
)

// PackReturnType composes a ReturnType from its component fields.
func PackReturnType(base uint32, log2BitSize uint32, log2SIMDCountPlus1 uint32, arrayCountMinus1 uint32) ReturnType {
	return ReturnType((base & 0x3) | (log2BitSize&0x7)<<2 | (log2SIMDCountPlus1&0x7)<<5 | (arrayCountMinus1&0x3)<<8)
}

// ExecRequest is one "run this code with these inputs" message.
type ExecRequest struct {
	ReturnType ReturnType
	FuncOffset uint32
	Code       []byte
	IVals      []int32
	FVals      []float32
	DVals      []float64
}

// Client is a connection to a code-exec server. All requests are
// serialized over the one TCP connection, the way the prototype's
// RefCell<TcpStream> only ever supported a single in-flight request.
type Client struct {
	mu   sync.Mutex
	conn net.Conn
}

// Dial connects to a code-exec server at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Exec sends one request and returns the server's raw reply bytes: the
// captured return-register bytes for the executed function.
func (c *Client) Exec(req ExecRequest) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := encodeRequest(req)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(msg)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		return nil, fmt.Errorf("remote: write length prefix: %w", err)
	}
	if _, err := c.conn.Write(msg); err != nil {
		return nil, fmt.Errorf("remote: write message: %w", err)
	}

	var replyLenBuf [4]byte
	if _, err := readFull(c.conn, replyLenBuf[:]); err != nil {
		return nil, fmt.Errorf("remote: read reply length: %w", err)
	}
	replyLen := binary.BigEndian.Uint32(replyLenBuf[:])

	reply := make([]byte, replyLen)
	if _, err := readFull(c.conn, reply); err != nil {
		return nil, fmt.Errorf("remote: read reply body: %w", err)
	}
	return reply, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// encodeRequest lays out the message body exactly as
// code_exe_server_conn.rs's send_exe_and_input does: tag byte,
// return_type (be u32), func_offset (be u32), code length + bytes, then
// i_vals/f_vals/d_vals each as a be u32 count followed by their elements —
// big-endian for the integer i_vals, but little-endian raw IEEE-754 bits
// for f_vals/d_vals (spec.md §6: "big-endian multi-byte integers;
// little-endian floats/doubles").
func encodeRequest(req ExecRequest) []byte {
	out := make([]byte, 0, 1+4+4+4+len(req.Code)+4+len(req.IVals)*4+4+len(req.FVals)*4+4+len(req.DVals)*8)
	out = append(out, msgTag)
	out = appendU32(out, uint32(req.ReturnType))
	out = appendU32(out, req.FuncOffset)

	out = appendU32(out, uint32(len(req.Code)))
	out = append(out, req.Code...)

	out = appendU32(out, uint32(len(req.IVals)))
	for _, v := range req.IVals {
		out = appendU32(out, uint32(v))
	}

	out = appendU32(out, uint32(len(req.FVals)))
	for _, v := range req.FVals {
		out = appendF32LE(out, float32Bits(v))
	}

	out = appendU32(out, uint32(len(req.DVals)))
	for _, v := range req.DVals {
		out = appendF64LE(out, float64Bits(v))
	}

	return out
}

func appendU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendU64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}

func appendF32LE(out []byte, bits uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], bits)
	return append(out, b[:]...)
}

func appendF64LE(out []byte, bits uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], bits)
	return append(out, b[:]...)
}
