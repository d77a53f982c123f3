package remote

import (
	"encoding/binary"
	"net"
	"testing"
)

// startEchoServer accepts one connection, reads one length-prefixed
// message, and replies with a fixed 4-byte payload (simulating a captured
// SIMD return value), verifying the wire layout end-to-end.
func startEchoServer(t *testing.T, reply []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var lenBuf [4]byte
		if _, err := readFull(conn, lenBuf[:]); err != nil {
			return
		}
		msgLen := binary.BigEndian.Uint32(lenBuf[:])
		body := make([]byte, msgLen)
		if _, err := readFull(conn, body); err != nil {
			return
		}

		var outLen [4]byte
		binary.BigEndian.PutUint32(outLen[:], uint32(len(reply)))
		conn.Write(outLen[:])
		conn.Write(reply)
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func TestExecRoundTrip(t *testing.T) {
	addr := startEchoServer(t, []byte{1, 2, 3, 4})

	client, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	reply, err := client.Exec(ExecRequest{
		ReturnType: PackReturnType(BaseSignedInt, 2, 0, 0),
		FuncOffset: 16,
		Code:       []byte{0x90, 0x90, 0xc3},
		IVals:      []int32{1, 2},
		FVals:      []float32{1.5},
		DVals:      []float64{2.5},
	})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(reply) != 4 || reply[0] != 1 || reply[3] != 4 {
		t.Fatalf("unexpected reply %v", reply)
	}
}

func TestPackReturnTypeBitLayout(t *testing.T) {
	rt := PackReturnType(BaseFloat, 5, 3, 1)
	if rt&0x3 != BaseFloat {
		t.Fatalf("expected base type bits to survive packing")
	}
	if (rt>>2)&0x7 != 5 {
		t.Fatalf("expected bit-size field to survive packing")
	}
	if (rt>>5)&0x7 != 3 {
		t.Fatalf("expected simd-count field to survive packing")
	}
	if (rt>>8)&0x3 != 1 {
		t.Fatalf("expected array-count field to survive packing")
	}
}

func TestEncodeRequestFloatsAreLittleEndianIntsAreBigEndian(t *testing.T) {
	req := ExecRequest{IVals: []int32{0x01020304}, FVals: []float32{1.5}, DVals: []float64{2.5}}
	msg := encodeRequest(req)

	// tag(1) + return_type(4) + func_offset(4) + code_len(4) = 13, then
	// ivals_len(4) + one big-endian int32.
	off := 1 + 4 + 4 + 4 + 4
	if msg[off] != 0x01 || msg[off+1] != 0x02 || msg[off+2] != 0x03 || msg[off+3] != 0x04 {
		t.Fatalf("expected i_vals element big-endian, got % x", msg[off:off+4])
	}
	off += 4

	off += 4 // fvals_len
	wantF := binary.LittleEndian.Uint32(func() []byte {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], float32Bits(1.5))
		return b[:]
	}())
	gotF := binary.LittleEndian.Uint32(msg[off : off+4])
	if gotF != wantF {
		t.Fatalf("expected f_vals element little-endian bits %#x, got %#x", wantF, gotF)
	}
	// 1.5f32 is 0x3fc00000; little-endian on the wire puts the zero byte
	// first, catching a regression back to BigEndian even if a mismatched
	// width made the numeric check above pass by coincidence.
	if msg[off] != 0x00 || msg[off+3] != 0x3f {
		t.Fatalf("expected little-endian byte order, got % x", msg[off:off+4])
	}
	off += 4

	off += 4 // dvals_len
	gotD := binary.LittleEndian.Uint64(msg[off : off+8])
	if gotD != float64Bits(2.5) {
		t.Fatalf("expected d_vals element little-endian bits %#x, got %#x", float64Bits(2.5), gotD)
	}
}

func TestEncodeRequestLengthMatchesFields(t *testing.T) {
	req := ExecRequest{Code: []byte{1, 2, 3}, IVals: []int32{1}, FVals: []float32{1}, DVals: []float64{1}}
	msg := encodeRequest(req)
	// tag(1) + return_type(4) + func_offset(4) + code_len(4)+3 + ivals_len(4)+4 + fvals_len(4)+4 + dvals_len(4)+8
	want := 1 + 4 + 4 + 4 + 3 + 4 + 4 + 4 + 4 + 4 + 8
	if len(msg) != want {
		t.Fatalf("expected encoded length %d, got %d", want, len(msg))
	}
	if msg[0] != msgTag {
		t.Fatalf("expected first byte to be the message tag %#x, got %#x", msgTag, msg[0])
	}
}
