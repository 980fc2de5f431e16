package protocol

// InputBuffer is a queue of received bytes the frame reader consumes from
type InputBuffer interface {
	// Data returns the unread bytes, contiguous
	Data() []byte
	// Available returns len(Data())
	Available() int
	// Pop drops n bytes from the front
	Pop(n int)
}

// OutputBuffer accumulates an outgoing frame
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	// Update patches an already written byte (the frame length)
	Update(pos int, val byte)
	DataSince(pos int) []byte
}

// ScratchOutput is a fixed buffer for building frames without allocation.
// Writes past MessageMax are truncated.
type ScratchOutput struct {
	buf [MessageMax]byte
	pos int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is a ring of received bytes. Every slot is usable.
type FifoBuffer struct {
	buf   []byte
	head  int // next read
	count int
	flat  []byte
}

func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the number stored
func (f *FifoBuffer) Write(data []byte) int {
	n := 0
	for _, b := range data {
		if f.count == len(f.buf) {
			break
		}
		f.buf[(f.head+f.count)%len(f.buf)] = b
		f.count++
		n++
	}
	return n
}

func (f *FifoBuffer) Available() int {
	return f.count
}

// Free returns the room left for Write
func (f *FifoBuffer) Free() int {
	return len(f.buf) - f.count
}

// Data returns the unread bytes. When the ring wraps they are copied into a
// reused flat buffer, valid until the next Write or Pop.
func (f *FifoBuffer) Data() []byte {
	end := f.head + f.count
	if end <= len(f.buf) {
		return f.buf[f.head:end]
	}
	if cap(f.flat) < len(f.buf) {
		f.flat = make([]byte, len(f.buf))
	}
	first := copy(f.flat[:f.count], f.buf[f.head:])
	copy(f.flat[first:f.count], f.buf[:end-len(f.buf)])
	return f.flat[:f.count]
}

func (f *FifoBuffer) Pop(n int) {
	if n > f.count {
		n = f.count
	}
	if n <= 0 {
		return
	}
	f.head = (f.head + n) % len(f.buf)
	f.count -= n
}

func (f *FifoBuffer) Reset() {
	f.head = 0
	f.count = 0
}
