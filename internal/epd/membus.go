package epd

import "sync"

// Op is one recorded command with the data written after it.
type Op struct {
	Cmd  byte
	Data []byte
}

// MemBus is a Bus that records traffic instead of talking to hardware. It
// backs render-only runs and tests.
type MemBus struct {
	mu sync.Mutex

	// BusyPolls is how many polls report busy before the bus turns idle,
	// counted per wait.
	BusyPolls int

	ops     []Op
	resets  []bool
	polls   int
	pending int
}

// NewMemBus returns an idle MemBus.
func NewMemBus() *MemBus {
	return &MemBus{}
}

func (m *MemBus) WriteCommand(cmd byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, Op{Cmd: cmd})
	return nil
}

func (m *MemBus) WriteData(b byte) error {
	return m.WriteDataBlock([]byte{b})
}

func (m *MemBus) WriteDataBlock(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ops) == 0 {
		// Data before any command is dropped by the controller too.
		return nil
	}
	cur := &m.ops[len(m.ops)-1]
	cur.Data = append(cur.Data, data...)
	return nil
}

func (m *MemBus) Busy() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	if m.pending < m.BusyPolls {
		m.pending++
		return true, nil
	}
	m.pending = 0
	return false, nil
}

func (m *MemBus) SetReset(active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, active)
	return nil
}

// Ops returns a copy of the recorded commands.
func (m *MemBus) Ops() []Op {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Op, len(m.ops))
	for i, op := range m.ops {
		out[i] = Op{Cmd: op.Cmd, Data: append([]byte(nil), op.Data...)}
	}
	return out
}

// Data returns the payload of the last data transmission, which is the
// frame streamed by the most recent Flush.
func (m *MemBus) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.ops) - 1; i >= 0; i-- {
		if m.ops[i].Cmd == dataStartTransmission1 && len(m.ops[i].Data) > 0 {
			return append([]byte(nil), m.ops[i].Data...)
		}
	}
	return nil
}

// Resets returns the reset line writes.
func (m *MemBus) Resets() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.resets...)
}

// Polls returns how many times Busy was called.
func (m *MemBus) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

// Reset forgets everything recorded so far.
func (m *MemBus) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops, m.resets = nil, nil
	m.polls, m.pending = 0, 0
}

var _ Bus = &MemBus{}
