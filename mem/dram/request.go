package dram

// AddrAll marks an address level that covers every element of that level.
const AddrAll = -1

// RequestType is the logical type of a request.
type RequestType int

// A list of all request types.
const (
	ReqRead RequestType = iota
	ReqWrite
	ReqRefresh
	ReqRFM
	ReqVictimRowRefresh
	ReqOther
)

var requestTypeNames = []string{
	"Read", "Write", "Refresh", "RFM", "VictimRowRefresh", "Other",
}

func (t RequestType) String() string {
	if t < 0 || int(t) >= len(requestTypeNames) {
		return "Unknown"
	}

	return requestTypeNames[t]
}

// Request is a memory access waiting in the controller.
type Request struct {
	// AddrVec holds one index per device level. A level may be AddrAll.
	AddrVec []int
	Type    RequestType

	// FinalCommand is the command that completes the request. Command is the
	// next command to issue for it, resolved by the scheduler each cycle.
	FinalCommand int
	Command      int

	SourceID int
	Arrive   int64
	Depart   int64

	// Ready is scratch state set by the scheduler while comparing.
	Ready bool

	Callback func(req *Request)
}

// IsReadWrite returns true if the request is ordinary read or write traffic.
func (r *Request) IsReadWrite() bool {
	return r.Type == ReqRead || r.Type == ReqWrite
}

// ReqBuffer is a bounded, arrival-ordered buffer of requests.
type ReqBuffer struct {
	capacity int
	reqs     []*Request
}

// NewReqBuffer creates a buffer that holds at most capacity requests.
func NewReqBuffer(capacity int) *ReqBuffer {
	return &ReqBuffer{
		capacity: capacity,
		reqs:     make([]*Request, 0, capacity),
	}
}

// Len returns the number of buffered requests.
func (b *ReqBuffer) Len() int {
	return len(b.reqs)
}

// Capacity returns the maximum number of requests.
func (b *ReqBuffer) Capacity() int {
	return b.capacity
}

// Enqueue appends a request. It returns false if the buffer is full.
func (b *ReqBuffer) Enqueue(req *Request) bool {
	if len(b.reqs) >= b.capacity {
		return false
	}

	b.reqs = append(b.reqs, req)

	return true
}

// Remove deletes a request from the buffer, keeping the order of the rest.
func (b *ReqBuffer) Remove(req *Request) bool {
	for i, r := range b.reqs {
		if r == req {
			b.reqs = append(b.reqs[:i], b.reqs[i+1:]...)
			return true
		}
	}

	return false
}

// Requests returns the buffered requests in arrival order. The slice must not
// be modified.
func (b *ReqBuffer) Requests() []*Request {
	return b.reqs
}
