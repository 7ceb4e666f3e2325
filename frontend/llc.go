package frontend

// LLC is the last-level cache of the front end. It owns the miss status
// holding registers of every core and limits the misses of blacklisted
// cores.
type LLC struct {
	mshrs int

	blacklisted  []bool
	blacklistMax []int
	inflight     []int
}

// NewLLC creates an LLC for a number of cores, each with the given number of
// MSHRs.
func NewLLC(numCores, mshrs int) *LLC {
	l := &LLC{
		mshrs:        mshrs,
		blacklisted:  make([]bool, numCores),
		blacklistMax: make([]int, numCores),
		inflight:     make([]int, numCores),
	}

	for i := range l.blacklistMax {
		l.blacklistMax[i] = mshrs
	}

	return l
}

// AddBlacklist limits the misses of a core to its blacklist MSHR limit.
func (l *LLC) AddBlacklist(core int) {
	l.blacklisted[core] = true
}

// EraseBlacklist removes the limit of a core.
func (l *LLC) EraseBlacklist(core int) {
	l.blacklisted[core] = false
}

// IsBlacklisted tells whether a core is limited.
func (l *LLC) IsBlacklisted(core int) bool {
	return l.blacklisted[core]
}

// BlacklistMaxMSHRs returns the number of MSHRs a blacklisted core may use.
func (l *LLC) BlacklistMaxMSHRs(core int) int {
	return l.blacklistMax[core]
}

// SetBlacklistMaxMSHRs sets the number of MSHRs a blacklisted core may use.
func (l *LLC) SetBlacklistMaxMSHRs(core, n int) {
	l.blacklistMax[core] = max(n, 0)
}

// MSHRLimit returns the number of MSHRs a core may currently use.
func (l *LLC) MSHRLimit(core int) int {
	if l.blacklisted[core] {
		return min(l.mshrs, l.blacklistMax[core])
	}

	return l.mshrs
}

// Inflight returns the number of outstanding misses of a core.
func (l *LLC) Inflight(core int) int {
	return l.inflight[core]
}

func (l *LLC) canAllocate(core int) bool {
	return l.inflight[core] < l.MSHRLimit(core)
}

func (l *LLC) allocate(core int) {
	l.inflight[core]++
}

func (l *LLC) release(core int) {
	if l.inflight[core] == 0 {
		panic("releasing an MSHR that is not allocated")
	}

	l.inflight[core]--
}
