package importer

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// CodeSequencer allocates unique project and employee codes for one import
// run. It replaces the source system's module-global counters: state is
// explicit, injected into the orchestrator, and seeded from what storage
// already holds so re-imports never collide.
type CodeSequencer struct {
	mu sync.Mutex

	// per-client project code counters, e.g. "ACM" -> 12 means ACM012 taken
	projectCounters map[string]int
	internalCounter int
	employeeCounter int64
}

// NewCodeSequencer creates a sequencer. employeeSeed should carry a
// time-derived component so employee codes stay unique across sessions
// even when storage state is unavailable.
func NewCodeSequencer(employeeSeed int64) *CodeSequencer {
	return &CodeSequencer{
		projectCounters: make(map[string]int),
		employeeCounter: employeeSeed,
	}
}

// ObserveProjectCode records an existing project code so future allocations
// start above it. Codes look like "ACM012" or "INT3".
func (s *CodeSequencer) ObserveProjectCode(code string) {
	prefix, num, ok := splitCode(code)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefix == "INT" {
		if num > s.internalCounter {
			s.internalCounter = num
		}
		return
	}
	if num > s.projectCounters[prefix] {
		s.projectCounters[prefix] = num
	}
}

// ObserveEmployeeCode records an existing employee code ("E10234").
func (s *CodeSequencer) ObserveEmployeeCode(code string) {
	prefix, num, ok := splitCode(code)
	if !ok || prefix != "E" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if int64(num) > s.employeeCounter {
		s.employeeCounter = int64(num)
	}
}

// NextProjectCode allocates the next code for a client prefix, zero-padded
// to three digits: "ACM001", "ACM002", ...
func (s *CodeSequencer) NextProjectCode(clientPrefix string) string {
	prefix := strings.ToUpper(strings.TrimSpace(clientPrefix))
	if prefix == "" {
		prefix = "PRJ"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectCounters[prefix]++
	return fmt.Sprintf("%s%03d", prefix, s.projectCounters[prefix])
}

// NextInternalCode allocates the next "INT{counter}" code for projects
// synthesized from internal/non-project markers.
func (s *CodeSequencer) NextInternalCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.internalCounter++
	return fmt.Sprintf("INT%d", s.internalCounter)
}

// NextEmployeeCode allocates the next "E{counter}" employee code.
func (s *CodeSequencer) NextEmployeeCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeeCounter++
	return fmt.Sprintf("E%d", s.employeeCounter)
}

// splitCode splits a code into its alphabetic prefix and numeric suffix.
func splitCode(code string) (string, int, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	i := 0
	for i < len(code) && code[i] >= 'A' && code[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(code) {
		return "", 0, false
	}
	num, err := strconv.Atoi(code[i:])
	if err != nil {
		return "", 0, false
	}
	return code[:i], num, true
}
