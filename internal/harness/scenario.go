package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aryankumar/tempbench/internal/util"
)

// SequentialName is the runner name of the single-threaded scenario
const SequentialName = "sequential"

// Scenario selects a runner strategy. PoolSize zero means sequential.
type Scenario struct {
	Name     string `json:"name" yaml:"name"`
	PoolSize int    `json:"poolSize" yaml:"poolSize"`
}

// Sequential reports whether the scenario runs without a pool
func (s Scenario) Sequential() bool {
	return s.PoolSize == 0
}

// String returns the scenario name
func (s Scenario) String() string {
	return s.Name
}

// PoolName is the runner name used for a pool of the given size
func PoolName(size int) string {
	return fmt.Sprintf("pool-%d", size)
}

// SequentialScenario returns the single-threaded scenario
func SequentialScenario() Scenario {
	return Scenario{Name: SequentialName}
}

// PoolScenario returns the scenario for a pool of the given size
func PoolScenario(size int) Scenario {
	return Scenario{Name: PoolName(size), PoolSize: size}
}

// DefaultScenarios returns sequential followed by pools of 3, 9 and 27 workers
func DefaultScenarios() []Scenario {
	return []Scenario{
		SequentialScenario(),
		PoolScenario(3),
		PoolScenario(9),
		PoolScenario(27),
	}
}

// ParseScenarios converts "sequential"/"seq" and positive integers into
// scenarios, keeping their order
func ParseScenarios(specs []string) ([]Scenario, error) {
	if len(specs) == 0 {
		return DefaultScenarios(), nil
	}

	scenarios := make([]Scenario, 0, len(specs))
	for _, raw := range specs {
		s := strings.ToLower(strings.TrimSpace(raw))
		switch s {
		case SequentialName, "seq":
			scenarios = append(scenarios, SequentialScenario())
			continue
		}

		size, err := strconv.Atoi(strings.TrimPrefix(s, "pool-"))
		if err != nil || size <= 0 {
			return nil, util.NewValidationError("scenarios", raw, `must be "sequential" or a positive pool size`)
		}
		scenarios = append(scenarios, PoolScenario(size))
	}

	return scenarios, nil
}
