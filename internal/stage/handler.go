package stage

import "context"

// HealthChecker is implemented by pipeline components that can report readiness.
type HealthChecker interface {
	HealthCheck(context.Context) Health
}

// CheckAll collects the health of each component in order.
func CheckAll(ctx context.Context, components ...HealthChecker) []Health {
	results := make([]Health, 0, len(components))
	for _, c := range components {
		if c == nil {
			continue
		}
		results = append(results, c.HealthCheck(ctx))
	}
	return results
}
