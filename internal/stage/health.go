package stage

// Health summarizes the readiness of a pipeline component.
type Health struct {
	Name   string
	Ready  bool
	Detail string
	// Degraded marks a component that works with reduced capability.
	Degraded bool
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Degraded constructs a ready Health record that runs with reduced capability.
func Degraded(name, detail string) Health {
	return Health{Name: name, Ready: true, Degraded: true, Detail: detail}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
