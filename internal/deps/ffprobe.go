package deps

// FFprobeRequirement describes the video metadata backend.
func FFprobeRequirement(binary string) Requirement {
	return Requirement{
		Name:        "FFprobe",
		Command:     binary,
		Description: "Reads video creation dates",
		Optional:    true,
	}
}

// CheckFFprobe reports whether the configured ffprobe binary can be executed.
// Without it video timestamps cannot be resolved, but runs still proceed.
func CheckFFprobe(binary string) Status {
	return Check(FFprobeRequirement(binary))
}
