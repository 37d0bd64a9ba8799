package telemetry

// NewSamplerForTest exposes newSampler to the external test package
var NewSamplerForTest = newSampler
