// Package generation defines the interfaces and deterministic logic of the
// knowledge-card generation pipeline: prompt construction, the upstream
// generator boundaries, and recovery of a structured card record from raw
// model output. Provider integrations live under internal/platform and are
// injected into the service layer through the interfaces declared here,
// keeping provider non-determinism out of the parsing logic.
package generation
