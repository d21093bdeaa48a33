// Package fetch orchestrates loading the source page: cache consultation
// (including stale-while-revalidate adoption), a direct network attempt,
// and a proxy fallback.
//
// The orchestrator owns the decision of when to trust the cache versus
// refresh; rendering is delegated to a Reporter so the transport logic
// stays free of output concerns.
package fetch
