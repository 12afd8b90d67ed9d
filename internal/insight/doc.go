// Package insight produces weekly coaching insights and daily nudges.
//
// Each generator checks its date-keyed cache, asks the AI gateway on a miss
// and stores what it gets back. Whenever the model or the cache fails, a
// deterministic fallback computed from local statistics is returned instead
// and nothing is cached, so the next call tries the model again. The only
// error a generator returns is the context's, when the caller cancels.
package insight
