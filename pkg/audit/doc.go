// Package audit keeps a trail of authorization decisions.
//
// Recorder stamps events with an id, a timestamp and request-scoped
// attributes, then hands them to a Writer. AsyncWriter batches events in a
// background goroutine so the request path never waits on storage; when its
// buffer is full events are dropped and counted rather than blocking.
// MemoryStorage is a bounded in-process store that also answers queries for
// the audit routes.
//
//	storage := audit.NewMemoryStorage(10_000)
//	writer := audit.NewAsyncWriter(storage, audit.AsyncOptions{})
//	defer writer.Close(ctx)
//	rec := audit.NewRecorder(writer,
//		audit.WithRequestIDExtractor(requestid.FromContext),
//		audit.WithIPExtractor(clientip.FromContext),
//	)
package audit
