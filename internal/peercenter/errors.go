package peercenter

import "errors"

// ErrRPCTransport is a failure to reach the center peer at all (dial, i/o,
// timeout) — the periodic job runner backs off 3s on this.
var ErrRPCTransport = errors.New("peercenter: rpc transport error")

// ErrRPCApplication is an application-level error returned by a reachable
// center peer. Since the transport itself is healthy, the runner's 3s
// backoff does not apply: the fetch job logs and retries after 1s, and the
// report job logs and keeps its normal 5s cadence.
var ErrRPCApplication = errors.New("peercenter: rpc application error")
