/*
Package executor sends analysis requests to the workbench server.

# Requests

Every action is a single HTTP request, POST by default, with the payload as a
text/plain body. Synthesis adds the selected channel as the chan query
parameter. Requests are never retried.

# Outcomes

Dispatch validates the reply at the boundary and returns exactly one of:
  - types.TextOutcome for plain-text endpoints (ssa, load)
  - types.RecordOutcome when a structured body carries its result field
  - types.MalformedOutcome for invalid JSON, null, or a missing or non-string result
  - types.TransportFailure for connection errors and non-2xx statuses

Record fields are selected with JMESPath expressions from the endpoint's
FieldMap, so a server that nests its results can be addressed without code
changes:

	fields := types.FieldMap{Result: "data.cfsm", Time: "meta.elapsed"}

# Discovery

Discover fetches the index page and reads the options of the examples and
chan-cfsm selectors.

# TLS Configuration

TLSConfig supports custom CA certificates, client certificates (mTLS) and
InsecureSkipVerify for development servers.
*/
package executor
