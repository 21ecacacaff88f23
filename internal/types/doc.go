/*
Package types defines the data model shared by the workbench packages.

# Artifacts

Artifact:
  - Content of the primary output pane
  - Kind tag (None, Go SSA, CFSM, MiGo) and text, always replaced together
  - Optional elapsed time and Graphviz graph

SecondaryArtifact:
  - Result of a chained action (Gong code generation, synthesis)
  - Only ever displayed inside an overlay
  - Synthesis adds the global graph and per-participant machines views

# Requests

PendingRequest:
  - Action, endpoint, payload and query parameters
  - Lane and sequence number used to drop stale completions

Outcome:
  - TextOutcome for plain-text endpoints
  - RecordOutcome for structured endpoints
  - MalformedOutcome when a structured body cannot be decoded
  - TransportFailure when no successful response arrived

# Endpoints

Endpoint and FieldMap describe where an action is sent and which JSON
fields (JMESPath expressions) carry its results. Defaults match the
dingo-hunter webservice and live in the config package.
*/
package types
