// Package dashboard renders lab artifacts into the static site deployed via
// the hosting branch: an append-only history.json (capped at the last 200
// runs) and a dependency-free index.html.
//
// The renderer never talks to the network — it only reads the artifacts
// directory. Watch re-renders whenever artifacts change, which makes local
// iteration on the gate pleasant.
package dashboard
