package grammar

import "github.com/cnf/structhash"

// Fingerprint returns a stable content digest of the grammar's ordered
// production list. Two grammars fed the same rules in the same order
// produce the same fingerprint regardless of epoch, which lets the
// persistence layer (internal/store) tell whether a saved session's rule
// text has actually changed since it was last snapshotted, instead of
// relying on the epoch counter, which also advances on a no-op Clear.
func (g *Grammar) Fingerprint() (string, error) {
	return structhash.Hash(struct {
		Start       string
		Productions []Production
	}{
		Start:       g.start,
		Productions: g.productions,
	}, 1)
}
