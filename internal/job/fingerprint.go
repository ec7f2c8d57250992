package job

import "github.com/mitchellh/hashstructure"

// Fingerprint hashes the DAG's task shape (ids, resource draws, and edges)
// into a single uint64, letting a batch run de-duplicate or compare DAGs
// across seeds without holding every generated DAG in memory.
func (d *DAG) Fingerprint() (uint64, error) {
	return hashstructure.Hash(d, nil)
}
