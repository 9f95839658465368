package store

import (
	"time"

	"github.com/google/uuid"
)

// BuildRun is the durable record of one extraction-through-manifest
// cycle: how many keys were pulled out of sources, whether the id map
// derivation hit a collision, and which manifest release it produced.
type BuildRun struct {
	ID                uuid.UUID `db:"id"`
	ProjectSalt       string    `db:"project_salt"`
	StartedAt         time.Time `db:"started_at"`
	FinishedAt        time.Time `db:"finished_at"`
	KeyCount          int       `db:"key_count"`
	CollisionCount    int       `db:"collision_count"`
	IDMapHash         string    `db:"id_map_hash"`
	ManifestReleaseID string    `db:"manifest_release_id"`
}

// NewBuildRun starts a run with a fresh id and the given start time.
func NewBuildRun(projectSalt string, startedAt time.Time) BuildRun {
	return BuildRun{
		ID:          uuid.New(),
		ProjectSalt: projectSalt,
		StartedAt:   startedAt,
	}
}

// Complete fills in the fields only known once extraction and manifest
// assembly have both finished.
func (r BuildRun) Complete(finishedAt time.Time, keyCount, collisionCount int, idMapHash, manifestReleaseID string) BuildRun {
	r.FinishedAt = finishedAt
	r.KeyCount = keyCount
	r.CollisionCount = collisionCount
	r.IDMapHash = idMapHash
	r.ManifestReleaseID = manifestReleaseID
	return r
}
