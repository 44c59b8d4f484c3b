// Package graph maintains the skill graph in Neo4j: candidates and jobs as
// nodes, connected to the skills they have or require. The vector index is
// the source of truth for matching; the graph only adds explainability
// (shared-skill overlap on match details).
package graph

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/TalentForge/talentforge-mvp/pkg/fn"
)

// Store provides skill-graph operations.
type Store struct {
	driver neo4j.DriverWithContext
}

// New creates a Store on an already-connected driver.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{driver: driver}
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// EnsureConstraints creates the uniqueness constraints the MERGE queries
// rely on. Safe to run repeatedly.
func (s *Store) EnsureConstraints(ctx context.Context) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	constraints := []string{
		`CREATE CONSTRAINT candidate_email IF NOT EXISTS FOR (c:Candidate) REQUIRE c.email IS UNIQUE`,
		`CREATE CONSTRAINT job_id IF NOT EXISTS FOR (j:Job) REQUIRE j.id IS UNIQUE`,
		`CREATE CONSTRAINT skill_name IF NOT EXISTS FOR (s:Skill) REQUIRE s.name IS UNIQUE`,
	}
	for _, c := range constraints {
		if _, err := sess.Run(ctx, c, nil); err != nil {
			return err
		}
	}
	return nil
}

// SaveCandidate upserts a candidate node and its HAS_SKILL edges. Existing
// edges to skills no longer listed are removed, so re-ingesting a profile
// replaces its skill set.
func (s *Store) SaveCandidate(ctx context.Context, email, name string, skills []string) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MERGE (c:Candidate {email: $email})
		 SET c.name = $name
		 WITH c
		 OPTIONAL MATCH (c)-[old:HAS_SKILL]->()
		 DELETE old
		 WITH DISTINCT c
		 UNWIND $skills AS skill
		 MERGE (s:Skill {name: skill})
		 MERGE (c)-[:HAS_SKILL]->(s)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"email":  email,
		"name":   name,
		"skills": NormalizeSkills(skills),
	})
	return err
}

// SaveJob upserts a job node and its REQUIRES edges, replacing the previous
// requirement set.
func (s *Store) SaveJob(ctx context.Context, id, title string, skills []string) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MERGE (j:Job {id: $id})
		 SET j.title = $title
		 WITH j
		 OPTIONAL MATCH (j)-[old:REQUIRES]->()
		 DELETE old
		 WITH DISTINCT j
		 UNWIND $skills AS skill
		 MERGE (s:Skill {name: skill})
		 MERGE (j)-[:REQUIRES]->(s)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":     id,
		"title":  title,
		"skills": NormalizeSkills(skills),
	})
	return err
}

// SharedSkills returns the skills a candidate has that a job requires.
func (s *Store) SharedSkills(ctx context.Context, email, jobID string) ([]string, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (c:Candidate {email: $email})-[:HAS_SKILL]->(s:Skill)<-[:REQUIRES]-(j:Job {id: $id})
		 RETURN s.name AS name ORDER BY name`
	result, err := sess.Run(ctx, cypher, map[string]any{"email": email, "id": jobID})
	if err != nil {
		return nil, err
	}

	var skills []string
	for result.Next(ctx) {
		if name, ok := result.Record().Get("name"); ok {
			if str, ok := name.(string); ok {
				skills = append(skills, str)
			}
		}
	}
	return skills, result.Err()
}

// NodeCounts reports how many nodes of each label exist, for the health
// endpoint.
func (s *Store) NodeCounts(ctx context.Context) (map[string]int64, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MATCH (n) UNWIND labels(n) AS label
		 RETURN label, count(*) AS count`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		label, _ := rec.Get("label")
		count, _ := rec.Get("count")
		if l, ok := label.(string); ok {
			if c, ok := count.(int64); ok {
				counts[l] = c
			}
		}
	}
	return counts, result.Err()
}

// NormalizeSkills lowercases, trims, and dedupes a skill list so graph nodes
// for "Go" and "go" collapse into one.
func NormalizeSkills(skills []string) []string {
	lowered := fn.Map(skills, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	return fn.Unique(fn.Filter(lowered, func(s string) bool { return s != "" }))
}
