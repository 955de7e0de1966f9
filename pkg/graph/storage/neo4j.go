package storage

import (
	"context"
	"time"

	"github.com/athapong/kinship/pkg/graph"
	"github.com/athapong/kinship/pkg/graph/query"
	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/pkg/errors"
)

const (
	personLabel  = "Person"
	relationType = "KIN"
	dateLayout   = "2006-01-02"
)

// Neo4jStore implements FamilyStore using Neo4j. People are (:Person)
// nodes and every relationship record is a directed [:KIN] edge from the
// record's From to its To, carrying the record type and flags.
type Neo4jStore struct {
	driver neo4j.Driver
	uri    string
}

// NewNeo4jStore creates a new Neo4j store
func NewNeo4jStore(uri, username, password string) (*Neo4jStore, error) {
	auth := neo4j.BasicAuth(username, password, "")
	driver, err := neo4j.NewDriver(uri, auth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Neo4j driver")
	}

	return &Neo4jStore{
		driver: driver,
		uri:    uri,
	}, nil
}

// Connect verifies the database is reachable
func (s *Neo4jStore) Connect(ctx context.Context) error {
	return errors.Wrapf(s.driver.VerifyConnectivity(), "connect to %s", s.uri)
}

func (s *Neo4jStore) Close() error {
	if s.driver != nil {
		return s.driver.Close()
	}
	return nil
}

// LoadFamily reads every person and kin edge
func (s *Neo4jStore) LoadFamily(ctx context.Context) (*graph.FamilyData, error) {
	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	out, err := session.ReadTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		family := &graph.FamilyData{}

		cypher, params := peopleQuery().Cypher()
		result, err := tx.Run(cypher, params)
		if err != nil {
			return nil, err
		}
		for result.Next() {
			node, ok := result.Record().Values[0].(neo4j.Node)
			if !ok {
				continue
			}
			family.People = append(family.People, graph.PersonFromMap(node.Props))
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		cypher, params = relationshipsQuery().Cypher()
		result, err = tx.Run(cypher, params)
		if err != nil {
			return nil, err
		}
		for result.Next() {
			record := result.Record()
			row := make(map[string]interface{}, len(record.Keys))
			for i, key := range record.Keys {
				row[key] = record.Values[i]
			}
			family.Relationships = append(family.Relationships, graph.RecordFromMap(row))
		}
		return family, result.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, "load family from Neo4j")
	}
	return out.(*graph.FamilyData), nil
}

// StoreFamily merges people and edges in one write transaction. Person
// properties are overwritten; edges are merged on (from, to, type).
func (s *Neo4jStore) StoreFamily(ctx context.Context, family *graph.FamilyData) error {
	if family == nil {
		return errors.New("cannot store nil family")
	}

	session := s.driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		for _, p := range family.People {
			cypher, params := upsertPersonQuery(p).Cypher()
			if _, err := tx.Run(cypher, params); err != nil {
				return nil, errors.Wrapf(err, "store person %s", p.ID)
			}
		}

		for _, rel := range family.Relationships {
			cypher, params := upsertRelationshipQuery(rel).Cypher()
			if _, err := tx.Run(cypher, params); err != nil {
				return nil, errors.Wrapf(err, "store %s edge %s -> %s", rel.Type, rel.From, rel.To)
			}
		}
		return nil, nil
	})
	return err
}

func peopleQuery() *query.Query {
	return query.NewQuery(query.Match).
		AddPattern(query.Pattern{Variable: "p", NodeType: personLabel}).
		Return("p").
		Order("p.id")
}

func relationshipsQuery() *query.Query {
	return query.NewQuery(query.Match).
		AddPattern(query.Pattern{
			Variable:         "a",
			NodeType:         personLabel,
			RelationVariable: "r",
			RelationType:     relationType,
			TargetVariable:   "b",
			TargetType:       personLabel,
		}).
		Return(
			"a.id AS from",
			"b.id AS to",
			"r.type AS type",
			"coalesce(r.is_ex, false) AS is_ex",
			"coalesce(r.is_deceased_spouse, false) AS is_deceased_spouse",
		).
		Order("a.id", "b.id")
}

func upsertPersonQuery(p graph.Person) *query.Query {
	return query.NewQuery(query.Merge).
		AddPattern(query.Pattern{
			Variable:   "p",
			NodeType:   personLabel,
			Properties: map[string]interface{}{"id": p.ID},
		}).
		Set("p.given_name = $given_name").
		Set("p.family_name = $family_name").
		Set("p.gender = $gender").
		Set("p.birth_date = $birth_date").
		Set("p.death_date = $death_date").
		Set("p.is_deceased = $is_deceased").
		WithParams(map[string]interface{}{
			"given_name":  p.GivenName,
			"family_name": p.FamilyName,
			"gender":      string(p.Gender),
			"birth_date":  formatDate(p.BirthDate),
			"death_date":  formatDate(p.DeathDate),
			"is_deceased": p.Deceased,
		})
}

func upsertRelationshipQuery(rel graph.RelationshipRecord) *query.Query {
	return query.NewQuery(query.Match).
		AddPattern(query.Pattern{Variable: "a", NodeType: personLabel}).
		AddPattern(query.Pattern{Variable: "b", NodeType: personLabel}).
		AddFilter(query.Filter{Field: "a.id", Value: rel.From}).
		AddFilter(query.Filter{Field: "b.id", Value: rel.To}).
		Then(query.Merge, query.Pattern{
			Variable:         "a",
			RelationVariable: "r",
			RelationType:     relationType,
			RelationProps:    map[string]interface{}{"type": string(rel.Type)},
			TargetVariable:   "b",
		}).
		Set("r.is_ex = $is_ex").
		Set("r.is_deceased_spouse = $is_deceased_spouse").
		WithParams(map[string]interface{}{
			"is_ex":              rel.IsEx,
			"is_deceased_spouse": rel.IsDeceasedSpouse,
		})
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
