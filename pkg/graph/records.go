package graph

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// endpoint naming conventions seen in input data. For the first two the
// record type names the role of the first endpoint; for person/relative it
// names the role of the relative.
var endpointConventions = []struct {
	first, second  string
	typeOfRelative bool
}{
	{"source", "target", false},
	{"person_id", "relative_id", true},
	{"personId", "relativeId", true},
	{"from", "to", false},
}

var typeSynonyms = map[string]RecordType{
	"parent":   RecordParent,
	"mother":   RecordParent,
	"father":   RecordParent,
	"child":    RecordChild,
	"son":      RecordChild,
	"daughter": RecordChild,
	"spouse":   RecordSpouse,
	"husband":  RecordSpouse,
	"wife":     RecordSpouse,
	"partner":  RecordSpouse,
	"married":  RecordSpouse,
	"sibling":  RecordSibling,
	"brother":  RecordSibling,
	"sister":   RecordSibling,
}

var exSpouseTypes = map[string]bool{
	"ex_spouse": true,
	"ex-spouse": true,
	"exspouse":  true,
	"divorced":  true,
	"ex":        true,
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
}

// ParseRecordType maps a raw type string onto a RecordType. The second
// return reports an ex-spouse synonym. Unknown strings come back verbatim so
// the builder can account for them.
func ParseRecordType(raw string) (RecordType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if exSpouseTypes[key] {
		return RecordSpouse, true
	}
	if t, ok := typeSynonyms[key]; ok {
		return t, false
	}
	return RecordType(key), false
}

// ParseGender normalizes the many spellings of gender found in input data
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "man", "boy":
		return GenderMale
	case "f", "female", "woman", "girl":
		return GenderFemale
	default:
		return GenderUnspecified
	}
}

// ParseDate accepts the date layouts used by family data exports
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// RecordFromJSON decodes one heterogeneous relationship record. It never
// fails: missing endpoints and unknown types are left for the builder to drop.
func RecordFromJSON(rec gjson.Result) RelationshipRecord {
	rawType := firstString(rec, "relationship_type", "type", "relationshipType")
	t, ex := ParseRecordType(rawType)

	out := RelationshipRecord{
		Type:             t,
		IsEx:             ex || rec.Get("is_ex").Bool() || rec.Get("isEx").Bool(),
		IsDeceasedSpouse: rec.Get("is_deceased_spouse").Bool() || rec.Get("is_deceased").Bool() || rec.Get("isDeceased").Bool(),
	}

	for _, conv := range endpointConventions {
		first, second := rec.Get(conv.first), rec.Get(conv.second)
		if !first.Exists() && !second.Exists() {
			continue
		}
		if conv.typeOfRelative {
			out.From, out.To = second.String(), first.String()
		} else {
			out.From, out.To = first.String(), second.String()
		}
		break
	}
	return out
}

// RecordFromMap decodes a record held as a generic map
func RecordFromMap(m map[string]interface{}) RelationshipRecord {
	data, err := json.Marshal(m)
	if err != nil {
		return RelationshipRecord{}
	}
	return RecordFromJSON(gjson.ParseBytes(data))
}

// PersonFromJSON decodes one person record
func PersonFromJSON(rec gjson.Result) Person {
	p := Person{
		ID:         firstString(rec, "id", "person_id", "personId", "_id"),
		GivenName:  firstString(rec, "given_name", "first_name", "givenName", "firstName", "name"),
		FamilyName: firstString(rec, "family_name", "last_name", "familyName", "lastName", "surname"),
		Gender:     ParseGender(firstString(rec, "gender", "sex")),
		BirthDate:  ParseDate(firstString(rec, "birth_date", "birthDate", "dob", "born")),
		DeathDate:  ParseDate(firstString(rec, "death_date", "deathDate", "dod", "died")),
	}
	for _, key := range []string{"is_deceased", "deceased", "isDeceased"} {
		if rec.Get(key).Bool() {
			p.Deceased = true
			break
		}
	}
	return p
}

// DecodeRelationships decodes a JSON array of records, or an object holding
// one under "relationships"
func DecodeRelationships(data []byte) ([]RelationshipRecord, error) {
	list, err := listOf(data, "relationships", "relations", "edges")
	if err != nil {
		return nil, errors.Wrap(err, "decode relationships")
	}
	out := make([]RelationshipRecord, 0, len(list))
	for _, rec := range list {
		out = append(out, RecordFromJSON(rec))
	}
	return out, nil
}

// DecodePeople decodes a JSON array of people, or an object holding one
// under "people"
func DecodePeople(data []byte) ([]Person, error) {
	list, err := listOf(data, "people", "persons", "nodes")
	if err != nil {
		return nil, errors.Wrap(err, "decode people")
	}
	out := make([]Person, 0, len(list))
	for _, rec := range list {
		if p := PersonFromJSON(rec); p.ID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// DecodeFamily decodes a document carrying both people and relationships
func DecodeFamily(data []byte) (*FamilyData, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("decode family: invalid JSON")
	}
	people, err := DecodePeople(data)
	if err != nil {
		return nil, err
	}
	rels, err := DecodeRelationships(data)
	if err != nil {
		return nil, err
	}
	return &FamilyData{People: people, Relationships: rels}, nil
}

func listOf(data []byte, keys ...string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if doc.IsArray() {
		return doc.Array(), nil
	}
	if doc.IsObject() {
		for _, key := range keys {
			if v := doc.Get(key); v.IsArray() {
				return v.Array(), nil
			}
		}
		return nil, nil
	}
	return nil, errors.Errorf("expected array or object, got %s", doc.Type)
}

func firstString(rec gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := rec.Get(key); v.Exists() && v.Type != gjson.Null {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// PersonFromMap decodes a person held as a generic map, such as the
// property map of a database node
func PersonFromMap(m map[string]interface{}) Person {
	data, err := json.Marshal(m)
	if err != nil {
		return Person{}
	}
	return PersonFromJSON(gjson.ParseBytes(data))
}
