package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRecordFromJSON_Conventions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RelationshipRecord
	}{
		{
			name: "source target names role of source",
			raw:  `{"source":"a","target":"b","type":"parent"}`,
			want: RelationshipRecord{Type: RecordParent, From: "a", To: "b"},
		},
		{
			name: "from to with relationship_type",
			raw:  `{"from":"a","to":"b","relationship_type":"Spouse","is_ex":true}`,
			want: RelationshipRecord{Type: RecordSpouse, From: "a", To: "b", IsEx: true},
		},
		{
			name: "person relative names role of relative",
			raw:  `{"person_id":"kid","relative_id":"mum","relationship_type":"mother"}`,
			want: RelationshipRecord{Type: RecordParent, From: "mum", To: "kid"},
		},
		{
			name: "ex spouse synonym",
			raw:  `{"source":"a","target":"b","type":"divorced"}`,
			want: RelationshipRecord{Type: RecordSpouse, From: "a", To: "b", IsEx: true},
		},
		{
			name: "deceased flag",
			raw:  `{"source":"a","target":"b","type":"wife","is_deceased":"true"}`,
			want: RelationshipRecord{Type: RecordSpouse, From: "a", To: "b", IsDeceasedSpouse: true},
		},
		{
			name: "missing endpoint kept for builder",
			raw:  `{"source":"a","target":null,"type":"sibling"}`,
			want: RelationshipRecord{Type: RecordSibling, From: "a", To: ""},
		},
		{
			name: "unknown type kept verbatim",
			raw:  `{"source":"a","target":"b","type":"Godparent"}`,
			want: RelationshipRecord{Type: RecordType("godparent"), From: "a", To: "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordFromJSON(gjson.Parse(tt.raw)))
		})
	}
}

func TestPersonFromJSON(t *testing.T) {
	p := PersonFromJSON(gjson.Parse(`{
		"id": "p1",
		"first_name": "Jane",
		"last_name": "Doe",
		"sex": "F",
		"birth_date": "1950-03-01",
		"death_date": "2001",
		"deceased": false
	}`))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Jane Doe", p.DisplayName())
	assert.Equal(t, GenderFemale, p.Gender)
	require.NotNil(t, p.BirthDate)
	assert.Equal(t, 1950, p.BirthDate.Year())
	require.NotNil(t, p.DeathDate)
	assert.Equal(t, 2001, p.DeathDate.Year())
	assert.True(t, p.IsDeceased())
}

func TestParseGender(t *testing.T) {
	assert.Equal(t, GenderMale, ParseGender(" M "))
	assert.Equal(t, GenderFemale, ParseGender("woman"))
	assert.Equal(t, GenderUnspecified, ParseGender(""))
	assert.Equal(t, GenderUnspecified, ParseGender("other"))
}

func TestParseDate(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))

	d := ParseDate("1984-07")
	require.NotNil(t, d)
	assert.Equal(t, 1984, d.Year())
	assert.Equal(t, 7, int(d.Month()))

	d = ParseDate("2020-01-02T03:04:05Z")
	require.NotNil(t, d)
	assert.Equal(t, 2, d.Day())
}

func TestDecodeFamily(t *testing.T) {
	data := []byte(`{
		"people": [{"id": "a", "gender": "male"}, {"id": "b"}, {"name": "no id"}],
		"relationships": [{"source": "a", "target": "b", "type": "parent"}]
	}`)

	family, err := DecodeFamily(data)
	require.NoError(t, err)
	assert.Len(t, family.People, 2)
	require.Len(t, family.Relationships, 1)
	assert.Equal(t, RecordParent, family.Relationships[0].Type)

	_, err = family.FindPerson("zzz")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestDecodeRelationships_TopLevelArray(t *testing.T) {
	recs, err := DecodeRelationships([]byte(`[{"from":"a","to":"b","type":"child"}]`))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, RelationshipRecord{Type: RecordChild, From: "a", To: "b"}, recs[0])
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := DecodePeople([]byte(`{"people": [`))
	assert.Error(t, err)

	_, err = DecodeFamily([]byte(`nope`))
	assert.Error(t, err)

	_, err = DecodeRelationships([]byte(`"a string"`))
	assert.Error(t, err)
}

func TestFromMap(t *testing.T) {
	rec := RecordFromMap(map[string]interface{}{"from": "a", "to": "b", "type": "sibling", "is_ex": false})
	assert.Equal(t, RelationshipRecord{Type: RecordSibling, From: "a", To: "b"}, rec)

	p := PersonFromMap(map[string]interface{}{"id": "x", "gender": "female", "birth_date": "1990-05-06"})
	assert.Equal(t, "x", p.ID)
	assert.Equal(t, GenderFemale, p.Gender)
	require.NotNil(t, p.BirthDate)
}
