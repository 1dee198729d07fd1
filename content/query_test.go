package content

import (
	"edunova/models"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleDocuments() []models.Document {
	return []models.Document{
		{ID: 1, Title: "Algèbre linéaire", Type: "cours", Subject: "Mathématiques", Level: "Licence 1", Description: "Espaces vectoriels"},
		{ID: 2, Title: "Exercices d'algèbre", Type: "exercices", Subject: "Mathématiques", Level: "Licence 1", Description: "Matrices"},
		{ID: 3, Title: "Mécanique", Type: "cours", Subject: "Physique", Level: "Licence 2", Description: "Lois de Newton"},
		{ID: 4, Title: "Résumé de Python", Type: "resume", Subject: "Informatique", Level: "Licence 1", Description: "Boucles et algorithmes"},
		{ID: 5, Title: "Examen final", Type: "examen", Subject: "Physique", Level: "Licence 1", Description: "Session de juin"},
	}
}

func sampleVideos() []models.Video {
	return []models.Video{
		{ID: 1, Title: "Introduction aux algorithmes", Subject: "Informatique", Level: "Licence 1"},
		{ID: 2, Title: "Thermodynamique", Subject: "Physique", Level: "Licence 2"},
	}
}

func ids[T interface{ Facets() models.ContentFacets }](records []T, id func(T) int) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, id(r))
	}
	return out
}

func docID(d models.Document) int { return d.ID }

func TestQuery_EmptyFilterIsIdentity(t *testing.T) {
	docs := sampleDocuments()
	got := Query(docs, Filter{})

	if diff := cmp.Diff(docs, got); diff != "" {
		t.Errorf("Query with empty filter mismatch (-want +got):\n%s", diff)
	}

	got[0].Title = "changed"
	assert.Equal(t, "Algèbre linéaire", docs[0].Title, "result must not alias the input")
}

func TestQuery_SearchSubstring(t *testing.T) {
	records := []models.Document{
		{ID: 1, Title: "Algebra I", Subject: "Math"},
		{ID: 2, Title: "History", Subject: "History"},
	}

	got := Query(records, Filter{Search: "alg"})

	want := []models.Document{{ID: 1, Title: "Algebra I", Subject: "Math"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Criteria(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		expect []int
	}{
		{"Search Matches Title Case-Insensitively", Filter{Search: "ALGÈBRE"}, []int{1, 2}},
		{"Search Matches Description", Filter{Search: "newton"}, []int{3}},
		{"Search Matches Subject", Filter{Search: "informatique"}, []int{4}},
		{"Subject Is Exact", Filter{Subject: "Physique"}, []int{3, 5}},
		{"Subject Is Not A Substring", Filter{Subject: "Phys"}, []int{}},
		{"Level", Filter{Level: "Licence 1"}, []int{1, 2, 4, 5}},
		{"Type", Filter{Type: "cours"}, []int{1, 3}},
		{"Criteria Are ANDed", Filter{Subject: "Physique", Level: "Licence 1"}, []int{5}},
		{"All Criteria", Filter{Search: "alg", Subject: "Mathématiques", Level: "Licence 1", Type: "exercices"}, []int{2}},
		{"No Match", Filter{Search: "chimie"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Query(sampleDocuments(), tt.filter), docID)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestQuery_CompositionEqualsConjunction(t *testing.T) {
	docs := sampleDocuments()
	pairs := []struct{ f1, f2, both Filter }{
		{Filter{Subject: "Physique"}, Filter{Level: "Licence 1"}, Filter{Subject: "Physique", Level: "Licence 1"}},
		{Filter{Search: "alg"}, Filter{Type: "cours"}, Filter{Search: "alg", Type: "cours"}},
		{Filter{Level: "Licence 1"}, Filter{Search: "e"}, Filter{Level: "Licence 1", Search: "e"}},
	}

	for _, p := range pairs {
		composed := Query(Query(docs, p.f1), p.f2)
		direct := Query(docs, p.both)
		if diff := cmp.Diff(direct, composed); diff != "" {
			t.Errorf("composition of %+v and %+v mismatch (-direct +composed):\n%s", p.f1, p.f2, diff)
		}
	}
}

func TestQuery_TypeIgnoredForVideos(t *testing.T) {
	videos := sampleVideos()

	got := Query(videos, Filter{Type: "cours"})
	if diff := cmp.Diff(videos, got); diff != "" {
		t.Errorf("type filter should be a no-op on videos (-want +got):\n%s", diff)
	}

	got = Query(videos, Filter{Type: "cours", Subject: "Physique"})
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestQuery_EmptyInput(t *testing.T) {
	got := Query([]models.Video(nil), Filter{Search: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterValuesRoundTrip(t *testing.T) {
	f := Filter{Search: "alg", Level: "Licence 1", Type: "cours"}
	v := f.Values()

	assert.Equal(t, url.Values{"search": {"alg"}, "level": {"Licence 1"}, "type": {"cours"}}, v)
	assert.Equal(t, f, FilterFromValues(v))
	assert.True(t, Filter{}.IsZero())
	assert.False(t, f.IsZero())
	assert.Empty(t, Filter{}.Values())
}
